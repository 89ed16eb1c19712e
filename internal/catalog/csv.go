package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const utf8BOM = "\ufeff"

// Load reads the catalog at path. A missing file is an empty catalog with
// the canonical header.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	c, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Read parses a catalog from r. Short rows leave their trailing columns
// empty; cells beyond the header are dropped.
func Read(r io.Reader) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading catalog header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	c := &Catalog{Header: header}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading catalog: %w", err)
		}
		var row Row
		for i, col := range header {
			if i < len(record) {
				row.set(col, record[i])
			}
		}
		c.Rows = append(c.Rows, row)
	}
	return c, nil
}

// Write renders the header and every row to w.
func (c *Catalog) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(c.Header); err != nil {
		return err
	}
	record := make([]string, len(c.Header))
	for _, r := range c.Rows {
		for i, col := range c.Header {
			record[i] = r.get(col)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Save rewrites the whole catalog file at path through a temporary file.
func (c *Catalog) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating catalog directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".catalog-*.csv")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := c.Write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("writing catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("setting catalog permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing catalog: %w", err)
	}
	return nil
}
