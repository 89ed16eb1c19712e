// Package catalog maintains the lesson ideas CSV catalog. Rows are only
// ever appended: existing rows are written back exactly as they were read.
package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Columns is the canonical header of the catalog file.
var Columns = []string{
	"lesson_number",
	"order_index",
	"domain",
	"difficulty",
	"title",
	"module",
	"topics",
	"prerequisites",
	"status",
	"tags",
	"notes",
}

// DefaultStatus is written for appended ideas that do not set one.
const DefaultStatus = "planned"

// Row is one catalog line. Values are kept as read so that rewriting the
// file never alters an existing row; use the accessor methods for typed
// views.
type Row struct {
	LessonNumber  string
	OrderIndex    string
	Domain        string
	Difficulty    string
	Title         string
	Module        string
	Topics        string
	Prerequisites string
	Status        string
	Tags          string
	Notes         string

	// columns outside Columns, keyed by header name
	Extra map[string]string
}

func (r *Row) field(column string) *string {
	switch column {
	case "lesson_number":
		return &r.LessonNumber
	case "order_index":
		return &r.OrderIndex
	case "domain":
		return &r.Domain
	case "difficulty":
		return &r.Difficulty
	case "title":
		return &r.Title
	case "module":
		return &r.Module
	case "topics":
		return &r.Topics
	case "prerequisites":
		return &r.Prerequisites
	case "status":
		return &r.Status
	case "tags":
		return &r.Tags
	case "notes":
		return &r.Notes
	}
	return nil
}

func (r *Row) get(column string) string {
	if f := r.field(column); f != nil {
		return *f
	}
	return r.Extra[column]
}

func (r *Row) set(column, value string) {
	if f := r.field(column); f != nil {
		*f = value
		return
	}
	if r.Extra == nil {
		r.Extra = make(map[string]string)
	}
	r.Extra[column] = value
}

// Number parses LessonNumber.
func (r *Row) Number() (int, error) {
	return parseInt("lesson_number", r.LessonNumber)
}

// Order parses OrderIndex.
func (r *Row) Order() (int, error) {
	return parseInt("order_index", r.OrderIndex)
}

// Level parses Difficulty. An empty value is 0.
func (r *Row) Level() (int, error) {
	if strings.TrimSpace(r.Difficulty) == "" {
		return 0, nil
	}
	return parseInt("difficulty", r.Difficulty)
}

// PrerequisiteList decodes the JSON list in Prerequisites. Elements are
// rendered as strings whatever their JSON type; an empty value is an empty
// list.
func (r *Row) PrerequisiteList() ([]string, error) {
	s := strings.TrimSpace(r.Prerequisites)
	if s == "" {
		return []string{}, nil
	}
	var items []any
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, fmt.Errorf("prerequisites is not a JSON list: %q", r.Prerequisites)
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case string:
			out = append(out, v)
		case float64:
			out = append(out, strconv.FormatFloat(v, 'f', -1, 64))
		default:
			b, _ := json.Marshal(v)
			out = append(out, string(b))
		}
	}
	return out, nil
}

// TopicList returns the topics of the row. A JSON list is decoded; any
// other value is split on commas, semicolons or pipes.
func (r *Row) TopicList() []string {
	s := strings.TrimSpace(r.Topics)
	if s == "" {
		return []string{}
	}
	var list []string
	if strings.HasPrefix(s, "[") && json.Unmarshal([]byte(s), &list) == nil {
		return trimAll(list)
	}
	return trimAll(strings.FieldsFunc(s, func(c rune) bool {
		return c == ',' || c == ';' || c == '|'
	}))
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}

func parseInt(column, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s %q is not a number", column, value)
	}
	return n, nil
}

// Catalog is an in-memory copy of the catalog file.
type Catalog struct {
	Header []string
	Rows   []Row
}

// New returns an empty catalog with the canonical header.
func New() *Catalog {
	return &Catalog{Header: append([]string(nil), Columns...)}
}

// ensureColumns adds any canonical column missing from the header, after
// the existing ones.
func (c *Catalog) ensureColumns() {
	have := make(map[string]bool, len(c.Header))
	for _, h := range c.Header {
		have[h] = true
	}
	for _, col := range Columns {
		if !have[col] {
			c.Header = append(c.Header, col)
		}
	}
}

// Find returns the row with the given lesson number.
func (c *Catalog) Find(lessonNumber int) (Row, bool) {
	for _, r := range c.Rows {
		if n, err := r.Number(); err == nil && n == lessonNumber {
			return r, true
		}
	}
	return Row{}, false
}

// NextLessonNumber is one past the highest parseable lesson number, or 1
// for an empty catalog.
func (c *Catalog) NextLessonNumber() int {
	highest := 0
	for _, r := range c.Rows {
		if n, err := r.Number(); err == nil && n > highest {
			highest = n
		}
	}
	return highest + 1
}

// NextOrderIndex is one past the highest parseable order index among rows
// of domain, or 1 when the domain has none.
func (c *Catalog) NextOrderIndex(domain string) int {
	highest := 0
	for _, r := range c.Rows {
		if r.Domain != domain {
			continue
		}
		if n, err := r.Order(); err == nil && n > highest {
			highest = n
		}
	}
	return highest + 1
}

// Append assigns consecutive lesson numbers and per-domain order indexes to
// ideas, in order, and adds them as new rows. It returns the added rows.
func (c *Catalog) Append(ideas []Idea) ([]Row, error) {
	var errs []error
	for i, idea := range ideas {
		for _, err := range idea.Validate() {
			errs = append(errs, fmt.Errorf("ideas[%d]: %w", i, err))
		}
	}
	if len(errs) > 0 {
		return nil, joinErrors("invalid lesson ideas", errs)
	}

	c.ensureColumns()
	next := c.NextLessonNumber()
	nextOrder := make(map[string]int)
	added := make([]Row, 0, len(ideas))
	for _, idea := range ideas {
		order, ok := nextOrder[idea.Domain]
		if !ok {
			order = c.NextOrderIndex(idea.Domain)
		}
		nextOrder[idea.Domain] = order + 1

		row, err := idea.row(next, order)
		if err != nil {
			return nil, err
		}
		next++
		added = append(added, row)
	}
	c.Rows = append(c.Rows, added...)
	return added, nil
}

// Validate reports rows whose numeric columns do not parse or whose
// prerequisites are not a JSON list.
func (c *Catalog) Validate() []error {
	var errs []error
	for i, r := range c.Rows {
		label := fmt.Sprintf("row %d", i+1)
		if n, err := r.Number(); err == nil {
			label = fmt.Sprintf("lesson %d", n)
		} else {
			errs = append(errs, fmt.Errorf("%s: %w", label, err))
		}
		if _, err := r.Order(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", label, err))
		}
		if _, err := r.Level(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", label, err))
		}
		if _, err := r.PrerequisiteList(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", label, err))
		}
	}
	return errs
}

func joinErrors(context string, errs []error) error {
	msg := fmt.Sprintf("%s (%d errors):", context, len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
