package phrase

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default_library.yaml
var defaultLibraryYAML []byte

type libraryFile struct {
	Domains map[string]Entry `yaml:"domains"`
}

// Parse decodes a YAML library document.
func Parse(data []byte) (*Library, error) {
	var f libraryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing phrase library: %w", err)
	}
	return New(f.Domains)
}

// Load reads a library from path. An empty path loads the built-in library.
func Load(path string) (*Library, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading phrase library: %w", err)
	}
	return Parse(data)
}

// Default returns the library compiled into the binary.
func Default() (*Library, error) {
	return Parse(defaultLibraryYAML)
}
