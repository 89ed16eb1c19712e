// Package config loads lessonsmith settings from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/lessonsmith/internal/assembler"
)

// Config holds all lessonsmith configuration.
type Config struct {
	Database DatabaseConfig   `yaml:"database"`
	Content  ContentConfig    `yaml:"content"`
	Library  LibraryConfig    `yaml:"library"`
	Assembly assembler.Policy `yaml:"assembly"`
	Catalog  CatalogConfig    `yaml:"catalog"`
	Notes    NotesConfig      `yaml:"notes"`
	Logging  LoggingConfig    `yaml:"logging"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ContentConfig locates lesson files. ListFile and Glob are relative to
// Root.
type ContentConfig struct {
	Root          string `yaml:"root"`
	ListFile      string `yaml:"list_file"`
	Glob          string `yaml:"glob"`
	MissingDomain string `yaml:"missing_domain"` // skip, strict
	Jobs          int    `yaml:"jobs"`
}

// LibraryConfig points at a replacement phrase library. Empty means the
// built-in one.
type LibraryConfig struct {
	Path string `yaml:"path"`
}

type CatalogConfig struct {
	Path string `yaml:"path"`
}

type NotesConfig struct {
	UserID string `yaml:"user_id"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// Environment variables read by Load.
const (
	EnvConfig      = "LESSONSMITH_CONFIG"
	EnvDB          = "LESSONSMITH_DB"
	EnvContentRoot = "LESSONSMITH_CONTENT_ROOT"
	EnvLibrary     = "LESSONSMITH_LIBRARY"
	EnvUser        = "LESSONSMITH_USER"
	EnvLogLevel    = "LESSONSMITH_LOG_LEVEL"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Path: filepath.Join(homeDir(), ".lessonsmith", "lessonsmith.db")},
		Content: ContentConfig{
			Root:          ".",
			ListFile:      "new_lessons.txt",
			Glob:          filepath.Join("content", "lesson_*_RICH.json"),
			MissingDomain: "skip",
			Jobs:          1,
		},
		Assembly: assembler.DefaultPolicy(),
		Catalog:  CatalogConfig{Path: "lesson_ideas.csv"},
		Notes:    NotesConfig{UserID: "local"},
		Logging:  LoggingConfig{Level: "info", Format: "console"},
	}
}

// DefaultPath is $LESSONSMITH_CONFIG or ~/.lessonsmith/config.yaml.
func DefaultPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return filepath.Join(homeDir(), ".lessonsmith", "config.yaml")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating the directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvDB); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvContentRoot); v != "" {
		c.Content.Root = v
	}
	if v := os.Getenv(EnvLibrary); v != "" {
		c.Library.Path = v
	}
	if v := os.Getenv(EnvUser); v != "" {
		c.Notes.UserID = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Database.Path) == "" {
		errs = append(errs, fmt.Errorf("database.path is required"))
	}
	if strings.TrimSpace(c.Content.Root) == "" {
		errs = append(errs, fmt.Errorf("content.root is required"))
	}
	switch c.Content.MissingDomain {
	case "skip", "strict":
	default:
		errs = append(errs, fmt.Errorf("content.missing_domain: invalid value %q (expected skip or strict)", c.Content.MissingDomain))
	}
	if c.Content.Jobs < 1 {
		errs = append(errs, fmt.Errorf("content.jobs must be at least 1"))
	}
	if strings.TrimSpace(c.Notes.UserID) == "" {
		errs = append(errs, fmt.Errorf("notes.user_id is required"))
	}
	if err := c.Assembly.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// ContentPath resolves p against the content root unless it is absolute.
func (c *Config) ContentPath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Content.Root, p)
}

// CatalogPath is the resolved path of the lesson ideas catalog.
func (c *Config) CatalogPath() string {
	return c.ContentPath(c.Catalog.Path)
}
