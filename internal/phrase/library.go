// Package phrase holds the domain-keyed fragment library that lesson prose
// is assembled from. A Library is built once, validated, and never mutated.
package phrase

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownDomain is returned by Get when no entry exists for a domain.
var ErrUnknownDomain = errors.New("unknown domain")

// MinPitfalls is the number of distinct pitfalls needed to synthesize the
// three distractors of a post-assessment question.
const MinPitfalls = 3

// MinConceptNames is the number of distinct attack and tool names an entry
// needs so a lesson without concepts can be backfilled to the minimum.
const MinConceptNames = 4

// Item is a named fragment with one or two descriptive strings. Tools use
// Detail for their purpose, telemetry for the signal it carries, attacks for
// the technique description and incidents for what happened.
type Item struct {
	Name    string `yaml:"name"`
	Detail  string `yaml:"detail"`
	Context string `yaml:"context,omitempty"`
}

// Entry is one domain's set of fragment lists.
type Entry struct {
	Tools             []Item   `yaml:"tools"`
	Telemetry         []Item   `yaml:"telemetry"`
	Attacks           []Item   `yaml:"attacks"`
	Incidents         []Item   `yaml:"incidents"`
	Pitfalls          []string `yaml:"pitfalls"`
	Troubleshooting   []string `yaml:"troubleshooting"`
	MemoryHooks       []string `yaml:"memory_hooks"`
	ReflectionPrompts []string `yaml:"reflection_prompts"`
	Encouragement     []string `yaml:"encouragement"`
	NextSteps         []string `yaml:"next_steps"`
	Commands          []string `yaml:"commands"`
	CaseStudies       []string `yaml:"case_studies"`
}

// Names returns the Name of every item, in order.
func Names(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

// Validate reports every empty list in the entry, and lists too short for
// distractors or concept backfill. Cycling indexes modulo list length, so
// an empty list can never be served.
func (e *Entry) Validate() []error {
	var errs []error
	itemLists := []struct {
		name  string
		items []Item
	}{
		{"tools", e.Tools},
		{"telemetry", e.Telemetry},
		{"attacks", e.Attacks},
		{"incidents", e.Incidents},
	}
	for _, l := range itemLists {
		if len(l.items) == 0 {
			errs = append(errs, fmt.Errorf("%s must not be empty", l.name))
			continue
		}
		for i, it := range l.items {
			if it.Name == "" {
				errs = append(errs, fmt.Errorf("%s[%d].name is required", l.name, i))
			}
		}
	}

	stringLists := []struct {
		name  string
		items []string
	}{
		{"pitfalls", e.Pitfalls},
		{"troubleshooting", e.Troubleshooting},
		{"memory_hooks", e.MemoryHooks},
		{"reflection_prompts", e.ReflectionPrompts},
		{"encouragement", e.Encouragement},
		{"next_steps", e.NextSteps},
		{"commands", e.Commands},
		{"case_studies", e.CaseStudies},
	}
	for _, l := range stringLists {
		if len(l.items) == 0 {
			errs = append(errs, fmt.Errorf("%s must not be empty", l.name))
		}
	}
	if n := len(e.Pitfalls); n > 0 && n < MinPitfalls {
		errs = append(errs, fmt.Errorf("pitfalls needs at least %d entries, has %d", MinPitfalls, n))
	}
	if n := e.conceptNameCount(); n < MinConceptNames {
		errs = append(errs, fmt.Errorf("attacks and tools need at least %d distinct names, have %d", MinConceptNames, n))
	}
	return errs
}

// conceptNameCount counts distinct attack and tool names, case-insensitively.
func (e *Entry) conceptNameCount() int {
	seen := make(map[string]bool)
	for _, it := range append(append([]Item(nil), e.Attacks...), e.Tools...) {
		if name := strings.ToLower(strings.TrimSpace(it.Name)); name != "" {
			seen[name] = true
		}
	}
	return len(seen)
}

// Library is an immutable domain → Entry table.
type Library struct {
	entries map[string]*Entry
}

// New validates and copies entries into a Library. All problems across all
// domains are reported together.
func New(entries map[string]Entry) (*Library, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("phrase library has no domains")
	}
	lib := &Library{entries: make(map[string]*Entry, len(entries))}
	var problems []error
	for _, domain := range sortedKeys(entries) {
		e := entries[domain]
		for _, err := range e.Validate() {
			problems = append(problems, fmt.Errorf("domain %q: %w", domain, err))
		}
		lib.entries[domain] = &e
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid phrase library: %w", errors.Join(problems...))
	}
	return lib, nil
}

// Get returns the entry for domain. Callers must not modify it.
func (l *Library) Get(domain string) (*Entry, error) {
	e, ok := l.entries[domain]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDomain, domain)
	}
	return e, nil
}

// Has reports whether the library covers domain.
func (l *Library) Has(domain string) bool {
	_, ok := l.entries[domain]
	return ok
}

// Domains returns the covered domain names in sorted order.
func (l *Library) Domains() []string {
	return sortedKeys(l.entries)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Cycle returns items[index % len(items)]. It panics when items is empty;
// library validation guarantees that never happens for a loaded Entry.
func Cycle[T any](items []T, index int) T {
	if len(items) == 0 {
		panic("phrase: Cycle on empty list")
	}
	i := index % len(items)
	if i < 0 {
		i += len(items)
	}
	return items[i]
}
