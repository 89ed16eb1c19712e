// Package assembler rebuilds lesson documents from the phrase library.
//
// A rebuild is a pure transformation of one lesson: concepts are backfilled,
// metadata normalized, objectives synthesized, the eight content sections
// regenerated under their word-count bands, and the post-assessment
// rewritten. Nothing outside the lesson is read or written.
package assembler

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/lessonsmith/internal/lesson"
	"github.com/alexanderramin/lessonsmith/internal/phrase"
	"github.com/alexanderramin/lessonsmith/internal/wordcount"
)

// Assembler rebuilds lessons against one library and policy. It holds no
// mutable state and is safe for concurrent use.
type Assembler struct {
	lib    *phrase.Library
	policy Policy
}

// New returns an Assembler. The policy is validated here so Rebuild never
// has to.
func New(lib *phrase.Library, policy Policy) (*Assembler, error) {
	if lib == nil {
		return nil, fmt.Errorf("assembler: phrase library is required")
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Assembler{lib: lib, policy: policy}, nil
}

// Policy returns the policy the assembler was built with.
func (a *Assembler) Policy() Policy {
	return a.policy
}

// Rebuild regenerates l in place. It fails with phrase.ErrUnknownDomain when
// the library has no entry for l.Domain, in which case l is left untouched.
func (a *Assembler) Rebuild(l *lesson.Lesson) error {
	entry, err := a.lib.Get(l.Domain)
	if err != nil {
		return err
	}

	l.Concepts = backfillConcepts(l.Concepts, entry, a.policy.MinConcepts)
	l.Normalize()
	l.LearningObjectives = synthesizeObjectives(l, entry, a.policy)

	sections := a.buildSections(l, entry)
	a.enforceDocument(sections, entry)

	blocks := make([]lesson.ContentBlock, len(sections))
	for i, s := range sections {
		blocks[i] = lesson.ContentBlock{
			Type:    s.blockType,
			Content: lesson.BlockContent{Text: wordcount.Join(s.paragraphs)},
		}
	}
	l.ReplaceBlocks(blocks)
	l.ReplaceAssessment(a.synthesizeAssessment(l, entry))
	return nil
}

// backfillConcepts drops blank concepts and extends the list to minimum
// entries with attack names, then tool names, skipping duplicates.
func backfillConcepts(concepts []string, entry *phrase.Entry, minimum int) []string {
	out := make([]string, 0, max(len(concepts), minimum))
	seen := make(map[string]bool)
	add := func(c string) {
		c = strings.TrimSpace(c)
		key := strings.ToLower(c)
		if c == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, c)
	}

	for _, c := range concepts {
		add(c)
	}
	candidates := append(phrase.Names(entry.Attacks), phrase.Names(entry.Tools)...)
	for _, c := range candidates {
		if len(out) >= minimum {
			break
		}
		add(c)
	}
	return out
}

var objectiveTemplates = []string{
	"Explain how %[1]s shows up in %[3]s and why it matters to a defender.",
	"Use %[2]s to investigate %[1]s and document the evidence you find.",
	"Distinguish benign activity from %[1]s using %[3]s.",
	"Apply a repeatable workflow for %[1]s that avoids %[4]s.",
	"Summarize findings about %[1]s for a technical and a non-technical audience.",
	"Plan the next detection or hardening step after analysing %[1]s.",
}

// synthesizeObjectives keeps up to MaxObjectives existing objectives and
// fills the list to MinObjectives from the concepts.
func synthesizeObjectives(l *lesson.Lesson, entry *phrase.Entry, p Policy) []string {
	out := make([]string, 0, p.MaxObjectives)
	seen := make(map[string]bool)
	for _, o := range l.LearningObjectives {
		o = strings.TrimSpace(o)
		if o == "" || seen[o] || len(out) == p.MaxObjectives {
			continue
		}
		seen[o] = true
		out = append(out, o)
	}

	want := max(p.MinObjectives, min(len(l.Concepts), p.MaxObjectives))
	for i := 0; len(out) < want && i < want*len(objectiveTemplates); i++ {
		concept := phrase.Cycle(l.Concepts, i)
		o := fmt.Sprintf(phrase.Cycle(objectiveTemplates, i),
			concept,
			phrase.Cycle(entry.Tools, i).Name,
			phrase.Cycle(entry.Telemetry, i).Name,
			lowerFirst(phrase.Cycle(entry.Pitfalls, i)),
		)
		if seen[o] {
			continue
		}
		seen[o] = true
		out = append(out, o)
	}
	return out
}
