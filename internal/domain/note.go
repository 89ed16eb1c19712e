package domain

import (
	"strings"
	"time"
)

type NoteType string

const (
	NoteGeneral NoteType = "general"
	NoteBlock   NoteType = "block"
)

// Note is a learner's free-text note on a lesson, optionally attached to
// one content block.
type Note struct {
	ID                string
	UserID            string
	LessonID          string
	ContentBlockIndex *int
	Text              string
	NoteType          NoteType
	IsPinned          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NoteTypeFor derives the note type from its block index.
func NoteTypeFor(blockIndex *int) NoteType {
	if blockIndex == nil {
		return NoteGeneral
	}
	return NoteBlock
}

// IsGeneral reports whether the note applies to the lesson as a whole.
func (n *Note) IsGeneral() bool {
	return n.ContentBlockIndex == nil
}

// Preview returns the first line of the note, cut to max runes.
func (n *Note) Preview(max int) string {
	line, _, _ := strings.Cut(strings.TrimSpace(n.Text), "\n")
	r := []rune(line)
	if max > 1 && len(r) > max {
		return string(r[:max-1]) + "…"
	}
	return line
}
