package formatter

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/lessonsmith/internal/domain"
)

func TestHumanDateFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "Today", HumanDateFrom(now.Add(-time.Hour), now))
	assert.Equal(t, "Yesterday", HumanDateFrom(now.AddDate(0, 0, -1), now))
	assert.Equal(t, "Sep 30, 2022", HumanDateFrom(time.Date(2022, 9, 30, 0, 0, 0, 0, time.UTC), now))
}

func TestHumanTimestampFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"just now", now.Add(-10 * time.Second), "Just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-2 * time.Hour), "2h ago"},
		{"days fall back to date", now.Add(-72 * time.Hour), "Feb 4, 2026"},
		{"future", now.Add(48 * time.Hour), "Feb 9, 2026"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HumanTimestampFrom(tt.input, now))
		})
	}
}

func TestDomainBadge(t *testing.T) {
	assert.Contains(t, DomainBadge("dfir"), "Dfir")
	assert.Contains(t, DomainBadge("threat_hunting"), "Threat hunting")
	assert.Contains(t, DomainBadge(""), "--")
}

func TestTruncID(t *testing.T) {
	id := "a1b2c3d4-e5f6-7890-abcd-ef1234567890"
	got := TruncID(id)
	assert.Contains(t, got, "a1b2c3d4")
	assert.NotContains(t, got, "e5f6")

	assert.Contains(t, TruncID("short"), "short")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 5))
	assert.Equal(t, "hel…", Truncate("hello", 4))
	assert.Equal(t, "…", Truncate("hello", 1))
	assert.Equal(t, "héllo wö…", Truncate("héllo wörld", 9))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 note", Plural(1, "note"))
	assert.Equal(t, "0 notes", Plural(0, "note"))
	assert.Equal(t, "3 lessons", Plural(3, "lesson"))
}

func TestRenderBox(t *testing.T) {
	result := RenderBox("notes", "content here")
	assert.Contains(t, result, "NOTES")
	assert.Contains(t, result, "content here")
	assert.Contains(t, result, "╭")
	assert.Contains(t, result, "╰")

	assert.Contains(t, RenderBox("", "just content"), "just content")
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable([]string{"A", "LONGER"}, [][]string{{"xyz", "1"}, {"x"}})
	lines := splitLines(out)
	assert.Len(t, lines, 4)
	assert.Equal(t, "A    LONGER", lines[0])
	assert.Equal(t, "xyz  1", lines[2])
	assert.Equal(t, "x    ", lines[3])

	assert.Empty(t, RenderTable(nil, nil))
}

func TestRenderFields(t *testing.T) {
	out := RenderFields([][2]string{{"id", "n1"}, {"lesson", "lesson_dfir_1"}})
	assert.Equal(t, "ID      n1\nLESSON  lesson_dfir_1\n", out)
}

func TestNoteScopeAndPin(t *testing.T) {
	idx := 3
	assert.Contains(t, NoteScope(&domain.Note{ContentBlockIndex: &idx}), "block 3")
	assert.Contains(t, NoteScope(&domain.Note{}), "general")
	assert.Contains(t, PinBadge(true), "★")
	assert.Equal(t, " ", PinBadge(false))
}

func TestFormatProblems(t *testing.T) {
	assert.Contains(t, FormatProblems("catalog", nil), "catalog is valid")

	out := FormatProblems("catalog", []error{errors.New("lesson 4: bad"), errors.New("row 3: worse")})
	assert.Contains(t, out, "CATALOG: 2 PROBLEMS")
	assert.Contains(t, out, "lesson 4: bad")
	assert.Contains(t, out, "row 3: worse")
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return lines
}

func TestFormatNote(t *testing.T) {
	created := time.Date(2022, 9, 30, 9, 0, 0, 0, time.UTC)
	block := 3
	n := &domain.Note{
		ID:                "note-1",
		LessonID:          "lesson_dfir_1",
		ContentBlockIndex: &block,
		Text:              "Check prefetch first.\n",
		NoteType:          domain.NoteBlock,
		IsPinned:          true,
		CreatedAt:         created,
		UpdatedAt:         time.Now().Add(-5 * time.Minute),
	}

	out := FormatNote(n)
	assert.Contains(t, out, "CREATED")
	assert.Contains(t, out, "Sep 30, 2022")
	assert.Contains(t, out, "block 3")
	assert.Contains(t, out, "✔")
	assert.Contains(t, out, "Check prefetch first.\n")
}
