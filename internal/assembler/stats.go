package assembler

import (
	"github.com/alexanderramin/lessonsmith/internal/lesson"
	"github.com/alexanderramin/lessonsmith/internal/wordcount"
)

type SectionStats struct {
	Index      int
	Type       lesson.BlockType
	Words      int
	Paragraphs int
}

// Stats summarizes the word counts of a lesson's content blocks.
type Stats struct {
	LessonID  string
	Sections  []SectionStats
	Total     int
	Questions int
}

// ComputeStats reports per-section and total word counts for l.
func ComputeStats(l *lesson.Lesson) Stats {
	st := Stats{LessonID: l.LessonID, Questions: len(l.PostAssessment)}
	for i, b := range l.ContentBlocks {
		words := wordcount.Count(b.Content.Text)
		st.Sections = append(st.Sections, SectionStats{
			Index:      i,
			Type:       b.Type,
			Words:      words,
			Paragraphs: len(wordcount.Paragraphs(b.Content.Text)),
		})
		st.Total += words
	}
	return st
}

// WithinBands reports whether the explanation sections and the document
// total satisfy p.
func (s Stats) WithinBands(p Policy) bool {
	if s.Total < p.DocumentMin || s.Total > p.DocumentMax {
		return false
	}
	for _, sec := range s.Sections {
		if sec.Type == lesson.BlockExplanation && (sec.Words < p.ExplanationMin || sec.Words > p.ExplanationMax) {
			return false
		}
	}
	return true
}
