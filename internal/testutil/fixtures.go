package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/lessonsmith/internal/domain"
	"github.com/alexanderramin/lessonsmith/internal/lesson"
)

// Note options
type NoteOption func(*domain.Note)

func WithBlockIndex(i int) NoteOption {
	return func(n *domain.Note) {
		n.ContentBlockIndex = &i
		n.NoteType = domain.NoteBlock
	}
}

func WithPinned() NoteOption {
	return func(n *domain.Note) {
		n.IsPinned = true
	}
}

func WithUser(userID string) NoteOption {
	return func(n *domain.Note) {
		n.UserID = userID
	}
}

// WithUpdatedAt sets both timestamps, for tests that depend on ordering.
func WithUpdatedAt(t time.Time) NoteOption {
	return func(n *domain.Note) {
		n.CreatedAt = t
		n.UpdatedAt = t
	}
}

func NewTestNote(lessonID, text string, opts ...NoteOption) *domain.Note {
	now := time.Now().UTC()
	n := &domain.Note{
		ID:        uuid.New().String(),
		UserID:    "test-user",
		LessonID:  lessonID,
		Text:      text,
		NoteType:  domain.NoteGeneral,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func NewTestQuestion(lessonID string, position int) *domain.AssessmentQuestion {
	return &domain.AssessmentQuestion{
		ID:            uuid.New().String(),
		LessonID:      lessonID,
		Position:      position,
		Question:      fmt.Sprintf("Question %d?", position+1),
		Options:       []string{"right", "wrong a", "wrong b", "wrong c"},
		CorrectAnswer: 0,
		Difficulty:    lesson.DefaultDifficulty,
		QuestionType:  lesson.QuestionTypeMultipleChoice,
		CreatedAt:     time.Now().UTC(),
	}
}

// Lesson options
type LessonOption func(*lesson.Lesson)

func WithConcepts(concepts ...string) LessonOption {
	return func(l *lesson.Lesson) {
		l.Concepts = concepts
	}
}

func WithDomain(domain string) LessonOption {
	return func(l *lesson.Lesson) {
		l.Domain = domain
	}
}

// NewTestLesson returns an un-assembled dfir lesson: metadata only, no
// blocks, objectives or questions.
func NewTestLesson(id string, opts ...LessonOption) *lesson.Lesson {
	l := &lesson.Lesson{
		LessonID: id,
		Domain:   "dfir",
		Title:    "Test Lesson " + id,
		Concepts: []string{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// WriteLesson saves l under root at rel and returns the absolute path.
func WriteLesson(t *testing.T, root, rel string, l *lesson.Lesson) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := lesson.Save(path, l); err != nil {
		t.Fatalf("writing lesson fixture: %v", err)
	}
	return path
}

// WriteFile writes content under root at rel, creating directories.
func WriteFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating fixture directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}
