package repository

import (
	"context"

	"github.com/alexanderramin/lessonsmith/internal/domain"
)

// NoteFilter narrows ListByLesson. Zero value lists every note.
type NoteFilter struct {
	PinnedOnly  bool
	GeneralOnly bool
}

type NoteRepo interface {
	Create(ctx context.Context, n *domain.Note) error
	GetByID(ctx context.Context, id string) (*domain.Note, error)
	// ListByLesson returns pinned notes first, then by most recent update.
	ListByLesson(ctx context.Context, userID, lessonID string, f NoteFilter) ([]*domain.Note, error)
	Update(ctx context.Context, n *domain.Note) error
	Delete(ctx context.Context, id string) error
}

type AssessmentRepo interface {
	// ReplaceForLesson deletes the lesson's questions and inserts qs. Run it
	// inside a UnitOfWork to make the swap atomic.
	ReplaceForLesson(ctx context.Context, lessonID string, qs []*domain.AssessmentQuestion) error
	ListByLesson(ctx context.Context, lessonID string) ([]*domain.AssessmentQuestion, error)
	ListLessonIDs(ctx context.Context) ([]string, error)
}
