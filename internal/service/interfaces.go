package service

import (
	"context"

	"github.com/alexanderramin/lessonsmith/internal/app"
	"github.com/alexanderramin/lessonsmith/internal/catalog"
	"github.com/alexanderramin/lessonsmith/internal/domain"
	"github.com/alexanderramin/lessonsmith/internal/repository"
)

// NoteInput is what a learner supplies when adding a note.
type NoteInput struct {
	UserID     string
	LessonID   string
	BlockIndex *int
	Text       string
	Pinned     bool
}

type NoteService interface {
	Add(ctx context.Context, in NoteInput) (*domain.Note, error)
	GetByID(ctx context.Context, id string) (*domain.Note, error)
	List(ctx context.Context, userID, lessonID string, f repository.NoteFilter) ([]*domain.Note, error)
	Edit(ctx context.Context, id, text string) (*domain.Note, error)
	SetPinned(ctx context.Context, id string, pinned bool) (*domain.Note, error)
	Delete(ctx context.Context, id string) error
}

type AssessmentService interface {
	app.SyncAssessmentUseCase
	ListByLesson(ctx context.Context, lessonID string) ([]*domain.AssessmentQuestion, error)
	ListLessonIDs(ctx context.Context) ([]string, error)
}

type RebuildService interface {
	app.RebuildLessonsUseCase
}

type ScaffoldService interface {
	app.ScaffoldLessonUseCase
}

type CatalogService interface {
	Load(ctx context.Context) (*catalog.Catalog, error)
	// Add appends ideas and rewrites the catalog unless dryRun is set.
	Add(ctx context.Context, ideas []catalog.Idea, dryRun bool) ([]catalog.Row, error)
	Validate(ctx context.Context) ([]error, error)
	Find(ctx context.Context, lessonNumber int) (catalog.Row, error)
}
