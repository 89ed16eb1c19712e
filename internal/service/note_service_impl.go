package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/lessonsmith/internal/domain"
	"github.com/alexanderramin/lessonsmith/internal/lesson"
	"github.com/alexanderramin/lessonsmith/internal/repository"
)

type noteService struct {
	notes    repository.NoteRepo
	observer UseCaseObserver
}

func NewNoteService(notes repository.NoteRepo, observers ...UseCaseObserver) NoteService {
	return &noteService{notes: notes, observer: useCaseObserverOrNoop(observers)}
}

func (s *noteService) Add(ctx context.Context, in NoteInput) (note *domain.Note, err error) {
	fields := map[string]any{"lesson_id": in.LessonID, "user_id": in.UserID}
	done := observe(ctx, s.observer, "add-note", fields)
	defer func() { done(err) }()

	text := strings.TrimSpace(in.Text)
	switch {
	case strings.TrimSpace(in.UserID) == "":
		return nil, invalidf("user id is required")
	case strings.TrimSpace(in.LessonID) == "":
		return nil, invalidf("lesson id is required")
	case text == "":
		return nil, invalidf("note text must not be empty")
	}
	if err := validateBlockIndex(in.BlockIndex); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	note = &domain.Note{
		ID:                uuid.New().String(),
		UserID:            in.UserID,
		LessonID:          in.LessonID,
		ContentBlockIndex: in.BlockIndex,
		Text:              text,
		NoteType:          domain.NoteTypeFor(in.BlockIndex),
		IsPinned:          in.Pinned,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	fields["note_type"] = string(note.NoteType)
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *noteService) GetByID(ctx context.Context, id string) (*domain.Note, error) {
	return s.notes.GetByID(ctx, id)
}

func (s *noteService) List(ctx context.Context, userID, lessonID string, f repository.NoteFilter) ([]*domain.Note, error) {
	return s.notes.ListByLesson(ctx, userID, lessonID, f)
}

func (s *noteService) Edit(ctx context.Context, id, text string) (note *domain.Note, err error) {
	done := observe(ctx, s.observer, "edit-note", map[string]any{"note_id": id})
	defer func() { done(err) }()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalidf("note text must not be empty")
	}
	return s.update(ctx, id, func(n *domain.Note) { n.Text = text })
}

func (s *noteService) SetPinned(ctx context.Context, id string, pinned bool) (note *domain.Note, err error) {
	done := observe(ctx, s.observer, "pin-note", map[string]any{"note_id": id, "pinned": pinned})
	defer func() { done(err) }()
	return s.update(ctx, id, func(n *domain.Note) { n.IsPinned = pinned })
}

func (s *noteService) Delete(ctx context.Context, id string) (err error) {
	done := observe(ctx, s.observer, "delete-note", map[string]any{"note_id": id})
	defer func() { done(err) }()
	return s.notes.Delete(ctx, id)
}

// update reads the note, applies mutate and writes it back. There is no
// version check; the last write wins.
func (s *noteService) update(ctx context.Context, id string, mutate func(*domain.Note)) (*domain.Note, error) {
	note, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	mutate(note)
	note.UpdatedAt = time.Now().UTC()
	if err := s.notes.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func validateBlockIndex(idx *int) error {
	if idx == nil {
		return nil
	}
	if *idx < 0 || *idx >= len(lesson.SectionOrder) {
		return invalidf("content block index %d must be between 0 and %d", *idx, len(lesson.SectionOrder)-1)
	}
	return nil
}
