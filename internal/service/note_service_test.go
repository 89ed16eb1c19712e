package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/lessonsmith/internal/domain"
	"github.com/alexanderramin/lessonsmith/internal/repository"
	"github.com/alexanderramin/lessonsmith/internal/testutil"
)

func newTestNoteService(t *testing.T) NoteService {
	t.Helper()
	return NewNoteService(repository.NewSQLiteNoteRepo(testutil.NewTestDB(t)))
}

func TestNoteService_CRUDRoundTrip(t *testing.T) {
	svc := newTestNoteService(t)
	ctx := context.Background()
	const user, lessonID = "learner", "lesson_dfir_4"

	note, err := svc.Add(ctx, NoteInput{UserID: user, LessonID: lessonID, Text: "  check shimcache  ", Pinned: true})
	require.NoError(t, err)
	assert.NotEmpty(t, note.ID)
	assert.Equal(t, domain.NoteGeneral, note.NoteType)

	notes, err := svc.List(ctx, user, lessonID, repository.NoteFilter{})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "check shimcache", notes[0].Text)
	assert.True(t, notes[0].IsPinned)

	edited, err := svc.Edit(ctx, note.ID, "check shimcache and amcache")
	require.NoError(t, err)
	assert.False(t, edited.UpdatedAt.Before(note.UpdatedAt))

	notes, err = svc.List(ctx, user, lessonID, repository.NoteFilter{})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "check shimcache and amcache", notes[0].Text)

	require.NoError(t, svc.Delete(ctx, note.ID))
	notes, err = svc.List(ctx, user, lessonID, repository.NoteFilter{})
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestNoteService_BlockNoteAndPinToggle(t *testing.T) {
	svc := newTestNoteService(t)
	ctx := context.Background()

	idx := 7
	note, err := svc.Add(ctx, NoteInput{UserID: "u", LessonID: "l", BlockIndex: &idx, Text: "mindset"})
	require.NoError(t, err)
	assert.Equal(t, domain.NoteBlock, note.NoteType)
	assert.False(t, note.IsPinned)

	pinned, err := svc.SetPinned(ctx, note.ID, true)
	require.NoError(t, err)
	assert.True(t, pinned.IsPinned)

	fetched, err := svc.GetByID(ctx, note.ID)
	require.NoError(t, err)
	assert.True(t, fetched.IsPinned)
	assert.Equal(t, "mindset", fetched.Text)
}

func TestNoteService_Validation(t *testing.T) {
	svc := newTestNoteService(t)
	ctx := context.Background()
	eight, negative := 8, -1

	tests := []struct {
		name string
		in   NoteInput
		want string
	}{
		{"empty text", NoteInput{UserID: "u", LessonID: "l", Text: "   "}, "note text must not be empty"},
		{"no lesson", NoteInput{UserID: "u", Text: "x"}, "lesson id is required"},
		{"no user", NoteInput{LessonID: "l", Text: "x"}, "user id is required"},
		{"block too large", NoteInput{UserID: "u", LessonID: "l", Text: "x", BlockIndex: &eight}, "content block index 8 must be between 0 and 7"},
		{"negative block", NoteInput{UserID: "u", LessonID: "l", Text: "x", BlockIndex: &negative}, "content block index -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Add(ctx, tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := svc.Edit(ctx, "whatever", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNoteService_MissingNote(t *testing.T) {
	svc := newTestNoteService(t)
	ctx := context.Background()

	_, err := svc.Edit(ctx, "missing", "text")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = svc.SetPinned(ctx, "missing", true)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "missing"), repository.ErrNotFound)
}
