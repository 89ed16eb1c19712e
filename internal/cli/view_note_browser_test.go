package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/lessonsmith/internal/domain"
	"github.com/alexanderramin/lessonsmith/internal/repository"
	"github.com/alexanderramin/lessonsmith/internal/service"
	"github.com/alexanderramin/lessonsmith/internal/teatest"
)

const browseLesson = "lesson_dfir_7"

func seedNote(t *testing.T, a *App, text string, block *int) *domain.Note {
	t.Helper()
	n, err := a.Notes.Add(context.Background(), service.NoteInput{
		UserID: a.UserID, LessonID: browseLesson, Text: text, BlockIndex: block,
	})
	require.NoError(t, err)
	// keep updated_at distinct so list order is deterministic
	time.Sleep(2 * time.Millisecond)
	return n
}

func newBrowserDriver(t *testing.T, a *App) *teatest.Driver {
	t.Helper()
	d := teatest.New(t, newNoteBrowser(context.Background(), a, a.UserID, browseLesson), teatest.WithSize(100, 30))
	d.DrainInit()
	return d
}

func browser(d *teatest.Driver) *noteBrowser {
	return d.Model.(*noteBrowser)
}

func listNotes(t *testing.T, a *App) []*domain.Note {
	t.Helper()
	notes, err := a.Notes.List(context.Background(), a.UserID, browseLesson, repository.NoteFilter{})
	require.NoError(t, err)
	return notes
}

func TestNoteBrowser_ListsNotesNewestFirst(t *testing.T) {
	a, _ := testApp(t)
	seedNote(t, a, "older note", nil)
	seedNote(t, a, "newer note", nil)

	d := newBrowserDriver(t, a)
	d.RequireViewContains("NOTES", browseLesson, "older note", "newer note", "q quit")

	b := browser(d)
	require.Len(t, b.notes, 2)
	assert.Equal(t, "newer note", b.notes[0].Text)
	assert.Equal(t, 0, b.cursor)

	d.PressDown()
	assert.Equal(t, 1, browser(d).cursor)
	d.PressDown()
	assert.Equal(t, 1, browser(d).cursor, "cursor stops at the last note")
	d.PressKey('k')
	assert.Equal(t, 0, browser(d).cursor)
}

func TestNoteBrowser_EmptyLesson(t *testing.T) {
	a, _ := testApp(t)
	d := newBrowserDriver(t, a)
	d.RequireViewContains("No notes found.")

	d.PressKey('p')
	d.PressKey('d')
	assert.Equal(t, modeList, browser(d).mode, "actions on nothing are ignored")
}

func TestNoteBrowser_TogglePinMovesNoteFirst(t *testing.T) {
	a, _ := testApp(t)
	first := seedNote(t, a, "pin me", nil)
	seedNote(t, a, "latest", nil)

	d := newBrowserDriver(t, a)
	d.PressDown()
	d.PressKey('p')

	d.RequireViewContains("Pinned note")
	b := browser(d)
	assert.Equal(t, first.ID, b.notes[0].ID, "pinned notes sort first")
	assert.True(t, b.notes[0].IsPinned)

	got, err := a.Notes.GetByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPinned)
}

func TestNoteBrowser_EditSavesText(t *testing.T) {
	a, _ := testApp(t)
	n := seedNote(t, a, "draft", nil)

	d := newBrowserDriver(t, a)
	d.PressKey('e')
	require.Equal(t, modeEdit, browser(d).mode)
	d.RequireViewContains("Edit note", "ctrl+s save")

	d.Type(" v2")
	d.PressCtrlS()

	assert.Equal(t, modeList, browser(d).mode)
	d.RequireViewContains("Saved note", "draft v2")

	got, err := a.Notes.GetByID(context.Background(), n.ID)
	require.NoError(t, err)
	assert.Equal(t, "draft v2", got.Text)
}

func TestNoteBrowser_EditCancelKeepsText(t *testing.T) {
	a, _ := testApp(t)
	n := seedNote(t, a, "keep me", nil)

	d := newBrowserDriver(t, a)
	d.PressEnter()
	d.Type(" changed")
	d.PressEsc()

	assert.Equal(t, modeList, browser(d).mode)
	assert.False(t, d.Quitting, "esc while editing cancels the edit only")

	got, err := a.Notes.GetByID(context.Background(), n.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep me", got.Text)
}

func TestNoteBrowser_NewNote(t *testing.T) {
	a, _ := testApp(t)
	d := newBrowserDriver(t, a)

	d.PressKey('n')
	d.RequireViewContains("New note")
	d.Type("fresh idea")
	d.PressCtrlS()

	d.RequireViewContains("Added note", "fresh idea")
	notes := listNotes(t, a)
	require.Len(t, notes, 1)
	assert.Equal(t, "fresh idea", notes[0].Text)
	assert.True(t, notes[0].IsGeneral())
}

func TestNoteBrowser_EmptyTextShowsError(t *testing.T) {
	a, _ := testApp(t)
	d := newBrowserDriver(t, a)

	d.PressKey('n')
	d.PressCtrlS()

	d.RequireViewContains("Error:", "note text must not be empty")
	assert.Empty(t, listNotes(t, a))
}

func TestNoteBrowser_DeleteNeedsConfirmation(t *testing.T) {
	a, _ := testApp(t)
	seedNote(t, a, "doomed", nil)

	d := newBrowserDriver(t, a)
	d.PressKey('d')
	d.RequireViewContains(`Delete "doomed"?`)
	d.PressKey('n')
	assert.Len(t, listNotes(t, a), 1, "anything but y cancels")

	d.PressKey('d')
	d.PressKey('y')
	d.RequireViewContains("Deleted note", "No notes found.")
	assert.Empty(t, listNotes(t, a))
}

func TestNoteBrowser_Filters(t *testing.T) {
	a, _ := testApp(t)
	block := 2
	seedNote(t, a, "general note", nil)
	seedNote(t, a, "block note", &block)

	d := newBrowserDriver(t, a)
	d.RequireViewContains("general note", "block note", "block 2")

	d.PressKey('g')
	d.RequireViewContains("[general]", "general note")
	d.RequireViewNotContains("block note")

	d.PressKey('g')
	d.PressKey('f')
	d.RequireViewContains("[pinned]", "No notes found.")

	d.PressKey('f')
	d.RequireViewContains("general note", "block note")
}

func TestNoteBrowser_Quit(t *testing.T) {
	a, _ := testApp(t)
	d := newBrowserDriver(t, a)
	d.PressKey('q')
	assert.True(t, d.Quitting)
}
