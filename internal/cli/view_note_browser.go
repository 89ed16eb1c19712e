package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/lessonsmith/internal/cli/formatter"
	"github.com/alexanderramin/lessonsmith/internal/domain"
	"github.com/alexanderramin/lessonsmith/internal/repository"
	"github.com/alexanderramin/lessonsmith/internal/service"
)

// notesLoadedMsg carries a fresh note list for the browser.
type notesLoadedMsg struct {
	notes []*domain.Note
	err   error
}

// noteChangedMsg reports the outcome of an edit, pin or delete. The browser
// reloads after every change so ordering stays pinned-first.
type noteChangedMsg struct {
	status string
	err    error
}

type browserMode int

const (
	modeList browserMode = iota
	modeEdit
	modeConfirmDelete
)

type noteBrowserKeys struct {
	Up, Down, Edit, New, Pin, Delete, Pinned, General, Quit key.Binding
	Save, Cancel, Confirm                                  key.Binding
}

var browserKeys = noteBrowserKeys{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Edit:    key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("e", "edit")),
	New:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
	Pin:     key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p", "pin")),
	Delete:  key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
	Pinned:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "pinned only")),
	General: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "general only")),
	Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	Save:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Confirm: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
}

// noteBrowser lists a learner's notes on one lesson and edits them in place.
type noteBrowser struct {
	ctx      context.Context
	app      *App
	userID   string
	lessonID string

	filter  repository.NoteFilter
	notes   []*domain.Note
	cursor  int
	loading bool
	err     error
	status  string

	mode      browserMode
	editor    textarea.Model
	editingID string // empty while composing a new note

	width int
}

func newNoteBrowser(ctx context.Context, app *App, userID, lessonID string) *noteBrowser {
	ta := textarea.New()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.Placeholder = "Write your note..."
	ta.SetHeight(6)

	return &noteBrowser{
		ctx:      ctx,
		app:      app,
		userID:   userID,
		lessonID: lessonID,
		loading:  true,
		editor:   ta,
	}
}

func (v *noteBrowser) ShortHelp() []key.Binding {
	switch v.mode {
	case modeEdit:
		return []key.Binding{browserKeys.Save, browserKeys.Cancel}
	case modeConfirmDelete:
		return []key.Binding{browserKeys.Confirm, browserKeys.Cancel}
	}
	return []key.Binding{
		browserKeys.Edit, browserKeys.New, browserKeys.Pin, browserKeys.Delete,
		browserKeys.Pinned, browserKeys.General, browserKeys.Quit,
	}
}

func (v *noteBrowser) Init() tea.Cmd {
	return v.loadNotes()
}

func (v *noteBrowser) loadNotes() tea.Cmd {
	app, ctx, user, lessonID, filter := v.app, v.ctx, v.userID, v.lessonID, v.filter
	return func() tea.Msg {
		notes, err := app.Notes.List(ctx, user, lessonID, filter)
		return notesLoadedMsg{notes: notes, err: err}
	}
}

func (v *noteBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		if msg.Width > 8 {
			v.editor.SetWidth(msg.Width - 6)
		}
		return v, nil

	case notesLoadedMsg:
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.notes = msg.notes
			v.clampCursor()
		}
		return v, nil

	case noteChangedMsg:
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		v.err = nil
		v.status = msg.status
		return v, v.loadNotes()

	case tea.KeyMsg:
		switch v.mode {
		case modeEdit:
			return v.updateEdit(msg)
		case modeConfirmDelete:
			return v.updateConfirm(msg)
		}
		return v.updateList(msg)
	}

	if v.mode == modeEdit {
		var cmd tea.Cmd
		v.editor, cmd = v.editor.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *noteBrowser) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	selected := v.selected()
	v.status = ""

	switch {
	case key.Matches(msg, browserKeys.Quit):
		return v, tea.Quit
	case key.Matches(msg, browserKeys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(msg, browserKeys.Down):
		if v.cursor < len(v.notes)-1 {
			v.cursor++
		}
	case key.Matches(msg, browserKeys.Edit):
		if selected != nil {
			return v, v.startEdit(selected.ID, selected.Text)
		}
	case key.Matches(msg, browserKeys.New):
		return v, v.startEdit("", "")
	case key.Matches(msg, browserKeys.Pin):
		if selected != nil {
			return v, v.togglePin(selected)
		}
	case key.Matches(msg, browserKeys.Delete):
		if selected != nil {
			v.mode = modeConfirmDelete
		}
	case key.Matches(msg, browserKeys.Pinned):
		v.filter.PinnedOnly = !v.filter.PinnedOnly
		v.cursor = 0
		return v, v.loadNotes()
	case key.Matches(msg, browserKeys.General):
		v.filter.GeneralOnly = !v.filter.GeneralOnly
		v.cursor = 0
		return v, v.loadNotes()
	}
	return v, nil
}

func (v *noteBrowser) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return v, tea.Quit
	case key.Matches(msg, browserKeys.Cancel):
		v.stopEdit()
		return v, nil
	case key.Matches(msg, browserKeys.Save):
		text := v.editor.Value()
		id := v.editingID
		v.stopEdit()
		return v, v.save(id, text)
	}

	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	return v, cmd
}

func (v *noteBrowser) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v.mode = modeList
	if key.Matches(msg, browserKeys.Confirm) {
		if n := v.selected(); n != nil {
			return v, v.remove(n.ID)
		}
	}
	return v, nil
}

func (v *noteBrowser) startEdit(id, text string) tea.Cmd {
	v.mode = modeEdit
	v.editingID = id
	v.editor.SetValue(text)
	return v.editor.Focus()
}

func (v *noteBrowser) stopEdit() {
	v.mode = modeList
	v.editingID = ""
	v.editor.Blur()
	v.editor.Reset()
}

func (v *noteBrowser) save(id, text string) tea.Cmd {
	app, ctx, user, lessonID := v.app, v.ctx, v.userID, v.lessonID
	return func() tea.Msg {
		if id == "" {
			_, err := app.Notes.Add(ctx, service.NoteInput{UserID: user, LessonID: lessonID, Text: text})
			return noteChangedMsg{status: "Added note", err: err}
		}
		_, err := app.Notes.Edit(ctx, id, text)
		return noteChangedMsg{status: "Saved note", err: err}
	}
}

func (v *noteBrowser) togglePin(n *domain.Note) tea.Cmd {
	app, ctx, id, pinned := v.app, v.ctx, n.ID, !n.IsPinned
	return func() tea.Msg {
		_, err := app.Notes.SetPinned(ctx, id, pinned)
		status := "Pinned note"
		if !pinned {
			status = "Unpinned note"
		}
		return noteChangedMsg{status: status, err: err}
	}
}

func (v *noteBrowser) remove(id string) tea.Cmd {
	app, ctx := v.app, v.ctx
	return func() tea.Msg {
		return noteChangedMsg{status: "Deleted note", err: app.Notes.Delete(ctx, id)}
	}
}

func (v *noteBrowser) selected() *domain.Note {
	if v.cursor < 0 || v.cursor >= len(v.notes) {
		return nil
	}
	return v.notes[v.cursor]
}

func (v *noteBrowser) clampCursor() {
	if v.cursor >= len(v.notes) {
		v.cursor = len(v.notes) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

func (v *noteBrowser) View() string {
	var b strings.Builder
	b.WriteString("\n  " + formatter.StyleHeader.Render("NOTES") + " " + formatter.Dim(v.lessonID))
	if v.filter.PinnedOnly {
		b.WriteString(" " + formatter.StyleYellow.Render("[pinned]"))
	}
	if v.filter.GeneralOnly {
		b.WriteString(" " + formatter.StyleBlue.Render("[general]"))
	}
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString("  " + formatter.Dim("Loading notes...") + "\n")
	case v.mode == modeEdit:
		title := "Edit note"
		if v.editingID == "" {
			title = "New note"
		}
		b.WriteString("  " + formatter.Bold(title) + "\n")
		b.WriteString(indent(v.editor.View(), "  ") + "\n")
	case len(v.notes) == 0:
		b.WriteString("  " + formatter.Dim("No notes found.") + "\n")
	default:
		v.renderList(&b)
	}

	b.WriteString("\n")
	if v.mode == modeConfirmDelete {
		if n := v.selected(); n != nil {
			b.WriteString("  " + formatter.StyleRed.Render(fmt.Sprintf("Delete %q?", n.Preview(30))) + "\n")
		}
	}
	if v.err != nil {
		b.WriteString("  " + formatter.StyleRed.Render("Error: "+v.err.Error()) + "\n")
	} else if v.status != "" {
		b.WriteString("  " + formatter.StyleGreen.Render(v.status) + "\n")
	}
	b.WriteString("  " + renderHelp(v.ShortHelp()) + "\n")
	return b.String()
}

func (v *noteBrowser) renderList(b *strings.Builder) {
	previewWidth := 50
	if v.width > 40 {
		previewWidth = v.width - 30
	}
	for i, n := range v.notes {
		cursor := "  "
		textStyle := formatter.StyleFg
		if i == v.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
			textStyle = formatter.StyleBold
		}
		fmt.Fprintf(b, "%s%s %s  %s  %s\n",
			cursor,
			formatter.PinBadge(n.IsPinned),
			formatter.NoteScope(n),
			textStyle.Render(n.Preview(previewWidth)),
			formatter.Dim(formatter.HumanTimestamp(n.UpdatedAt)),
		)
	}
}

func renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, formatter.StyleYellow.Render(h.Key)+" "+formatter.Dim(h.Desc))
	}
	return strings.Join(parts, formatter.Dim(" · "))
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
