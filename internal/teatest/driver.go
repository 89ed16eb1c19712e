// Package teatest drives bubbletea models synchronously in tests.
//
// Update is called directly and every returned Cmd is run to completion
// before the next key is sent, so a model backed by in-memory SQLite can be
// exercised key by key without a tea.Program or terminal.
//
// Cmds that do not return within a short timeout (cursor and textarea
// blink timers) are dropped.
package teatest

import (
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds how many chained Cmds a single event may produce.
const MaxDrainDepth = 100

// Legitimate Cmds (DB queries, message factories) finish in microseconds;
// blink Cmds sleep for around half a second.
const cmdTimeout = 10 * time.Millisecond

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

// Driver is a synchronous test harness for any tea.Model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once a tea.QuitMsg has been produced. Further input
	// is ignored, as it would be by a real program.
	Quitting bool
}

// Option configures the Driver during construction.
type Option func(*Driver)

// New creates a Driver for model. Call DrainInit to run the model's Init.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithSize sends a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		updated, _ := d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
		d.Model = updated
	}
}

// DrainInit runs the model's Init command and everything it leads to.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drainCmd(d.Model.Init(), 0)
}

// Send dispatches msg through Update and drains the resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	d.drainCmd(cmd, 0)
}

func (d *Driver) sendType(t tea.KeyType) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: t})
}

// PressKey sends a single rune key.
func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// PressKeys sends each rune of keys as its own key press.
func (d *Driver) PressKeys(keys string) {
	d.T.Helper()
	for _, r := range keys {
		d.PressKey(r)
	}
}

// Type is PressKeys, named for entering text into inputs.
func (d *Driver) Type(s string) {
	d.T.Helper()
	d.PressKeys(s)
}

func (d *Driver) PressEnter()     { d.T.Helper(); d.sendType(tea.KeyEnter) }
func (d *Driver) PressEsc()       { d.T.Helper(); d.sendType(tea.KeyEsc) }
func (d *Driver) PressCtrlC()     { d.T.Helper(); d.sendType(tea.KeyCtrlC) }
func (d *Driver) PressCtrlS()     { d.T.Helper(); d.sendType(tea.KeyCtrlS) }
func (d *Driver) PressUp()        { d.T.Helper(); d.sendType(tea.KeyUp) }
func (d *Driver) PressDown()      { d.T.Helper(); d.sendType(tea.KeyDown) }
func (d *Driver) PressTab()       { d.T.Helper(); d.sendType(tea.KeyTab) }
func (d *Driver) PressBackspace() { d.T.Helper(); d.sendType(tea.KeyBackspace) }

// View returns the rendered output of the model.
func (d *Driver) View() string {
	return d.Model.View()
}

// PlainView returns View with ANSI escape sequences removed.
func (d *Driver) PlainView() string {
	return ansiPattern.ReplaceAllString(d.Model.View(), "")
}

// RequireViewContains fails the test unless the plain view contains every
// one of want.
func (d *Driver) RequireViewContains(want ...string) {
	d.T.Helper()
	view := d.PlainView()
	for _, w := range want {
		if !strings.Contains(view, w) {
			d.T.Fatalf("view does not contain %q:\n%s", w, view)
		}
	}
}

// RequireViewNotContains fails the test if the plain view contains any of
// unwanted.
func (d *Driver) RequireViewNotContains(unwanted ...string) {
	d.T.Helper()
	view := d.PlainView()
	for _, u := range unwanted {
		if strings.Contains(view, u) {
			d.T.Fatalf("view unexpectedly contains %q:\n%s", u, view)
		}
	}
}

func (d *Driver) drainCmd(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	msg := execCmdWithTimeout(cmd)
	if msg == nil || isCursorBlink(msg) {
		return
	}

	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, sub := range msg {
			d.drainCmd(sub, depth+1)
		}
		return
	case tea.QuitMsg:
		d.Quitting = true
		updated, _ := d.Model.Update(msg)
		d.Model = updated
		return
	}

	updated, next := d.Model.Update(msg)
	d.Model = updated
	d.drainCmd(next, depth+1)
}

func execCmdWithTimeout(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() {
		ch <- cmd()
	}()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

// isCursorBlink matches the unexported blink message types of
// bubbles/cursor, which chain into blocking timer Cmds.
func isCursorBlink(msg tea.Msg) bool {
	t := fmt.Sprintf("%T", msg)
	return strings.Contains(t, "Blink") || strings.Contains(t, "blink")
}
