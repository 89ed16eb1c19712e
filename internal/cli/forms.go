package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/lessonsmith/internal/cli/formatter"
)

// lessonsmithHuhTheme returns a huh theme matching the formatter palette.
func lessonsmithHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// noteFormValues holds form-bound values for adding or editing a note.
type noteFormValues struct {
	Text   string
	Pinned bool
}

// noteForm collects note text in a textarea and asks whether to pin it.
func noteForm(v *noteFormValues, title string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title(title).
				Description("alt+enter for a new line").
				Placeholder("What should future you remember about this lesson?").
				Lines(6).
				Value(&v.Text).
				Validate(validateRequired("note text")),
			huh.NewConfirm().
				Title("Pin this note?").
				Affirmative("Pin").
				Negative("No").
				Value(&v.Pinned),
		),
	).WithTheme(lessonsmithHuhTheme()).WithShowHelp(false)
}

func runNoteForm(v *noteFormValues, title string) error {
	return noteForm(v, title).Run()
}

// ideaFormValues holds form-bound values for a catalog idea. Numeric and
// list fields are kept as text and parsed by toIdea.
type ideaFormValues struct {
	Domain        string
	Title         string
	Difficulty    string
	Module        string
	Topics        string
	Prerequisites string
}

// ideaForm collects a single lesson idea. Domains are offered from the
// phrase library so scaffolded lessons can always be rebuilt.
func ideaForm(v *ideaFormValues, domains []string) *huh.Form {
	opts := make([]huh.Option[string], 0, len(domains))
	for _, d := range domains {
		opts = append(opts, huh.NewOption(d, d))
	}
	if v.Difficulty == "" {
		v.Difficulty = "2"
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Domain").
				Options(opts...).
				Value(&v.Domain),
			huh.NewInput().
				Title("Title").
				Value(&v.Title).
				Validate(validateRequired("title")),
			huh.NewSelect[string]().
				Title("Difficulty").
				Options(
					huh.NewOption("1 - beginner", "1"),
					huh.NewOption("2 - intermediate", "2"),
					huh.NewOption("3 - advanced", "3"),
				).
				Value(&v.Difficulty),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Module (optional)").
				Value(&v.Module),
			huh.NewInput().
				Title("Topics").
				Description("comma separated").
				Value(&v.Topics),
			huh.NewInput().
				Title("Prerequisite lesson numbers (optional)").
				Placeholder("3, 4").
				Value(&v.Prerequisites).
				Validate(validateIntList),
		),
	).WithTheme(lessonsmithHuhTheme()).WithShowHelp(false)
}

func runIdeaForm(domains []string) func(v *ideaFormValues) error {
	return func(v *ideaFormValues) error {
		return ideaForm(v, domains).Run()
	}
}

// validateRequired rejects blank input.
func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// validatePositiveInt accepts empty or a positive integer.
func validatePositiveInt(s string) error {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

// validateIntList accepts empty or a comma separated list of positive
// integers.
func validateIntList(s string) error {
	_, err := parseIntList(s)
	return err
}

func parseIntList(s string) ([]int, error) {
	var out []int
	for _, part := range splitList(s) {
		if err := validatePositiveInt(part); err != nil {
			return nil, fmt.Errorf("%q: %w", part, err)
		}
		n, _ := strconv.Atoi(part)
		out = append(out, n)
	}
	return out, nil
}

// splitList splits on commas and drops blank items.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
