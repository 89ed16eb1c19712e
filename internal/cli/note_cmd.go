package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/lessonsmith/internal/cli/formatter"
	"github.com/alexanderramin/lessonsmith/internal/repository"
	"github.com/alexanderramin/lessonsmith/internal/service"
)

func newNoteCmd(app *App) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "note",
		Short: "Keep personal notes on lessons",
	}
	cmd.PersistentFlags().StringVar(&userID, "user", "", "note owner (default from config)")

	user := func() string {
		if userID != "" {
			return userID
		}
		return app.UserID
	}

	cmd.AddCommand(
		newNoteAddCmd(app, user),
		newNoteListCmd(app, user),
		newNoteShowCmd(app),
		newNoteEditCmd(app),
		newNotePinCmd(app),
		newNoteRemoveCmd(app),
		newNoteBrowseCmd(app, user),
	)

	return cmd
}

func (a *App) promptNote(v *noteFormValues, title string) error {
	if a.notePrompt != nil {
		return a.notePrompt(v, title)
	}
	return runNoteForm(v, title)
}

func newNoteAddCmd(app *App, user func() string) *cobra.Command {
	var text string
	var block int
	var pin bool

	cmd := &cobra.Command{
		Use:   "add LESSON_ID",
		Short: "Add a note to a lesson",
		Long: `Add a note to a lesson, either general or attached to one content block
(0-7). Without --text on an interactive terminal a form asks for the note.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := service.NoteInput{
				UserID:   user(),
				LessonID: args[0],
				Text:     text,
				Pinned:   pin,
			}
			if cmd.Flags().Changed("block") {
				in.BlockIndex = &block
			}

			if !cmd.Flags().Changed("text") {
				if !app.interactive() {
					return fmt.Errorf("--text is required when not running in a terminal")
				}
				v := noteFormValues{Pinned: pin}
				if err := app.promptNote(&v, "Note on "+args[0]); err != nil {
					if errors.Is(err, huh.ErrUserAborted) {
						fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled."))
						return nil
					}
					return err
				}
				in.Text, in.Pinned = v.Text, v.Pinned
			}

			note, err := app.Notes.Add(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Added %s note %s\n",
				formatter.StyleGreen.Render("✔"),
				formatter.NoteScope(note),
				note.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "note text")
	cmd.Flags().IntVarP(&block, "block", "b", 0, "content block index the note is about")
	cmd.Flags().BoolVar(&pin, "pin", false, "pin the note")

	return cmd
}

func newNoteListCmd(app *App, user func() string) *cobra.Command {
	var filter repository.NoteFilter

	cmd := &cobra.Command{
		Use:   "list LESSON_ID",
		Short: "List your notes on a lesson, pinned first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			notes, err := app.Notes.List(cmd.Context(), user(), args[0], filter)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatNoteList(args[0], notes))
			return nil
		},
	}

	cmd.Flags().BoolVar(&filter.PinnedOnly, "pinned", false, "only pinned notes")
	cmd.Flags().BoolVar(&filter.GeneralOnly, "general", false, "only notes not tied to a content block")

	return cmd
}

func newNoteShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show NOTE_ID",
		Short: "Show a note in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			note, err := app.Notes.GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatNote(note))
			return nil
		},
	}
}

func newNoteEditCmd(app *App) *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "edit NOTE_ID",
		Short: "Replace the text of a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if cmd.Flags().Changed("text") {
				note, err := app.Notes.Edit(ctx, args[0], text)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s Updated note %s\n", formatter.StyleGreen.Render("✔"), note.ID)
				return nil
			}

			if !app.interactive() {
				return fmt.Errorf("--text is required when not running in a terminal")
			}
			current, err := app.Notes.GetByID(ctx, args[0])
			if err != nil {
				return err
			}
			v := noteFormValues{Text: current.Text, Pinned: current.IsPinned}
			if err := app.promptNote(&v, "Edit note"); err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled."))
					return nil
				}
				return err
			}
			note, err := app.Notes.Edit(ctx, current.ID, v.Text)
			if err != nil {
				return err
			}
			if v.Pinned != current.IsPinned {
				if note, err = app.Notes.SetPinned(ctx, current.ID, v.Pinned); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Updated note %s\n", formatter.StyleGreen.Render("✔"), note.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "new note text")
	return cmd
}

func newNotePinCmd(app *App) *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   "pin NOTE_ID",
		Short: "Pin a note, or unpin it with --off",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			note, err := app.Notes.SetPinned(cmd.Context(), args[0], !off)
			if err != nil {
				return err
			}
			verb := "Pinned"
			if !note.IsPinned {
				verb = "Unpinned"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s note %s\n", formatter.PinBadge(true), verb, note.ID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&off, "off", false, "unpin instead")
	return cmd
}

func newNoteRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm NOTE_ID",
		Aliases: []string{"delete"},
		Short:   "Delete a note",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Notes.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted note %s\n", formatter.StyleRed.Render("✖"), args[0])
			return nil
		},
	}
}

func newNoteBrowseCmd(app *App, user func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "browse LESSON_ID",
		Short: "Browse, edit, pin and delete notes interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("note browse needs an interactive terminal; use note list")
			}
			app.logger().Debug("opening note browser", "lesson_id", args[0], "user_id", user())
			m := newNoteBrowser(cmd.Context(), app, user(), args[0])
			_, err := tea.NewProgram(m,
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			).Run()
			return err
		},
	}
}
