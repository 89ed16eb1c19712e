package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexanderramin/lessonsmith/internal/app"
	"github.com/alexanderramin/lessonsmith/internal/assembler"
	"github.com/alexanderramin/lessonsmith/internal/logging"
	"github.com/alexanderramin/lessonsmith/internal/phrase"
	"github.com/alexanderramin/lessonsmith/internal/service"
)

// App holds the services and settings used by CLI commands.
type App struct {
	Notes       service.NoteService
	Assessments service.AssessmentService
	Rebuild     service.RebuildService
	Scaffold    service.ScaffoldService
	Catalog     service.CatalogService

	Library *phrase.Library
	Policy  assembler.Policy

	// UserID owns the notes created and listed by note commands.
	UserID string
	// RebuildDefaults seeds the rebuild flags from configuration.
	RebuildDefaults app.RebuildRequest

	Log *logging.Logger

	// IsInteractive reports whether stdin is a terminal; forms and the
	// note browser are only offered when it is.
	IsInteractive func() bool

	// prompt hooks replace the huh forms in tests
	notePrompt func(v *noteFormValues, title string) error
	ideaPrompt func(v *ideaFormValues) error
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) logger() *logging.Logger {
	if a.Log == nil {
		return logging.NewNop()
	}
	return a.Log
}

// NewRootCmd creates the top-level "lessonsmith" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "lessonsmith",
		Short:         "Assemble lessons, curate the lesson catalog and keep lesson notes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Read by main before the App is built; declared here so cobra
	// accepts them and lists them in help.
	root.PersistentFlags().String("config", "", "config file (default ~/.lessonsmith/config.yaml)")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newLessonCmd(app),
		newLibraryCmd(app),
		newCatalogCmd(app),
		newNoteCmd(app),
		newAssessmentCmd(app),
	)

	return root
}
