package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/lessonsmith/internal/cli/formatter"
)

func newLibraryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Inspect the phrase library",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List library domains",
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLibrary(app.Library))
				return nil
			},
		},
		&cobra.Command{
			Use:   "show DOMAIN",
			Short: "Show the fragments of one domain",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				entry, err := app.Library.Get(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatLibraryEntry(args[0], entry))
				return nil
			},
		},
	)

	return cmd
}
