package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/lessonsmith/internal/catalog"
	"github.com/alexanderramin/lessonsmith/internal/cli/formatter"
)

func newCatalogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse and extend the lesson ideas catalog",
	}

	cmd.AddCommand(
		newCatalogListCmd(app),
		newCatalogShowCmd(app),
		newCatalogAddCmd(app),
		newCatalogValidateCmd(app),
	)

	return cmd
}

func newCatalogListCmd(app *App) *cobra.Command {
	var domainFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Catalog.Load(cmd.Context())
			if err != nil {
				return err
			}
			rows := c.Rows
			if domainFilter != "" {
				rows = nil
				for _, r := range c.Rows {
					if strings.EqualFold(r.Domain, domainFilter) {
						rows = append(rows, r)
					}
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCatalog(rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&domainFilter, "domain", "", "only rows of this domain")
	return cmd
}

func newCatalogShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show LESSON_NUMBER",
		Short: "Show one catalog row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid lesson number %q", args[0])
			}
			row, err := app.Catalog.Find(cmd.Context(), n)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCatalogRow(row))
			return nil
		},
	}
}

func newCatalogAddCmd(app *App) *cobra.Command {
	var file string
	var dryRun bool
	var idea catalog.Idea

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append lesson ideas to the catalog",
		Long: `Append lesson ideas to the catalog. Ideas come from a YAML file (--file),
from flags (--domain and --title at least), or from a form when neither is
given on an interactive terminal.

Lesson numbers continue from the highest in the catalog and order indexes
continue per domain. Existing rows are never changed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ideas, err := collectIdeas(cmd, app, file, idea)
			if err != nil {
				return err
			}
			rows, err := app.Catalog.Add(cmd.Context(), ideas, dryRun)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAppended(rows, dryRun))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with a list of ideas")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the rows without writing the catalog")
	cmd.Flags().StringVar(&idea.Domain, "domain", "", "idea domain")
	cmd.Flags().StringVar(&idea.Title, "title", "", "idea title")
	cmd.Flags().IntVar(&idea.Difficulty, "difficulty", 0, "difficulty 1-3")
	cmd.Flags().StringVar(&idea.Module, "module", "", "module name")
	cmd.Flags().StringSliceVar(&idea.Topics, "topic", nil, "topic (repeatable or comma separated)")
	cmd.Flags().IntSliceVar(&idea.Prerequisites, "prereq", nil, "prerequisite lesson number (repeatable)")
	cmd.Flags().StringVar(&idea.Status, "status", "", "status (default planned)")
	cmd.Flags().StringSliceVar(&idea.Tags, "tag", nil, "tag (repeatable or comma separated)")
	cmd.Flags().StringVar(&idea.Notes, "notes", "", "free-form notes")
	cmd.MarkFlagsMutuallyExclusive("file", "title")

	return cmd
}

func collectIdeas(cmd *cobra.Command, app *App, file string, flagIdea catalog.Idea) ([]catalog.Idea, error) {
	if file != "" {
		return catalog.LoadIdeas(file)
	}
	if flagIdea.Title != "" || flagIdea.Domain != "" {
		return []catalog.Idea{flagIdea}, nil
	}
	if !app.interactive() {
		return nil, fmt.Errorf("give --file, or --domain and --title")
	}

	prompt := app.ideaPrompt
	if prompt == nil {
		prompt = runIdeaForm(app.Library.Domains())
	}
	var v ideaFormValues
	if err := prompt(&v); err != nil {
		return nil, err
	}
	idea, err := v.toIdea()
	if err != nil {
		return nil, err
	}
	return []catalog.Idea{idea}, nil
}

func (v ideaFormValues) toIdea() (catalog.Idea, error) {
	idea := catalog.Idea{
		Domain: strings.TrimSpace(v.Domain),
		Title:  strings.TrimSpace(v.Title),
		Module: strings.TrimSpace(v.Module),
		Topics: splitList(v.Topics),
	}
	if v.Difficulty != "" {
		d, err := strconv.Atoi(v.Difficulty)
		if err != nil {
			return catalog.Idea{}, fmt.Errorf("invalid difficulty %q", v.Difficulty)
		}
		idea.Difficulty = d
	}
	prereqs, err := parseIntList(v.Prerequisites)
	if err != nil {
		return catalog.Idea{}, fmt.Errorf("prerequisites: %w", err)
	}
	idea.Prerequisites = prereqs
	return idea, nil
}

func newCatalogValidateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Report malformed catalog rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			problems, err := app.Catalog.Validate(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProblems("catalog", problems))
			if len(problems) > 0 {
				return fmt.Errorf("catalog has %s", formatter.Plural(len(problems), "problem"))
			}
			return nil
		},
	}
}
