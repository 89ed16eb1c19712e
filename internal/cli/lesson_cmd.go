package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/lessonsmith/internal/app"
	"github.com/alexanderramin/lessonsmith/internal/assembler"
	"github.com/alexanderramin/lessonsmith/internal/cli/formatter"
	"github.com/alexanderramin/lessonsmith/internal/lesson"
)

func newLessonCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lesson",
		Short: "Rebuild, check and scaffold lesson documents",
	}

	cmd.AddCommand(
		newLessonRebuildCmd(app),
		newLessonValidateCmd(),
		newLessonStatsCmd(app),
		newLessonScaffoldCmd(app),
	)

	return cmd
}

func newLessonRebuildCmd(a *App) *cobra.Command {
	req := a.RebuildDefaults
	if req.MissingDomain == "" {
		req.MissingDomain = app.MissingDomainSkip
	}
	if req.Jobs < 1 {
		req.Jobs = 1
	}

	cmd := &cobra.Command{
		Use:   "rebuild [PATH...]",
		Short: "Regenerate lesson content in place",
		Long: `Regenerate the content blocks, objectives and post-assessment of lesson files.

Targets are the given paths, else the lessons listed in the content list
file, else every file matching the content glob.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Jobs < 1 {
				return fmt.Errorf("--jobs must be at least 1")
			}
			req.Paths = args
			a.logger().Debug("rebuild requested", "paths", len(args), "jobs", req.Jobs,
				"missing_domain", req.MissingDomain.String(), "dry_run", req.DryRun)
			resp, err := a.Rebuild.Rebuild(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRebuild(resp, a.Policy))
			return nil
		},
	}

	cmd.Flags().BoolVar(&req.DryRun, "dry-run", false, "assemble and report without writing files")
	cmd.Flags().IntVarP(&req.Jobs, "jobs", "j", req.Jobs, "number of lessons rebuilt in parallel")
	cmd.Flags().Var(&req.MissingDomain, "missing-domain", "what to do with lessons whose domain has no phrase library entry")

	return cmd
}

func newLessonValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate PATH...",
		Short: "Check lesson files against the document shape",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			invalid := 0
			for _, path := range args {
				l, err := lesson.Load(path)
				var errs []error
				if err != nil {
					errs = []error{err}
				} else {
					errs = lesson.Validate(l)
				}
				if len(errs) > 0 {
					invalid++
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProblems(path, errs))
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d lessons invalid", invalid, len(args))
			}
			return nil
		},
	}
}

func newLessonStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats PATH...",
		Short: "Show per-section word counts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				l, err := lesson.Load(path)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatStats(assembler.ComputeStats(l), app.Policy))
			}
			return nil
		},
	}
}

func newLessonScaffoldCmd(a *App) *cobra.Command {
	var req app.ScaffoldRequest

	cmd := &cobra.Command{
		Use:   "scaffold",
		Short: "Create a lesson file from a catalog row and rebuild it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.LessonNumber <= 0 {
				return fmt.Errorf("--lesson-number must be a positive catalog lesson number")
			}
			resp, err := a.Scaffold.Scaffold(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatScaffold(resp, req.DryRun))
			return nil
		},
	}

	cmd.Flags().IntVarP(&req.LessonNumber, "lesson-number", "n", 0, "catalog lesson number")
	cmd.Flags().BoolVar(&req.Force, "force", false, "overwrite an existing lesson file")
	cmd.Flags().BoolVar(&req.DryRun, "dry-run", false, "build the lesson without writing it")
	_ = cmd.MarkFlagRequired("lesson-number")

	return cmd
}
