package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/lessonsmith/internal/cli/formatter"
	"github.com/alexanderramin/lessonsmith/internal/lesson"
)

func newAssessmentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assessment",
		Short: "Publish and inspect post-assessment questions",
	}

	cmd.AddCommand(
		newAssessmentSyncCmd(app),
		newAssessmentListCmd(app),
	)

	return cmd
}

func newAssessmentSyncCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync PATH...",
		Short: "Replace the stored questions of each lesson with its post-assessment",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				l, err := lesson.Load(path)
				if err != nil {
					return err
				}
				res, err := app.Assessments.SyncLesson(cmd.Context(), l)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s Synced %s for %s %s\n",
					formatter.StyleGreen.Render("✔"),
					formatter.Plural(res.Questions, "question"),
					formatter.Bold(res.LessonID),
					formatter.Dim(fmt.Sprintf("(replaced %d)", res.Replaced)))
			}
			return nil
		},
	}
}

func newAssessmentListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list [LESSON_ID]",
		Short: "List lessons with stored questions, or one lesson's questions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 1 {
				qs, err := app.Assessments.ListByLesson(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatQuestions(args[0], qs))
				return nil
			}

			ids, err := app.Assessments.ListLessonIDs(ctx)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No questions stored yet."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Header("lessons with questions"))
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), "  "+id)
			}
			return nil
		},
	}
}
