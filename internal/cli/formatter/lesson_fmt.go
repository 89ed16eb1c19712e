package formatter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/lessonsmith/internal/app"
	"github.com/alexanderramin/lessonsmith/internal/assembler"
	"github.com/alexanderramin/lessonsmith/internal/lesson"
)

const bandBarWidth = 20

// FormatRebuild renders the outcome of a rebuild batch: one line per
// generated lesson with its total word count, then the skipped files.
func FormatRebuild(resp *app.RebuildResponse, p assembler.Policy) string {
	var b strings.Builder

	verb := "Rebuilt"
	if resp.DryRun {
		verb = "Would rebuild"
	}
	b.WriteString(fmt.Sprintf("%s %s %s\n\n",
		StyleGreen.Render(verb),
		Bold(Plural(len(resp.Generated), "lesson")),
		Dim(fmt.Sprintf("(%d targets from %s)", resp.Targets, resp.Source))))

	if len(resp.Generated) > 0 {
		rows := make([][]string, 0, len(resp.Generated))
		for _, g := range resp.Generated {
			rows = append(rows, []string{
				CheckMark(g.InBands),
				StyleFg.Render(g.Stats.LessonID),
				RenderBand(g.Stats.Total, p.DocumentMin, p.DocumentMax, bandBarWidth),
				Dim(filepath.Base(g.Path)),
			})
		}
		b.WriteString(RenderTable([]string{"", "LESSON", "WORDS", "FILE"}, rows))
	}

	if len(resp.Skipped) > 0 {
		b.WriteString("\n")
		b.WriteString(StyleYellow.Render(fmt.Sprintf("Skipped %s:", Plural(len(resp.Skipped), "file"))))
		b.WriteString("\n")
		for _, s := range resp.Skipped {
			b.WriteString(fmt.Sprintf("  %s %s %s\n", StyleYellow.Render("○"), s.Path, Dim(s.Reason)))
		}
	}

	return b.String()
}

// FormatStats renders per-section word counts of one lesson.
func FormatStats(st assembler.Stats, p assembler.Policy) string {
	rows := make([][]string, 0, len(st.Sections))
	for _, sec := range st.Sections {
		words := StyleFg.Render(fmt.Sprint(sec.Words))
		if sec.Type == lesson.BlockExplanation {
			words = RenderBand(sec.Words, p.ExplanationMin, p.ExplanationMax, bandBarWidth)
		}
		rows = append(rows, []string{
			Dim(fmt.Sprint(sec.Index)),
			StyleBlue.Render(string(sec.Type)),
			fmt.Sprint(sec.Paragraphs),
			words,
		})
	}

	var b strings.Builder
	b.WriteString(RenderTable([]string{"#", "SECTION", "PARAS", "WORDS"}, rows))
	b.WriteString("\n")
	b.WriteString(RenderFields([][2]string{
		{"total", RenderBand(st.Total, p.DocumentMin, p.DocumentMax, bandBarWidth)},
		{"questions", fmt.Sprint(st.Questions)},
		{"in bands", CheckMark(st.WithinBands(p))},
	}))
	return RenderBox(st.LessonID, b.String())
}

// FormatScaffold renders the result of scaffolding a lesson from the catalog.
func FormatScaffold(resp *app.ScaffoldResponse, dryRun bool) string {
	verb := "Scaffolded"
	if dryRun {
		verb = "Would scaffold"
	}
	return fmt.Sprintf("%s %s %s %s\n",
		StyleGreen.Render(verb),
		Bold(resp.LessonID),
		Dim("→"),
		resp.Path) +
		fmt.Sprintf("  %s words, %s\n",
			StyleFg.Render(fmt.Sprint(resp.Rebuilt.Stats.Total)),
			Plural(resp.Rebuilt.Stats.Questions, "question"))
}
