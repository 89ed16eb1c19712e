package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/lessonsmith/internal/catalog"
	"github.com/alexanderramin/lessonsmith/internal/domain"
	"github.com/alexanderramin/lessonsmith/internal/phrase"
)

// StatusPill returns a colored indicator for a catalog row status. Unknown
// statuses are shown dimmed as written.
func StatusPill(status string) string {
	switch strings.ToLower(status) {
	case "done", "published":
		return StyleGreen.Render("✔ " + status)
	case "draft", "in_progress":
		return StyleYellow.Render("● " + status)
	case catalog.DefaultStatus:
		return StyleBlue.Render("○ " + status)
	case "":
		return Dim("--")
	default:
		return Dim(status)
	}
}

// FormatCatalog renders catalog rows as a table.
func FormatCatalog(rows []catalog.Row) string {
	if len(rows) == 0 {
		return Dim("Catalog is empty.") + "\n"
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			StyleGreen.Render(r.LessonNumber),
			Dim(r.OrderIndex),
			DomainBadge(r.Domain),
			r.Difficulty,
			Bold(Truncate(r.Title, 40)),
			StatusPill(r.Status),
		})
	}
	return RenderTable([]string{"#", "ORDER", "DOMAIN", "DIFF", "TITLE", "STATUS"}, out)
}

// FormatCatalogRow renders every column of one row.
func FormatCatalogRow(r catalog.Row) string {
	prereqs := r.Prerequisites
	if list, err := r.PrerequisiteList(); err == nil {
		prereqs = strings.Join(list, ", ")
	}
	return RenderBox(r.Title, RenderFields([][2]string{
		{"lesson", StyleGreen.Render(r.LessonNumber)},
		{"order", r.OrderIndex},
		{"domain", DomainBadge(r.Domain)},
		{"difficulty", r.Difficulty},
		{"module", r.Module},
		{"topics", strings.Join(r.TopicList(), ", ")},
		{"prereqs", prereqs},
		{"status", StatusPill(r.Status)},
		{"tags", r.Tags},
		{"notes", r.Notes},
	}))
}

// FormatAppended renders rows added by catalog add.
func FormatAppended(rows []catalog.Row, dryRun bool) string {
	verb := "Added"
	if dryRun {
		verb = "Would add"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s\n", StyleGreen.Render(verb), Bold(Plural(len(rows), "idea"))))
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %s %s %s %s\n",
			StyleGreen.Render("#"+r.LessonNumber),
			DomainBadge(r.Domain),
			Dim("order "+r.OrderIndex),
			r.Title))
	}
	return b.String()
}

// FormatProblems renders validation failures as a bulleted list under a
// header. An empty list renders a success line.
func FormatProblems(subject string, errs []error) string {
	if len(errs) == 0 {
		return fmt.Sprintf("%s %s\n", CheckMark(true), subject+" is valid")
	}
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("%s: %s", subject, Plural(len(errs), "problem"))))
	b.WriteString("\n")
	for _, err := range errs {
		b.WriteString(fmt.Sprintf("  %s %s\n", StyleRed.Render("•"), err))
	}
	return b.String()
}

// FormatLibrary lists the domains of a phrase library with list sizes.
func FormatLibrary(lib *phrase.Library) string {
	rows := [][]string{}
	for _, d := range lib.Domains() {
		e, err := lib.Get(d)
		if err != nil {
			continue
		}
		rows = append(rows, []string{
			StyleFg.Render(d),
			DomainBadge(d),
			fmt.Sprint(len(e.Tools)),
			fmt.Sprint(len(e.Telemetry)),
			fmt.Sprint(len(e.Attacks)),
			fmt.Sprint(len(e.Pitfalls)),
		})
	}
	return RenderTable([]string{"DOMAIN", "LABEL", "TOOLS", "TELEMETRY", "ATTACKS", "PITFALLS"}, rows)
}

// FormatLibraryEntry renders the fragments of one domain.
func FormatLibraryEntry(domainName string, e *phrase.Entry) string {
	var b strings.Builder
	items := func(title string, list []phrase.Item) {
		b.WriteString(Header(title) + "\n")
		for _, it := range list {
			b.WriteString(fmt.Sprintf("  %s %s\n", Bold(it.Name), Dim(it.Detail)))
		}
		b.WriteString("\n")
	}
	strs := func(title string, list []string) {
		b.WriteString(Header(title) + "\n")
		for _, s := range list {
			b.WriteString("  • " + s + "\n")
		}
		b.WriteString("\n")
	}
	items("tools", e.Tools)
	items("telemetry", e.Telemetry)
	items("attacks", e.Attacks)
	items("incidents", e.Incidents)
	strs("pitfalls", e.Pitfalls)
	strs("commands", e.Commands)
	return RenderBox(domainName, strings.TrimRight(b.String(), "\n"))
}

// FormatQuestions renders stored assessment questions with the correct
// option marked.
func FormatQuestions(lessonID string, qs []*domain.AssessmentQuestion) string {
	if len(qs) == 0 {
		return Dim("No questions stored for "+lessonID+".") + "\n"
	}
	var b strings.Builder
	for i, q := range qs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("%s %s\n", StyleHeader.Render(fmt.Sprintf("Q%d", q.Position+1)), Bold(q.Question)))
		for j, opt := range q.Options {
			marker := Dim(fmt.Sprintf("  %c)", 'a'+j))
			if j == q.CorrectAnswer {
				marker = StyleGreen.Render(fmt.Sprintf("✔ %c)", 'a'+j))
			}
			b.WriteString(fmt.Sprintf("  %s %s\n", marker, opt))
		}
	}
	return RenderBox(lessonID, strings.TrimRight(b.String(), "\n"))
}
