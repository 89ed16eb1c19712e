package formatter

import (
	"strings"

	"github.com/alexanderramin/lessonsmith/internal/domain"
)

const notePreviewWidth = 48

// FormatNoteList renders a lesson's notes, pinned first, inside a box.
func FormatNoteList(lessonID string, notes []*domain.Note) string {
	if len(notes) == 0 {
		return Dim("No notes for "+lessonID+".") + "\n"
	}

	rows := make([][]string, 0, len(notes))
	for _, n := range notes {
		rows = append(rows, []string{
			PinBadge(n.IsPinned),
			StyleGreen.Render(n.ID),
			NoteScope(n),
			StyleFg.Render(n.Preview(notePreviewWidth)),
			Dim(HumanTimestamp(n.UpdatedAt)),
		})
	}
	return RenderBox(lessonID, RenderTable([]string{"", "ID", "SCOPE", "NOTE", "UPDATED"}, rows))
}

// FormatNote renders a single note with its full text.
func FormatNote(n *domain.Note) string {
	fields := RenderFields([][2]string{
		{"id", StyleGreen.Render(n.ID)},
		{"lesson", n.LessonID},
		{"scope", NoteScope(n)},
		{"pinned", CheckMark(n.IsPinned)},
		{"created", HumanDate(n.CreatedAt)},
		{"updated", HumanTimestamp(n.UpdatedAt)},
	})
	return fields + "\n" + strings.TrimRight(n.Text, "\n") + "\n"
}
