package assembler

import (
	"fmt"

	"github.com/alexanderramin/lessonsmith/internal/phrase"
	"github.com/alexanderramin/lessonsmith/internal/wordcount"
)

// enforceDocument brings the total word count of sections into the
// document band by extending or trimming the last section only. Trimming
// stops once the last section is down to TrailingFloor paragraphs, so the
// maximum is best effort when the earlier sections alone exceed it.
func (a *Assembler) enforceDocument(sections []*section, e *phrase.Entry) {
	if len(sections) == 0 {
		return
	}
	last := sections[len(sections)-1]
	total := 0
	for _, s := range sections {
		total += s.words()
	}

	for n := 1; total < a.policy.DocumentMin; n++ {
		p := sustainedPractice(e, n)
		last.paragraphs = append(last.paragraphs, p)
		total += wordcount.Count(p)
	}

	for total > a.policy.DocumentMax && len(last.paragraphs) > a.policy.TrailingFloor {
		end := len(last.paragraphs) - 1
		total -= wordcount.Count(last.paragraphs[end])
		last.paragraphs = last.paragraphs[:end]
	}
}

func sustainedPractice(e *phrase.Entry, n int) string {
	return fmt.Sprintf("Sustained Practice %d: %s Then: %s",
		n, phrase.Cycle(e.ReflectionPrompts, n-1), phrase.Cycle(e.NextSteps, n-1))
}
