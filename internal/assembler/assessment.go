package assembler

import (
	"fmt"
	"hash/fnv"
	"strconv"

	"github.com/alexanderramin/lessonsmith/internal/lesson"
	"github.com/alexanderramin/lessonsmith/internal/phrase"
)

var distractorTemplates = []string{
	"%[1]s is acceptable when investigating %[2]s under time pressure.",
	"%[1]s is the recommended first step for %[2]s.",
	"%[1]s has no effect on conclusions about %[2]s.",
}

// synthesizeAssessment writes one multiple-choice question for each of the
// first Questions concepts. The correct option pairs a tool and a telemetry
// source with the concept; the distractors each endorse a different
// pitfall.
func (a *Assembler) synthesizeAssessment(l *lesson.Lesson, e *phrase.Entry) []lesson.Question {
	n := min(a.policy.Questions, len(l.Concepts))
	questions := make([]lesson.Question, 0, n)
	for i := 0; i < n; i++ {
		c := l.Concepts[i]
		options := make([]string, 0, lesson.OptionsPerQuestion)
		options = append(options, fmt.Sprintf(
			"Use %s to examine %s for evidence of %s, then corroborate the finding with a second source.",
			phrase.Cycle(e.Tools, i).Name, phrase.Cycle(e.Telemetry, i).Name, c,
		))
		for k, tmpl := range distractorTemplates {
			options = append(options, fmt.Sprintf(tmpl, phrase.Cycle(e.Pitfalls, i+k), c))
		}

		correct := 0
		if a.policy.ShuffleAnswers {
			options, correct = rotate(options, answerOffset(l.LessonID, i))
		}
		questions = append(questions, lesson.Question{
			Question:      fmt.Sprintf("Which approach best supports %s during a %s investigation?", c, domainLabel(l.Domain)),
			Options:       options,
			CorrectAnswer: correct,
			Difficulty:    l.Difficulty,
			Type:          lesson.QuestionTypeMultipleChoice,
		})
	}
	return questions
}

// answerOffset derives a stable rotation from the lesson id and question
// position, so a rebuild of an unchanged lesson yields identical output.
func answerOffset(lessonID string, position int) int {
	h := fnv.New32a()
	h.Write([]byte(lessonID))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(position)))
	return int(h.Sum32() % uint32(lesson.OptionsPerQuestion))
}

// rotate moves options[0] to index offset, shifting the rest along, and
// returns the new slice with the new index of the first option.
func rotate(options []string, offset int) ([]string, int) {
	n := len(options)
	if n == 0 {
		return options, 0
	}
	offset %= n
	out := make([]string, n)
	for i, o := range options {
		out[(i+offset)%n] = o
	}
	return out, offset
}
