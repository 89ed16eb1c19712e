package lesson

import (
	"fmt"
	"strings"
)

// Validate checks l against the persisted lesson shape and returns every
// problem found.
func Validate(l *Lesson) []error {
	var errs []error

	if strings.TrimSpace(l.LessonID) == "" {
		errs = append(errs, fmt.Errorf("lesson_id is required"))
	}
	if strings.TrimSpace(l.Domain) == "" {
		errs = append(errs, fmt.Errorf("domain is required"))
	}
	if strings.TrimSpace(l.Title) == "" {
		errs = append(errs, fmt.Errorf("title is required"))
	}
	if l.Difficulty < MinDifficulty || l.Difficulty > MaxDifficulty {
		errs = append(errs, fmt.Errorf("difficulty %d must be between %d and %d", l.Difficulty, MinDifficulty, MaxDifficulty))
	}
	if l.EstimatedTime < MinEstimatedTime || l.EstimatedTime > MaxEstimatedTime {
		errs = append(errs, fmt.Errorf("estimated_time %d must be between %d and %d", l.EstimatedTime, MinEstimatedTime, MaxEstimatedTime))
	}
	if len(l.Concepts) < MinConcepts {
		errs = append(errs, fmt.Errorf("concepts has %d entries, need at least %d", len(l.Concepts), MinConcepts))
	}
	if n := len(l.LearningObjectives); n < MinObjectives || n > MaxObjectives {
		errs = append(errs, fmt.Errorf("learning_objectives has %d entries, need %d-%d", n, MinObjectives, MaxObjectives))
	}

	errs = append(errs, validateBlocks(l)...)
	errs = append(errs, validateAssessment(l)...)
	return errs
}

func validateBlocks(l *Lesson) []error {
	if l.blocksErr != nil {
		return []error{fmt.Errorf("content_blocks: %v", l.blocksErr)}
	}
	var errs []error
	if len(l.ContentBlocks) != len(SectionOrder) {
		errs = append(errs, fmt.Errorf("content_blocks has %d entries, need exactly %d", len(l.ContentBlocks), len(SectionOrder)))
	}
	for i, b := range l.ContentBlocks {
		prefix := fmt.Sprintf("content_blocks[%d]", i)
		if !b.Type.Valid() {
			errs = append(errs, fmt.Errorf("%s.type: invalid value %q", prefix, b.Type))
		} else if i < len(SectionOrder) && b.Type != SectionOrder[i] {
			errs = append(errs, fmt.Errorf("%s.type: got %q, want %q", prefix, b.Type, SectionOrder[i]))
		}
		if strings.TrimSpace(b.Content.Text) == "" {
			errs = append(errs, fmt.Errorf("%s.content.text is required", prefix))
		}
	}
	return errs
}

func validateAssessment(l *Lesson) []error {
	if l.assessmentErr != nil {
		return []error{fmt.Errorf("post_assessment: %v", l.assessmentErr)}
	}
	var errs []error
	if len(l.PostAssessment) > MaxQuestions {
		errs = append(errs, fmt.Errorf("post_assessment has %d questions, at most %d allowed", len(l.PostAssessment), MaxQuestions))
	}
	for i, q := range l.PostAssessment {
		prefix := fmt.Sprintf("post_assessment[%d]", i)
		if strings.TrimSpace(q.Question) == "" {
			errs = append(errs, fmt.Errorf("%s.question is required", prefix))
		}
		if len(q.Options) != OptionsPerQuestion {
			errs = append(errs, fmt.Errorf("%s.options has %d entries, need %d", prefix, len(q.Options), OptionsPerQuestion))
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			errs = append(errs, fmt.Errorf("%s.correct_answer %d is out of range", prefix, q.CorrectAnswer))
		}
	}
	return errs
}

// JoinErrors formats validation errors as one multi-line error, or nil.
func JoinErrors(context string, errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	msg := fmt.Sprintf("%s (%d errors):", context, len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
