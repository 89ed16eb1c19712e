package domain

import "time"

// AssessmentQuestion is a post-assessment question published for a lesson.
// Position is the question's index within the lesson's post_assessment.
type AssessmentQuestion struct {
	ID            string
	LessonID      string
	Position      int
	Question      string
	Options       []string
	CorrectAnswer int
	Difficulty    int
	QuestionType  string
	CreatedAt     time.Time
}
