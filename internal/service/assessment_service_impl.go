package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/lessonsmith/internal/app"
	"github.com/alexanderramin/lessonsmith/internal/db"
	"github.com/alexanderramin/lessonsmith/internal/domain"
	"github.com/alexanderramin/lessonsmith/internal/lesson"
	"github.com/alexanderramin/lessonsmith/internal/repository"
)

type assessmentService struct {
	questions repository.AssessmentRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
}

func NewAssessmentService(questions repository.AssessmentRepo, uow db.UnitOfWork, observers ...UseCaseObserver) AssessmentService {
	return &assessmentService{questions: questions, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// SyncLesson replaces the stored questions of l with its post_assessment in
// one transaction. On failure the previously stored questions remain.
func (s *assessmentService) SyncLesson(ctx context.Context, l *lesson.Lesson) (result *app.SyncResult, err error) {
	fields := map[string]any{"lesson_id": l.LessonID}
	done := observe(ctx, s.observer, "sync-assessment", fields)
	defer func() { done(err) }()

	if strings.TrimSpace(l.LessonID) == "" {
		return nil, invalidf("lesson_id is required")
	}
	qs, err := questionsFor(l, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	fields["questions"] = len(qs)

	result = &app.SyncResult{LessonID: l.LessonID, Questions: len(qs)}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txQuestions := repository.NewSQLiteAssessmentRepo(tx)

		existing, err := txQuestions.ListByLesson(ctx, l.LessonID)
		if err != nil {
			return err
		}
		result.Replaced = len(existing)

		return txQuestions.ReplaceForLesson(ctx, l.LessonID, qs)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *assessmentService) ListByLesson(ctx context.Context, lessonID string) ([]*domain.AssessmentQuestion, error) {
	return s.questions.ListByLesson(ctx, lessonID)
}

func (s *assessmentService) ListLessonIDs(ctx context.Context) ([]string, error) {
	return s.questions.ListLessonIDs(ctx)
}

func questionsFor(l *lesson.Lesson, now time.Time) ([]*domain.AssessmentQuestion, error) {
	qs := make([]*domain.AssessmentQuestion, 0, len(l.PostAssessment))
	for i, q := range l.PostAssessment {
		if strings.TrimSpace(q.Question) == "" {
			return nil, invalidf("post_assessment[%d]: question is required", i)
		}
		if len(q.Options) != lesson.OptionsPerQuestion {
			return nil, invalidf("post_assessment[%d]: has %d options, need %d", i, len(q.Options), lesson.OptionsPerQuestion)
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return nil, invalidf("post_assessment[%d]: correct_answer %d is out of range", i, q.CorrectAnswer)
		}

		difficulty := q.Difficulty
		if difficulty == 0 {
			difficulty = lesson.DefaultDifficulty
		}
		qtype := q.Type
		if qtype == "" {
			qtype = lesson.QuestionTypeMultipleChoice
		}
		qs = append(qs, &domain.AssessmentQuestion{
			ID:            uuid.New().String(),
			LessonID:      l.LessonID,
			Position:      i,
			Question:      q.Question,
			Options:       append([]string(nil), q.Options...),
			CorrectAnswer: q.CorrectAnswer,
			Difficulty:    difficulty,
			QuestionType:  qtype,
			CreatedAt:     now,
		})
	}
	return qs, nil
}
