package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/lessonsmith/internal/db"
	"github.com/alexanderramin/lessonsmith/internal/domain"
)

// SQLiteAssessmentRepo implements AssessmentRepo using a SQLite database.
type SQLiteAssessmentRepo struct {
	db db.DBTX
}

// NewSQLiteAssessmentRepo creates a new SQLiteAssessmentRepo.
func NewSQLiteAssessmentRepo(db db.DBTX) *SQLiteAssessmentRepo {
	return &SQLiteAssessmentRepo{db: db}
}

func (r *SQLiteAssessmentRepo) ReplaceForLesson(ctx context.Context, lessonID string, qs []*domain.AssessmentQuestion) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM assessment_questions WHERE lesson_id = ?`, lessonID); err != nil {
		return fmt.Errorf("clearing assessment questions: %w", err)
	}

	query := `INSERT INTO assessment_questions
		(question_id, lesson_id, position, question, options, correct_answer, difficulty, question_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, q := range qs {
		if q.LessonID != lessonID {
			return fmt.Errorf("question %d belongs to %q, not %q", q.Position, q.LessonID, lessonID)
		}
		options, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("encoding options for question %d: %w", q.Position, err)
		}
		_, err = r.db.ExecContext(ctx, query,
			q.ID,
			q.LessonID,
			q.Position,
			q.Question,
			string(options),
			q.CorrectAnswer,
			q.Difficulty,
			q.QuestionType,
			formatTime(q.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("inserting assessment question %d: %w", q.Position, err)
		}
	}
	return nil
}

func (r *SQLiteAssessmentRepo) ListByLesson(ctx context.Context, lessonID string) ([]*domain.AssessmentQuestion, error) {
	query := `SELECT question_id, lesson_id, position, question, options, correct_answer, difficulty, question_type, created_at
		FROM assessment_questions WHERE lesson_id = ? ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query, lessonID)
	if err != nil {
		return nil, fmt.Errorf("listing assessment questions: %w", err)
	}
	defer rows.Close()
	return r.scanQuestions(rows)
}

// ListLessonIDs returns every lesson with published questions, sorted.
func (r *SQLiteAssessmentRepo) ListLessonIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT lesson_id FROM assessment_questions ORDER BY lesson_id`)
	if err != nil {
		return nil, fmt.Errorf("listing assessed lessons: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning lesson id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lesson ids: %w", err)
	}
	return ids, nil
}

// scanQuestions scans multiple questions from *sql.Rows.
func (r *SQLiteAssessmentRepo) scanQuestions(rows *sql.Rows) ([]*domain.AssessmentQuestion, error) {
	var qs []*domain.AssessmentQuestion
	for rows.Next() {
		var q domain.AssessmentQuestion
		var optionsJSON, createdAtStr string

		err := rows.Scan(
			&q.ID, &q.LessonID, &q.Position, &q.Question, &optionsJSON,
			&q.CorrectAnswer, &q.Difficulty, &q.QuestionType, &createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning assessment question row: %w", err)
		}

		question, parseErr := r.populateQuestion(&q, optionsJSON, createdAtStr)
		if parseErr != nil {
			return nil, parseErr
		}
		qs = append(qs, question)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assessment questions: %w", err)
	}
	return qs, nil
}

// populateQuestion fills in parsed fields after scanning raw strings.
func (r *SQLiteAssessmentRepo) populateQuestion(q *domain.AssessmentQuestion, optionsJSON, createdAtStr string) (*domain.AssessmentQuestion, error) {
	if err := json.Unmarshal([]byte(optionsJSON), &q.Options); err != nil {
		return nil, fmt.Errorf("parsing options of question %s: %w", q.ID, err)
	}
	var err error
	if q.CreatedAt, err = parseTime("created_at", createdAtStr); err != nil {
		return nil, err
	}
	return q, nil
}
