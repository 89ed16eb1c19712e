package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate brings db to the current schema. Every statement is safe to run
// again, so Migrate runs the whole list each time a database is opened.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillNoteType(db); err != nil {
		return fmt.Errorf("backfilling note_type: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS lesson_notes (
		note_id             TEXT PRIMARY KEY,
		user_id             TEXT NOT NULL,
		lesson_id           TEXT NOT NULL,
		content_block_index INTEGER
		                    CHECK(content_block_index IS NULL OR content_block_index >= 0),
		note_text           TEXT NOT NULL,
		is_pinned           INTEGER NOT NULL DEFAULT 0,
		created_at          TEXT NOT NULL,
		updated_at          TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_lesson_notes_user_lesson ON lesson_notes(user_id, lesson_id)`,

	// Notes written before block-level notes existed have no note_type;
	// migrateBackfillNoteType fills it in.
	`ALTER TABLE lesson_notes ADD COLUMN note_type TEXT NOT NULL DEFAULT ''`,

	`CREATE TABLE IF NOT EXISTS assessment_questions (
		question_id    TEXT PRIMARY KEY,
		lesson_id      TEXT NOT NULL,
		position       INTEGER NOT NULL CHECK(position >= 0),
		question       TEXT NOT NULL,
		options        TEXT NOT NULL,
		correct_answer INTEGER NOT NULL CHECK(correct_answer >= 0),
		difficulty     INTEGER NOT NULL DEFAULT 2,
		question_type  TEXT NOT NULL DEFAULT 'multiple_choice',
		created_at     TEXT NOT NULL,
		UNIQUE(lesson_id, position)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_assessment_questions_lesson ON assessment_questions(lesson_id)`,
}

// migrateBackfillNoteType derives note_type from content_block_index for
// rows that predate the column. Idempotent: only empty values are touched.
func migrateBackfillNoteType(db *sql.DB) error {
	_, err := db.ExecContext(context.Background(), `UPDATE lesson_notes
		SET note_type = CASE WHEN content_block_index IS NULL THEN 'general' ELSE 'block' END
		WHERE note_type = ''`)
	return err
}
