package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func columnNames(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query(`PRAGMA table_info(` + table + `)`)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var cid, notNull, pk int
		var name, typ string
		var dflt sql.NullString
		require.NoError(t, rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesTablesAndIndexes(t *testing.T) {
	db := openTestDB(t)

	for _, obj := range []struct{ kind, name string }{
		{"table", "lesson_notes"},
		{"table", "assessment_questions"},
		{"index", "idx_lesson_notes_user_lesson"},
		{"index", "idx_assessment_questions_lesson"},
	} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = ? AND name = ?`, obj.kind, obj.name).Scan(&name)
		require.NoError(t, err, "%s %s should exist", obj.kind, obj.name)
	}

	assert.Equal(t, []string{
		"note_id", "user_id", "lesson_id", "content_block_index",
		"note_text", "is_pinned", "created_at", "updated_at", "note_type",
	}, columnNames(t, db, "lesson_notes"))
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)
	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestOpenDB_FileDatabaseUsesWAL(t *testing.T) {
	path := t.TempDir() + "/nested/lessonsmith.db"
	db, err := OpenDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestMigrate_NoteBlockIndexCheck(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(`INSERT INTO lesson_notes (note_id, user_id, lesson_id, content_block_index, note_text, note_type, created_at, updated_at)
		VALUES ('n1', 'u', 'l', -1, 'x', 'block', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err, "negative block index should be rejected")
}

func TestMigrate_AssessmentPositionUnique(t *testing.T) {
	db := openTestDB(t)
	insert := `INSERT INTO assessment_questions (question_id, lesson_id, position, question, options, correct_answer, created_at)
		VALUES (?, 'lesson_dfir_1', 0, 'q', '[]', 0, '2025-01-01T00:00:00Z')`
	_, err := db.Exec(insert, "q1")
	require.NoError(t, err)
	_, err = db.Exec(insert, "q2")
	assert.Error(t, err, "two questions may not share a lesson position")

	var qtype string
	var difficulty int
	require.NoError(t, db.QueryRow(`SELECT question_type, difficulty FROM assessment_questions WHERE question_id = 'q1'`).Scan(&qtype, &difficulty))
	assert.Equal(t, "multiple_choice", qtype)
	assert.Equal(t, 2, difficulty)
}

func TestMigrate_UpgradesLegacyNotesTable(t *testing.T) {
	legacy, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	legacy.SetMaxOpenConns(1)
	t.Cleanup(func() { legacy.Close() })

	_, err = legacy.Exec(`CREATE TABLE lesson_notes (
		note_id             TEXT PRIMARY KEY,
		user_id             TEXT NOT NULL,
		lesson_id           TEXT NOT NULL,
		content_block_index INTEGER,
		note_text           TEXT NOT NULL,
		is_pinned           INTEGER NOT NULL DEFAULT 0,
		created_at          TEXT NOT NULL,
		updated_at          TEXT NOT NULL
	)`)
	require.NoError(t, err)
	_, err = legacy.Exec(`INSERT INTO lesson_notes (note_id, user_id, lesson_id, content_block_index, note_text, created_at, updated_at) VALUES
		('g', 'u', 'l', NULL, 'general note', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z'),
		('b', 'u', 'l', 3, 'block note', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(legacy))
	require.NoError(t, Migrate(legacy))

	types := map[string]string{}
	rows, err := legacy.Query(`SELECT note_id, note_type FROM lesson_notes`)
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var id, typ string
		require.NoError(t, rows.Scan(&id, &typ))
		types[id] = typ
	}
	assert.Equal(t, map[string]string{"g": "general", "b": "block"}, types)
}
