package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/lessonsmith/internal/db"
	"github.com/alexanderramin/lessonsmith/internal/domain"
)

const noteColumns = `note_id, user_id, lesson_id, content_block_index, note_text, note_type, is_pinned, created_at, updated_at`

// SQLiteNoteRepo implements NoteRepo using a SQLite database.
type SQLiteNoteRepo struct {
	db db.DBTX
}

// NewSQLiteNoteRepo creates a new SQLiteNoteRepo.
func NewSQLiteNoteRepo(db db.DBTX) *SQLiteNoteRepo {
	return &SQLiteNoteRepo{db: db}
}

func (r *SQLiteNoteRepo) Create(ctx context.Context, n *domain.Note) error {
	query := `INSERT INTO lesson_notes (` + noteColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.UserID,
		n.LessonID,
		nullableIntToValue(n.ContentBlockIndex),
		n.Text,
		string(domain.NoteTypeFor(n.ContentBlockIndex)),
		boolToInt(n.IsPinned),
		formatTime(n.CreatedAt),
		formatTime(n.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting note: %w", err)
	}
	return nil
}

func (r *SQLiteNoteRepo) GetByID(ctx context.Context, id string) (*domain.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM lesson_notes WHERE note_id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanNote(row)
}

func (r *SQLiteNoteRepo) ListByLesson(ctx context.Context, userID, lessonID string, f NoteFilter) ([]*domain.Note, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + noteColumns + ` FROM lesson_notes WHERE user_id = ? AND lesson_id = ?`)
	if f.PinnedOnly {
		b.WriteString(` AND is_pinned = 1`)
	}
	if f.GeneralOnly {
		b.WriteString(` AND content_block_index IS NULL`)
	}
	b.WriteString(` ORDER BY is_pinned DESC, updated_at DESC, note_id`)

	rows, err := r.db.QueryContext(ctx, b.String(), userID, lessonID)
	if err != nil {
		return nil, fmt.Errorf("listing notes by lesson: %w", err)
	}
	defer rows.Close()
	return r.scanNotes(rows)
}

// Update overwrites the note's text, block, pin and updated_at. The last
// write wins.
func (r *SQLiteNoteRepo) Update(ctx context.Context, n *domain.Note) error {
	query := `UPDATE lesson_notes
		SET content_block_index = ?, note_text = ?, note_type = ?, is_pinned = ?, updated_at = ?
		WHERE note_id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableIntToValue(n.ContentBlockIndex),
		n.Text,
		string(domain.NoteTypeFor(n.ContentBlockIndex)),
		boolToInt(n.IsPinned),
		formatTime(n.UpdatedAt),
		n.ID,
	)
	if err != nil {
		return fmt.Errorf("updating note: %w", err)
	}
	return requireAffected(res, "note")
}

func (r *SQLiteNoteRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lesson_notes WHERE note_id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting note: %w", err)
	}
	return requireAffected(res, "note")
}

type noteScanner interface {
	Scan(dest ...any) error
}

// scanNote scans a single note from a *sql.Row.
func (r *SQLiteNoteRepo) scanNote(row *sql.Row) (*domain.Note, error) {
	n, err := r.scanInto(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("note: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning note: %w", err)
	}
	return n, nil
}

// scanNotes scans multiple notes from *sql.Rows.
func (r *SQLiteNoteRepo) scanNotes(rows *sql.Rows) ([]*domain.Note, error) {
	var notes []*domain.Note
	for rows.Next() {
		n, err := r.scanInto(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning note row: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notes: %w", err)
	}
	return notes, nil
}

func (r *SQLiteNoteRepo) scanInto(s noteScanner) (*domain.Note, error) {
	var n domain.Note
	var blockIndex sql.NullInt64
	var noteType string
	var pinned int
	var createdAtStr, updatedAtStr string

	err := s.Scan(
		&n.ID, &n.UserID, &n.LessonID, &blockIndex, &n.Text, &noteType, &pinned, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, err
	}
	return r.populateNote(&n, blockIndex, noteType, pinned, createdAtStr, updatedAtStr)
}

// populateNote fills in parsed fields on a Note after scanning raw values.
func (r *SQLiteNoteRepo) populateNote(n *domain.Note, blockIndex sql.NullInt64, noteType string, pinned int, createdAtStr, updatedAtStr string) (*domain.Note, error) {
	n.ContentBlockIndex = nullableIntFromSQL(blockIndex)
	n.NoteType = domain.NoteType(noteType)
	if n.NoteType == "" {
		n.NoteType = domain.NoteTypeFor(n.ContentBlockIndex)
	}
	n.IsPinned = intToBool(pinned)

	var err error
	if n.CreatedAt, err = parseTime("created_at", createdAtStr); err != nil {
		return nil, err
	}
	if n.UpdatedAt, err = parseTime("updated_at", updatedAtStr); err != nil {
		return nil, err
	}
	return n, nil
}
