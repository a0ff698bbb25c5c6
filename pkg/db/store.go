package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// CreateRender inserts a render and returns its generated id.
func CreateRender(db DBExecutor, r Render) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	_, err := db.Exec(
		`INSERT INTO renders (id, title, source, svg, line_count, word_count, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Title, r.Source, r.SVG, r.LineCount, r.WordCount, r.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert render: %w", err)
	}
	return r.ID, nil
}

// CreateOrGetWord returns existing word id or inserts a new word and returns its id.
// A non-empty pronunciation replaces the stored one.
func CreateOrGetWord(db DBExecutor, word, pronunciation string) (int64, error) {
	trimmedWord := strings.TrimSpace(word)
	if trimmedWord == "" {
		return 0, fmt.Errorf("word must be non-empty")
	}

	var id int64
	query := `INSERT INTO words (word, pronunciation)
			  VALUES (?, ?)
			  ON CONFLICT(word)
			  DO UPDATE SET
			    pronunciation = COALESCE(NULLIF(excluded.pronunciation, ''), words.pronunciation)
			  RETURNING id`

	err := db.QueryRow(query, trimmedWord, pronunciation).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert word: %w", err)
	}
	return id, nil
}

// LinkWordToRender records incrementAmount occurrences of a word in a render.
func LinkWordToRender(db DBExecutor, wordID int64, renderID string, incrementAmount int) error {
	if wordID <= 0 {
		return fmt.Errorf("wordID must be positive")
	}
	if renderID == "" {
		return fmt.Errorf("renderID must be non-empty")
	}
	if incrementAmount < 1 {
		return fmt.Errorf("incrementAmount must be positive, got %d", incrementAmount)
	}

	_, err := db.Exec(`INSERT INTO render_words (render_id, word_id, occurrence_count)
	VALUES (?, ?, ?)
	ON CONFLICT(render_id, word_id) DO UPDATE SET
	  occurrence_count = render_words.occurrence_count + excluded.occurrence_count`,
		renderID, wordID, incrementAmount)
	return err
}

// SaveRender stores a render and its word occurrences in one transaction.
func SaveRender(conn *sql.DB, r Render, words []WordOccurrence) (string, error) {
	tx, err := conn.Begin()
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	id, err := CreateRender(tx, r)
	if err != nil {
		return "", err
	}
	for _, w := range words {
		wordID, err := CreateOrGetWord(tx, w.Word, w.Pronunciation)
		if err != nil {
			return "", fmt.Errorf("failed to persist word %s: %w", w.Word, err)
		}
		if err := LinkWordToRender(tx, wordID, id, w.Count); err != nil {
			return "", fmt.Errorf("failed to link word %d: %w", wordID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit render: %w", err)
	}
	return id, nil
}

// GetRender loads a render by id.
func GetRender(db DBExecutor, id string) (Render, error) {
	var r Render
	var title, source sql.NullString
	err := db.QueryRow(
		`SELECT id, title, source, svg, line_count, word_count, created_at FROM renders WHERE id = ?`, id,
	).Scan(&r.ID, &title, &source, &r.SVG, &r.LineCount, &r.WordCount, &r.CreatedAt)
	if err != nil {
		return Render{}, err
	}
	r.Title = title.String
	r.Source = source.String
	return r, nil
}

// GetWordsByRender returns the words of a render with their occurrence counts, by word.
func GetWordsByRender(db DBExecutor, renderID string) ([]RenderWord, error) {
	rows, err := db.Query(`SELECT w.id, w.word, w.pronunciation, rw.occurrence_count
		FROM words w JOIN render_words rw ON rw.word_id = w.id
		WHERE rw.render_id = ? ORDER BY w.word`, renderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RenderWord
	for rows.Next() {
		var rw RenderWord
		var pron sql.NullString
		if err := rows.Scan(&rw.ID, &rw.Word.Word, &pron, &rw.OccurrenceCount); err != nil {
			return nil, err
		}
		if pron.Valid {
			rw.Pronunciation = pron.String
		}
		out = append(out, rw)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
