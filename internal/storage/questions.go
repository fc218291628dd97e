// Package storage provides the append-only question store backing the matching engine.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// QuestionStore persists stored questions keyed by their position. Positions
// are assigned densely from zero in insertion order and mirror rows in the
// vector index; there is no update or delete.
type QuestionStore interface {
	// Append stores text at position. position must equal the current count;
	// anything else indicates the caller lost lock-step with the vector index.
	Append(ctx context.Context, position int, text string) error
	Get(ctx context.Context, position int) (string, error)
	// All returns every question ordered by position.
	All(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// SQLiteStore implements QuestionStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS questions (
		position INTEGER PRIMARY KEY,
		text TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Append stores text at position, enforcing dense insertion order.
func (s *SQLiteStore) Append(ctx context.Context, position int, text string) error {
	count, err := s.Count(ctx)
	if err != nil {
		return err
	}
	if position != count {
		return fmt.Errorf("append position %d does not match question count %d", position, count)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO questions (position, text) VALUES (?, ?)", position, text)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

// Get returns the question at position.
func (s *SQLiteStore) Get(ctx context.Context, position int) (string, error) {
	var text string
	err := s.db.QueryRowContext(ctx,
		"SELECT text FROM questions WHERE position = ?", position).Scan(&text)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("question %d not found", position)
	}
	if err != nil {
		return "", fmt.Errorf("get question %d: %w", position, err)
	}
	return text, nil
}

// All returns every question ordered by position.
func (s *SQLiteStore) All(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT text FROM questions ORDER BY position ASC")
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var questions []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, text)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return questions, nil
}

// Count returns the number of stored questions.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM questions").Scan(&count); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return count, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
