package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ButyrinIA/socialclient/internal/storage"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStorage keeps the session token in a local SQLite file, the
// on-disk stand-in for browser local storage.
type SQLiteStorage struct {
	db *sql.DB
}

func New(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		PRAGMA busy_timeout = 5000;
		CREATE TABLE IF NOT EXISTS session_tokens (
			key TEXT PRIMARY KEY,
			token TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) Load(ctx context.Context, key string) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx, `SELECT token FROM session_tokens WHERE key = ?`, key).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrTokenNotFound
	}
	return token, err
}

func (s *SQLiteStorage) Save(ctx context.Context, key, token string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_tokens (key, token) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET token = excluded.token`, key, token)
	return err
}

func (s *SQLiteStorage) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session_tokens WHERE key = ?`, key)
	return err
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
