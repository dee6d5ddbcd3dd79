package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ButyrinIA/socialclient/internal/storage"
	"github.com/jackc/pgx/v5"
)

type PostgresStorage struct {
	conn *pgx.Conn
}

func New(dsn string) (*PostgresStorage, error) {
	conn, err := pgx.Connect(context.Background(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	_, err = conn.Exec(context.Background(), `
		CREATE TABLE IF NOT EXISTS session_tokens (
			key TEXT PRIMARY KEY,
			token TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	if err != nil {
		conn.Close(context.Background())
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &PostgresStorage{conn: conn}, nil
}

func (s *PostgresStorage) Load(ctx context.Context, key string) (string, error) {
	var token string
	err := s.conn.QueryRow(ctx, `
		SELECT token
		FROM session_tokens
		WHERE key=$1`, key).Scan(&token)

	if errors.Is(err, pgx.ErrNoRows) {
		return "", storage.ErrTokenNotFound
	}
	return token, err
}

func (s *PostgresStorage) Save(ctx context.Context, key, token string) error {
	_, err := s.conn.Exec(ctx, `
		INSERT INTO session_tokens (key, token, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET token = EXCLUDED.token, updated_at = now()`,
		key, token)
	return err
}

func (s *PostgresStorage) Delete(ctx context.Context, key string) error {
	_, err := s.conn.Exec(ctx, `DELETE FROM session_tokens WHERE key=$1`, key)
	return err
}

func (s *PostgresStorage) Close() error {
	return s.conn.Close(context.Background())
}
