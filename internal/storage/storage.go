package storage

import (
	"context"
	"errors"
)

var ErrTokenNotFound = errors.New("token not found")

// TokenStore persists the session token under a fixed key.
type TokenStore interface {
	Load(ctx context.Context, key string) (string, error)
	Save(ctx context.Context, key, token string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
