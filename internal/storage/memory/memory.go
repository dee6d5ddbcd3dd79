package memory

import (
	"context"
	"sync"

	"github.com/ButyrinIA/socialclient/internal/storage"
)

type MemoryStorage struct {
	tokens map[string]string
	mu     sync.RWMutex
}

func New() *MemoryStorage {
	return &MemoryStorage{
		tokens: make(map[string]string),
	}
}

func (s *MemoryStorage) Load(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, exists := s.tokens[key]
	if !exists {
		return "", storage.ErrTokenNotFound
	}
	return token, nil
}

func (s *MemoryStorage) Save(ctx context.Context, key, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[key] = token
	return nil
}

func (s *MemoryStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, key)
	return nil
}

func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens = make(map[string]string)
	return nil
}
