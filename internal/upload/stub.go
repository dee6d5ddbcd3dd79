package upload

import (
	"context"
	"strings"
	"sync"

	"github.com/ButyrinIA/socialclient/internal/models"
)

// StubUploader keeps uploads in memory and returns URLs under BaseURL.
// Use it for development until a real storage backend is configured.
type StubUploader struct {
	BaseURL string

	mu      sync.Mutex
	objects map[string][]byte
}

func NewStubUploader(baseURL string) *StubUploader {
	if baseURL == "" {
		baseURL = "https://storage.example.com"
	}
	return &StubUploader{
		BaseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string][]byte),
	}
}

func (s *StubUploader) Upload(ctx context.Context, att models.Attachment) (string, error) {
	if len(att.Data) == 0 {
		return "", ErrEmptyAttachment
	}
	key := objectKey(att)

	s.mu.Lock()
	s.objects[key] = append([]byte(nil), att.Data...)
	s.mu.Unlock()

	return s.BaseURL + "/" + key, nil
}
