// Package upload moves post attachments to external object storage and
// hands back the URL the API stores.
package upload

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/ButyrinIA/socialclient/internal/models"
	"github.com/google/uuid"
)

var (
	ErrEmptyAttachment = errors.New("attachment has no data")
	ErrNoUploader      = errors.New("no uploader configured")
)

// Uploader stores attachment bytes and returns their public URL.
type Uploader interface {
	Upload(ctx context.Context, att models.Attachment) (string, error)
}

// Resolve returns the URL the API should receive for att: "" for no
// attachment, the stored URL unchanged, or the URL of a fresh upload.
func Resolve(ctx context.Context, u Uploader, att *models.Attachment) (string, error) {
	switch {
	case att == nil:
		return "", nil
	case att.Stored():
		return att.URL, nil
	case len(att.Data) == 0:
		return "", ErrEmptyAttachment
	case u == nil:
		return "", ErrNoUploader
	}
	return u.Upload(ctx, *att)
}

// objectKey builds a unique storage key that keeps the file extension.
func objectKey(att models.Attachment) string {
	ext := strings.ToLower(path.Ext(att.Filename))
	return "posts/" + uuid.New().String() + ext
}
