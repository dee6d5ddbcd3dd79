// Package reaction sends like/dislike reactions for posts and comments.
// Counts are server-authoritative: the caller overwrites its local copy
// with whatever React returns.
package reaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/ButyrinIA/socialclient/internal/models"
	"go.uber.org/zap"
)

var (
	ErrInvalidEmoji  = errors.New("invalid emoji")
	ErrInvalidTarget = errors.New("invalid reaction target")
)

// API is the reaction endpoint.
type API interface {
	React(ctx context.Context, req models.ReactionRequest) (models.Reactions, error)
}

type Reactor struct {
	api    API
	logger *zap.Logger
}

func New(client API, logger *zap.Logger) *Reactor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reactor{api: client, logger: logger}
}

// React issues exactly one reaction call and returns the new counts.
func (r *Reactor) React(ctx context.Context, target models.TargetType, id string, emoji models.Emoji) (models.Reactions, error) {
	if !target.Valid() || id == "" {
		return models.Reactions{}, fmt.Errorf("%w: %q %q", ErrInvalidTarget, target, id)
	}
	if !emoji.Valid() {
		return models.Reactions{}, fmt.Errorf("%w: %q", ErrInvalidEmoji, emoji)
	}

	counts, err := r.api.React(ctx, models.ReactionRequest{TargetType: target, TargetID: id, Emoji: emoji})
	if err != nil {
		return models.Reactions{}, err
	}
	r.logger.Debug("reaction applied",
		zap.String("target", string(target)),
		zap.String("id", id),
		zap.String("emoji", string(emoji)),
		zap.Int("like", counts.Like),
		zap.Int("dislike", counts.Dislike),
	)
	return counts, nil
}
