// Package coordinator runs the post and comment operations against the
// API and reconciles their results into the cache. Each coordinator is
// the only writer of its cache slice; every outcome is applied as a
// single transition, and nothing is written when a call fails.
package coordinator

import (
	"context"
	"fmt"

	"github.com/ButyrinIA/socialclient/internal/cache"
	"github.com/ButyrinIA/socialclient/internal/logger"
	"github.com/ButyrinIA/socialclient/internal/models"
	"go.uber.org/zap"
)

// Reader is the read-only view of a cache slice handed out to consumers.
type Reader[T any] interface {
	Get(id string) (T, bool)
	Len() int
	Scope(scope string) cache.ScopeState
	Page(scope string) []T
	Status() cache.Status
	Snapshot() cache.Snapshot[T]
}

// Reactor sends reactions and returns the authoritative counts.
type Reactor interface {
	React(ctx context.Context, target models.TargetType, id string, emoji models.Emoji) (models.Reactions, error)
}

// TokenSource attaches the signed-in user's token to a request context.
// *session.Store implements it.
type TokenSource interface {
	Context(ctx context.Context) context.Context
}

type Option func(*base)

func WithNotifier(n Notifier) Option {
	return func(b *base) {
		b.notifier = n
	}
}

// WithSession makes every API call carry the session token.
func WithSession(ts TokenSource) Option {
	return func(b *base) {
		b.session = ts
	}
}

// base holds what the post and comment coordinators share. Logs go to the
// logger carried by the call's context.
type base struct {
	notifier Notifier
	session  TokenSource
}

func newBase(opts []Option) base {
	b := base{notifier: NopNotifier{}}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *base) authed(ctx context.Context) context.Context {
	if b.session == nil {
		return ctx
	}
	return b.session.Context(ctx)
}

// failure records err on the slice, tells the user and returns it wrapped
// with op. The cached data is not touched.
func failure[T cache.Entity[T]](ctx context.Context, b *base, s *cache.Slice[T], op string, err error) error {
	_ = s.Dispatch(cache.Fail{Err: err.Error()})
	b.notifier.Error(err.Error())
	logger.FromContext(ctx).Warn("operation failed", zap.String("kind", s.Name()), zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s: %w", op, err)
}
