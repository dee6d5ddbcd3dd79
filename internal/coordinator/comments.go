package coordinator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ButyrinIA/socialclient/internal/cache"
	"github.com/ButyrinIA/socialclient/internal/logger"
	"github.com/ButyrinIA/socialclient/internal/models"
	"github.com/graph-gophers/dataloader/v7"
	"go.uber.org/zap"
)

// CommentsAPI is the part of the REST API used for comments.
type CommentsAPI interface {
	ListComments(ctx context.Context, postID string, page, limit int) (*models.CommentPage, error)
	CreateComment(ctx context.Context, postID, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, commentID string) error
}

// Comments coordinates comment operations. Comments are scoped by post id
// and have no page window: a new comment never evicts an older one.
type Comments struct {
	base
	api     CommentsAPI
	reactor Reactor
	cache   *cache.Slice[*models.Comment]
}

func NewComments(client CommentsAPI, reactor Reactor, opts ...Option) *Comments {
	return &Comments{
		base:    newBase(opts),
		api:     client,
		reactor: reactor,
		cache:   cache.New[*models.Comment]("comments", 0),
	}
}

func (c *Comments) View() Reader[*models.Comment] {
	return c.cache
}

func (c *Comments) fail(ctx context.Context, op string, err error) error {
	return failure(ctx, &c.base, c.cache, op, err)
}

func (c *Comments) FetchPage(ctx context.Context, postID string, page, limit int) error {
	if page < 1 {
		page = 1
	}
	seq := c.cache.NextSeq()
	_ = c.cache.Dispatch(cache.StartLoading{})

	res, err := c.api.ListComments(c.authed(ctx), postID, page, limit)
	if err != nil {
		return c.fail(ctx, "fetch comments", err)
	}

	c.applyPage(ctx, postID, page, res, seq)
	return nil
}

// applyPage merges a fetched page. The page number echoed by the API wins
// over the requested one when present.
func (c *Comments) applyPage(ctx context.Context, postID string, requested int, res *models.CommentPage, seq uint64) {
	page := requested
	if res.Page >= 1 {
		page = res.Page
	}
	_ = c.cache.Dispatch(cache.UpsertPage[*models.Comment]{
		Scope: postID,
		Items: res.Comments,
		Total: res.Count,
		Page:  page,
		Reset: requested == 1,
		Seq:   seq,
	})
	logger.FromContext(ctx).Debug("comments page loaded",
		zap.String("post_id", postID),
		zap.Int("page", page),
		zap.Int("items", len(res.Comments)),
		zap.Int("total", res.Count),
	)
}

// Create publishes a comment at the head of postID's list.
func (c *Comments) Create(ctx context.Context, postID, content string) (*models.Comment, error) {
	_ = c.cache.Dispatch(cache.StartLoading{})

	comment, err := c.api.CreateComment(c.authed(ctx), postID, content)
	if err != nil {
		return nil, c.fail(ctx, "create comment", err)
	}
	if comment.PostID == "" {
		comment.PostID = postID
	}

	_ = c.cache.Dispatch(cache.UpsertCreated[*models.Comment]{Scope: postID, Item: comment})
	return comment.Clone(), nil
}

func (c *Comments) Delete(ctx context.Context, postID, commentID string) error {
	_ = c.cache.Dispatch(cache.StartLoading{})

	if err := c.api.DeleteComment(c.authed(ctx), commentID); err != nil {
		return c.fail(ctx, "delete comment", err)
	}

	_ = c.cache.Dispatch(cache.Remove{Scope: postID, ID: commentID})
	return nil
}

func (c *Comments) React(ctx context.Context, commentID string, emoji models.Emoji) (models.Reactions, error) {
	_ = c.cache.Dispatch(cache.StartLoading{})

	counts, err := c.reactor.React(c.authed(ctx), models.TargetComment, commentID, emoji)
	if err != nil {
		return models.Reactions{}, c.fail(ctx, "react to comment", err)
	}

	_ = c.cache.Dispatch(cache.UpdateReactions{ID: commentID, Reactions: counts})
	return counts, nil
}

type prefetched struct {
	page *models.CommentPage
	seq  uint64
}

// Prefetch loads the first comment page of every post in postIDs, as
// shown under a rendered post list. Duplicate ids are fetched once. Pages
// that load are applied even when others fail; the joined error of the
// failures is returned.
func (c *Comments) Prefetch(ctx context.Context, postIDs []string, limit int) error {
	if len(postIDs) == 0 {
		return nil
	}
	_ = c.cache.Dispatch(cache.StartLoading{})
	ctx = c.authed(ctx)

	loader := dataloader.NewBatchedLoader(
		func(ctx context.Context, keys []string) []*dataloader.Result[prefetched] {
			results := make([]*dataloader.Result[prefetched], len(keys))
			var wg sync.WaitGroup
			for i, key := range keys {
				wg.Add(1)
				go func() {
					defer wg.Done()
					seq := c.cache.NextSeq()
					page, err := c.api.ListComments(ctx, key, 1, limit)
					if err != nil {
						results[i] = &dataloader.Result[prefetched]{Error: err}
						return
					}
					results[i] = &dataloader.Result[prefetched]{Data: prefetched{page: page, seq: seq}}
				}()
			}
			wg.Wait()
			return results
		},
		dataloader.WithWait[string, prefetched](time.Millisecond),
	)

	thunks := make(map[string]dataloader.Thunk[prefetched], len(postIDs))
	order := make([]string, 0, len(postIDs))
	for _, id := range postIDs {
		if _, ok := thunks[id]; ok {
			continue
		}
		thunks[id] = loader.Load(ctx, id)
		order = append(order, id)
	}

	var errs []error
	for _, id := range order {
		res, err := thunks[id]()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		c.applyPage(ctx, id, 1, res.page, res.seq)
	}

	if err := errors.Join(errs...); err != nil {
		return c.fail(ctx, "prefetch comments", err)
	}
	return nil
}
