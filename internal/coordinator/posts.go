package coordinator

import (
	"context"

	"github.com/ButyrinIA/socialclient/internal/cache"
	"github.com/ButyrinIA/socialclient/internal/logger"
	"github.com/ButyrinIA/socialclient/internal/models"
	"github.com/ButyrinIA/socialclient/internal/upload"
	"go.uber.org/zap"
)

const (
	MsgPostDeleted = "Post deleted successfully!"
	MsgPostUpdated = "Post updated successfully!"
)

// PostsAPI is the part of the REST API used for posts.
type PostsAPI interface {
	ListUserPosts(ctx context.Context, userID string, page, limit int) (*models.PostPage, error)
	CreatePost(ctx context.Context, content, image string) (*models.Post, error)
	UpdatePost(ctx context.Context, postID, content, image string) (*models.Post, error)
	DeletePost(ctx context.Context, postID string) error
}

// Posts coordinates post operations. Posts are scoped by author id.
type Posts struct {
	base
	api      PostsAPI
	reactor  Reactor
	uploader upload.Uploader
	cache    *cache.Slice[*models.Post]
}

// NewPosts creates a coordinator with an empty cache whose created-post
// window is pageSize.
func NewPosts(client PostsAPI, reactor Reactor, uploader upload.Uploader, pageSize int, opts ...Option) *Posts {
	return &Posts{
		base:     newBase(opts),
		api:      client,
		reactor:  reactor,
		uploader: uploader,
		cache:    cache.New[*models.Post]("posts", pageSize),
	}
}

func (p *Posts) View() Reader[*models.Post] {
	return p.cache
}

func (p *Posts) fail(ctx context.Context, op string, err error) error {
	return failure(ctx, &p.base, p.cache, op, err)
}

// FetchPage loads one page of userID's posts. Page 1 replaces the scope.
func (p *Posts) FetchPage(ctx context.Context, userID string, page, limit int) error {
	if page < 1 {
		page = 1
	}
	seq := p.cache.NextSeq()
	_ = p.cache.Dispatch(cache.StartLoading{})

	res, err := p.api.ListUserPosts(p.authed(ctx), userID, page, limit)
	if err != nil {
		return p.fail(ctx, "fetch posts", err)
	}

	_ = p.cache.Dispatch(cache.UpsertPage[*models.Post]{
		Scope: userID,
		Items: res.Posts,
		Total: res.Count,
		Page:  page,
		Reset: page == 1,
		Seq:   seq,
	})
	logger.FromContext(ctx).Debug("posts page loaded",
		zap.String("user_id", userID),
		zap.Int("page", page),
		zap.Int("items", len(res.Posts)),
		zap.Int("total", res.Count),
	)
	return nil
}

// Create uploads the draft image, if any, and publishes the post at the
// head of userID's list.
func (p *Posts) Create(ctx context.Context, userID string, draft models.PostDraft) (*models.Post, error) {
	_ = p.cache.Dispatch(cache.StartLoading{})
	ctx = p.authed(ctx)

	image, err := upload.Resolve(ctx, p.uploader, draft.Image)
	if err != nil {
		return nil, p.fail(ctx, "upload attachment", err)
	}
	post, err := p.api.CreatePost(ctx, draft.Content, image)
	if err != nil {
		return nil, p.fail(ctx, "create post", err)
	}

	_ = p.cache.Dispatch(cache.UpsertCreated[*models.Post]{Scope: userID, Item: post})
	return post.Clone(), nil
}

// Edit replaces the content and image of postID. An image that is not yet
// stored is uploaded first.
func (p *Posts) Edit(ctx context.Context, postID string, draft models.PostDraft) (*models.Post, error) {
	_ = p.cache.Dispatch(cache.StartLoading{})
	ctx = p.authed(ctx)

	image, err := upload.Resolve(ctx, p.uploader, draft.Image)
	if err != nil {
		return nil, p.fail(ctx, "upload attachment", err)
	}
	post, err := p.api.UpdatePost(ctx, postID, draft.Content, image)
	if err != nil {
		return nil, p.fail(ctx, "edit post", err)
	}

	_ = p.cache.Dispatch(cache.UpdateFields[*models.Post]{ID: postID, Patch: post})
	p.notifier.Success(MsgPostUpdated)
	return post.Clone(), nil
}

// Delete removes postID from userID's list once the API confirms it.
// Asking the user for confirmation is the caller's job.
func (p *Posts) Delete(ctx context.Context, userID, postID string) error {
	_ = p.cache.Dispatch(cache.StartLoading{})

	if err := p.api.DeletePost(p.authed(ctx), postID); err != nil {
		return p.fail(ctx, "delete post", err)
	}

	_ = p.cache.Dispatch(cache.Remove{Scope: userID, ID: postID})
	p.notifier.Success(MsgPostDeleted)
	return nil
}

// React replaces the cached counts of postID with the server's.
func (p *Posts) React(ctx context.Context, postID string, emoji models.Emoji) (models.Reactions, error) {
	_ = p.cache.Dispatch(cache.StartLoading{})

	counts, err := p.reactor.React(p.authed(ctx), models.TargetPost, postID, emoji)
	if err != nil {
		return models.Reactions{}, p.fail(ctx, "react to post", err)
	}

	_ = p.cache.Dispatch(cache.UpdateReactions{ID: postID, Reactions: counts})
	return counts, nil
}
