package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ButyrinIA/socialclient/internal/models"
)

func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return q
}

type postBody struct {
	Content string `json:"content"`
	Image   string `json:"image,omitempty"`
}

type commentBody struct {
	Content string `json:"content"`
	PostID  string `json:"postId"`
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	err := c.do(ctx, request{Route: "/users/me", Method: http.MethodGet, Path: "/users/me"}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error) {
	var res models.AuthResult
	err := c.do(ctx, request{Route: "/auth/login", Method: http.MethodPost, Path: "/auth/login", Body: creds}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Register(ctx context.Context, reg models.Registration) (*models.AuthResult, error) {
	var res models.AuthResult
	err := c.do(ctx, request{Route: "/users", Method: http.MethodPost, Path: "/users", Body: reg}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ListUserPosts(ctx context.Context, userID string, page, limit int) (*models.PostPage, error) {
	var res models.PostPage
	err := c.do(ctx, request{
		Route:  "/posts/user/{userId}",
		Method: http.MethodGet,
		Path:   "/posts/user/" + url.PathEscape(userID),
		Query:  pageQuery(page, limit),
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) CreatePost(ctx context.Context, content, image string) (*models.Post, error) {
	var p models.Post
	err := c.do(ctx, request{
		Route:  "/posts",
		Method: http.MethodPost,
		Path:   "/posts",
		Body:   postBody{Content: content, Image: image},
	}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdatePost(ctx context.Context, postID, content, image string) (*models.Post, error) {
	var p models.Post
	err := c.do(ctx, request{
		Route:  "/posts/{id}",
		Method: http.MethodPut,
		Path:   "/posts/" + url.PathEscape(postID),
		Body:   postBody{Content: content, Image: image},
	}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeletePost(ctx context.Context, postID string) error {
	return c.do(ctx, request{
		Route:  "/posts/{id}",
		Method: http.MethodDelete,
		Path:   "/posts/" + url.PathEscape(postID),
	}, nil)
}

func (c *Client) ListComments(ctx context.Context, postID string, page, limit int) (*models.CommentPage, error) {
	var res models.CommentPage
	err := c.do(ctx, request{
		Route:  "/posts/{postId}/comments",
		Method: http.MethodGet,
		Path:   "/posts/" + url.PathEscape(postID) + "/comments",
		Query:  pageQuery(page, limit),
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) CreateComment(ctx context.Context, postID, content string) (*models.Comment, error) {
	var cm models.Comment
	err := c.do(ctx, request{
		Route:  "/comments",
		Method: http.MethodPost,
		Path:   "/comments",
		Body:   commentBody{Content: content, PostID: postID},
	}, &cm)
	if err != nil {
		return nil, err
	}
	return &cm, nil
}

func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	return c.do(ctx, request{
		Route:  "/comments/{id}",
		Method: http.MethodDelete,
		Path:   "/comments/" + url.PathEscape(commentID),
	}, nil)
}

func (c *Client) React(ctx context.Context, req models.ReactionRequest) (models.Reactions, error) {
	var r models.Reactions
	err := c.do(ctx, request{Route: "/reactions", Method: http.MethodPost, Path: "/reactions", Body: req}, &r)
	return r, err
}
