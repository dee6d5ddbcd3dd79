// Package server exposes the client's in-memory state over HTTP for
// inspection: session, cached posts and comments, and request metrics.
// It is read-only.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ButyrinIA/socialclient/internal/config"
	"github.com/ButyrinIA/socialclient/internal/coordinator"
	"github.com/ButyrinIA/socialclient/internal/models"
	"github.com/ButyrinIA/socialclient/internal/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionView reports the current session state.
type SessionView interface {
	State() session.State
}

type Deps struct {
	Session  SessionView
	Posts    coordinator.Reader[*models.Post]
	Comments coordinator.Reader[*models.Comment]
	// Metrics serves /metrics when set.
	Metrics http.Handler
	Logger  *zap.Logger
}

type Server struct {
	cfg     config.InspectConfig
	deps    Deps
	handler *gin.Engine
}

func New(cfg config.InspectConfig, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	s := &Server{cfg: cfg, deps: deps}
	s.handler = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.deps.Logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/session", s.getSession)

	state := r.Group("/state")
	state.GET("/posts", s.getPosts)
	state.GET("/posts/:userId", s.getUserPosts)
	state.GET("/comments", s.getComments)
	state.GET("/comments/:postId", s.getPostComments)

	if s.deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(s.deps.Metrics))
	}
	return r
}

func (s *Server) getSession(c *gin.Context) {
	if s.deps.Session == nil {
		c.JSON(http.StatusOK, session.State{})
		return
	}
	c.JSON(http.StatusOK, s.deps.Session.State())
}

func (s *Server) getPosts(c *gin.Context) {
	if s.deps.Posts == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "posts are not tracked"})
		return
	}
	c.JSON(http.StatusOK, s.deps.Posts.Snapshot())
}

func (s *Server) getUserPosts(c *gin.Context) {
	if s.deps.Posts == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "posts are not tracked"})
		return
	}
	userID := c.Param("userId")
	c.JSON(http.StatusOK, gin.H{
		"scope":  s.deps.Posts.Scope(userID),
		"items":  nonNil(s.deps.Posts.Page(userID)),
		"status": s.deps.Posts.Status(),
	})
}

func (s *Server) getComments(c *gin.Context) {
	if s.deps.Comments == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "comments are not tracked"})
		return
	}
	c.JSON(http.StatusOK, s.deps.Comments.Snapshot())
}

func (s *Server) getPostComments(c *gin.Context) {
	if s.deps.Comments == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "comments are not tracked"})
		return
	}
	postID := c.Param("postId")
	c.JSON(http.StatusOK, gin.H{
		"scope":  s.deps.Comments.Scope(postID),
		"items":  nonNil(s.deps.Comments.Page(postID)),
		"status": s.deps.Comments.Status(),
	})
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.deps.Logger.Info("inspect server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.deps.Logger.Info("inspect server stopped")
	return nil
}
