package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/ButyrinIA/socialclient/internal/api"
	"github.com/ButyrinIA/socialclient/internal/config"
	"github.com/ButyrinIA/socialclient/internal/coordinator"
	"github.com/ButyrinIA/socialclient/internal/logger"
	"github.com/ButyrinIA/socialclient/internal/reaction"
	"github.com/ButyrinIA/socialclient/internal/session"
	"github.com/ButyrinIA/socialclient/internal/storage"
	"github.com/ButyrinIA/socialclient/internal/storage/memory"
	"github.com/ButyrinIA/socialclient/internal/storage/postgres"
	"github.com/ButyrinIA/socialclient/internal/storage/redis"
	"github.com/ButyrinIA/socialclient/internal/storage/sqlite"
	"github.com/ButyrinIA/socialclient/internal/upload"
	"go.uber.org/zap"
)

// App is the fully wired client used by every command.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *api.Metrics
	Session  *session.Store
	Posts    *coordinator.Posts
	Comments *coordinator.Comments

	tokens storage.TokenStore
}

// NewApp builds the client from cfg and restores the persisted session.
// Notifications are printed to notify.
func NewApp(ctx context.Context, cfg *config.Config, notify io.Writer) (*App, error) {
	logCfg := logger.DefaultConfig()
	if cfg.Log.Level != "" {
		logCfg.Level = cfg.Log.Level
	}
	if cfg.Log.Format != "" {
		logCfg.Format = cfg.Log.Format
	}
	if cfg.Log.Output != "" {
		logCfg.Output = cfg.Log.Output
	}
	log, err := logger.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	metrics := api.NewMetrics()
	client, err := api.New(api.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		RateBurst: cfg.API.RateBurst,
		UserAgent: cfg.API.UserAgent,
	}, api.WithLogger(log.Named("api")), api.WithMetrics(metrics))
	if err != nil {
		return nil, err
	}

	tokens, err := openTokenStore(cfg.Session, log)
	if err != nil {
		return nil, err
	}

	uploader, err := openUploader(ctx, cfg.Upload, log)
	if err != nil {
		tokens.Close()
		return nil, err
	}

	sess := session.New(client, tokens,
		session.WithLogger(log.Named("session")),
		session.WithKey(cfg.Session.Key),
	)
	sess.Initialize(ctx)

	reactor := reaction.New(client, log.Named("reaction"))
	opts := []coordinator.Option{
		coordinator.WithNotifier(coordinator.NewWriterNotifier(notify)),
		coordinator.WithSession(sess),
	}

	return &App{
		Config:   cfg,
		Logger:   log,
		Metrics:  metrics,
		Session:  sess,
		Posts:    coordinator.NewPosts(client, reactor, uploader, cfg.Pagination.PostsPerPage, opts...),
		Comments: coordinator.NewComments(client, reactor, opts...),
		tokens:   tokens,
	}, nil
}

func (a *App) Close() error {
	_ = a.Logger.Sync()
	return a.tokens.Close()
}

// RequireUser returns the signed-in user or an error telling how to sign in.
func (a *App) RequireUser() (string, error) {
	user, err := a.Session.CurrentUser()
	if err != nil {
		return "", NewExitError(ExitCommandError, "not signed in, run `socialctl login` first")
	}
	return user.ID, nil
}

func openTokenStore(cfg config.SessionConfig, log *zap.Logger) (storage.TokenStore, error) {
	switch cfg.Store {
	case "memory":
		return memory.New(), nil
	case "sqlite":
		log.Debug("opening sqlite token store", zap.String("path", cfg.SQLitePath))
		return sqlite.New(cfg.SQLitePath)
	case "postgres":
		log.Debug("opening postgres token store")
		return postgres.New(cfg.PostgresDSN)
	case "redis":
		log.Debug("opening redis token store", zap.String("host", cfg.Redis.Host))
		return redis.New(redisConfig(cfg.Redis))
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}
}

func redisConfig(cfg config.RedisConfig) redis.Config {
	return redis.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
		TTL:      cfg.TTL,
	}
}

func openUploader(ctx context.Context, cfg config.UploadConfig, log *zap.Logger) (upload.Uploader, error) {
	switch cfg.Provider {
	case "stub":
		return upload.NewStubUploader(cfg.BaseURL), nil
	case "s3":
		return upload.NewS3Uploader(ctx, upload.S3Config{
			Bucket:       cfg.Bucket,
			Region:       cfg.Region,
			Endpoint:     cfg.Endpoint,
			AccessKey:    cfg.AccessKey,
			SecretKey:    cfg.SecretKey,
			UsePathStyle: cfg.UsePathStyle,
			PublicURL:    cfg.BaseURL,
		}, upload.WithLogger(log.Named("upload")))
	default:
		return nil, fmt.Errorf("unknown upload provider %q", cfg.Provider)
	}
}
