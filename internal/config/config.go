package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	API        APIConfig
	Pagination PaginationConfig
	Session    SessionConfig
	Upload     UploadConfig
	Log        LogConfig
	Inspect    InspectConfig
}

type APIConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 disables limiting
	RateBurst int
	UserAgent string
}

type PaginationConfig struct {
	PostsPerPage    int
	CommentsPerPost int
}

type SessionConfig struct {
	Store       string // memory, sqlite, postgres, redis
	Key         string
	SQLitePath  string
	PostgresDSN string
	Redis       RedisConfig
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration // 0 keeps tokens until logout
}

type UploadConfig struct {
	Provider     string // stub, s3
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
	BaseURL      string
}

type LogConfig struct {
	Level  string
	Format string
	Output string
}

type InspectConfig struct {
	Port string
}

// Load reads configuration from path. A missing file is not an error.
// Priority (highest to lowest):
// 1. Environment variables with SOCIAL_ prefix (e.g., SOCIAL_API_BASE_URL)
// 2. the YAML file at path
// 3. Built-in defaults
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("SOCIAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		API: APIConfig{
			BaseURL:   v.GetString("api.base_url"),
			Timeout:   v.GetDuration("api.timeout"),
			RateLimit: v.GetFloat64("api.rate_limit"),
			RateBurst: v.GetInt("api.rate_burst"),
			UserAgent: v.GetString("api.user_agent"),
		},
		Pagination: PaginationConfig{
			PostsPerPage:    v.GetInt("pagination.posts_per_page"),
			CommentsPerPost: v.GetInt("pagination.comments_per_post"),
		},
		Session: SessionConfig{
			Store:       v.GetString("session.store"),
			Key:         v.GetString("session.key"),
			SQLitePath:  v.GetString("session.sqlite_path"),
			PostgresDSN: v.GetString("session.postgres_dsn"),
			Redis: RedisConfig{
				Host:     v.GetString("session.redis.host"),
				Port:     v.GetInt("session.redis.port"),
				Password: v.GetString("session.redis.password"),
				DB:       v.GetInt("session.redis.db"),
				TTL:      v.GetDuration("session.redis.ttl"),
			},
		},
		Upload: UploadConfig{
			Provider:     v.GetString("upload.provider"),
			Bucket:       v.GetString("upload.bucket"),
			Region:       v.GetString("upload.region"),
			Endpoint:     v.GetString("upload.endpoint"),
			AccessKey:    v.GetString("upload.access_key"),
			SecretKey:    v.GetString("upload.secret_key"),
			UsePathStyle: v.GetBool("upload.use_path_style"),
			BaseURL:      v.GetString("upload.base_url"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Inspect: InspectConfig{
			Port: v.GetString("inspect.port"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:8000/api")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.rate_limit", 0)
	v.SetDefault("api.rate_burst", 1)
	v.SetDefault("api.user_agent", "socialctl/1.0")
	v.SetDefault("pagination.posts_per_page", 2)
	v.SetDefault("pagination.comments_per_post", 3)
	v.SetDefault("session.store", "sqlite")
	v.SetDefault("session.key", "accessToken")
	v.SetDefault("session.sqlite_path", "socialctl.db")
	v.SetDefault("session.redis.host", "localhost")
	v.SetDefault("session.redis.port", 6379)
	v.SetDefault("upload.provider", "stub")
	v.SetDefault("upload.region", "us-east-1")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("inspect.port", "8090")
}

// Validate checks the values the client cannot run without.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	if c.Pagination.PostsPerPage <= 0 {
		return fmt.Errorf("pagination.posts_per_page must be positive, got %d", c.Pagination.PostsPerPage)
	}
	if c.Pagination.CommentsPerPost <= 0 {
		return fmt.Errorf("pagination.comments_per_post must be positive, got %d", c.Pagination.CommentsPerPost)
	}
	switch c.Session.Store {
	case "memory", "sqlite", "postgres", "redis":
	default:
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}
	if c.Session.Store == "postgres" && c.Session.PostgresDSN == "" {
		return errors.New("session.postgres_dsn is required for the postgres store")
	}
	if c.Session.Redis.TTL < 0 {
		return fmt.Errorf("session.redis.ttl must not be negative, got %s", c.Session.Redis.TTL)
	}
	switch c.Upload.Provider {
	case "stub", "s3":
	default:
		return fmt.Errorf("unknown upload provider %q", c.Upload.Provider)
	}
	return nil
}
