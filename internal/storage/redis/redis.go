package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ButyrinIA/socialclient/internal/storage"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "socialclient:session:"

type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	// TTL bounds how long a saved token survives in Redis; 0 keeps it
	// until it is deleted.
	TTL time.Duration
}

type RedisStorage struct {
	client *goredis.Client
	ttl    time.Duration
}

func New(cfg Config) (*RedisStorage, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStorage{client: client, ttl: cfg.TTL}, nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *goredis.Client, ttl time.Duration) *RedisStorage {
	return &RedisStorage{client: client, ttl: ttl}
}

func (s *RedisStorage) Load(ctx context.Context, key string) (string, error) {
	token, err := s.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", storage.ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	return token, nil
}

func (s *RedisStorage) Save(ctx context.Context, key, token string) error {
	if err := s.client.Set(ctx, keyPrefix+key, token, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

func (s *RedisStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

func (s *RedisStorage) Close() error {
	return s.client.Close()
}
