package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/ButyrinIA/socialclient/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisStorage(t *testing.T) {
	if testing.Short() {
		t.Skip("requires Docker")
	}

	ctx := context.Background()
	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	defer redisC.Terminate(ctx)

	host, err := redisC.Host(ctx)
	require.NoError(t, err)
	port, err := redisC.MappedPort(ctx, "6379")
	require.NoError(t, err)
	portNum, err := strconv.Atoi(port.Port())
	require.NoError(t, err)

	store, err := New(Config{Host: host, Port: portNum})
	require.NoError(t, err)
	defer store.Close()

	t.Run("Save and Load", func(t *testing.T) {
		assert.NoError(t, store.Save(ctx, "accessToken", "tok-1"))
		token, err := store.Load(ctx, "accessToken")
		assert.NoError(t, err)
		assert.Equal(t, "tok-1", token)
	})

	t.Run("Delete", func(t *testing.T) {
		assert.NoError(t, store.Save(ctx, "gone", "tok-1"))
		assert.NoError(t, store.Delete(ctx, "gone"))
		_, err := store.Load(ctx, "gone")
		assert.ErrorIs(t, err, storage.ErrTokenNotFound)
	})

	t.Run("TTL", func(t *testing.T) {
		short := NewWithClient(store.client, time.Second)
		assert.NoError(t, short.Save(ctx, "short", "tok-1"))

		ttl, err := store.client.TTL(ctx, keyPrefix+"short").Result()
		assert.NoError(t, err)
		assert.True(t, ttl > 0 && ttl <= time.Second)
	})
}
