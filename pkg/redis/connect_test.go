package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepstack/entitlement/pkg/redis"
)

func testConfig(url string) redis.Config {
	return redis.Config{
		ConnectionURL:  url,
		RetryAttempts:  2,
		RetryInterval:  10 * time.Millisecond,
		ConnectTimeout: time.Second,
	}
}

func TestConnect(t *testing.T) {
	t.Parallel()

	t.Run("connects to a running server", func(t *testing.T) {
		t.Parallel()

		srv := miniredis.RunT(t)

		client, err := redis.Connect(context.Background(), testConfig("redis://"+srv.Addr()))
		require.NoError(t, err)
		defer client.Close()

		require.NoError(t, client.Ping(context.Background()).Err())
	})

	t.Run("invalid connection url", func(t *testing.T) {
		t.Parallel()

		_, err := redis.Connect(context.Background(), testConfig("not-a-url"))
		require.ErrorIs(t, err, redis.ErrFailedToParseRedisConnString)
	})

	t.Run("gives up when the server is unreachable", func(t *testing.T) {
		t.Parallel()

		// Port 1 is reserved and nothing listens on it.
		_, err := redis.Connect(context.Background(), testConfig("redis://127.0.0.1:1"))
		require.ErrorIs(t, err, redis.ErrRedisNotReady)
	})
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	srv := miniredis.RunT(t)

	client, err := redis.Connect(context.Background(), testConfig("redis://"+srv.Addr()))
	require.NoError(t, err)
	defer client.Close()

	check := redis.Healthcheck(client)
	require.NoError(t, check(context.Background()))

	srv.Close()
	err = check(context.Background())
	assert.ErrorIs(t, err, redis.ErrHealthcheckFailed)
}
