//go:build integration

package rediscache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/agri-alert-impact/internal/domain"
	"github.com/couchcryptid/agri-alert-impact/internal/observability"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

type failingProvider struct {
	calls int
}

func (f *failingProvider) Current(context.Context, domain.Region) (domain.Observation, error) {
	f.calls++
	return domain.Observation{}, errors.New("upstream unavailable")
}

// startRedis runs a throwaway Redis and returns a client connected to it.
func startRedis(ctx context.Context, t *testing.T) *redis.Client {
	t.Helper()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err, "start redis container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)

	rdb := redis.NewClient(opts)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func newTestProvider(inner domain.WeatherProvider, rdb *redis.Client, ttl time.Duration) *Provider {
	return NewProvider(inner, rdb, ttl, observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestProvider_Redis(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	rdb := startRedis(ctx, t)
	require.NoError(t, newTestProvider(&countingProvider{}, rdb, time.Minute).Ping(ctx))

	t.Run("second read is served from redis", func(t *testing.T) {
		require.NoError(t, rdb.FlushDB(ctx).Err())
		inner := &countingProvider{}
		p := newTestProvider(inner, rdb, time.Minute)
		region := domain.Region{Name: "Mpumalanga"}

		first, err := p.Current(ctx, region)
		require.NoError(t, err)
		assert.Equal(t, 1, inner.calls)

		exists, err := rdb.Exists(ctx, keyPrefix+region.Name).Result()
		require.NoError(t, err)
		assert.Equal(t, int64(1), exists)

		second, err := p.Current(ctx, region)
		require.NoError(t, err)
		assert.Equal(t, 1, inner.calls)
		assert.Equal(t, first, second)
	})

	t.Run("entries carry the configured ttl", func(t *testing.T) {
		require.NoError(t, rdb.FlushDB(ctx).Err())
		p := newTestProvider(&countingProvider{}, rdb, 30*time.Second)

		_, err := p.Current(ctx, domain.Region{Name: "Limpopo"})
		require.NoError(t, err)

		ttl, err := rdb.TTL(ctx, keyPrefix+"Limpopo").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, 30*time.Second)
	})

	t.Run("undecodable value is replaced", func(t *testing.T) {
		require.NoError(t, rdb.FlushDB(ctx).Err())
		require.NoError(t, rdb.Set(ctx, keyPrefix+"Gauteng", "not json", time.Minute).Err())

		inner := &countingProvider{}
		p := newTestProvider(inner, rdb, time.Minute)

		obs, err := p.Current(ctx, domain.Region{Name: "Gauteng"})
		require.NoError(t, err)
		assert.Equal(t, 1, inner.calls)
		assert.Equal(t, "Fog", obs.Condition)

		_, err = p.Current(ctx, domain.Region{Name: "Gauteng"})
		require.NoError(t, err)
		assert.Equal(t, 1, inner.calls)
	})

	t.Run("upstream errors are not cached", func(t *testing.T) {
		require.NoError(t, rdb.FlushDB(ctx).Err())
		inner := &failingProvider{}
		p := newTestProvider(inner, rdb, time.Minute)

		_, err := p.Current(ctx, domain.Region{Name: "Free State"})
		require.Error(t, err)
		_, err = p.Current(ctx, domain.Region{Name: "Free State"})
		require.Error(t, err)
		assert.Equal(t, 2, inner.calls)

		exists, err := rdb.Exists(ctx, keyPrefix+"Free State").Result()
		require.NoError(t, err)
		assert.Equal(t, int64(0), exists)
	})
}
