// Package rediscache shares weather observations between service replicas
// through Redis so a fleet polls the upstream API once per TTL.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/couchcryptid/agri-alert-impact/internal/domain"
	"github.com/couchcryptid/agri-alert-impact/internal/observability"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "weather:region:"

// Provider is a read-through WeatherProvider backed by Redis. Redis failures
// are logged and fall through to the inner provider.
type Provider struct {
	inner   domain.WeatherProvider
	rdb     *redis.Client
	ttl     time.Duration
	metrics *observability.Metrics
	logger  *slog.Logger
}

// Open creates a Redis client. An empty addr returns nil.
func Open(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
}

// NewProvider wraps inner with a Redis cache layer.
func NewProvider(inner domain.WeatherProvider, rdb *redis.Client, ttl time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Provider {
	return &Provider{inner: inner, rdb: rdb, ttl: ttl, metrics: metrics, logger: logger}
}

func (p *Provider) Current(ctx context.Context, region domain.Region) (domain.Observation, error) {
	key := keyPrefix + region.Name

	s, err := p.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		var obs domain.Observation
		if jerr := json.Unmarshal([]byte(s), &obs); jerr == nil {
			p.metrics.WeatherCache.WithLabelValues("redis", "hit").Inc()
			return obs, nil
		}
		p.logger.Warn("discarding undecodable cached weather", "key", key)
	case errors.Is(err, redis.Nil):
	default:
		p.logger.Warn("redis get failed", "key", key, "error", err)
	}
	p.metrics.WeatherCache.WithLabelValues("redis", "miss").Inc()

	obs, err := p.inner.Current(ctx, region)
	if err != nil {
		return obs, err
	}

	b, err := json.Marshal(obs)
	if err != nil {
		return obs, nil
	}
	if err := p.rdb.Set(ctx, key, b, p.ttl).Err(); err != nil {
		p.logger.Warn("redis set failed", "key", key, "error", err)
	}
	return obs, nil
}

// Ping checks connectivity.
func (p *Provider) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}
