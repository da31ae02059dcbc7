package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/agri-alert-impact/internal/domain"
	"github.com/couchcryptid/agri-alert-impact/internal/observability"
	"github.com/jonboulle/clockwork"
)

// WeatherBoard polls a WeatherProvider for every region on an interval and
// holds the latest good observation per region. A failed fetch keeps the
// previous observation; a region that has never succeeded is simply absent.
type WeatherBoard struct {
	provider domain.WeatherProvider
	regions  []domain.Region
	clock    clockwork.Clock
	interval time.Duration
	spacing  time.Duration
	logger   *slog.Logger
	metrics  *observability.Metrics

	mu           sync.RWMutex
	observations map[string]domain.Observation
	updated      chan struct{}
}

// WeatherBoardOption configures a WeatherBoard.
type WeatherBoardOption func(*WeatherBoard)

// WithClock overrides the board's time source.
func WithClock(c clockwork.Clock) WeatherBoardOption {
	return func(b *WeatherBoard) { b.clock = c }
}

// WithRequestSpacing sets the pause between consecutive region fetches.
func WithRequestSpacing(d time.Duration) WeatherBoardOption {
	return func(b *WeatherBoard) { b.spacing = d }
}

// NewWeatherBoard creates a board that refreshes every interval.
func NewWeatherBoard(provider domain.WeatherProvider, regions []domain.Region, interval time.Duration, logger *slog.Logger, metrics *observability.Metrics, opts ...WeatherBoardOption) *WeatherBoard {
	b := &WeatherBoard{
		provider:     provider,
		regions:      regions,
		clock:        clockwork.NewRealClock(),
		interval:     interval,
		logger:       logger,
		metrics:      metrics,
		observations: make(map[string]domain.Observation, len(regions)),
		updated:      make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run refreshes immediately and then on every tick until ctx is cancelled.
func (b *WeatherBoard) Run(ctx context.Context) {
	b.metrics.WeatherEnabled.Set(1)
	defer b.metrics.WeatherEnabled.Set(0)

	b.Refresh(ctx)

	ticker := b.clock.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			b.Refresh(ctx)
		}
	}
}

// Refresh fetches every region once, sequentially, and returns how many
// fetches succeeded.
func (b *WeatherBoard) Refresh(ctx context.Context) int {
	ok := 0
	for i, region := range b.regions {
		if i > 0 && b.spacing > 0 {
			select {
			case <-ctx.Done():
				return ok
			case <-b.clock.After(b.spacing):
			}
		}
		if ctx.Err() != nil {
			return ok
		}

		obs, err := b.provider.Current(ctx, region)
		if err != nil {
			b.logger.Warn("weather fetch failed, keeping last observation",
				"region", region.Name, "error", err)
			continue
		}
		obs.Region = region.Name
		if obs.ObservedAt.IsZero() {
			obs.ObservedAt = b.clock.Now().UTC()
		}

		b.mu.Lock()
		b.observations[region.Name] = obs
		live := len(b.observations)
		b.mu.Unlock()

		b.metrics.WeatherRegionsLive.Set(float64(live))
		ok++
	}
	b.logger.Debug("weather refreshed", "succeeded", ok, "regions", len(b.regions))
	if ok > 0 {
		select {
		case b.updated <- struct{}{}:
		default:
		}
	}
	return ok
}

// Updated receives a value after a refresh that stored at least one new
// observation. Signals coalesce while nobody is reading.
func (b *WeatherBoard) Updated() <-chan struct{} {
	return b.updated
}

// Snapshots returns the current conditions keyed by region name.
func (b *WeatherBoard) Snapshots() map[string]domain.WeatherSnapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[string]domain.WeatherSnapshot, len(b.observations))
	for name, obs := range b.observations {
		out[name] = obs.Snapshot()
	}
	return out
}

// Observations returns the full observations in region table order.
func (b *WeatherBoard) Observations() []domain.Observation {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]domain.Observation, 0, len(b.observations))
	for _, region := range b.regions {
		if obs, ok := b.observations[region.Name]; ok {
			out = append(out, obs)
		}
	}
	return out
}
