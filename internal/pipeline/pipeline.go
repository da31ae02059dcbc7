package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/agri-alert-impact/internal/domain"
	"github.com/couchcryptid/agri-alert-impact/internal/observability"
)

// BatchExtractor reads up to batchSize raw events from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer converts a raw event into a validated incident record.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.IncidentRecord, error)
}

// IncidentStore is the incident log the pipeline folds new records into.
type IncidentStore interface {
	Merge(records []domain.IncidentRecord) []domain.IncidentRecord
	Append(records ...domain.IncidentRecord) int
	Snapshot() []domain.IncidentRecord
}

// WeatherSource supplies the current conditions per region name. Updated
// receives a value whenever the conditions have changed.
type WeatherSource interface {
	Snapshots() map[string]domain.WeatherSnapshot
	Updated() <-chan struct{}
}

// BatchLoader writes the recomputed region impacts to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, impacts []domain.RegionImpact) error
}

// Pipeline orchestrates the extract-aggregate-load loop. Each batch of
// incidents is merged into the log, the full log is re-aggregated, and the
// resulting region impacts are published. The log is also published once at
// startup and again whenever the weather source reports new conditions.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	store       IncidentStore
	weather     WeatherSource
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	batchSize   int
}

// New creates a Pipeline with the given stages and observability. A nil
// weather source means every region gets the default conditions.
func New(e BatchExtractor, t Transformer, s IncidentStore, w WeatherSource, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		store:       s,
		weather:     w,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// CheckReadiness returns nil once the pipeline has published impacts at
// least once.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not published any impacts yet")
	}
	return nil
}

// Run executes the batch loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	backoff := initialBackoff

	if !p.republish(ctx, &backoff, "startup") {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processBatch(ctx, &backoff) {
			return nil
		}
	}
}

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// processBatch runs one extract-aggregate-load cycle. Returns false if the pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context, backoff *time.Duration) bool {
	if p.weatherUpdated() && !p.republish(ctx, backoff, "weather refreshed") {
		return false
	}

	start := time.Now()

	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("extract batch failed", "error", err)
		return p.backoffOrStop(ctx, backoff)
	}

	if len(rawBatch) == 0 {
		return ctx.Err() == nil
	}

	p.metrics.MessagesConsumed.Add(float64(len(rawBatch)))
	p.metrics.BatchSize.Observe(float64(len(rawBatch)))
	*backoff = initialBackoff

	published, ok := p.aggregateAndLoad(ctx, rawBatch, backoff)
	if !ok {
		return false
	}

	if published {
		p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
		p.ready.Store(true)
	}
	return true
}

// aggregateAndLoad transforms each message, re-aggregates the incident log
// with the accepted records, publishes the impacts, and only then appends the
// records and commits offsets. A failed load is retried with the same records
// until it succeeds or ctx is cancelled.
func (p *Pipeline) aggregateAndLoad(ctx context.Context, rawBatch []domain.RawEvent, backoff *time.Duration) (bool, bool) {
	records := make([]domain.IncidentRecord, 0, len(rawBatch))
	accepted := make([]domain.RawEvent, 0, len(rawBatch))

	for _, raw := range rawBatch {
		rec, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Warn("transform failed, skipping message",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.TransformErrors.Inc()
			p.commitOffset(ctx, raw)
			continue
		}
		records = append(records, rec)
		accepted = append(accepted, raw)
	}

	if len(records) == 0 {
		return false, true
	}

	merged := p.store.Merge(records)
	impacts, ok := p.load(ctx, merged, backoff)
	if !ok {
		return false, false
	}

	added := p.store.Append(records...)
	p.logger.Debug("impacts published", "new_incidents", added, "regions", len(impacts))

	for _, raw := range accepted {
		p.commitOffset(ctx, raw)
	}

	return true, true
}

// republish aggregates and publishes the incident log as it stands. An empty
// log publishes nothing. Returns false if the pipeline should stop.
func (p *Pipeline) republish(ctx context.Context, backoff *time.Duration, reason string) bool {
	records := p.store.Snapshot()
	if len(records) == 0 {
		return ctx.Err() == nil
	}

	impacts, ok := p.load(ctx, records, backoff)
	if !ok {
		return false
	}
	p.logger.Info("impacts republished", "reason", reason, "incidents", len(records), "regions", len(impacts))
	p.ready.Store(true)
	return true
}

// load aggregates records with the current weather and hands the impacts to
// the loader, backing off between attempts until one succeeds. Returns false
// only when ctx is cancelled.
func (p *Pipeline) load(ctx context.Context, records []domain.IncidentRecord, backoff *time.Duration) ([]domain.RegionImpact, bool) {
	for {
		impacts := domain.Aggregate(records, p.snapshots())
		err := p.loader.LoadBatch(ctx, impacts)
		if err == nil {
			*backoff = initialBackoff
			p.metrics.ImpactsProduced.Add(float64(len(impacts)))
			p.metrics.IncidentsTracked.Set(float64(len(records)))
			p.metrics.RegionsTracked.Set(float64(len(impacts)))
			return impacts, true
		}

		p.logger.Error("load batch failed, retrying", "error", err, "regions", len(impacts), "backoff", *backoff)
		if !p.backoffOrStop(ctx, backoff) {
			return nil, false
		}
	}
}

func (p *Pipeline) weatherUpdated() bool {
	if p.weather == nil {
		return false
	}
	select {
	case <-p.weather.Updated():
		return true
	default:
		return false
	}
}

func (p *Pipeline) snapshots() map[string]domain.WeatherSnapshot {
	if p.weather == nil {
		return nil
	}
	return p.weather.Snapshots()
}

// backoffOrStop checks for context cancellation, sleeps with the current backoff,
// and advances the backoff. Returns false if the pipeline should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = nextBackoff(*backoff, maxBackoff)
	return true
}

// commitOffset commits the message offset if a commit function is available.
func (p *Pipeline) commitOffset(ctx context.Context, raw domain.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
