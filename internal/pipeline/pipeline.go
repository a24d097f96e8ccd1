package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/kebabish-pizza/geocoding-service/internal/observability"
	"github.com/kebabish-pizza/geocoding-service/internal/order"
)

// BatchConsumer reads up to batchSize raw order events from the source.
type BatchConsumer interface {
	ConsumeBatch(ctx context.Context, batchSize int) ([]order.RawEvent, error)
}

// Enricher converts a raw order event into an output event.
type Enricher interface {
	Enrich(ctx context.Context, raw order.RawEvent) (order.OutputEvent, error)
}

// BatchProducer writes multiple output events to the destination.
type BatchProducer interface {
	ProduceBatch(ctx context.Context, events []order.OutputEvent) error
}

// Worker orchestrates the consume-enrich-produce loop for placed orders.
type Worker struct {
	consumer  BatchConsumer
	enricher  Enricher
	producer  BatchProducer
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
	batchSize int
}

// New creates a Worker with the given stages and observability.
func New(c BatchConsumer, e Enricher, p BatchProducer, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Worker {
	return &Worker{
		consumer:  c,
		enricher:  e,
		producer:  p,
		logger:    logger,
		metrics:   metrics,
		batchSize: batchSize,
	}
}

// CheckReadiness returns nil if the worker has processed at least one order,
// or an error describing why the service is not yet ready.
func (w *Worker) CheckReadiness(_ context.Context) error {
	if !w.ready.Load() {
		return errors.New("worker has not processed any orders yet")
	}
	return nil
}

// Run executes the batch enrichment loop until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("order worker started", "batch_size", w.batchSize)
	w.metrics.WorkerRunning.Set(1)
	defer w.metrics.WorkerRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("order worker stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !w.processBatch(ctx, &backoff, maxBackoff) {
			return nil
		}
	}
}

// processBatch runs one consume-enrich-produce cycle. Returns false if the worker should stop.
func (w *Worker) processBatch(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	start := time.Now()

	rawBatch, err := w.consumer.ConsumeBatch(ctx, w.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		w.logger.Error("consume batch failed", "error", err)
		return w.backoffOrStop(ctx, backoff, maxBackoff)
	}

	if len(rawBatch) == 0 {
		return ctx.Err() == nil
	}

	w.metrics.OrdersConsumed.Add(float64(len(rawBatch)))
	w.metrics.BatchSize.Observe(float64(len(rawBatch)))
	*backoff = 200 * time.Millisecond

	produced, ok := w.enrichAndProduce(ctx, rawBatch, backoff, maxBackoff)
	if !ok {
		return false
	}

	if produced > 0 {
		w.metrics.BatchDuration.Observe(time.Since(start).Seconds())
		w.ready.Store(true)
	}
	return true
}

// enrichAndProduce enriches each order in the batch, produces the successes,
// and commits offsets. Returns the number of successfully produced orders and
// false if the worker should stop.
func (w *Worker) enrichAndProduce(ctx context.Context, rawBatch []order.RawEvent, backoff *time.Duration, maxBackoff time.Duration) (int, bool) {
	outBatch := make([]order.OutputEvent, 0, len(rawBatch))
	successfulRaws := make([]order.RawEvent, 0, len(rawBatch))

	for _, raw := range rawBatch {
		out, err := w.enricher.Enrich(ctx, raw)
		if err != nil {
			w.logger.Warn("enrich failed, skipping order",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			w.metrics.EnrichErrors.Inc()
			w.commitOffset(ctx, raw)
			continue
		}
		outBatch = append(outBatch, out)
		successfulRaws = append(successfulRaws, raw)
	}

	if len(outBatch) == 0 {
		return 0, true
	}

	if err := w.producer.ProduceBatch(ctx, outBatch); err != nil {
		w.logger.Error("produce batch failed", "error", err, "batch_size", len(outBatch))
		return 0, w.backoffOrStop(ctx, backoff, maxBackoff)
	}

	w.metrics.OrdersProduced.Add(float64(len(outBatch)))

	for _, raw := range successfulRaws {
		w.commitOffset(ctx, raw)
	}

	return len(outBatch), true
}

// backoffOrStop checks for context cancellation, sleeps with the current backoff,
// and advances the backoff. Returns false if the worker should stop.
func (w *Worker) backoffOrStop(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
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
func (w *Worker) commitOffset(ctx context.Context, raw order.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		w.logger.Warn("commit offset failed", "error", err,
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
