package broker

import (
	"context"
	"errors"
	"sync"
	"time"

	"main/internal/domain/entity/book"
	"main/internal/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// BatchConfig controls batching thresholds for captured records.
type BatchConfig struct {
	Size    int
	Timeout time.Duration
}

// capturedEvent pairs a normalized event with the capture fingerprint it
// will be stored under.
type capturedEvent struct {
	fingerprint string
	event       book.OrderEvent
}

// BatchWriter buffers normalized order events and flushes them into the
// audit store, grouped by capture fingerprint.
type BatchWriter struct {
	cfg    BatchConfig
	audit  interfaces.AuditRepository
	logger *logrus.Entry

	mu    sync.Mutex
	items []capturedEvent
	timer *time.Timer
	ctx   context.Context
}

// NewBatchWriter configures a batch writer over the audit repository.
func NewBatchWriter(cfg BatchConfig, audit interfaces.AuditRepository, logger *logrus.Logger) *BatchWriter {
	return &BatchWriter{
		cfg:    cfg,
		audit:  audit,
		logger: logger.WithField("component", "batch_writer"),
	}
}

// Run sets the base context for asynchronous flush operations.
func (b *BatchWriter) Run(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	b.mu.Lock()
	b.ctx = ctx
	b.mu.Unlock()
}

// Stop flushes the remaining buffer using the provided context.
func (b *BatchWriter) Stop(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	b.Run(ctx)
	return b.flushWithContext(ctx, b.takeBatch())
}

// Add appends one event under its capture fingerprint, flushing when the
// size threshold is reached.
func (b *BatchWriter) Add(fingerprint string, event book.OrderEvent) error {
	if fingerprint == "" {
		return errors.New("capture fingerprint is empty")
	}

	b.mu.Lock()
	ctx := b.ctx
	if ctx == nil {
		b.mu.Unlock()
		return errors.New("batch writer is not running")
	}
	if err := ctx.Err(); err != nil {
		b.mu.Unlock()
		return err
	}
	b.items = append(b.items, capturedEvent{fingerprint: fingerprint, event: event})
	var batch []capturedEvent
	limit := b.cfg.Size
	if limit <= 0 {
		limit = 1
	}
	if len(b.items) >= limit {
		batch = b.takeBatchLocked()
	} else if b.timer == nil && b.cfg.Timeout > 0 {
		b.startTimerLocked()
	}
	b.mu.Unlock()

	return b.flushWithContext(ctx, batch)
}

func (b *BatchWriter) startTimerLocked() {
	b.timer = time.AfterFunc(b.cfg.Timeout, func() {
		batch := b.takeBatch()
		if len(batch) == 0 {
			return
		}
		b.mu.Lock()
		ctx := b.ctx
		b.mu.Unlock()
		if err := b.flushWithContext(ctx, batch); err != nil {
			b.logger.WithError(err).Warn("batch flush failed")
		}
	})
}

func (b *BatchWriter) takeBatch() []capturedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.takeBatchLocked()
}

func (b *BatchWriter) takeBatchLocked() []capturedEvent {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	if len(b.items) == 0 {
		return nil
	}
	batch := make([]capturedEvent, len(b.items))
	copy(batch, b.items)
	b.items = b.items[:0]
	return batch
}

// flushWithContext stores one batch, grouped per fingerprint so each
// capture lands in its own transaction.
func (b *BatchWriter) flushWithContext(ctx context.Context, batch []capturedEvent) error {
	if len(batch) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	groups := make(map[string][]book.OrderEvent)
	for _, item := range batch {
		groups[item.fingerprint] = append(groups[item.fingerprint], item.event)
	}

	start := time.Now()
	var errs []error
	for fingerprint, events := range groups {
		if err := b.audit.StoreEvents(ctx, fingerprint, events); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	b.logger.WithFields(logrus.Fields{
		"size":    len(batch),
		"took_ms": time.Since(start).Milliseconds(),
	}).Debug("flushed batch")
	return nil
}
