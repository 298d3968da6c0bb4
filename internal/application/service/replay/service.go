package replay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"main/internal/domain/entity/book"
	"main/internal/domain/interfaces"

	"github.com/sirupsen/logrus"
)

var (
	// ErrMalformedRecord aborts a whole replay: no partial results are
	// produced from an input with uncoercible identifier fields.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrInstrumentNotFound means normalization matched zero records for
	// the requested instrument.
	ErrInstrumentNotFound = errors.New("instrument not found")
	// ErrDuplicateInput means the input fingerprint was already stored;
	// the replay is skipped entirely.
	ErrDuplicateInput = errors.New("input already processed")

	errNoAuditStore = errors.New("audit repository is not configured")
)

// Service drives a full replay pass: normalization, the book fold, and
// the audit-store bookkeeping around it.
type Service struct {
	audit  interfaces.AuditRepository
	logger *logrus.Logger
}

// NewService wires the replay service. The audit repository may be nil,
// which disables deduplication and persistence.
func NewService(audit interfaces.AuditRepository, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{audit: audit, logger: logger}
}

// Replay normalizes the records, filters them to one instrument, and
// folds them into an aggregated, crossing-free summary. The returned
// events are the normalized rows a caller may persist.
func (s *Service) Replay(records []book.RawRecord, instrument string) (book.Summary, []book.OrderEvent, error) {
	events, err := s.normalize(records, instrument)
	if err != nil {
		return book.Summary{}, nil, err
	}
	return book.Replay(events).Summarize(), events, nil
}

// Process is the dedup-checked entry point: an input already seen under
// this fingerprint is skipped, otherwise the replay runs and its
// normalized rows are persisted tagged with the fingerprint.
func (s *Service) Process(ctx context.Context, records []book.RawRecord, instrument, fingerprint string) (book.Summary, error) {
	if s.audit != nil && fingerprint != "" {
		processed, err := s.audit.IsProcessed(ctx, fingerprint)
		if err != nil {
			return book.Summary{}, fmt.Errorf("dedup check: %w", err)
		}
		if processed {
			return book.Summary{}, fmt.Errorf("%w: fingerprint %s", ErrDuplicateInput, fingerprint)
		}
	}

	summary, events, err := s.Replay(records, instrument)
	if err != nil {
		return book.Summary{}, err
	}

	if s.audit != nil && fingerprint != "" {
		if err := s.audit.StoreEvents(ctx, fingerprint, events); err != nil {
			return book.Summary{}, fmt.Errorf("store events: %w", err)
		}
		s.logger.WithFields(logrus.Fields{
			"fingerprint": fingerprint,
			"events":      len(events),
		}).Info("capture stored")
	}
	return summary, nil
}

// ReplayCapture rebuilds a book from rows previously stored under a
// fingerprint.
func (s *Service) ReplayCapture(ctx context.Context, fingerprint, instrument string) (book.Summary, error) {
	if s.audit == nil {
		return book.Summary{}, errNoAuditStore
	}
	events, err := s.audit.LoadEvents(ctx, fingerprint)
	if err != nil {
		return book.Summary{}, fmt.Errorf("load capture: %w", err)
	}

	target := strings.TrimSpace(instrument)
	matched := make([]book.OrderEvent, 0, len(events))
	for _, ev := range events {
		if ev.Instrument == target {
			matched = append(matched, ev)
		}
	}
	if len(matched) == 0 {
		return book.Summary{}, fmt.Errorf("%w: instrument %s has no entries in capture %s", ErrInstrumentNotFound, target, fingerprint)
	}
	return book.Replay(matched).Summarize(), nil
}

// normalize coerces every record and keeps those matching the requested
// instrument. Coercion runs before the filter, so a malformed id anywhere
// in the input aborts the run even if the row belongs to another book.
func (s *Service) normalize(records []book.RawRecord, instrument string) ([]book.OrderEvent, error) {
	target := strings.TrimSpace(instrument)
	events := make([]book.OrderEvent, 0, len(records))
	for i, rec := range records {
		ev, err := NormalizeRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformedRecord, i+1, err)
		}
		if ev.Instrument != target {
			continue
		}
		events = append(events, ev)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("%w: instrument %s not found in input or has no entries", ErrInstrumentNotFound, target)
	}
	return events, nil
}
