package audit

import (
	"context"
	"fmt"

	"main/internal/domain/entity/book"
	"main/internal/domain/interfaces"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
	CREATE TABLE IF NOT EXISTS order_entries (
		id UUID PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		seq_no BIGINT NOT NULL,
		instrument TEXT NOT NULL,
		recorded_at TEXT NOT NULL DEFAULT '',
		action TEXT NOT NULL,
		side TEXT NOT NULL DEFAULT '',
		buy_order_no TEXT NOT NULL DEFAULT '',
		sell_order_no TEXT NOT NULL DEFAULT '',
		price DOUBLE PRECISION NOT NULL,
		quantity BIGINT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS order_entries_fingerprint_idx
		ON order_entries (fingerprint);`

// Repository stores processed order events in Postgres, keyed by input
// fingerprint, and answers the "was this input already processed" check.
type Repository struct {
	pool *pgxpool.Pool
}

var _ interfaces.AuditRepository = (*Repository)(nil)

func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure audit schema: %w", err)
	}
	return &Repository{pool: pool}, nil
}

func (r *Repository) Close() {
	if r == nil || r.pool == nil {
		return
	}
	r.pool.Close()
}

// IsProcessed reports whether any rows were stored under the fingerprint.
func (r *Repository) IsProcessed(ctx context.Context, fingerprint string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM order_entries WHERE fingerprint = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, fingerprint).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// StoreEvents persists one capture's normalized rows in a single
// transaction.
func (r *Repository) StoreEvents(ctx context.Context, fingerprint string, events []book.OrderEvent) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([][]interface{}, 0, len(events))
	for _, ev := range events {
		rows = append(rows, []interface{}{
			uuid.New(),
			fingerprint,
			ev.SequenceNo,
			ev.Instrument,
			ev.RecordedAt,
			string(ev.Action),
			string(ev.Side),
			ev.BuyOrderNo,
			ev.SellOrderNo,
			ev.Price,
			ev.Qty,
		})
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{"order_entries"},
		[]string{
			"id",
			"fingerprint",
			"seq_no",
			"instrument",
			"recorded_at",
			"action",
			"side",
			"buy_order_no",
			"sell_order_no",
			"price",
			"quantity",
		},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copy order entries: %w", err)
	}
	return tx.Commit(ctx)
}

// LoadEvents returns one capture's rows in sequence order.
func (r *Repository) LoadEvents(ctx context.Context, fingerprint string) ([]book.OrderEvent, error) {
	const query = `
		SELECT seq_no, instrument, recorded_at, action, side, buy_order_no, sell_order_no, price, quantity
		FROM order_entries
		WHERE fingerprint = $1
		ORDER BY seq_no ASC`
	rows, err := r.pool.Query(ctx, query, fingerprint)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []book.OrderEvent
	for rows.Next() {
		var (
			ev     book.OrderEvent
			action string
			side   string
		)
		err := rows.Scan(
			&ev.SequenceNo,
			&ev.Instrument,
			&ev.RecordedAt,
			&action,
			&side,
			&ev.BuyOrderNo,
			&ev.SellOrderNo,
			&ev.Price,
			&ev.Qty,
		)
		if err != nil {
			return nil, err
		}
		ev.Action = book.Action(action)
		ev.Side = book.Side(side)
		events = append(events, ev)
	}
	return events, rows.Err()
}
