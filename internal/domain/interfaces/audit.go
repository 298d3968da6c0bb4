package interfaces

import (
	"context"

	"main/internal/domain/entity/book"
)

// AuditRepository persists normalized order events keyed by the content
// fingerprint of the input they came from, and answers dedup checks.
type AuditRepository interface {
	IsProcessed(ctx context.Context, fingerprint string) (bool, error)
	StoreEvents(ctx context.Context, fingerprint string, events []book.OrderEvent) error
	LoadEvents(ctx context.Context, fingerprint string) ([]book.OrderEvent, error)

	Close()
}
