package ledgerRepo

import (
	"context"

	"soothe/models"
)

// LedgerRepository owns the append-only transaction ledger. Entries are
// one-to-one with a (entityType, entityId) pair; ExistsFor backs the
// scan-before-insert idempotency check.
type LedgerRepository interface {
	Create(ctx context.Context, entry *models.TransactionEntry) error
	ExistsFor(ctx context.Context, entityType models.LedgerEntityType, entityID string) (bool, error)
	UpdateStatusFor(ctx context.Context, entityType models.LedgerEntityType, entityID string, status string) error
	ListByEntity(ctx context.Context, entityType models.LedgerEntityType, entityID string) ([]models.TransactionEntry, error)
}
