package booking

import (
	"context"
	"fmt"

	"soothe/database/repository"
	"soothe/models"

	"github.com/google/uuid"
)

// LedgerWriter appends financial records, idempotent per
// (entityType, entityId): a second write for the same pair is a no-op.
type LedgerWriter struct {
	Ledger    repository.LedgerRepository
	Sequences repository.SequenceRepository
}

// NewLedgerWriter creates a LedgerWriter.
func NewLedgerWriter(ledger repository.LedgerRepository, sequences repository.SequenceRepository) *LedgerWriter {
	return &LedgerWriter{Ledger: ledger, Sequences: sequences}
}

// Record appends one entry for the entity unless one already exists. The
// uniqueness check is a scan before insert, not a database constraint.
func (w *LedgerWriter) Record(ctx context.Context, entityType models.LedgerEntityType, entityID string, amount float64, status, description string) error {
	exists, err := w.Ledger.ExistsFor(ctx, entityType, entityID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	seq, err := w.Sequences.Next(ctx, "transactionNumber")
	if err != nil {
		return fmt.Errorf("failed to allocate transaction number: %w", err)
	}

	entry := &models.TransactionEntry{
		ID:                uuid.New().String(),
		TransactionNumber: fmt.Sprintf("TX-%06d", seq),
		EntityType:        entityType,
		EntityID:          entityID,
		Amount:            amount,
		Status:            status,
		Description:       description,
	}
	return w.Ledger.Create(ctx, entry)
}

// MirrorStatus propagates a source entity's status onto its entries.
func (w *LedgerWriter) MirrorStatus(ctx context.Context, entityType models.LedgerEntityType, entityID string, status string) error {
	return w.Ledger.UpdateStatusFor(ctx, entityType, entityID, status)
}
