package models

import "time"

// LedgerEntityType identifies which entity a ledger entry mirrors.
type LedgerEntityType string

const (
	LedgerBooking      LedgerEntityType = "booking"
	LedgerVoucher      LedgerEntityType = "voucher"
	LedgerSubscription LedgerEntityType = "subscription"
)

// TransactionEntry is one append-only financial record. Entries are never
// mutated after creation except the Status field, which mirrors the source
// entity's status.
type TransactionEntry struct {
	ID                string           `bson:"id" json:"id"`
	TransactionNumber string           `bson:"transactionNumber" json:"transactionNumber"`
	EntityType        LedgerEntityType `bson:"entityType" json:"entityType"`
	EntityID          string           `bson:"entityId" json:"entityId"`
	Amount            float64          `bson:"amount" json:"amount"`
	Status            string           `bson:"status" json:"status"`
	Description       string           `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt         time.Time        `bson:"createdAt" json:"createdAt"`
}
