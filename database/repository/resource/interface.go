package resourceRepo

import (
	"context"
	"errors"

	"soothe/models"
)

// Redemption failures surfaced to the order orchestrator. Each aborts the
// enclosing transaction with no partial effect.
var (
	ErrNotFound                   = errors.New("resource not found")
	ErrInsufficientCredit         = errors.New("insufficient subscription credit")
	ErrVoucherInactive            = errors.New("voucher is not redeemable")
	ErrVoucherInsufficientBalance = errors.New("voucher balance is insufficient")
	ErrCouponInactive             = errors.New("coupon is not active")
)

// SubscriptionRepository owns the subscription credit pools. RedeemCredit
// must only be called with a transactional context.
type SubscriptionRepository interface {
	GetByID(ctx context.Context, id string) (*models.SubscriptionCredit, error)
	RedeemCredit(ctx context.Context, id string) (*models.SubscriptionCredit, error)
}

// VoucherRepository owns gift vouchers. ApplyAmount and ConsumeTreatment
// must only be called with a transactional context.
type VoucherRepository interface {
	GetByID(ctx context.Context, id string) (*models.GiftVoucher, error)
	// ApplyAmount decrements a monetary voucher's balance, clamped at zero,
	// and appends a usage-history record for the booking.
	ApplyAmount(ctx context.Context, id string, amount float64, bookingID string) (*models.GiftVoucher, error)
	// ConsumeTreatment fully consumes a treatment-type voucher in one step.
	ConsumeTreatment(ctx context.Context, id string, bookingID string) (*models.GiftVoucher, error)
	SetStatus(ctx context.Context, id string, status models.VoucherStatus) error
}

// CouponRepository owns discount coupons; they carry no balance, only a
// usage counter.
type CouponRepository interface {
	GetByID(ctx context.Context, id string) (*models.Coupon, error)
	IncrementUsage(ctx context.Context, id string) (*models.Coupon, error)
}
