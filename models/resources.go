package models

import "time"

// SubscriptionStatus enumerates subscription credit pool states.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionDepleted SubscriptionStatus = "depleted"
	SubscriptionExpired  SubscriptionStatus = "expired"
)

// SubscriptionCredit is a prepaid pool of treatment credits. Each booking
// redemption consumes exactly one credit.
type SubscriptionCredit struct {
	ID                string             `bson:"id" json:"id"`
	UserID            string             `bson:"userId" json:"userId"`
	TreatmentID       string             `bson:"treatmentId" json:"treatmentId"`
	TotalQuantity     int                `bson:"totalQuantity" json:"totalQuantity"`
	RemainingQuantity int                `bson:"remainingQuantity" json:"remainingQuantity"`
	Status            SubscriptionStatus `bson:"status" json:"status"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// VoucherStatus enumerates gift voucher states. A "sent" voucher is still
// redeemable.
type VoucherStatus string

const (
	VoucherActive        VoucherStatus = "active"
	VoucherSent          VoucherStatus = "sent"
	VoucherPartiallyUsed VoucherStatus = "partially_used"
	VoucherFullyUsed     VoucherStatus = "fully_used"
	VoucherCancelledStat VoucherStatus = "cancelled"
)

// VoucherKind distinguishes monetary vouchers from treatment-type vouchers,
// which are consumed whole in one redemption.
type VoucherKind string

const (
	VoucherMonetary  VoucherKind = "monetary"
	VoucherTreatment VoucherKind = "treatment"
)

// VoucherUsage is one usage-history record appended on redemption.
type VoucherUsage struct {
	BookingID string    `bson:"bookingId" json:"bookingId"`
	Amount    float64   `bson:"amount" json:"amount"`
	UsedAt    time.Time `bson:"usedAt" json:"usedAt"`
}

// GiftVoucher is a depletable monetary or treatment entitlement.
type GiftVoucher struct {
	ID              string         `bson:"id" json:"id"`
	Code            string         `bson:"code" json:"code"`
	Kind            VoucherKind    `bson:"kind" json:"kind"`
	TreatmentID     string         `bson:"treatmentId,omitempty" json:"treatmentId,omitempty"`
	OriginalAmount  float64        `bson:"originalAmount" json:"originalAmount"`
	RemainingAmount float64        `bson:"remainingAmount" json:"remainingAmount"`
	Status          VoucherStatus  `bson:"status" json:"status"`
	IsActive        bool           `bson:"isActive" json:"isActive"`
	UsageHistory    []VoucherUsage `bson:"usageHistory,omitempty" json:"usageHistory,omitempty"`
	CreatedAt       time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// Redeemable reports whether the voucher may still be applied. A voucher
// that was issued but only "sent" to its recipient counts as redeemable.
func (v *GiftVoucher) Redeemable() bool {
	return v.IsActive && (v.Status == VoucherActive || v.Status == VoucherSent ||
		v.Status == VoucherPartiallyUsed)
}

// CouponKind selects how a coupon discount is computed.
type CouponKind string

const (
	CouponPercentage CouponKind = "percentage"
	CouponFixed      CouponKind = "fixed"
)

// Coupon is a reusable discount code. It has no balance; redemption only
// increments the usage counter.
type Coupon struct {
	ID        string     `bson:"id" json:"id"`
	Code      string     `bson:"code" json:"code"`
	Kind      CouponKind `bson:"kind" json:"kind"`
	Value     float64    `bson:"value" json:"value"`
	IsActive  bool       `bson:"isActive" json:"isActive"`
	TimesUsed int        `bson:"timesUsed" json:"timesUsed"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
}
