package models

import "time"

// BookingStatus enumerates the lifecycle states of a booking.
type BookingStatus string

const (
	StatusPendingPayment BookingStatus = "pending_payment"
	StatusInProcess      BookingStatus = "in_process"
	StatusConfirmed      BookingStatus = "confirmed"
	StatusCompleted      BookingStatus = "completed"
	StatusCancelled      BookingStatus = "cancelled"
	StatusRefunded       BookingStatus = "refunded"
	StatusNoShow         BookingStatus = "no_show"
)

// Terminal reports whether no further transitions are accepted from s.
func (s BookingStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusRefunded, StatusNoShow:
		return true
	}
	return false
}

// Valid reports whether s is a member of the closed status enum.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPendingPayment, StatusInProcess, StatusConfirmed,
		StatusCompleted, StatusCancelled, StatusRefunded, StatusNoShow:
		return true
	}
	return false
}

// PaymentStatus enumerates the payment states of a booking.
type PaymentStatus string

const (
	PaymentPending     PaymentStatus = "pending"
	PaymentPaid        PaymentStatus = "paid"
	PaymentFailed      PaymentStatus = "failed"
	PaymentNotRequired PaymentStatus = "not_required"
)

// ContactSnapshot freezes the identity of the booker or recipient at
// creation time. Later profile edits never change a booking.
type ContactSnapshot struct {
	UserID string `bson:"userId,omitempty" json:"userId,omitempty"`
	Name   string `bson:"name" json:"name"`
	Email  string `bson:"email" json:"email"`
	Phone  string `bson:"phone" json:"phone"`
}

// AddressSnapshot is the frozen service address for a booking.
type AddressSnapshot struct {
	City        string `bson:"city" json:"city"`
	Street      string `bson:"street,omitempty" json:"street,omitempty"`
	HouseNumber string `bson:"houseNumber,omitempty" json:"houseNumber,omitempty"`
	Apartment   string `bson:"apartment,omitempty" json:"apartment,omitempty"`
	Floor       string `bson:"floor,omitempty" json:"floor,omitempty"`
	Notes       string `bson:"notes,omitempty" json:"notes,omitempty"`
	FullAddress string `bson:"fullAddress" json:"fullAddress"`
}

// CancellationRecord captures who cancelled a booking and why.
type CancellationRecord struct {
	Reason      string    `bson:"reason" json:"reason"`
	CancelledBy string    `bson:"cancelledBy" json:"cancelledBy"`
	CancelledAt time.Time `bson:"cancelledAt" json:"cancelledAt"`
}

// RefundRecord captures an admin-issued refund.
type RefundRecord struct {
	RefundAmount float64   `bson:"refundAmount" json:"refundAmount"`
	RefundMethod string    `bson:"refundMethod" json:"refundMethod"`
	Reason       string    `bson:"reason" json:"reason"`
	RefundedBy   string    `bson:"refundedBy" json:"refundedBy"`
	RefundedAt   time.Time `bson:"refundedAt" json:"refundedAt"`
}

// NotificationConsents holds the per-person channel opt-ins.
// A nil entry or the "none" channel disables dispatch for that person.
type NotificationConsents struct {
	Booker    *ChannelPreference `bson:"booker,omitempty" json:"booker,omitempty"`
	Recipient *ChannelPreference `bson:"recipient,omitempty" json:"recipient,omitempty"`
}

// PaymentDetails tracks the payment state of a booking.
type PaymentDetails struct {
	PaymentStatus PaymentStatus `bson:"paymentStatus" json:"paymentStatus"`
	TransactionID string        `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	AmountPaid    float64       `bson:"amountPaid" json:"amountPaid"`
	CardLast4     string        `bson:"cardLast4,omitempty" json:"cardLast4,omitempty"`
	PaymentDate   *time.Time    `bson:"paymentDate,omitempty" json:"paymentDate,omitempty"`
}

// Booking is the aggregate root of the order engine. The price breakdown
// and payout snapshot are frozen once written and never recomputed.
type Booking struct {
	ID            string        `bson:"id" json:"id"`
	BookingNumber string        `bson:"bookingNumber" json:"bookingNumber"`
	Status        BookingStatus `bson:"status" json:"status"`

	TreatmentID     string    `bson:"treatmentId" json:"treatmentId"`
	TreatmentName   string    `bson:"treatmentName" json:"treatmentName"`
	DurationMinutes int       `bson:"durationMinutes,omitempty" json:"durationMinutes,omitempty"`
	ScheduledAt     time.Time `bson:"scheduledAt" json:"scheduledAt"`

	Price   PriceBreakdown  `bson:"price" json:"price"`
	Payout  *PayoutSnapshot `bson:"payout,omitempty" json:"payout,omitempty"`
	Payment PaymentDetails  `bson:"payment" json:"payment"`

	// At most one of these drives the treatment-price coverage; a monetary
	// voucher and a coupon may coexist.
	RedeemedSubscriptionID string `bson:"redeemedSubscriptionId,omitempty" json:"redeemedSubscriptionId,omitempty"`
	AppliedVoucherID       string `bson:"appliedVoucherId,omitempty" json:"appliedVoucherId,omitempty"`
	AppliedCouponID        string `bson:"appliedCouponId,omitempty" json:"appliedCouponId,omitempty"`

	ProfessionalID        string                 `bson:"professionalId,omitempty" json:"professionalId,omitempty"`
	GenderPreference      string                 `bson:"genderPreference,omitempty" json:"genderPreference,omitempty"`
	SuitableProfessionals []SuitableProfessional `bson:"suitableProfessionals,omitempty" json:"suitableProfessionals,omitempty"`

	Booker    ContactSnapshot  `bson:"booker" json:"booker"`
	Recipient *ContactSnapshot `bson:"recipient,omitempty" json:"recipient,omitempty"`
	Address   AddressSnapshot  `bson:"address" json:"address"`

	Cancellation *CancellationRecord  `bson:"cancellation,omitempty" json:"cancellation,omitempty"`
	Refund       *RefundRecord        `bson:"refund,omitempty" json:"refund,omitempty"`
	Consents     NotificationConsents `bson:"consents" json:"consents"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// TransitionUpdate bundles a status change with its side-effect records so
// the store can apply them in a single atomic update.
type TransitionUpdate struct {
	Status            BookingStatus
	ClearProfessional bool
	SetProfessionalID string
	Cancellation      *CancellationRecord
	Refund            *RefundRecord
}

// RecipientOrBooker returns the person receiving the treatment.
func (b *Booking) RecipientOrBooker() ContactSnapshot {
	if b.Recipient != nil {
		return *b.Recipient
	}
	return b.Booker
}

// HasDistinctRecipient reports whether the recipient differs from the booker.
func (b *Booking) HasDistinctRecipient() bool {
	return b.Recipient != nil && b.Recipient.Email != b.Booker.Email
}
