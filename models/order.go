package models

import "time"

// CustomAddressInput is a one-off address supplied with a booking instead
// of a saved-address reference.
type CustomAddressInput struct {
	City        string `json:"city"`
	Street      string `json:"street,omitempty"`
	HouseNumber string `json:"houseNumber,omitempty"`
	Apartment   string `json:"apartment,omitempty"`
	Floor       string `json:"floor,omitempty"`
	Notes       string `json:"notes,omitempty"`
	FullAddress string `json:"fullAddress,omitempty"`
}

// CreateBookingInput is the validated creation payload consumed by the
// order orchestrator. At most one of SubscriptionID / VoucherID may drive
// treatment coverage; a coupon may coexist with a monetary voucher.
type CreateBookingInput struct {
	UserID          string    `json:"userId"`
	TreatmentID     string    `json:"treatmentId"`
	TreatmentName   string    `json:"treatmentName"`
	DurationMinutes int       `json:"durationMinutes,omitempty"`
	ScheduledAt     time.Time `json:"scheduledAt"`

	AddressID     string              `json:"addressId,omitempty"`
	CustomAddress *CustomAddressInput `json:"customAddress,omitempty"`

	Recipient        *ContactSnapshot `json:"recipient,omitempty"`
	GenderPreference string           `json:"genderPreference,omitempty"`

	BasePrice   float64     `json:"basePrice"`
	AddonsTotal float64     `json:"addonsTotal,omitempty"`
	Surcharges  []Surcharge `json:"surcharges,omitempty"`

	SubscriptionID string  `json:"subscriptionId,omitempty"`
	VoucherID      string  `json:"voucherId,omitempty"`
	VoucherAmount  float64 `json:"voucherAmount,omitempty"`
	CouponID       string  `json:"couponId,omitempty"`
	CouponDiscount float64 `json:"couponDiscount,omitempty"`

	Consents NotificationConsents `json:"consents"`
}

// PaymentSuccess is the signal consumed from the payment gateway when a
// charge settles. The gateway integration itself lives outside this
// service; only this signal crosses the boundary.
type PaymentSuccess struct {
	BookingID     string    `json:"bookingId"`
	TransactionID string    `json:"transactionId"`
	AmountPaid    float64   `json:"amountPaid"`
	CardLast4     string    `json:"cardLast4,omitempty"`
	PaidAt        time.Time `json:"paidAt"`
}
