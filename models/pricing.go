package models

// SurchargeShareKind selects how a surcharge contributes to the
// professional's pay.
type SurchargeShareKind string

const (
	SharePercentage SurchargeShareKind = "percentage"
	ShareFixed      SurchargeShareKind = "fixed"
)

// Surcharge is an itemized addition to the base treatment price. The
// optional professional-share rule adds part of the surcharge on top of the
// standard payout split.
type Surcharge struct {
	Name      string             `bson:"name" json:"name"`
	Amount    float64            `bson:"amount" json:"amount"`
	ShareKind SurchargeShareKind `bson:"shareKind,omitempty" json:"shareKind,omitempty"`
	// ShareValue is a percentage of Amount when ShareKind is "percentage",
	// or an absolute amount when "fixed".
	ShareValue float64 `bson:"shareValue,omitempty" json:"shareValue,omitempty"`
}

// PriceBreakdown is the frozen itemization of a booking's cost, fixed at
// creation and never recomputed.
type PriceBreakdown struct {
	BasePrice             float64     `bson:"basePrice" json:"basePrice"`
	AddonsTotal           float64     `bson:"addonsTotal,omitempty" json:"addonsTotal,omitempty"`
	Surcharges            []Surcharge `bson:"surcharges,omitempty" json:"surcharges,omitempty"`
	TotalSurcharges       float64     `bson:"totalSurcharges" json:"totalSurcharges"`
	DiscountAmount        float64     `bson:"discountAmount" json:"discountAmount"`
	VoucherAppliedAmount  float64     `bson:"voucherAppliedAmount" json:"voucherAppliedAmount"`
	CoveredBySubscription bool        `bson:"coveredBySubscription" json:"coveredBySubscription"`
	FinalAmount           float64     `bson:"finalAmount" json:"finalAmount"`
}

// PayoutSnapshot is the frozen professional-pay / system-fee split,
// computed once at payment-success time. SystemFee may be negative when
// the professional pay exceeds the amount paid.
type PayoutSnapshot struct {
	BasePrice       float64 `bson:"basePrice" json:"basePrice"`
	AddonsTotal     float64 `bson:"addonsTotal" json:"addonsTotal"`
	TotalPrice      float64 `bson:"totalPrice" json:"totalPrice"`
	AmountPaid      float64 `bson:"amountPaid" json:"amountPaid"`
	ProfessionalPay float64 `bson:"professionalPay" json:"professionalPay"`
	SystemFee       float64 `bson:"systemFee" json:"systemFee"`
}
