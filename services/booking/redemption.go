package booking

import (
	"context"
	"errors"
	"fmt"

	"soothe/database/repository"
	resourceRepo "soothe/database/repository/resource"
	"soothe/models"
)

// ResourceKind identifies a redemption resource type.
type ResourceKind string

const (
	KindSubscription ResourceKind = "subscription"
	KindVoucher      ResourceKind = "voucher"
	KindCoupon       ResourceKind = "coupon"
)

// RedemptionReceipt reports what a redeemer actually consumed.
type RedemptionReceipt struct {
	Kind            ResourceKind
	ResourceID      string
	AmountApplied   float64
	CoversTreatment bool
}

// Redeemer validates and atomically decrements one redemption resource.
// Implementations must only be invoked with the creation transaction's
// context; failure aborts the whole transaction.
type Redeemer interface {
	Redeem(ctx context.Context, booking *models.Booking) (*RedemptionReceipt, error)
}

type subscriptionRedeemer struct {
	repo repository.SubscriptionRepository
}

func (r *subscriptionRedeemer) Redeem(ctx context.Context, booking *models.Booking) (*RedemptionReceipt, error) {
	sub, err := r.repo.RedeemCredit(ctx, booking.RedeemedSubscriptionID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrInsufficientCredit) || errors.Is(err, resourceRepo.ErrNotFound) {
			return nil, creationErr(CodeSubscriptionRedemptionFailed, err.Error())
		}
		return nil, fmt.Errorf("subscription redemption failed: %w", err)
	}
	return &RedemptionReceipt{
		Kind:            KindSubscription,
		ResourceID:      sub.ID,
		AmountApplied:   booking.Price.BasePrice,
		CoversTreatment: true,
	}, nil
}

type voucherRedeemer struct {
	repo repository.VoucherRepository
}

func (r *voucherRedeemer) Redeem(ctx context.Context, booking *models.Booking) (*RedemptionReceipt, error) {
	id := booking.AppliedVoucherID

	voucher, err := r.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrNotFound) {
			return nil, creationErr(CodeVoucherInactive, err.Error())
		}
		return nil, fmt.Errorf("voucher lookup failed: %w", err)
	}

	if voucher.Kind == models.VoucherTreatment {
		consumed, err := r.repo.ConsumeTreatment(ctx, id, booking.ID)
		if err != nil {
			return nil, translateVoucherErr(err)
		}
		return &RedemptionReceipt{
			Kind:            KindVoucher,
			ResourceID:      consumed.ID,
			AmountApplied:   booking.Price.BasePrice,
			CoversTreatment: true,
		}, nil
	}

	amount := booking.Price.VoucherAppliedAmount
	applied, err := r.repo.ApplyAmount(ctx, id, amount, booking.ID)
	if err != nil {
		return nil, translateVoucherErr(err)
	}
	return &RedemptionReceipt{
		Kind:          KindVoucher,
		ResourceID:    applied.ID,
		AmountApplied: amount,
	}, nil
}

func translateVoucherErr(err error) error {
	switch {
	case errors.Is(err, resourceRepo.ErrVoucherInactive), errors.Is(err, resourceRepo.ErrNotFound):
		return creationErr(CodeVoucherInactive, err.Error())
	case errors.Is(err, resourceRepo.ErrVoucherInsufficientBalance):
		return creationErr(CodeVoucherInsufficientBalance, err.Error())
	}
	return fmt.Errorf("voucher redemption failed: %w", err)
}

type couponRedeemer struct {
	repo repository.CouponRepository
}

func (r *couponRedeemer) Redeem(ctx context.Context, booking *models.Booking) (*RedemptionReceipt, error) {
	coupon, err := r.repo.IncrementUsage(ctx, booking.AppliedCouponID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrCouponInactive) || errors.Is(err, resourceRepo.ErrNotFound) {
			return nil, creationErr(CodeCouponApplyFailed, err.Error())
		}
		return nil, fmt.Errorf("coupon redemption failed: %w", err)
	}
	return &RedemptionReceipt{
		Kind:          KindCoupon,
		ResourceID:    coupon.ID,
		AmountApplied: booking.Price.DiscountAmount,
	}, nil
}

// redeemerRegistry keys the resource adapters by kind so the orchestrator
// calls one polymorphic Redeem instead of branching on payload shape.
type redeemerRegistry map[ResourceKind]Redeemer

func newRedeemerRegistry(subs repository.SubscriptionRepository, vouchers repository.VoucherRepository, coupons repository.CouponRepository) redeemerRegistry {
	return redeemerRegistry{
		KindSubscription: &subscriptionRedeemer{repo: subs},
		KindVoucher:      &voucherRedeemer{repo: vouchers},
		KindCoupon:       &couponRedeemer{repo: coupons},
	}
}
