package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	bookingRepo "soothe/database/repository/booking"
	resourceRepo "soothe/database/repository/resource"
	"soothe/models"
	"soothe/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBooking produces exactly one booking or fails atomically with no
// partial effects. Resource decrements happen inside the same transaction
// as the booking insert, so a booking can never reference a resource that
// was not actually consumed.
func (s *DefaultOrderService) CreateBooking(ctx context.Context, input models.CreateBookingInput) (*models.Booking, error) {
	var booking *models.Booking
	txErr := s.Tx.WithTransaction(ctx, func(sc context.Context) error {
		user, err := s.Users.GetByID(sc, input.UserID)
		if err != nil {
			return fmt.Errorf("failed to resolve booker: %w", err)
		}
		if user == nil {
			return creationErr(CodeUserNotFound, "booker account not found")
		}

		address, err := resolveAddress(user, input)
		if err != nil {
			return err
		}

		seq, err := s.Sequences.Next(sc, "bookingNumber")
		if err != nil {
			return fmt.Errorf("failed to allocate booking number: %w", err)
		}

		price, err := s.buildPriceBreakdown(sc, input)
		if err != nil {
			return err
		}

		paymentStatus := models.PaymentPending
		if price.FinalAmount == 0 {
			paymentStatus = models.PaymentNotRequired
		}

		booking = &models.Booking{
			ID:            uuid.New().String(),
			BookingNumber: fmt.Sprintf("BK-%06d", seq),
			Status:        models.StatusPendingPayment,

			TreatmentID:     input.TreatmentID,
			TreatmentName:   input.TreatmentName,
			DurationMinutes: input.DurationMinutes,
			ScheduledAt:     input.ScheduledAt,

			Price:   price,
			Payment: models.PaymentDetails{PaymentStatus: paymentStatus},

			GenderPreference: input.GenderPreference,

			Booker: models.ContactSnapshot{
				UserID: user.ID,
				Name:   user.Name,
				Email:  user.Email,
				Phone:  user.Phone,
			},
			Recipient: input.Recipient,
			Address:   *address,
			Consents:  input.Consents,
		}

		if input.SubscriptionID != "" {
			booking.RedeemedSubscriptionID = input.SubscriptionID
		} else if input.VoucherID != "" {
			booking.AppliedVoucherID = input.VoucherID
		}
		if input.CouponID != "" && input.CouponDiscount > 0 {
			booking.AppliedCouponID = input.CouponID
		}

		if err := s.Bookings.Create(sc, booking); err != nil {
			return err
		}

		if booking.RedeemedSubscriptionID != "" {
			if _, err := s.redeemers[KindSubscription].Redeem(sc, booking); err != nil {
				return err
			}
		} else if booking.AppliedVoucherID != "" {
			if _, err := s.redeemers[KindVoucher].Redeem(sc, booking); err != nil {
				return err
			}
		}
		if booking.AppliedCouponID != "" {
			if _, err := s.redeemers[KindCoupon].Redeem(sc, booking); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.afterCreate(ctx, booking)
	return booking, nil
}

// buildPriceBreakdown derives the frozen price from the payload. The
// voucher is read (not yet consumed) to decide how much it covers; the
// consuming decrement happens after the booking insert, in the same
// transaction, so the two can never diverge.
func (s *DefaultOrderService) buildPriceBreakdown(ctx context.Context, input models.CreateBookingInput) (models.PriceBreakdown, error) {
	coveredBySubscription := input.SubscriptionID != ""

	var voucherApplied float64
	if !coveredBySubscription && input.VoucherID != "" {
		voucher, err := s.Vouchers.GetByID(ctx, input.VoucherID)
		if err != nil {
			if errors.Is(err, resourceRepo.ErrNotFound) {
				return models.PriceBreakdown{}, creationErr(CodeVoucherInactive, "voucher not found")
			}
			return models.PriceBreakdown{}, fmt.Errorf("failed to resolve voucher: %w", err)
		}
		if voucher.Kind == models.VoucherTreatment {
			voucherApplied = input.BasePrice
		} else {
			voucherApplied = input.VoucherAmount
		}
	}

	var discount float64
	if input.CouponID != "" {
		discount = input.CouponDiscount
	}

	return ComputePriceBreakdown(input.BasePrice, input.AddonsTotal, input.Surcharges,
		discount, voucherApplied, coveredBySubscription), nil
}

// resolveAddress normalizes the custom address payload or copies the
// referenced saved address. Either way the booking carries a frozen
// snapshot, never a live reference.
func resolveAddress(user *models.User, input models.CreateBookingInput) (*models.AddressSnapshot, error) {
	if input.CustomAddress != nil {
		addr := input.CustomAddress
		full := addr.FullAddress
		if full == "" {
			full = composeFullAddress(addr.Street, addr.HouseNumber, addr.Apartment, addr.Floor, addr.City)
		}
		if strings.TrimSpace(full) == "" {
			return nil, creationErr(CodeAddressRequired, "custom address is empty")
		}
		return &models.AddressSnapshot{
			City:        addr.City,
			Street:      addr.Street,
			HouseNumber: addr.HouseNumber,
			Apartment:   addr.Apartment,
			Floor:       addr.Floor,
			Notes:       addr.Notes,
			FullAddress: full,
		}, nil
	}

	if input.AddressID != "" {
		saved := user.AddressByID(input.AddressID)
		if saved != nil {
			full := saved.FullAddress
			if full == "" {
				full = composeFullAddress(saved.Street, saved.HouseNumber, saved.Apartment, saved.Floor, saved.City)
			}
			if strings.TrimSpace(full) != "" {
				return &models.AddressSnapshot{
					City:        saved.City,
					Street:      saved.Street,
					HouseNumber: saved.HouseNumber,
					Apartment:   saved.Apartment,
					Floor:       saved.Floor,
					FullAddress: full,
				}, nil
			}
		}
	}

	return nil, creationErr(CodeAddressRequired, "no usable service address")
}

func composeFullAddress(street, houseNumber, apartment, floor, city string) string {
	var parts []string
	if street != "" {
		line := street
		if houseNumber != "" {
			line += " " + houseNumber
		}
		parts = append(parts, line)
	}
	if apartment != "" {
		parts = append(parts, "Apt "+apartment)
	}
	if floor != "" {
		parts = append(parts, "Floor "+floor)
	}
	if city != "" {
		parts = append(parts, city)
	}
	return strings.Join(parts, ", ")
}

// afterCreate runs the non-transactional follow-ups: eligibility snapshot,
// ledger entries, and the "booking created" notification. Failures here
// are logged and swallowed; they never undo the booking.
func (s *DefaultOrderService) afterCreate(ctx context.Context, booking *models.Booking) {
	logger := utils.GetLogger()

	if _, err := s.Matcher.MatchAndSnapshot(ctx, booking); err != nil {
		logger.Warn("professional matching failed after booking creation",
			zap.String("bookingId", booking.ID), zap.Error(err))
	}

	if err := s.Ledger.Record(ctx, models.LedgerBooking, booking.ID,
		booking.Price.FinalAmount, string(booking.Status), "booking created"); err != nil {
		logger.Warn("ledger write failed for booking",
			zap.String("bookingId", booking.ID), zap.Error(err))
	}
	if booking.AppliedVoucherID != "" {
		if err := s.Ledger.Record(ctx, models.LedgerVoucher, booking.AppliedVoucherID,
			booking.Price.VoucherAppliedAmount, "redeemed", "voucher applied to "+booking.BookingNumber); err != nil {
			logger.Warn("ledger write failed for voucher",
				zap.String("bookingId", booking.ID), zap.Error(err))
		}
	}
	if booking.RedeemedSubscriptionID != "" {
		if err := s.Ledger.Record(ctx, models.LedgerSubscription, booking.RedeemedSubscriptionID,
			booking.Price.BasePrice, "redeemed", "subscription credit applied to "+booking.BookingNumber); err != nil {
			logger.Warn("ledger write failed for subscription",
				zap.String("bookingId", booking.ID), zap.Error(err))
		}
	}

	notifyBookingCreated(ctx, s.Notifier, booking)
}

// GetBooking retrieves a booking by id.
func (s *DefaultOrderService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// ListUserBookings returns the bookings owned by a user.
func (s *DefaultOrderService) ListUserBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	return s.Bookings.ListByUser(ctx, userID)
}

// ListProfessionalBookings returns the bookings assigned to a professional.
func (s *DefaultOrderService) ListProfessionalBookings(ctx context.Context, professionalID string) ([]models.Booking, error) {
	return s.Bookings.ListByProfessional(ctx, professionalID)
}
