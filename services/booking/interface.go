package booking

import (
	"context"

	"soothe/database"
	"soothe/database/repository"
	"soothe/models"
	"soothe/services/notification"
)

// OrderService creates bookings and consumes the payment-success signal.
type OrderService interface {
	CreateBooking(ctx context.Context, input models.CreateBookingInput) (*models.Booking, error)
	HandlePaymentSuccess(ctx context.Context, sig models.PaymentSuccess) (*models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListUserBookings(ctx context.Context, userID string) ([]models.Booking, error)
	ListProfessionalBookings(ctx context.Context, professionalID string) ([]models.Booking, error)
}

// StatusService drives a booking through the status state machine.
type StatusService interface {
	ChangeStatus(ctx context.Context, bookingID string, actor Actor, input TransitionInput) (*TransitionResult, error)
}

// MatchingService selects professionals eligible for a booking.
type MatchingService interface {
	// MatchAndSnapshot runs the eligibility filter and writes the result
	// onto the booking for later notification use.
	MatchAndSnapshot(ctx context.Context, booking *models.Booking) ([]models.SuitableProfessional, error)
	// FindSuitable runs the same filter live, without the snapshot write.
	FindSuitable(ctx context.Context, bookingID string) ([]models.Professional, error)
}

// DefaultOrderService implements OrderService. All creation steps run
// inside one transaction on Tx; matching and notifications run after
// commit, best-effort.
type DefaultOrderService struct {
	Bookings      repository.BookingRepository
	Users         repository.UserRepository
	Subscriptions repository.SubscriptionRepository
	Vouchers      repository.VoucherRepository
	Coupons       repository.CouponRepository
	Sequences     repository.SequenceRepository
	Tx            database.TxRunner
	Matcher       MatchingService
	Notifier      notification.Dispatcher
	Ledger        *LedgerWriter

	redeemers redeemerRegistry
}

// NewOrderService wires the orchestrator and its resource adapters.
func NewOrderService(
	bookings repository.BookingRepository,
	users repository.UserRepository,
	subs repository.SubscriptionRepository,
	vouchers repository.VoucherRepository,
	coupons repository.CouponRepository,
	sequences repository.SequenceRepository,
	tx database.TxRunner,
	matcher MatchingService,
	notifier notification.Dispatcher,
	ledger *LedgerWriter,
) *DefaultOrderService {
	return &DefaultOrderService{
		Bookings:      bookings,
		Users:         users,
		Subscriptions: subs,
		Vouchers:      vouchers,
		Coupons:       coupons,
		Sequences:     sequences,
		Tx:            tx,
		Matcher:       matcher,
		Notifier:      notifier,
		Ledger:        ledger,
		redeemers:     newRedeemerRegistry(subs, vouchers, coupons),
	}
}

// DefaultMatchingService implements MatchingService.
type DefaultMatchingService struct {
	Professionals repository.ProfessionalRepository
	Bookings      repository.BookingRepository
}

// DefaultStatusService implements StatusService.
type DefaultStatusService struct {
	Bookings repository.BookingRepository
	Notifier notification.Dispatcher
	Ledger   *LedgerWriter
}
