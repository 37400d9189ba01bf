package booking

import (
	"context"
	"sync"
	"testing"

	"soothe/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) bookingCount() int {
	e.stores.mu.Lock()
	defer e.stores.mu.Unlock()
	return len(e.stores.bookings)
}

func TestCreateBookingHappyPath(t *testing.T) {
	env := newTestEnv()
	env.seedUser("user-1")

	created, err := env.orders.CreateBooking(context.Background(), baseInput("user-1"))
	require.NoError(t, err)

	assert.Equal(t, "BK-000001", created.BookingNumber)
	assert.Equal(t, models.StatusPendingPayment, created.Status)
	assert.Equal(t, models.PaymentPending, created.Payment.PaymentStatus)
	assert.Equal(t, 200.0, created.Price.FinalAmount)
	assert.Equal(t, "Dizengoff 100, Tel Aviv", created.Address.FullAddress)
	assert.Equal(t, "Dana Levi", created.Booker.Name)

	stored, err := env.bookings.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingPayment, stored.Status)

	// One "booking created" send to the booker, best-effort.
	assert.Equal(t, 1, env.notifier.count())

	entries, err := (&memLedgerRepo{s: env.stores}).ListByEntity(context.Background(), models.LedgerBooking, created.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "TX-000001", entries[0].TransactionNumber)
}

func TestCreateBookingUnknownUser(t *testing.T) {
	env := newTestEnv()

	_, err := env.orders.CreateBooking(context.Background(), baseInput("ghost"))
	require.Error(t, err)
	ce := AsCreationError(err)
	require.NotNil(t, ce)
	assert.Equal(t, CodeUserNotFound, ce.Code)
	assert.Zero(t, env.bookingCount())
}

func TestCreateBookingMissingAddress(t *testing.T) {
	env := newTestEnv()
	env.seedUser("user-1")

	input := baseInput("user-1")
	input.AddressID = "addr-unknown"

	_, err := env.orders.CreateBooking(context.Background(), input)
	ce := AsCreationError(err)
	require.NotNil(t, ce)
	assert.Equal(t, CodeAddressRequired, ce.Code)
	assert.Zero(t, env.bookingCount())
}

func TestCreateBookingNormalizesCustomAddress(t *testing.T) {
	env := newTestEnv()
	env.seedUser("user-1")

	input := baseInput("user-1")
	input.AddressID = ""
	input.CustomAddress = &models.CustomAddressInput{
		City:        "Haifa",
		Street:      "HaNassi",
		HouseNumber: "12",
		Apartment:   "4",
	}

	created, err := env.orders.CreateBooking(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "HaNassi 12, Apt 4, Haifa", created.Address.FullAddress)
	assert.Equal(t, "Haifa", created.Address.City)
}

func TestCreateBookingSubscriptionCoversTreatment(t *testing.T) {
	env := newTestEnv()
	env.seedUser("user-1")
	env.stores.subscriptions["sub-1"] = &models.SubscriptionCredit{
		ID: "sub-1", UserID: "user-1", TreatmentID: "treat-1",
		TotalQuantity: 1, RemainingQuantity: 1, Status: models.SubscriptionActive,
	}

	input := baseInput("user-1")
	input.SubscriptionID = "sub-1"

	created, err := env.orders.CreateBooking(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, 0.0, created.Price.FinalAmount)
	assert.Equal(t, models.PaymentNotRequired, created.Payment.PaymentStatus)
	assert.True(t, created.Price.CoveredBySubscription)

	sub := env.stores.subscriptions["sub-1"]
	assert.Equal(t, 0, sub.RemainingQuantity)
	assert.Equal(t, models.SubscriptionDepleted, sub.Status)
}

func TestCreateBookingInsufficientCreditAborts(t *testing.T) {
	env := newTestEnv()
	env.seedUser("user-1")
	env.stores.subscriptions["sub-1"] = &models.SubscriptionCredit{
		ID: "sub-1", UserID: "user-1", RemainingQuantity: 0, Status: models.SubscriptionActive,
	}

	input := baseInput("user-1")
	input.SubscriptionID = "sub-1"

	_, err := env.orders.CreateBooking(context.Background(), input)
	ce := AsCreationError(err)
	require.NotNil(t, ce)
	assert.Equal(t, CodeSubscriptionRedemptionFailed, ce.Code)

	// The booking row written before the failed redemption must not survive.
	assert.Zero(t, env.bookingCount())
}

func TestCreateBookingTreatmentVoucherFullCoverage(t *testing.T) {
	env := newTestEnv()
	env.seedUser("user-1")
	env.stores.vouchers["gv-1"] = &models.GiftVoucher{
		ID: "gv-1", Kind: models.VoucherTreatment, TreatmentID: "treat-1",
		OriginalAmount: 200, RemainingAmount: 200,
		Status: models.VoucherSent, IsActive: true,
	}

	input := baseInput("user-1")
	input.VoucherID = "gv-1"

	created, err := env.orders.CreateBooking(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, 200.0, created.Price.VoucherAppliedAmount)
	assert.Equal(t, 0.0, created.Price.FinalAmount)
	assert.Equal(t, models.PaymentNotRequired, created.Payment.PaymentStatus)

	v := env.stores.vouchers["gv-1"]
	assert.Equal(t, 0.0, v.RemainingAmount)
	assert.Equal(t, models.VoucherFullyUsed, v.Status)
	assert.False(t, v.IsActive)
	require.Len(t, v.UsageHistory, 1)
	assert.Equal(t, created.ID, v.UsageHistory[0].BookingID)
}

func TestCreateBookingMonetaryVoucherConservation(t *testing.T) {
	env := newTestEnv()
	env.seedUser("user-1")
	env.stores.vouchers["gv-1"] = &models.GiftVoucher{
		ID: "gv-1", Kind: models.VoucherMonetary,
		OriginalAmount: 100, RemainingAmount: 100,
		Status: models.VoucherActive, IsActive: true,
	}

	input := baseInput("user-1")
	input.VoucherID = "gv-1"
	input.VoucherAmount = 80

	created, err := env.orders.CreateBooking(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, 120.0, created.Price.FinalAmount)

	v := env.stores.vouchers["gv-1"]
	assert.Equal(t, 20.0, v.RemainingAmount)
	assert.Equal(t, models.VoucherPartiallyUsed, v.Status)
	assert.True(t, v.IsActive)
}

func TestCompetingVoucherRedemptionsCannotOverdraw(t *testing.T) {
	env := newTestEnv()
	env.seedUser("user-1")
	env.stores.vouchers["gv-1"] = &models.GiftVoucher{
		ID: "gv-1", Kind: models.VoucherMonetary,
		OriginalAmount: 100, RemainingAmount: 100,
		Status: models.VoucherActive, IsActive: true,
	}

	input := baseInput("user-1")
	input.VoucherID = "gv-1"
	input.VoucherAmount = 80

	_, err := env.orders.CreateBooking(context.Background(), input)
	require.NoError(t, err)

	_, err = env.orders.CreateBooking(context.Background(), input)
	ce := AsCreationError(err)
	require.NotNil(t, ce)
	assert.Equal(t, CodeVoucherInsufficientBalance, ce.Code)

	// Exactly one booking exists and the balance reflects one redemption.
	assert.Equal(t, 1, env.bookingCount())
	assert.Equal(t, 20.0, env.stores.vouchers["gv-1"].RemainingAmount)
}

func TestConcurrentVoucherRedemptionsCannotOverdraw(t *testing.T) {
	env := newTestEnv()
	env.seedUser("user-1")
	env.stores.vouchers["gv-1"] = &models.GiftVoucher{
		ID: "gv-1", Kind: models.VoucherMonetary,
		OriginalAmount: 100, RemainingAmount: 100,
		Status: models.VoucherActive, IsActive: true,
	}

	input := baseInput("user-1")
	input.VoucherID = "gv-1"
	input.VoucherAmount = 80

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.orders.CreateBooking(context.Background(), input)
		}(i)
	}
	wg.Wait()

	// Whichever order the transactions land in, exactly one redemption
	// fits the balance and the loser aborts without leaving a booking.
	var failures []*CreationError
	for _, err := range errs {
		if err != nil {
			failures = append(failures, AsCreationError(err))
		}
	}
	require.Len(t, failures, 1)
	require.NotNil(t, failures[0])
	assert.Equal(t, CodeVoucherInsufficientBalance, failures[0].Code)

	assert.Equal(t, 1, env.bookingCount())
	assert.Equal(t, 20.0, env.stores.vouchers["gv-1"].RemainingAmount)
}

func TestCreateBookingInactiveVoucher(t *testing.T) {
	env := newTestEnv()
	env.seedUser("user-1")
	env.stores.vouchers["gv-1"] = &models.GiftVoucher{
		ID: "gv-1", Kind: models.VoucherMonetary,
		RemainingAmount: 50, Status: models.VoucherCancelledStat, IsActive: false,
	}

	input := baseInput("user-1")
	input.VoucherID = "gv-1"
	input.VoucherAmount = 50

	_, err := env.orders.CreateBooking(context.Background(), input)
	ce := AsCreationError(err)
	require.NotNil(t, ce)
	assert.Equal(t, CodeVoucherInactive, ce.Code)
	assert.Zero(t, env.bookingCount())
}

func TestCreateBookingCouponFailureRollsBackVoucher(t *testing.T) {
	env := newTestEnv()
	env.seedUser("user-1")
	env.stores.vouchers["gv-1"] = &models.GiftVoucher{
		ID: "gv-1", Kind: models.VoucherMonetary,
		OriginalAmount: 100, RemainingAmount: 100,
		Status: models.VoucherActive, IsActive: true,
	}
	env.stores.coupons["cp-1"] = &models.Coupon{
		ID: "cp-1", Kind: models.CouponFixed, Value: 25, IsActive: false,
	}

	input := baseInput("user-1")
	input.VoucherID = "gv-1"
	input.VoucherAmount = 80
	input.CouponID = "cp-1"
	input.CouponDiscount = 25

	_, err := env.orders.CreateBooking(context.Background(), input)
	ce := AsCreationError(err)
	require.NotNil(t, ce)
	assert.Equal(t, CodeCouponApplyFailed, ce.Code)

	// The voucher decrement from the same transaction must be undone.
	assert.Zero(t, env.bookingCount())
	v := env.stores.vouchers["gv-1"]
	assert.Equal(t, 100.0, v.RemainingAmount)
	assert.Equal(t, models.VoucherActive, v.Status)
	assert.Empty(t, v.UsageHistory)
}

func TestCreateBookingCouponDiscount(t *testing.T) {
	env := newTestEnv()
	env.seedUser("user-1")
	env.stores.coupons["cp-1"] = &models.Coupon{
		ID: "cp-1", Kind: models.CouponFixed, Value: 25, IsActive: true,
	}

	input := baseInput("user-1")
	input.CouponID = "cp-1"
	input.CouponDiscount = 25

	created, err := env.orders.CreateBooking(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, 175.0, created.Price.FinalAmount)
	assert.Equal(t, 1, env.stores.coupons["cp-1"].TimesUsed)
}

func TestBookingNumbersAreSequential(t *testing.T) {
	env := newTestEnv()
	env.seedUser("user-1")

	first, err := env.orders.CreateBooking(context.Background(), baseInput("user-1"))
	require.NoError(t, err)
	second, err := env.orders.CreateBooking(context.Background(), baseInput("user-1"))
	require.NoError(t, err)

	assert.Equal(t, "BK-000001", first.BookingNumber)
	assert.Equal(t, "BK-000002", second.BookingNumber)
}
