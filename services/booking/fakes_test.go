package booking

import (
	"context"
	"sync"
	"time"

	bookingRepo "soothe/database/repository/booking"
	professionalRepo "soothe/database/repository/professional"
	resourceRepo "soothe/database/repository/resource"
	"soothe/models"
)

// memStores is the shared in-memory backing for all fake repositories.
// Mutations are copy-on-write so a transaction snapshot only needs to
// copy the maps themselves.
type memStores struct {
	mu sync.Mutex

	bookings      map[string]*models.Booking
	users         map[string]*models.User
	subscriptions map[string]*models.SubscriptionCredit
	vouchers      map[string]*models.GiftVoucher
	coupons       map[string]*models.Coupon
	professionals map[string]*models.Professional
	counters      map[string]int64
	ledger        []*models.TransactionEntry
}

func newMemStores() *memStores {
	return &memStores{
		bookings:      map[string]*models.Booking{},
		users:         map[string]*models.User{},
		subscriptions: map[string]*models.SubscriptionCredit{},
		vouchers:      map[string]*models.GiftVoucher{},
		coupons:       map[string]*models.Coupon{},
		professionals: map[string]*models.Professional{},
		counters:      map[string]int64{},
	}
}

type memSnapshot struct {
	bookings      map[string]*models.Booking
	subscriptions map[string]*models.SubscriptionCredit
	vouchers      map[string]*models.GiftVoucher
	coupons       map[string]*models.Coupon
	counters      map[string]int64
	ledger        []*models.TransactionEntry
}

func (s *memStores) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := memSnapshot{
		bookings:      make(map[string]*models.Booking, len(s.bookings)),
		subscriptions: make(map[string]*models.SubscriptionCredit, len(s.subscriptions)),
		vouchers:      make(map[string]*models.GiftVoucher, len(s.vouchers)),
		coupons:       make(map[string]*models.Coupon, len(s.coupons)),
		counters:      make(map[string]int64, len(s.counters)),
		ledger:        append([]*models.TransactionEntry{}, s.ledger...),
	}
	for k, v := range s.bookings {
		snap.bookings[k] = v
	}
	for k, v := range s.subscriptions {
		snap.subscriptions[k] = v
	}
	for k, v := range s.vouchers {
		snap.vouchers[k] = v
	}
	for k, v := range s.coupons {
		snap.coupons[k] = v
	}
	for k, v := range s.counters {
		snap.counters[k] = v
	}
	return snap
}

func (s *memStores) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = snap.bookings
	s.subscriptions = snap.subscriptions
	s.vouchers = snap.vouchers
	s.coupons = snap.coupons
	s.counters = snap.counters
	s.ledger = snap.ledger
}

// memTxRunner rolls the stores back when the transaction callback fails,
// mimicking an aborted multi-document transaction. Transactions are
// serialized so a rollback can never clobber another transaction's
// committed writes, the way Mongo resolves write conflicts by aborting
// one side.
type memTxRunner struct {
	stores *memStores
	txMu   sync.Mutex
}

func (r *memTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	snap := r.stores.snapshot()
	if err := fn(ctx); err != nil {
		r.stores.restore(snap)
		return err
	}
	return nil
}

type memBookingRepo struct{ s *memStores }

func (r *memBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *b
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	r.s.bookings[b.ID] = &cp
	return nil
}

func (r *memBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memBookingRepo) GetByNumber(ctx context.Context, number string) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bookings {
		if b.BookingNumber == number {
			cp := *b
			return &cp, nil
		}
	}
	return nil, bookingRepo.ErrNotFound
}

func (r *memBookingRepo) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Booking
	for _, b := range r.s.bookings {
		if b.Booker.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) ListByProfessional(ctx context.Context, professionalID string) ([]models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Booking
	for _, b := range r.s.bookings {
		if b.ProfessionalID == professionalID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) SetSuitableProfessionals(ctx context.Context, id string, pros []models.SuitableProfessional) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	cp := *b
	cp.SuitableProfessionals = append([]models.SuitableProfessional{}, pros...)
	r.s.bookings[id] = &cp
	return nil
}

func (r *memBookingRepo) RecordPayment(ctx context.Context, id string, payment models.PaymentDetails, payout *models.PayoutSnapshot) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return false, nil
	}
	if b.Payment.PaymentStatus == models.PaymentPaid {
		return false, nil
	}
	cp := *b
	cp.Payment = payment
	cp.Payout = payout
	r.s.bookings[id] = &cp
	return true, nil
}

func (r *memBookingRepo) ApplyTransition(ctx context.Context, id string, expectFrom []models.BookingStatus, upd models.TransitionUpdate) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return false, bookingRepo.ErrNotFound
	}
	if len(expectFrom) > 0 {
		matched := false
		for _, st := range expectFrom {
			if b.Status == st {
				matched = true
				break
			}
		}
		if !matched {
			return false, nil
		}
	} else if b.Status.Terminal() {
		return false, nil
	}

	cp := *b
	cp.Status = upd.Status
	if upd.ClearProfessional {
		cp.ProfessionalID = ""
	}
	if upd.SetProfessionalID != "" {
		cp.ProfessionalID = upd.SetProfessionalID
	}
	if upd.Cancellation != nil {
		cp.Cancellation = upd.Cancellation
	}
	if upd.Refund != nil {
		cp.Refund = upd.Refund
	}
	cp.UpdatedAt = time.Now().UTC()
	r.s.bookings[id] = &cp
	return true, nil
}

type memUserRepo struct{ s *memStores }

func (r *memUserRepo) Create(ctx context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(ctx context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

type memSubscriptionRepo struct{ s *memStores }

func (r *memSubscriptionRepo) GetByID(ctx context.Context, id string) (*models.SubscriptionCredit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sub, ok := r.s.subscriptions[id]
	if !ok {
		return nil, resourceRepo.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (r *memSubscriptionRepo) RedeemCredit(ctx context.Context, id string) (*models.SubscriptionCredit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sub, ok := r.s.subscriptions[id]
	if !ok {
		return nil, resourceRepo.ErrNotFound
	}
	if sub.Status != models.SubscriptionActive || sub.RemainingQuantity < 1 {
		return nil, resourceRepo.ErrInsufficientCredit
	}
	cp := *sub
	cp.RemainingQuantity--
	if cp.RemainingQuantity == 0 {
		cp.Status = models.SubscriptionDepleted
	}
	r.s.subscriptions[id] = &cp
	out := cp
	return &out, nil
}

type memVoucherRepo struct{ s *memStores }

func (r *memVoucherRepo) GetByID(ctx context.Context, id string) (*models.GiftVoucher, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.vouchers[id]
	if !ok {
		return nil, resourceRepo.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *memVoucherRepo) ApplyAmount(ctx context.Context, id string, amount float64, bookingID string) (*models.GiftVoucher, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.vouchers[id]
	if !ok {
		return nil, resourceRepo.ErrNotFound
	}
	if !v.Redeemable() {
		return nil, resourceRepo.ErrVoucherInactive
	}
	if v.RemainingAmount < amount {
		return nil, resourceRepo.ErrVoucherInsufficientBalance
	}
	cp := *v
	cp.RemainingAmount -= amount
	if cp.RemainingAmount < 0 {
		cp.RemainingAmount = 0
	}
	cp.UsageHistory = append(append([]models.VoucherUsage{}, v.UsageHistory...), models.VoucherUsage{
		BookingID: bookingID,
		Amount:    amount,
		UsedAt:    time.Now().UTC(),
	})
	if cp.RemainingAmount == 0 {
		cp.Status = models.VoucherFullyUsed
		cp.IsActive = false
	} else {
		cp.Status = models.VoucherPartiallyUsed
	}
	r.s.vouchers[id] = &cp
	out := cp
	return &out, nil
}

func (r *memVoucherRepo) ConsumeTreatment(ctx context.Context, id string, bookingID string) (*models.GiftVoucher, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.vouchers[id]
	if !ok {
		return nil, resourceRepo.ErrNotFound
	}
	if !v.Redeemable() {
		return nil, resourceRepo.ErrVoucherInactive
	}
	cp := *v
	cp.UsageHistory = append(append([]models.VoucherUsage{}, v.UsageHistory...), models.VoucherUsage{
		BookingID: bookingID,
		Amount:    v.RemainingAmount,
		UsedAt:    time.Now().UTC(),
	})
	cp.RemainingAmount = 0
	cp.Status = models.VoucherFullyUsed
	cp.IsActive = false
	r.s.vouchers[id] = &cp
	out := cp
	return &out, nil
}

func (r *memVoucherRepo) SetStatus(ctx context.Context, id string, status models.VoucherStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.vouchers[id]
	if !ok {
		return resourceRepo.ErrNotFound
	}
	cp := *v
	cp.Status = status
	r.s.vouchers[id] = &cp
	return nil
}

type memCouponRepo struct{ s *memStores }

func (r *memCouponRepo) GetByID(ctx context.Context, id string) (*models.Coupon, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.coupons[id]
	if !ok {
		return nil, resourceRepo.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCouponRepo) IncrementUsage(ctx context.Context, id string) (*models.Coupon, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.coupons[id]
	if !ok {
		return nil, resourceRepo.ErrNotFound
	}
	if !c.IsActive {
		return nil, resourceRepo.ErrCouponInactive
	}
	cp := *c
	cp.TimesUsed++
	r.s.coupons[id] = &cp
	out := cp
	return &out, nil
}

type memProfessionalRepo struct{ s *memStores }

func (r *memProfessionalRepo) GetByID(ctx context.Context, id string) (*models.Professional, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.professionals[id]
	if !ok {
		return nil, professionalRepo.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memProfessionalRepo) FindEligible(ctx context.Context, criteria professionalRepo.EligibilityCriteria) ([]models.Professional, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Professional
	for _, p := range r.s.professionals {
		if !p.Active || p.Status != models.ProfessionalActive {
			continue
		}
		if !offersTreatment(p, criteria.TreatmentID, criteria.DurationMinutes) {
			continue
		}
		if !p.Covers(criteria.City) {
			continue
		}
		if criteria.GenderPreference != "" && criteria.GenderPreference != "any" &&
			p.Gender != criteria.GenderPreference {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func offersTreatment(p *models.Professional, treatmentID string, duration int) bool {
	for _, t := range p.Treatments {
		if t.TreatmentID != treatmentID {
			continue
		}
		if duration == 0 || t.DurationMinutes == 0 || t.DurationMinutes == duration {
			return true
		}
	}
	return false
}

type memSequenceRepo struct{ s *memStores }

func (r *memSequenceRepo) Next(ctx context.Context, counterName string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.counters[counterName]++
	return r.s.counters[counterName], nil
}

type memLedgerRepo struct{ s *memStores }

func (r *memLedgerRepo) Create(ctx context.Context, entry *models.TransactionEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *entry
	cp.CreatedAt = time.Now().UTC()
	r.s.ledger = append(r.s.ledger, &cp)
	return nil
}

func (r *memLedgerRepo) ExistsFor(ctx context.Context, entityType models.LedgerEntityType, entityID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.ledger {
		if e.EntityType == entityType && e.EntityID == entityID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memLedgerRepo) UpdateStatusFor(ctx context.Context, entityType models.LedgerEntityType, entityID string, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, e := range r.s.ledger {
		if e.EntityType == entityType && e.EntityID == entityID {
			cp := *e
			cp.Status = status
			r.s.ledger[i] = &cp
		}
	}
	return nil
}

func (r *memLedgerRepo) ListByEntity(ctx context.Context, entityType models.LedgerEntityType, entityID string) ([]models.TransactionEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.TransactionEntry
	for _, e := range r.s.ledger {
		if e.EntityType == entityType && e.EntityID == entityID {
			out = append(out, *e)
		}
	}
	return out, nil
}

// recordingNotifier counts dispatch attempts per payload type.
type recordingNotifier struct {
	mu    sync.Mutex
	sends []recordedSend
}

type recordedSend struct {
	target  string
	payload models.NotificationPayload
}

func (n *recordingNotifier) SendToUser(ctx context.Context, userID string, payload models.NotificationPayload, pref *models.ChannelPreference) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sends = append(n.sends, recordedSend{target: "user:" + userID, payload: payload})
	return nil
}

func (n *recordingNotifier) SendToGuest(ctx context.Context, contact models.ContactSnapshot, payload models.NotificationPayload, pref *models.ChannelPreference) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sends = append(n.sends, recordedSend{target: "guest:" + contact.Email, payload: payload})
	return nil
}

func (n *recordingNotifier) SendToProfessional(ctx context.Context, professionalID string, payload models.NotificationPayload) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sends = append(n.sends, recordedSend{target: "professional:" + professionalID, payload: payload})
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sends)
}

// testEnv bundles a fully wired order engine on the in-memory stores.
type testEnv struct {
	stores   *memStores
	bookings *memBookingRepo
	notifier *recordingNotifier
	orders   *DefaultOrderService
	status   *DefaultStatusService
	matching *DefaultMatchingService
	ledger   *LedgerWriter
}

func newTestEnv() *testEnv {
	stores := newMemStores()
	bookings := &memBookingRepo{s: stores}
	users := &memUserRepo{s: stores}
	subs := &memSubscriptionRepo{s: stores}
	vouchers := &memVoucherRepo{s: stores}
	coupons := &memCouponRepo{s: stores}
	pros := &memProfessionalRepo{s: stores}
	sequences := &memSequenceRepo{s: stores}
	ledgerStore := &memLedgerRepo{s: stores}
	notifier := &recordingNotifier{}

	ledger := NewLedgerWriter(ledgerStore, sequences)
	matching := &DefaultMatchingService{Professionals: pros, Bookings: bookings}
	orders := NewOrderService(bookings, users, subs, vouchers, coupons, sequences,
		&memTxRunner{stores: stores}, matching, notifier, ledger)
	status := &DefaultStatusService{Bookings: bookings, Notifier: notifier, Ledger: ledger}

	return &testEnv{
		stores:   stores,
		bookings: bookings,
		notifier: notifier,
		orders:   orders,
		status:   status,
		matching: matching,
		ledger:   ledger,
	}
}

func (e *testEnv) seedUser(id string) *models.User {
	u := &models.User{
		ID:    id,
		Name:  "Dana Levi",
		Email: id + "@example.com",
		Phone: "+972500000000",
		Addresses: []models.SavedAddress{{
			ID:          "addr-1",
			City:        "Tel Aviv",
			Street:      "Dizengoff",
			HouseNumber: "100",
			FullAddress: "Dizengoff 100, Tel Aviv",
		}},
	}
	e.stores.mu.Lock()
	e.stores.users[id] = u
	e.stores.mu.Unlock()
	return u
}

func baseInput(userID string) models.CreateBookingInput {
	return models.CreateBookingInput{
		UserID:        userID,
		TreatmentID:   "treat-1",
		TreatmentName: "Deep Tissue Massage",
		ScheduledAt:   time.Now().Add(48 * time.Hour).UTC(),
		AddressID:     "addr-1",
		BasePrice:     200,
		Consents: models.NotificationConsents{
			Booker: &models.ChannelPreference{Channels: []models.NotificationChannel{models.ChannelPush}},
		},
	}
}
