package booking_lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/GymLessonBookingService/internal/domain"
	bookingRepo "github.com/m04kA/GymLessonBookingService/internal/infra/storage/booking"
	reservationRepo "github.com/m04kA/GymLessonBookingService/internal/infra/storage/reservation"
	"github.com/m04kA/GymLessonBookingService/internal/integrations/profileservice"
	"github.com/m04kA/GymLessonBookingService/internal/integrations/stripepay"
	"github.com/m04kA/GymLessonBookingService/internal/service/reservations"
	"github.com/m04kA/GymLessonBookingService/pkg/metrics"
	"github.com/m04kA/GymLessonBookingService/pkg/ptr"
)

// fakeStore бронирования, интервалы и журнал событий в памяти
type fakeStore struct {
	nextID   int64
	bookings map[int64]domain.Booking
	claims   map[int64]bool
	events   map[string]domain.PaymentEventType

	claimErr  error
	createErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID:   1,
		bookings: make(map[int64]domain.Booking),
		claims:   make(map[int64]bool),
		events:   make(map[string]domain.PaymentEventType),
	}
}

func (s *fakeStore) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	b.ID = s.nextID
	s.nextID++
	b.Status = domain.DetermineStatus(b.PaymentStatus, b.AttendanceStatus)
	s.bookings[b.ID] = *b
	return b, nil
}

func (s *fakeStore) GetByIDForUpdate(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return &b, nil
}

func (s *fakeStore) UpdateSubstatuses(_ context.Context, id int64, p domain.PaymentStatus, a domain.AttendanceStatus) (domain.BookingStatus, error) {
	b := s.bookings[id]
	b.SetSubstatuses(p, a)
	s.bookings[id] = b
	return b.Status, nil
}

func (s *fakeStore) UpdatePaymentDetails(_ context.Context, id int64, reference *string, paid *int64) error {
	b := s.bookings[id]
	if reference != nil {
		b.PaymentReference = reference
	}
	if paid != nil {
		b.PaidAmountCents = paid
	}
	s.bookings[id] = b
	return nil
}

func (s *fakeStore) AttachProfile(_ context.Context, id int64, profileID int64) error {
	b := s.bookings[id]
	b.ProfileID = ptr.Ptr(profileID)
	s.bookings[id] = b
	return nil
}

func (s *fakeStore) ClaimForBooking(_ context.Context, b *domain.Booking, _ time.Time) error {
	if s.claimErr != nil {
		return s.claimErr
	}
	s.claims[b.ID] = true
	return nil
}

func (s *fakeStore) ReleaseBookingClaim(_ context.Context, id int64) error {
	delete(s.claims, id)
	return nil
}

func (s *fakeStore) MarkProcessed(_ context.Context, eventID string, _ int64, eventType domain.PaymentEventType) (bool, error) {
	if _, seen := s.events[eventID]; seen {
		return false, nil
	}
	s.events[eventID] = eventType
	return true, nil
}

type fakeReservations struct {
	hold *domain.SlotReservation
	err  error
}

func (f *fakeReservations) Consume(context.Context, string) (*domain.SlotReservation, error) {
	if f.err != nil {
		return nil, f.err
	}
	hold := f.hold
	f.hold = nil
	if hold == nil {
		return nil, reservations.ErrReservationExpired
	}
	return hold, nil
}

type fakePayments struct {
	err  error
	last stripepay.CheckoutRequest
}

func (f *fakePayments) CreateCheckout(_ context.Context, req stripepay.CheckoutRequest) (*stripepay.Checkout, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &stripepay.Checkout{SessionID: "cs_test_1", URL: "https://pay.example/cs_test_1"}, nil
}

type fakeProfiles struct {
	err   error
	calls int
}

func (f *fakeProfiles) FindOrCreateParent(context.Context, profileservice.ParentRequest) (*profileservice.Parent, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &profileservice.Parent{ID: 77}, nil
}

type notification struct {
	status   domain.BookingStatus
	previous domain.BookingStatus
	url      string
}

type fakeNotifier struct {
	sent []notification
}

func (f *fakeNotifier) BookingStatusChanged(_ context.Context, b *domain.Booking, previous domain.BookingStatus, url string) error {
	f.sent = append(f.sent, notification{status: b.Status, previous: previous, url: url})
	return nil
}

type fakeMetrics struct {
	events   map[string]int
	statuses []string
}

func (m *fakeMetrics) RecordPaymentEvent(_, outcome string) {
	if m.events == nil {
		m.events = make(map[string]int)
	}
	m.events[outcome]++
}

func (m *fakeMetrics) RecordStatusChange(status string) {
	m.statuses = append(m.statuses, status)
}

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	store    *fakeStore
	holds    *fakeReservations
	payments *fakePayments
	profiles *fakeProfiles
	notifier *fakeNotifier
	metrics  *fakeMetrics
	uc       *Coordinator
}

func newFixture() *fixture {
	f := &fixture{
		store: newFakeStore(),
		holds: &fakeReservations{hold: &domain.SlotReservation{
			ID:              1,
			Date:            time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC),
			StartTime:       "12:00",
			DurationMinutes: 60,
			LessonType:      domain.LessonDeepDive,
			SessionID:       "sess-1",
		}},
		payments: &fakePayments{},
		profiles: &fakeProfiles{},
		notifier: &fakeNotifier{},
		metrics:  &fakeMetrics{},
	}
	f.uc = NewCoordinator(f.holds, f.store, f.store, f.store, f.payments, f.profiles, f.notifier, inlineTx{}, f.metrics, nopLogger{}).
		WithTimeProvider(fixedClock{now: time.Date(2025, 7, 6, 12, 0, 0, 0, time.UTC)})
	return f
}

func validRequest() *CreateRequest {
	return &CreateRequest{
		SessionID: "sess-1",
		Details: domain.BookingDetails{
			ParentFirstName: "Ana",
			ParentLastName:  "Lee",
			ParentEmail:     " Ana.Lee@Example.com ",
			ParentPhone:     "+1 555 0100",
			Athletes:        []string{"Mia"},
		},
	}
}

// seed создает бронирование в заданных подстатусах с занятым интервалом
func (f *fixture) seed(p domain.PaymentStatus, a domain.AttendanceStatus) int64 {
	b := &domain.Booking{
		BookingDate:      time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC),
		StartTime:        "12:00",
		DurationMinutes:  30,
		LessonType:       domain.LessonQuickJourney,
		PaymentStatus:    p,
		AttendanceStatus: a,
	}
	created, _ := f.store.Create(context.Background(), b)
	if created.OccupiesSlot() {
		f.store.claims[created.ID] = true
	}
	return created.ID
}

func TestCreateFromReservation(t *testing.T) {
	f := newFixture()

	res, err := f.uc.CreateFromReservation(context.Background(), validRequest())
	require.NoError(t, err)

	b := res.Booking
	assert.Equal(t, domain.PaymentReservationPending, b.PaymentStatus)
	assert.Equal(t, domain.AttendancePending, b.AttendanceStatus)
	assert.Equal(t, domain.BookingStatusPending, b.Status)
	assert.Equal(t, int64(6000), b.AmountCents)
	assert.Equal(t, "ana.lee@example.com", b.ParentEmail)
	assert.Equal(t, "https://pay.example/cs_test_1", res.CheckoutURL)
	assert.Equal(t, "cs_test_1", *f.store.bookings[b.ID].PaymentReference)
	assert.True(t, f.store.claims[b.ID])
	assert.Equal(t, int64(77), *f.store.bookings[b.ID].ProfileID)

	assert.Equal(t, b.ID, f.payments.last.BookingID)
	assert.Equal(t, "Deep Dive", f.payments.last.LessonName)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "https://pay.example/cs_test_1", f.notifier.sent[0].url)
}

func TestCreateFromReservation_HoldConsumedOnce(t *testing.T) {
	f := newFixture()

	_, err := f.uc.CreateFromReservation(context.Background(), validRequest())
	require.NoError(t, err)

	_, err = f.uc.CreateFromReservation(context.Background(), validRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrReservationExpired))
	assert.Len(t, f.store.bookings, 1)
}

func TestCreateFromReservation_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *CreateRequest)
	}{
		{"no session", func(r *CreateRequest) { r.SessionID = "  " }},
		{"bad email", func(r *CreateRequest) { r.Details.ParentEmail = "nope" }},
		{"no athletes", func(r *CreateRequest) { r.Details.Athletes = nil }},
		{"blank athlete", func(r *CreateRequest) { r.Details.Athletes = []string{" "} }},
		{"no first name", func(r *CreateRequest) { r.Details.ParentFirstName = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := validRequest()
			tt.mutate(req)

			_, err := f.uc.CreateFromReservation(context.Background(), req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))
			assert.NotNil(t, f.holds.hold, "hold must not be consumed")
		})
	}
}

func TestCreateFromReservation_PaymentInitiationFails(t *testing.T) {
	f := newFixture()
	f.payments.err = errors.New("card network down")

	_, err := f.uc.CreateFromReservation(context.Background(), validRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPaymentInitiation))

	require.Len(t, f.store.bookings, 1)
	b := f.store.bookings[1]
	assert.Equal(t, domain.PaymentReservationFailed, b.PaymentStatus)
	assert.Equal(t, domain.BookingStatusFailed, b.Status)
	assert.False(t, f.store.claims[1], "interval must be released")
}

func TestCreateFromReservation_ProfileFailureDoesNotAbort(t *testing.T) {
	f := newFixture()
	f.profiles.err = profileservice.ErrInternal

	res, err := f.uc.CreateFromReservation(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Nil(t, f.store.bookings[res.Booking.ID].ProfileID)
	assert.Equal(t, domain.BookingStatusPending, res.Booking.Status)
}

func TestCreateFromReservation_ClaimConflict(t *testing.T) {
	f := newFixture()
	f.store.claimErr = reservationRepo.ErrOverlap

	_, err := f.uc.CreateFromReservation(context.Background(), validRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSlotConflict))
	assert.Empty(t, f.notifier.sent)
}

func TestApplyPaymentEvent_SucceededConfirmsAttendance(t *testing.T) {
	f := newFixture()
	id := f.seed(domain.PaymentReservationPending, domain.AttendancePending)

	res, err := f.uc.ApplyPaymentEvent(context.Background(), domain.PaymentEvent{
		ID:               "evt_1",
		Type:             domain.PaymentEventSucceeded,
		BookingReference: id,
		AmountCents:      4000,
		SessionReference: "cs_1",
	})
	require.NoError(t, err)
	assert.Equal(t, metrics.PaymentEventApplied, res.Outcome)

	b := f.store.bookings[id]
	assert.Equal(t, domain.PaymentReservationPaid, b.PaymentStatus)
	assert.Equal(t, domain.AttendanceConfirmed, b.AttendanceStatus)
	assert.Equal(t, domain.BookingStatusConfirmed, b.Status)
	assert.Equal(t, int64(4000), *b.PaidAmountCents)
	assert.Equal(t, "cs_1", *b.PaymentReference)
	assert.Equal(t, int64(77), *b.ProfileID)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, domain.BookingStatusPending, f.notifier.sent[0].previous)
}

func TestApplyPaymentEvent_CheckoutCompletedAlias(t *testing.T) {
	f := newFixture()
	id := f.seed(domain.PaymentReservationPending, domain.AttendancePending)

	res, err := f.uc.ApplyPaymentEvent(context.Background(), domain.PaymentEvent{
		ID:               "evt_alias",
		Type:             "checkout.session.completed",
		BookingReference: id,
		AmountCents:      4000,
	})
	require.NoError(t, err)
	assert.Equal(t, metrics.PaymentEventApplied, res.Outcome)

	b := f.store.bookings[id]
	assert.Equal(t, domain.PaymentReservationPaid, b.PaymentStatus)
	assert.Equal(t, domain.BookingStatusConfirmed, b.Status)
	assert.Equal(t, domain.PaymentEventSucceeded, f.store.events["evt_alias"])
}

func TestApplyPaymentEvent_Idempotent(t *testing.T) {
	f := newFixture()
	id := f.seed(domain.PaymentReservationPending, domain.AttendancePending)
	event := domain.PaymentEvent{ID: "evt_1", Type: domain.PaymentEventSucceeded, BookingReference: id}

	_, err := f.uc.ApplyPaymentEvent(context.Background(), event)
	require.NoError(t, err)
	first := f.store.bookings[id]

	res, err := f.uc.ApplyPaymentEvent(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, metrics.PaymentEventDuplicate, res.Outcome)
	assert.Equal(t, first, f.store.bookings[id])
	assert.Len(t, f.notifier.sent, 1)
	assert.Equal(t, 1, f.metrics.events[metrics.PaymentEventDuplicate])
}

func TestApplyPaymentEvent_StaleEventsIgnored(t *testing.T) {
	tests := []struct {
		name       string
		payment    domain.PaymentStatus
		attendance domain.AttendanceStatus
		event      domain.PaymentEventType
	}{
		{"pending after paid", domain.PaymentReservationPaid, domain.AttendanceConfirmed, domain.PaymentEventPending},
		{"failed after paid", domain.PaymentReservationPaid, domain.AttendancePending, domain.PaymentEventFailed},
		{"success on completed", domain.PaymentUnpaid, domain.AttendanceCompleted, domain.PaymentEventSucceeded},
		{"success after refund", domain.PaymentReservationRefunded, domain.AttendancePending, domain.PaymentEventSucceeded},
		{"success after failure", domain.PaymentReservationFailed, domain.AttendancePending, domain.PaymentEventSucceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			id := f.seed(tt.payment, tt.attendance)
			before := f.store.bookings[id]

			res, err := f.uc.ApplyPaymentEvent(context.Background(), domain.PaymentEvent{
				ID: "evt_stale", Type: tt.event, BookingReference: id,
			})
			require.NoError(t, err)
			assert.Equal(t, metrics.PaymentEventIgnored, res.Outcome)
			assert.Equal(t, before, f.store.bookings[id])
			assert.Empty(t, f.notifier.sent)
		})
	}
}

func TestApplyPaymentEvent_RefundReleasesInterval(t *testing.T) {
	f := newFixture()
	id := f.seed(domain.PaymentSessionPaid, domain.AttendanceConfirmed)

	_, err := f.uc.ApplyPaymentEvent(context.Background(), domain.PaymentEvent{
		ID: "evt_r", Type: domain.PaymentEventRefunded, BookingReference: id,
	})
	require.NoError(t, err)

	b := f.store.bookings[id]
	assert.Equal(t, domain.PaymentSessionRefunded, b.PaymentStatus)
	assert.Equal(t, domain.BookingStatusCancelled, b.Status)
	assert.False(t, f.store.claims[id])
}

func TestApplyPaymentEvent_RefundAfterCompletion(t *testing.T) {
	f := newFixture()
	id := f.seed(domain.PaymentReservationPaid, domain.AttendanceCompleted)

	res, err := f.uc.ApplyPaymentEvent(context.Background(), domain.PaymentEvent{
		ID: "evt_r", Type: domain.PaymentEventRefunded, BookingReference: id,
	})
	require.NoError(t, err)
	assert.Equal(t, metrics.PaymentEventApplied, res.Outcome)
	assert.Equal(t, domain.BookingStatusCancelled, f.store.bookings[id].Status)
}

func TestApplyPaymentEvent_Errors(t *testing.T) {
	f := newFixture()

	_, err := f.uc.ApplyPaymentEvent(context.Background(), domain.PaymentEvent{ID: "evt", Type: domain.PaymentEventSucceeded, BookingReference: 404})
	assert.True(t, errors.Is(err, domain.ErrBookingNotFound))
	assert.Equal(t, 1, f.metrics.events[metrics.PaymentEventFailed])

	_, err = f.uc.ApplyPaymentEvent(context.Background(), domain.PaymentEvent{Type: domain.PaymentEventSucceeded, BookingReference: 1})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = f.uc.ApplyPaymentEvent(context.Background(), domain.PaymentEvent{ID: "evt", Type: "charge.dispute", BookingReference: 1})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestApplyAdminOverride_ScenarioTable(t *testing.T) {
	tests := []struct {
		payment    string
		attendance string
		want       domain.BookingStatus
	}{
		{"RESERVATION_PAID", "PENDING", domain.BookingStatusPaid},
		{"SESSION_PAID", "CONFIRMED", domain.BookingStatusConfirmed},
		{"RESERVATION_REFUNDED", "CONFIRMED", domain.BookingStatusCancelled},
		{"UNPAID", "NO_SHOW", domain.BookingStatusCompleted},
		{"UNPAID", "MANUAL", domain.BookingStatusPending},
		{"SESSION_PAID", "MANUAL", domain.BookingStatusConfirmed},
	}

	for _, tt := range tests {
		t.Run(tt.payment+"/"+tt.attendance, func(t *testing.T) {
			f := newFixture()
			id := f.seed(domain.PaymentReservationPending, domain.AttendancePending)

			b, err := f.uc.ApplyAdminOverride(context.Background(), id, AdminOverrideRequest{
				PaymentStatus:    ptr.Ptr(tt.payment),
				AttendanceStatus: ptr.Ptr(tt.attendance),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.Status)
			assert.Equal(t, tt.want, f.store.bookings[id].Status)
			assert.Equal(t, b.OccupiesSlot(), f.store.claims[id])
		})
	}
}

func TestApplyAdminOverride_PartialUpdateKeepsOtherSubstatus(t *testing.T) {
	f := newFixture()
	id := f.seed(domain.PaymentReservationPaid, domain.AttendancePending)

	b, err := f.uc.ApplyAdminOverride(context.Background(), id, AdminOverrideRequest{AttendanceStatus: ptr.Ptr("completed")})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentReservationPaid, b.PaymentStatus)
	assert.Equal(t, domain.BookingStatusCompleted, b.Status)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, domain.BookingStatusPaid, f.notifier.sent[0].previous)
}

func TestApplyAdminOverride_Reactivation(t *testing.T) {
	t.Run("interval free", func(t *testing.T) {
		f := newFixture()
		id := f.seed(domain.PaymentReservationPaid, domain.AttendanceCancelled)
		require.False(t, f.store.claims[id])

		b, err := f.uc.ApplyAdminOverride(context.Background(), id, AdminOverrideRequest{AttendanceStatus: ptr.Ptr("confirmed")})
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusConfirmed, b.Status)
		assert.True(t, f.store.claims[id])
	})

	t.Run("interval taken", func(t *testing.T) {
		f := newFixture()
		id := f.seed(domain.PaymentReservationPaid, domain.AttendanceCancelled)
		f.store.claimErr = reservationRepo.ErrOverlap

		_, err := f.uc.ApplyAdminOverride(context.Background(), id, AdminOverrideRequest{AttendanceStatus: ptr.Ptr("confirmed")})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrSlotConflict))
		assert.Empty(t, f.notifier.sent)
	})
}

func TestApplyAdminOverride_Errors(t *testing.T) {
	f := newFixture()
	id := f.seed(domain.PaymentUnpaid, domain.AttendancePending)

	_, err := f.uc.ApplyAdminOverride(context.Background(), id, AdminOverrideRequest{})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = f.uc.ApplyAdminOverride(context.Background(), id, AdminOverrideRequest{PaymentStatus: ptr.Ptr("paid-twice")})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = f.uc.ApplyAdminOverride(context.Background(), 999, AdminOverrideRequest{AttendanceStatus: ptr.Ptr("confirmed")})
	assert.True(t, errors.Is(err, domain.ErrBookingNotFound))
}
