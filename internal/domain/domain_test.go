package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotReservation_IsActive(t *testing.T) {
	created := time.Date(2025, 7, 7, 10, 0, 0, 0, time.UTC)
	hold := &SlotReservation{CreatedAt: created, ExpiresAt: created.Add(10 * time.Minute)}

	assert.True(t, hold.IsActive(created.Add(9*time.Minute+59*time.Second)))
	assert.False(t, hold.IsActive(created.Add(10*time.Minute)))
	assert.False(t, hold.IsActive(created.Add(10*time.Minute+time.Second)))
}

func TestInterval_Overlaps(t *testing.T) {
	slot := Interval{Start: 690, End: 720} // 11:30-12:00

	assert.True(t, slot.Overlaps(Interval{Start: 680, End: 700}))
	assert.False(t, slot.Overlaps(Interval{Start: 660, End: 690}), "touching at start")
	assert.False(t, slot.Overlaps(Interval{Start: 720, End: 750}), "touching at end")
	assert.True(t, slot.Overlaps(Interval{Start: 690, End: 720}), "same interval")
}

func TestParseLessonType(t *testing.T) {
	tests := []struct {
		in       string
		want     LessonType
		duration int
		price    int64
	}{
		{"quick-journey", LessonQuickJourney, 30, 4000},
		{"Dual-Quest", LessonDualQuest, 30, 5000},
		{"deep-dive", LessonDeepDive, 60, 6000},
		{" partner-progression ", LessonPartnerProgression, 60, 8000},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			lt, err := ParseLessonType(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, lt)

			offering, ok := lt.Offering()
			require.True(t, ok)
			assert.Equal(t, tt.duration, offering.DurationMinutes)
			assert.Equal(t, tt.price, offering.PriceCents)
		})
	}

	_, err := ParseLessonType("1-hour private")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPaymentEvent_TargetPaymentStatus(t *testing.T) {
	tests := []struct {
		name    string
		event   PaymentEvent
		current PaymentStatus
		want    PaymentStatus
	}{
		{"success", PaymentEvent{Type: PaymentEventSucceeded}, PaymentReservationPending, PaymentReservationPaid},
		{"checkout completed alias", PaymentEvent{Type: "checkout.session.completed"}, PaymentReservationPending, PaymentReservationPaid},
		{"failure", PaymentEvent{Type: PaymentEventFailed}, PaymentReservationPending, PaymentReservationFailed},
		{"pending", PaymentEvent{Type: PaymentEventPending}, PaymentUnpaid, PaymentReservationPending},
		{"refund reservation", PaymentEvent{Type: PaymentEventRefunded}, PaymentReservationPaid, PaymentReservationRefunded},
		{"refund session", PaymentEvent{Type: PaymentEventRefunded}, PaymentSessionPaid, PaymentSessionRefunded},
		{"explicit state wins", PaymentEvent{Type: PaymentEventSucceeded, PaymentState: "SESSION_PAID"}, PaymentReservationPaid, PaymentSessionPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.event.TargetPaymentStatus(tt.current)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePaymentEventType(t *testing.T) {
	got, err := ParsePaymentEventType("checkout.session.completed")
	require.NoError(t, err)
	assert.Equal(t, PaymentEventSucceeded, got)

	_, err = ParsePaymentEventType("invoice.created")
	assert.ErrorIs(t, err, ErrValidation)
}
