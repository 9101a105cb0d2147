package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetermineStatus_AllCombinations(t *testing.T) {
	const (
		pending   = BookingStatusPending
		paid      = BookingStatusPaid
		confirmed = BookingStatusConfirmed
		completed = BookingStatusCompleted
		cancelled = BookingStatusCancelled
		failed    = BookingStatusFailed
	)

	// columns follow AllAttendanceStatuses:
	// pending, confirmed, completed, cancelled, no-show, manual
	expected := map[PaymentStatus][6]BookingStatus{
		PaymentUnpaid:              {pending, confirmed, completed, cancelled, completed, pending},
		PaymentReservationPending:  {pending, confirmed, completed, cancelled, completed, pending},
		PaymentReservationPaid:     {paid, confirmed, completed, cancelled, completed, confirmed},
		PaymentReservationFailed:   {failed, failed, failed, failed, failed, failed},
		PaymentSessionPaid:         {paid, confirmed, completed, cancelled, completed, confirmed},
		PaymentReservationRefunded: {cancelled, cancelled, cancelled, cancelled, cancelled, cancelled},
		PaymentSessionRefunded:     {cancelled, cancelled, cancelled, cancelled, cancelled, cancelled},
	}
	require.Len(t, expected, len(AllPaymentStatuses))
	require.Len(t, AllAttendanceStatuses, 6)

	combinations := 0
	for _, p := range AllPaymentStatuses {
		row, ok := expected[p]
		require.True(t, ok, "missing row for %s", p)

		for i, a := range AllAttendanceStatuses {
			first := DetermineStatus(p, a)
			second := DetermineStatus(p, a)

			assert.Equal(t, first, second, "not deterministic for (%s, %s)", p, a)
			assert.Contains(t, AllBookingStatuses, first)
			assert.Equal(t, row[i], first, "(%s, %s)", p, a)
			combinations++
		}
	}
	assert.Equal(t, 42, combinations)
}

func TestDetermineStatus_ScenarioTable(t *testing.T) {
	tests := []struct {
		payment    PaymentStatus
		attendance AttendanceStatus
		want       BookingStatus
	}{
		{PaymentReservationPaid, AttendancePending, BookingStatusPaid},
		{PaymentSessionPaid, AttendanceConfirmed, BookingStatusConfirmed},
		{PaymentReservationRefunded, AttendanceConfirmed, BookingStatusCancelled},
		{PaymentUnpaid, AttendanceNoShow, BookingStatusCompleted},
		{PaymentUnpaid, AttendanceManual, BookingStatusPending},
		{PaymentSessionPaid, AttendanceManual, BookingStatusConfirmed},
	}

	for _, tt := range tests {
		t.Run(string(tt.payment)+"/"+string(tt.attendance), func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineStatus(tt.payment, tt.attendance))
		})
	}
}

func TestDetermineStatus_PaidManualIsConfirmedNotPaid(t *testing.T) {
	for _, payment := range []PaymentStatus{PaymentReservationPaid, PaymentSessionPaid} {
		got := DetermineStatus(payment, AttendanceManual)
		assert.Equal(t, BookingStatusConfirmed, got, payment)
		assert.NotEqual(t, BookingStatusPaid, got, payment)
	}
}

func TestDetermineStatus_RefundBeatsManual(t *testing.T) {
	assert.Equal(t, BookingStatusCancelled, DetermineStatus(PaymentReservationRefunded, AttendanceManual))
	assert.Equal(t, BookingStatusCancelled, DetermineStatus(PaymentSessionRefunded, AttendanceManual))
}

func TestParseSubstatuses_CaseInsensitive(t *testing.T) {
	tests := []struct {
		name       string
		payment    string
		attendance string
		want       BookingStatus
	}{
		{"upper snake", "RESERVATION_PAID", "PENDING", BookingStatusPaid},
		{"lower kebab", "reservation-paid", "pending", BookingStatusPaid},
		{"mixed", "Session_Refunded", "Confirmed", BookingStatusCancelled},
		{"no show snake", "unpaid", "NO_SHOW", BookingStatusCompleted},
		{"padded", "  reservation-failed ", "manual", BookingStatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payment, err := ParsePaymentStatus(tt.payment)
			require.NoError(t, err)
			attendance, err := ParseAttendanceStatus(tt.attendance)
			require.NoError(t, err)
			assert.Equal(t, tt.want, DetermineStatus(payment, attendance))
		})
	}
}

func TestParseStatuses_Unknown(t *testing.T) {
	_, err := ParsePaymentStatus("paid-in-cash")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ParseAttendanceStatus("")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ParseAttendanceStatus("late")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBookingStatus_Flags(t *testing.T) {
	assert.True(t, BookingStatusCompleted.IsTerminal())
	assert.True(t, BookingStatusCancelled.IsTerminal())
	assert.True(t, BookingStatusFailed.IsTerminal())
	assert.False(t, BookingStatusPaid.IsTerminal())

	assert.False(t, BookingStatusCancelled.OccupiesSlot())
	assert.False(t, BookingStatusFailed.OccupiesSlot())
	assert.True(t, BookingStatusCompleted.OccupiesSlot())
	assert.True(t, BookingStatusPending.OccupiesSlot())
}

func TestBooking_SetSubstatuses(t *testing.T) {
	b := &Booking{}
	b.SetSubstatuses(PaymentReservationPaid, AttendanceConfirmed)

	assert.Equal(t, PaymentReservationPaid, b.PaymentStatus)
	assert.Equal(t, AttendanceConfirmed, b.AttendanceStatus)
	assert.Equal(t, BookingStatusConfirmed, b.Status)
}
