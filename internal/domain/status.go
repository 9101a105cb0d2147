package domain

import (
	"fmt"
	"strings"
)

// PaymentStatus is the payment substatus of a booking.
type PaymentStatus string

const (
	PaymentUnpaid              PaymentStatus = "unpaid"
	PaymentReservationPending  PaymentStatus = "reservation-pending"
	PaymentReservationPaid     PaymentStatus = "reservation-paid"
	PaymentReservationFailed   PaymentStatus = "reservation-failed"
	PaymentSessionPaid         PaymentStatus = "session-paid"
	PaymentReservationRefunded PaymentStatus = "reservation-refunded"
	PaymentSessionRefunded     PaymentStatus = "session-refunded"
)

// AllPaymentStatuses lists every payment substatus.
var AllPaymentStatuses = []PaymentStatus{
	PaymentUnpaid,
	PaymentReservationPending,
	PaymentReservationPaid,
	PaymentReservationFailed,
	PaymentSessionPaid,
	PaymentReservationRefunded,
	PaymentSessionRefunded,
}

// AttendanceStatus is the attendance substatus of a booking.
type AttendanceStatus string

const (
	AttendancePending   AttendanceStatus = "pending"
	AttendanceConfirmed AttendanceStatus = "confirmed"
	AttendanceCompleted AttendanceStatus = "completed"
	AttendanceCancelled AttendanceStatus = "cancelled"
	AttendanceNoShow    AttendanceStatus = "no-show"
	AttendanceManual    AttendanceStatus = "manual"
)

// AllAttendanceStatuses lists every attendance substatus.
var AllAttendanceStatuses = []AttendanceStatus{
	AttendancePending,
	AttendanceConfirmed,
	AttendanceCompleted,
	AttendanceCancelled,
	AttendanceNoShow,
	AttendanceManual,
}

// BookingStatus is the derived lifecycle status of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusPaid      BookingStatus = "paid"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusFailed    BookingStatus = "failed"
)

// AllBookingStatuses lists every derived status.
var AllBookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusPaid,
	BookingStatusConfirmed,
	BookingStatusCompleted,
	BookingStatusCancelled,
	BookingStatusFailed,
}

// InactiveBookingStatuses are statuses whose bookings no longer occupy their interval.
var InactiveBookingStatuses = []BookingStatus{
	BookingStatusCancelled,
	BookingStatusFailed,
}

// DetermineStatus maps a (payment, attendance) pair to the derived booking status.
// Rules are evaluated top to bottom and the first match wins:
//
//  1. payment failed                          -> failed
//  2. payment refunded or attendance cancelled -> cancelled
//  3. attendance completed or no-show          -> completed
//  4. attendance confirmed                     -> confirmed
//  5. attendance manual                        -> confirmed when paid, otherwise pending
//  6. payment paid                             -> paid
//  7. anything else                            -> pending
//
// The manual branch runs before the paid branch so that a paid manual entry
// resolves to confirmed. Earlier releases resolved (session-paid, manual) to
// paid; returning confirmed here is deliberate. No-show is collapsed into
// completed on purpose.
// This is the only function that computes a booking status.
func DetermineStatus(payment PaymentStatus, attendance AttendanceStatus) BookingStatus {
	if payment == PaymentReservationFailed {
		return BookingStatusFailed
	}

	if payment.IsRefunded() || attendance == AttendanceCancelled {
		return BookingStatusCancelled
	}

	switch attendance {
	case AttendanceCompleted, AttendanceNoShow:
		return BookingStatusCompleted
	case AttendanceConfirmed:
		return BookingStatusConfirmed
	case AttendanceManual:
		if payment.IsPaid() {
			return BookingStatusConfirmed
		}
		return BookingStatusPending
	case AttendancePending:
		// attendance carries no signal, payment decides
	}

	if payment.IsPaid() {
		return BookingStatusPaid
	}

	// unpaid or reservation-pending with pending attendance
	return BookingStatusPending
}

// IsPaid reports whether a reservation or session payment has been captured.
func (p PaymentStatus) IsPaid() bool {
	return p == PaymentReservationPaid || p == PaymentSessionPaid
}

// IsRefunded reports whether the payment has been refunded.
func (p PaymentStatus) IsRefunded() bool {
	return p == PaymentReservationRefunded || p == PaymentSessionRefunded
}

// Rank orders payment states along the payment flow.
// Events that do not increase the rank are stale and must not be applied.
func (p PaymentStatus) Rank() int {
	switch p {
	case PaymentUnpaid:
		return 0
	case PaymentReservationPending:
		return 1
	case PaymentReservationFailed:
		return 2
	case PaymentReservationPaid:
		return 3
	case PaymentSessionPaid:
		return 4
	case PaymentReservationRefunded, PaymentSessionRefunded:
		return 5
	default:
		return -1
	}
}

func (p PaymentStatus) String() string {
	return string(p)
}

func (a AttendanceStatus) String() string {
	return string(a)
}

// IsTerminal reports whether the status ends the booking lifecycle.
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingStatusCompleted, BookingStatusCancelled, BookingStatusFailed:
		return true
	case BookingStatusPending, BookingStatusPaid, BookingStatusConfirmed:
		return false
	default:
		return false
	}
}

// OccupiesSlot reports whether a booking with this status blocks its interval.
func (s BookingStatus) OccupiesSlot() bool {
	return s != BookingStatusCancelled && s != BookingStatusFailed
}

func (s BookingStatus) String() string {
	return string(s)
}

// ParsePaymentStatus parses a payment status ignoring case and accepting '_' or '-' separators.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	normalized := PaymentStatus(normalizeEnum(s))
	for _, p := range AllPaymentStatuses {
		if p == normalized {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: unknown payment status %q", ErrValidation, s)
}

// ParseAttendanceStatus parses an attendance status ignoring case and accepting '_' or '-' separators.
func ParseAttendanceStatus(s string) (AttendanceStatus, error) {
	normalized := AttendanceStatus(normalizeEnum(s))
	for _, a := range AllAttendanceStatuses {
		if a == normalized {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: unknown attendance status %q", ErrValidation, s)
}

func normalizeEnum(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
}
