package domain

import (
	"fmt"
	"strings"
)

// PaymentEventType kind of an asynchronous payment provider event
type PaymentEventType string

const (
	PaymentEventPending   PaymentEventType = "payment.pending"
	PaymentEventSucceeded PaymentEventType = "payment.succeeded"
	PaymentEventFailed    PaymentEventType = "payment.failed"
	PaymentEventRefunded  PaymentEventType = "payment.refunded"
)

// checkoutCompletedEvent provider-native name accepted as a success
const checkoutCompletedEvent = "checkout.session.completed"

// PaymentEvent is delivered at least once and possibly out of order.
type PaymentEvent struct {
	ID               string
	Type             PaymentEventType
	BookingReference int64
	PaymentState     string // optional explicit payment status
	AmountCents      int64
	SessionReference string
}

// ParsePaymentEventType normalizes an event type name
func ParsePaymentEventType(s string) (PaymentEventType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(PaymentEventPending):
		return PaymentEventPending, nil
	case string(PaymentEventSucceeded), checkoutCompletedEvent:
		return PaymentEventSucceeded, nil
	case string(PaymentEventFailed):
		return PaymentEventFailed, nil
	case string(PaymentEventRefunded):
		return PaymentEventRefunded, nil
	default:
		return "", fmt.Errorf("%w: unknown payment event type %q", ErrValidation, s)
	}
}

// TargetPaymentStatus returns the payment status the event moves the booking to.
// An explicit PaymentState wins over the event type.
func (e *PaymentEvent) TargetPaymentStatus(current PaymentStatus) (PaymentStatus, error) {
	if e.PaymentState != "" {
		return ParsePaymentStatus(e.PaymentState)
	}

	eventType, err := ParsePaymentEventType(string(e.Type))
	if err != nil {
		return "", err
	}

	switch eventType {
	case PaymentEventPending:
		return PaymentReservationPending, nil
	case PaymentEventSucceeded:
		return PaymentReservationPaid, nil
	case PaymentEventFailed:
		return PaymentReservationFailed, nil
	case PaymentEventRefunded:
		if current == PaymentSessionPaid {
			return PaymentSessionRefunded, nil
		}
		return PaymentReservationRefunded, nil
	default:
		return "", fmt.Errorf("%w: unknown payment event type %q", ErrValidation, e.Type)
	}
}
