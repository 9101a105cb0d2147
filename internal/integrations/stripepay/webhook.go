package stripepay

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v76"

	"github.com/m04kA/GymLessonBookingService/internal/domain"
)

// Типы событий checkout, которые влияют на оплату бронирования
var checkoutEventTypes = map[stripe.EventType]domain.PaymentEventType{
	"checkout.session.completed":               domain.PaymentEventSucceeded,
	"checkout.session.async_payment_succeeded": domain.PaymentEventSucceeded,
	"checkout.session.async_payment_failed":    domain.PaymentEventFailed,
	"checkout.session.expired":                 domain.PaymentEventFailed,
}

// IsStripeEvent true, если тело - конверт события Stripe
func IsStripeEvent(payload []byte) bool {
	var envelope struct {
		Object string `json:"object"`
	}
	return json.Unmarshal(payload, &envelope) == nil && envelope.Object == "event"
}

// ParseWebhookEvent превращает событие Stripe о checkout-сессии в платежное событие
// ok=false для событий, не относящихся к оплате бронирования
func ParseWebhookEvent(payload []byte) (event *domain.PaymentEvent, ok bool, err error) {
	var stripeEvent stripe.Event
	if err := json.Unmarshal(payload, &stripeEvent); err != nil {
		return nil, false, fmt.Errorf("%w: decode event: %v", ErrInvalidRequest, err)
	}

	eventType, known := checkoutEventTypes[stripeEvent.Type]
	if !known {
		return nil, false, nil
	}
	if stripeEvent.Data == nil || len(stripeEvent.Data.Raw) == 0 {
		return nil, false, fmt.Errorf("%w: event %s has no data", ErrInvalidRequest, stripeEvent.ID)
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(stripeEvent.Data.Raw, &session); err != nil {
		return nil, false, fmt.Errorf("%w: decode checkout session: %v", ErrInvalidRequest, err)
	}

	reference := session.Metadata[metadataBookingID]
	if reference == "" {
		reference = session.ClientReferenceID
	}
	bookingID, err := strconv.ParseInt(reference, 10, 64)
	if err != nil || bookingID <= 0 {
		return nil, false, fmt.Errorf("%w: event %s carries no booking id", ErrInvalidRequest, stripeEvent.ID)
	}

	// completed с отложенной оплатой еще не означает успех
	if stripeEvent.Type == "checkout.session.completed" &&
		session.PaymentStatus == stripe.CheckoutSessionPaymentStatusUnpaid {
		eventType = domain.PaymentEventPending
	}

	return &domain.PaymentEvent{
		ID:               stripeEvent.ID,
		Type:             eventType,
		BookingReference: bookingID,
		AmountCents:      session.AmountTotal,
		SessionReference: session.ID,
	}, true, nil
}
