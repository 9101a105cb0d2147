package payment_webhook

import (
	"io"
	"net/http"

	"github.com/m04kA/GymLessonBookingService/internal/api/handlers"
	"github.com/m04kA/GymLessonBookingService/internal/domain"
	"github.com/m04kA/GymLessonBookingService/internal/integrations/stripepay"
)

const maxPayloadBytes = 1 << 16

type Handler struct {
	applier PaymentEventApplier
	logger  Logger
}

func NewHandler(applier PaymentEventApplier, logger Logger) *Handler {
	return &Handler{
		applier: applier,
		logger:  logger,
	}
}

// Handle POST /api/v1/webhooks/payments
// Провайдер повторяет доставку при не-2xx, поэтому ответ всегда 200; ошибки только логируются
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	defer handlers.RespondJSON(w, http.StatusOK, ReceivedResponse{Received: true})

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		h.logger.Warn("POST /webhooks/payments - Failed to read body: %v", err)
		return
	}

	event, ok := h.parse(payload)
	if !ok {
		return
	}

	result, err := h.applier.ApplyPaymentEvent(r.Context(), *event)
	if err != nil {
		h.logger.Error("POST /webhooks/payments - Event not applied: event=%s, booking_id=%d, error=%v",
			event.ID, event.BookingReference, err)
		return
	}

	h.logger.Info("POST /webhooks/payments - Event %s: event=%s, booking_id=%d, status=%s",
		result.Outcome, event.ID, event.BookingReference, result.Booking.Status)
}

func (h *Handler) parse(payload []byte) (*domain.PaymentEvent, bool) {
	if stripepay.IsStripeEvent(payload) {
		event, ok, err := stripepay.ParseWebhookEvent(payload)
		if err != nil {
			h.logger.Warn("POST /webhooks/payments - Invalid provider event: %v", err)
			return nil, false
		}
		if !ok {
			h.logger.Info("POST /webhooks/payments - Provider event skipped")
		}
		return event, ok
	}

	event, err := ToDomainEvent(payload)
	if err != nil {
		h.logger.Warn("POST /webhooks/payments - Invalid event: %v", err)
		return nil, false
	}
	return event, true
}
