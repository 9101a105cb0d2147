package payment_webhook

import (
	"encoding/json"
	"fmt"

	"github.com/m04kA/GymLessonBookingService/internal/domain"
)

// PaymentEventRequest событие в собственном формате сервиса
type PaymentEventRequest struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	BookingID     int64  `json:"bookingId"`
	PaymentStatus string `json:"paymentStatus,omitempty"`
	AmountCents   int64  `json:"amountCents,omitempty"`
	SessionID     string `json:"sessionId,omitempty"`
}

// ReceivedResponse ответ провайдеру; всегда 200
type ReceivedResponse struct {
	Received bool `json:"received"`
}

// ToDomainEvent конвертирует запрос в доменное событие
func ToDomainEvent(payload []byte) (*domain.PaymentEvent, error) {
	var req PaymentEventRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}

	eventType, err := domain.ParsePaymentEventType(req.Type)
	if err != nil {
		return nil, err
	}

	return &domain.PaymentEvent{
		ID:               req.ID,
		Type:             eventType,
		BookingReference: req.BookingID,
		PaymentState:     req.PaymentStatus,
		AmountCents:      req.AmountCents,
		SessionReference: req.SessionID,
	}, nil
}
