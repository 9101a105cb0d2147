package payment_webhook

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/GymLessonBookingService/internal/domain"
	bookingLifecycle "github.com/m04kA/GymLessonBookingService/internal/usecase/booking_lifecycle"
	"github.com/m04kA/GymLessonBookingService/pkg/logger"
)

type stubApplier struct {
	err    error
	events []domain.PaymentEvent
}

func (s *stubApplier) ApplyPaymentEvent(_ context.Context, event domain.PaymentEvent) (*bookingLifecycle.PaymentEventResult, error) {
	s.events = append(s.events, event)
	if s.err != nil {
		return nil, s.err
	}
	return &bookingLifecycle.PaymentEventResult{
		Booking: &domain.Booking{ID: event.BookingReference, Status: domain.BookingStatusConfirmed},
		Outcome: "applied",
	}, nil
}

func post(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payments", strings.NewReader(body)))
	return rec
}

func TestHandle_NativeEvent(t *testing.T) {
	applier := &stubApplier{}
	h := NewHandler(applier, logger.NewNop())

	rec := post(t, h, `{"id":"evt_1","type":"PAYMENT.SUCCEEDED","bookingId":3,"amountCents":4000,"sessionId":"cs_1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received":true}`, rec.Body.String())

	require.Len(t, applier.events, 1)
	assert.Equal(t, domain.PaymentEventSucceeded, applier.events[0].Type)
	assert.Equal(t, int64(3), applier.events[0].BookingReference)
	assert.Equal(t, "cs_1", applier.events[0].SessionReference)
}

func TestHandle_StripeEvent(t *testing.T) {
	applier := &stubApplier{}
	h := NewHandler(applier, logger.NewNop())

	rec := post(t, h, `{"id":"evt_s","object":"event","type":"checkout.session.completed",
		"data":{"object":{"id":"cs_9","object":"checkout.session","amount_total":8000,"payment_status":"paid",
		"metadata":{"booking_id":"9"}}}}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, applier.events, 1)
	assert.Equal(t, int64(9), applier.events[0].BookingReference)
	assert.Equal(t, int64(8000), applier.events[0].AmountCents)
}

func TestHandle_AlwaysOK(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
	}{
		{"garbage", `not json`, nil},
		{"unknown type", `{"id":"e","type":"charge.dispute","bookingId":1}`, nil},
		{"booking not found", `{"id":"e","type":"payment.failed","bookingId":404}`, bookingLifecycle.ErrBookingNotFound},
		{"persistence failure", `{"id":"e","type":"payment.failed","bookingId":1}`, errors.New("db down")},
		{"unrelated provider event", `{"id":"e","object":"event","type":"invoice.paid","data":{"object":{}}}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&stubApplier{err: tt.err}, logger.NewNop())
			rec := post(t, h, tt.body)
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}
