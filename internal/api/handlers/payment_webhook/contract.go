package payment_webhook

import (
	"context"

	"github.com/m04kA/GymLessonBookingService/internal/domain"
	bookingLifecycle "github.com/m04kA/GymLessonBookingService/internal/usecase/booking_lifecycle"
)

type PaymentEventApplier interface {
	ApplyPaymentEvent(ctx context.Context, event domain.PaymentEvent) (*bookingLifecycle.PaymentEventResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
