package create_booking

import (
	"context"

	bookingLifecycle "github.com/m04kA/GymLessonBookingService/internal/usecase/booking_lifecycle"
)

type CreateBookingUseCase interface {
	CreateFromReservation(ctx context.Context, req *bookingLifecycle.CreateRequest) (*bookingLifecycle.CreateResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
