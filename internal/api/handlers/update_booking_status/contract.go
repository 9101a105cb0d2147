package update_booking_status

import (
	"context"

	"github.com/m04kA/GymLessonBookingService/internal/domain"
	bookingLifecycle "github.com/m04kA/GymLessonBookingService/internal/usecase/booking_lifecycle"
)

type OverrideUseCase interface {
	ApplyAdminOverride(ctx context.Context, bookingID int64, req bookingLifecycle.AdminOverrideRequest) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
