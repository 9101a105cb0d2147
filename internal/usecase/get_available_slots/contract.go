package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/GymLessonBookingService/internal/domain"
)

// AvailabilityRepository интерфейс репозитория шаблона доступности
type AvailabilityRepository interface {
	GetRulesByDayOfWeek(ctx context.Context, day time.Weekday) ([]*domain.RecurringAvailabilityRule, error)
	GetExceptionsByDate(ctx context.Context, date time.Time) ([]*domain.AvailabilityException, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetActiveByDate получает бронирования на дату, занимающие интервал
	GetActiveByDate(ctx context.Context, date time.Time) ([]*domain.Booking, error)
}

// ReservationRepository интерфейс арены удержаний
type ReservationRepository interface {
	GetActiveHoldsByDate(ctx context.Context, date time.Time, now time.Time) ([]*domain.SlotReservation, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
