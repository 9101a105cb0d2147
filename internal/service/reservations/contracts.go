package reservations

import (
	"context"
	"time"

	"github.com/m04kA/GymLessonBookingService/internal/domain"
)

// ReservationRepository интерфейс арены удержаний
type ReservationRepository interface {
	CreateHold(ctx context.Context, hold *domain.SlotReservation, now time.Time) (*domain.SlotReservation, error)
	ReleaseBySession(ctx context.Context, sessionID string) (int64, error)
	ConsumeBySession(ctx context.Context, sessionID string, now time.Time) (*domain.SlotReservation, error)
	GetActiveHoldsByDate(ctx context.Context, date time.Time, now time.Time) ([]*domain.SlotReservation, error)
	DeleteExpiredHolds(ctx context.Context, now time.Time) (int64, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчики удержаний
type Metrics interface {
	RecordReservation(result string)
	RecordSweep(deleted int64)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// TokenGenerator генерирует непрозрачный токен удержания
type TokenGenerator func() string

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
