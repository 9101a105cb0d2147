package booking_lifecycle

import (
	"context"
	"time"

	"github.com/m04kA/GymLessonBookingService/internal/domain"
	"github.com/m04kA/GymLessonBookingService/internal/integrations/profileservice"
	"github.com/m04kA/GymLessonBookingService/internal/integrations/stripepay"
)

// ReservationService гашение удержаний
type ReservationService interface {
	Consume(ctx context.Context, sessionID string) (*domain.SlotReservation, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateSubstatuses(ctx context.Context, id int64, payment domain.PaymentStatus, attendance domain.AttendanceStatus) (domain.BookingStatus, error)
	UpdatePaymentDetails(ctx context.Context, id int64, reference *string, paidAmountCents *int64) error
	AttachProfile(ctx context.Context, id int64, profileID int64) error
}

// ClaimRepository интервалы бронирований в арене удержаний
type ClaimRepository interface {
	ClaimForBooking(ctx context.Context, booking *domain.Booking, now time.Time) error
	ReleaseBookingClaim(ctx context.Context, bookingID int64) error
}

// PaymentEventRepository журнал обработанных платежных событий
type PaymentEventRepository interface {
	MarkProcessed(ctx context.Context, eventID string, bookingID int64, eventType domain.PaymentEventType) (bool, error)
}

// PaymentProvider инициирует оплату
type PaymentProvider interface {
	CreateCheckout(ctx context.Context, req stripepay.CheckoutRequest) (*stripepay.Checkout, error)
}

// ProfileClient сервис профилей родителей
type ProfileClient interface {
	FindOrCreateParent(ctx context.Context, in profileservice.ParentRequest) (*profileservice.Parent, error)
}

// Notifier уведомления о смене статуса
type Notifier interface {
	BookingStatusChanged(ctx context.Context, booking *domain.Booking, previous domain.BookingStatus, checkoutURL string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчики жизненного цикла
type Metrics interface {
	RecordPaymentEvent(eventType, outcome string)
	RecordStatusChange(status string)
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
