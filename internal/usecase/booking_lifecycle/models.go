package booking_lifecycle

import (
	"github.com/m04kA/GymLessonBookingService/internal/domain"
)

// CreateRequest запрос на оформление бронирования из удержания
type CreateRequest struct {
	SessionID string
	Details   domain.BookingDetails
}

// CreateResult созданное бронирование и ссылка на оплату
type CreateResult struct {
	Booking     *domain.Booking
	CheckoutURL string
}

// AdminOverrideRequest ручная правка подстатусов; nil поле не меняется
type AdminOverrideRequest struct {
	PaymentStatus    *string
	AttendanceStatus *string
}

// PaymentEventResult результат применения события
// Outcome: applied, ignored или duplicate (см. pkg/metrics)
type PaymentEventResult struct {
	Booking *domain.Booking
	Outcome string
}
