package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/GymLessonBookingService/internal/domain"
)

// Notifier рассылает события о бронированиях
// Доставка best effort: ошибка возвращается вызывающему только для логирования
type Notifier struct {
	publisher Publisher
	log       Logger
	now       func() time.Time
}

// New создает нотификатор; nil publisher отключает рассылку
func New(publisher Publisher, log Logger) *Notifier {
	return &Notifier{publisher: publisher, log: log, now: time.Now}
}

// BookingStatusChanged публикует смену статуса бронирования
func (n *Notifier) BookingStatusChanged(ctx context.Context, booking *domain.Booking, previous domain.BookingStatus, checkoutURL string) error {
	if n.publisher == nil {
		return nil
	}

	event := BookingStatusChanged{
		EventID:          uuid.NewString(),
		BookingID:        booking.ID,
		PreviousStatus:   string(previous),
		Status:           string(booking.Status),
		PaymentStatus:    string(booking.PaymentStatus),
		AttendanceStatus: string(booking.AttendanceStatus),
		BookingDate:      booking.BookingDate.Format(domain.DateFormat),
		StartTime:        booking.StartTime.String(),
		LessonType:       string(booking.LessonType),
		ParentEmail:      booking.ParentEmail,
		CheckoutURL:      checkoutURL,
		OccurredAt:       n.now().UTC(),
	}

	if err := n.publisher.PublishJSON(ctx, RoutingKeyStatusChanged, event); err != nil {
		return fmt.Errorf("booking=%d: %w", booking.ID, err)
	}

	n.log.Info("Published %s for booking=%d (%s -> %s)", RoutingKeyStatusChanged, booking.ID, previous, booking.Status)
	return nil
}
