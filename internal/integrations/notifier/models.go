package notifier

import "time"

// RoutingKeyStatusChanged ключ маршрутизации события смены статуса
const RoutingKeyStatusChanged = "booking.status_changed"

// BookingStatusChanged событие смены итогового статуса бронирования
type BookingStatusChanged struct {
	EventID          string    `json:"eventId"`
	BookingID        int64     `json:"bookingId"`
	PreviousStatus   string    `json:"previousStatus,omitempty"`
	Status           string    `json:"status"`
	PaymentStatus    string    `json:"paymentStatus"`
	AttendanceStatus string    `json:"attendanceStatus"`
	BookingDate      string    `json:"bookingDate"`
	StartTime        string    `json:"startTime"`
	LessonType       string    `json:"lessonType"`
	ParentEmail      string    `json:"parentEmail"`
	CheckoutURL      string    `json:"checkoutUrl,omitempty"`
	OccurredAt       time.Time `json:"occurredAt"`
}
