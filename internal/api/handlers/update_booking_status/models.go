package update_booking_status

import (
	bookingLifecycle "github.com/m04kA/GymLessonBookingService/internal/usecase/booking_lifecycle"
)

// UpdateStatusRequest ручная правка подстатусов; регистр и разделитель не важны (RESERVATION_PAID, no-show)
type UpdateStatusRequest struct {
	PaymentStatus    *string `json:"paymentStatus,omitempty"`
	AttendanceStatus *string `json:"attendanceStatus,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateStatusRequest) ToUseCaseRequest() bookingLifecycle.AdminOverrideRequest {
	return bookingLifecycle.AdminOverrideRequest{
		PaymentStatus:    r.PaymentStatus,
		AttendanceStatus: r.AttendanceStatus,
	}
}
