package booking

import (
	"github.com/m04kA/GymLessonBookingService/internal/domain"
)

const tableName = "bookings"

var selectColumns = []string{
	"id",
	"booking_date",
	"to_char(start_time, 'HH24:MI') AS start_time",
	"duration_minutes",
	"lesson_type",
	"amount_cents",
	"payment_status",
	"attendance_status",
	"status",
	"parent_first_name",
	"parent_last_name",
	"parent_email",
	"parent_phone",
	"athletes",
	"notes",
	"profile_id",
	"payment_reference",
	"paid_amount_cents",
	"created_at",
	"updated_at",
}

// substatusColumns единственное место, где формируется значение колонки status
// Статус всегда вычисляется из пары подстатусов, записать его напрямую нельзя
func substatusColumns(payment domain.PaymentStatus, attendance domain.AttendanceStatus) map[string]interface{} {
	return map[string]interface{}{
		"payment_status":    string(payment),
		"attendance_status": string(attendance),
		"status":            string(domain.DetermineStatus(payment, attendance)),
	}
}
