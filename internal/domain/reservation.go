package domain

import (
	"time"

	"github.com/m04kA/GymLessonBookingService/pkg/types"
)

// SlotReservation is a short-lived hold on an interval pending checkout.
// It is owned by the session that created it until consumed or expired.
type SlotReservation struct {
	ID              int64
	Token           string
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	LessonType      LessonType
	SessionID       string
	CreatedAt       time.Time
	ExpiresAt       time.Time
}

// IsActive reports whether the hold still counts at instant now.
// A hold is active strictly before its expiry.
func (r *SlotReservation) IsActive(now time.Time) bool {
	return r.ExpiresAt.After(now)
}

// Interval returns the held interval in minutes since midnight
func (r *SlotReservation) Interval() Interval {
	start := r.StartTime.Minutes()
	return Interval{Start: start, End: start + r.DurationMinutes}
}
