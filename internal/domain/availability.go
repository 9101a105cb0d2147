package domain

import (
	"time"

	"github.com/m04kA/GymLessonBookingService/pkg/types"
)

// RecurringAvailabilityRule is one window of the weekly open-hours template.
// Rules are never deleted, only toggled through IsAvailable.
type RecurringAvailabilityRule struct {
	ID          int64
	DayOfWeek   time.Weekday // 0 = Sunday
	StartTime   types.TimeString
	EndTime     types.TimeString
	IsRecurring bool
	IsAvailable bool
}

// Interval returns the rule window in minutes since midnight
func (r *RecurringAvailabilityRule) Interval() Interval {
	return Interval{Start: r.StartTime.Minutes(), End: r.EndTime.Minutes()}
}

// AvailabilityException overrides the weekly template on one date.
// IsAvailable=false removes the interval, IsAvailable=true adds it.
type AvailabilityException struct {
	ID          int64
	Date        time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	IsAvailable bool
	Reason      *string
}

// Interval returns the exception window in minutes since midnight
func (e *AvailabilityException) Interval() Interval {
	return Interval{Start: e.StartTime.Minutes(), End: e.EndTime.Minutes()}
}

// Interval is a half-open [Start, End) range in minutes since midnight
type Interval struct {
	Start int
	End   int
}

// Empty reports whether the interval covers no time
func (i Interval) Empty() bool {
	return i.End <= i.Start
}

// Overlaps reports whether two half-open intervals intersect.
// Touching intervals (one ends where the other starts) do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && other.Start < i.End
}
