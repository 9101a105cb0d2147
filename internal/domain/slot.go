package domain

import "github.com/m04kA/GymLessonBookingService/pkg/types"

// TimeSlot is a bookable start time of fixed duration
type TimeSlot struct {
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
}
