package domain

import (
	"time"

	"github.com/m04kA/GymLessonBookingService/pkg/types"
)

// Booking represents a lesson booked by a parent for one or more athletes
type Booking struct {
	ID              int64
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	LessonType      LessonType
	AmountCents     int64

	PaymentStatus    PaymentStatus
	AttendanceStatus AttendanceStatus
	Status           BookingStatus // derived, see DetermineStatus

	ParentFirstName string
	ParentLastName  string
	ParentEmail     string
	ParentPhone     string
	Athletes        []string
	Notes           *string

	ProfileID        *int64  // parent profile from the profile service
	PaymentReference *string // checkout session id
	PaidAmountCents  *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SetSubstatuses updates both substatuses and recomputes the derived status.
func (b *Booking) SetSubstatuses(payment PaymentStatus, attendance AttendanceStatus) {
	b.PaymentStatus = payment
	b.AttendanceStatus = attendance
	b.Status = DetermineStatus(payment, attendance)
}

// OccupiesSlot returns true if the booking still blocks its interval
func (b *Booking) OccupiesSlot() bool {
	return b.Status.OccupiesSlot()
}

// EndTime returns the end of the booked interval
func (b *Booking) EndTime() (types.TimeString, error) {
	return b.StartTime.AddMinutes(b.DurationMinutes)
}

// Interval returns the booked interval in minutes since midnight
func (b *Booking) Interval() Interval {
	start := b.StartTime.Minutes()
	return Interval{Start: start, End: start + b.DurationMinutes}
}

// BookingDetails contact and athlete data supplied at checkout
type BookingDetails struct {
	ParentFirstName string   `validate:"required,max=100"`
	ParentLastName  string   `validate:"required,max=100"`
	ParentEmail     string   `validate:"required,email"`
	ParentPhone     string   `validate:"required,min=7,max=32"`
	Athletes        []string `validate:"required,min=1,dive,required,max=100"`
	Notes           *string  `validate:"omitempty,max=500"`
}
