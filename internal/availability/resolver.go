// Package availability computes bookable start times for a date from the weekly
// template, date exceptions, existing bookings and active holds.
// Everything here is a pure function of its input.
package availability

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/GymLessonBookingService/internal/domain"
	"github.com/m04kA/GymLessonBookingService/pkg/types"
)

// ExceptionOrder defines how additions and removals of the same date combine
type ExceptionOrder string

const (
	// AdditionsThenRemovals unions additions first, then subtracts removals: a removal always wins
	AdditionsThenRemovals ExceptionOrder = "additions-then-removals"
	// RemovalsThenAdditions subtracts removals first, then unions additions: an addition always wins
	RemovalsThenAdditions ExceptionOrder = "removals-then-additions"
)

// DefaultExceptionOrder order used when none is configured
const DefaultExceptionOrder = AdditionsThenRemovals

// ErrInvalidInput malformed resolver input
var ErrInvalidInput = errors.New("availability: invalid input")

// ParseExceptionOrder parses a configured order name; empty means default
func ParseExceptionOrder(s string) (ExceptionOrder, error) {
	switch ExceptionOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultExceptionOrder, nil
	case AdditionsThenRemovals:
		return AdditionsThenRemovals, nil
	case RemovalsThenAdditions:
		return RemovalsThenAdditions, nil
	default:
		return "", fmt.Errorf("%w: unknown exception order %q", ErrInvalidInput, s)
	}
}

// Input snapshot of everything the resolver reads
type Input struct {
	Date             time.Time // calendar date, only year/month/day are used
	DurationMinutes  int
	Rules            []*domain.RecurringAvailabilityRule
	Exceptions       []*domain.AvailabilityException
	Bookings         []*domain.Booking
	Holds            []*domain.SlotReservation
	Now              time.Time
	Location         *time.Location // business timezone
	Order            ExceptionOrder
	MinNoticeMinutes int
}

// Resolve returns open slots ordered by start time
func Resolve(in Input) ([]domain.TimeSlot, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	free := FreeIntervals(in)
	return quantize(free, in.DurationMinutes, startCutoff(in)), nil
}

// FreeIntervals returns the free regions of the date before quantization
func FreeIntervals(in Input) IntervalSet {
	free := baseWindow(in.Rules, dateOnly(in.Date).Weekday())
	free = applyExceptions(free, in.Exceptions, in.Date, in.Order)

	for _, b := range in.Bookings {
		if !b.OccupiesSlot() || !sameDate(b.BookingDate, in.Date) {
			continue
		}
		free = free.Subtract(b.Interval())
	}

	for _, h := range in.Holds {
		if !h.IsActive(in.Now) || !sameDate(h.Date, in.Date) {
			continue
		}
		free = free.Subtract(h.Interval())
	}

	return free
}

func validateInput(in Input) error {
	if in.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidInput, in.DurationMinutes)
	}
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if in.MinNoticeMinutes < 0 {
		return fmt.Errorf("%w: min notice must not be negative", ErrInvalidInput)
	}
	return nil
}

// baseWindow union of the available recurring rules of the weekday
func baseWindow(rules []*domain.RecurringAvailabilityRule, weekday time.Weekday) IntervalSet {
	windows := make([]domain.Interval, 0, len(rules))
	for _, r := range rules {
		if r.DayOfWeek != weekday || !r.IsAvailable {
			continue
		}
		windows = append(windows, r.Interval())
	}
	return NewIntervalSet(windows...)
}

func applyExceptions(base IntervalSet, exceptions []*domain.AvailabilityException, date time.Time, order ExceptionOrder) IntervalSet {
	var additions, removals []domain.Interval
	for _, e := range exceptions {
		if !sameDate(e.Date, date) {
			continue
		}
		if e.IsAvailable {
			additions = append(additions, e.Interval())
		} else {
			removals = append(removals, e.Interval())
		}
	}

	result := base
	switch order {
	case RemovalsThenAdditions:
		for _, cut := range removals {
			result = result.Subtract(cut)
		}
		result = result.Union(additions...)
	default:
		result = result.Union(additions...)
		for _, cut := range removals {
			result = result.Subtract(cut)
		}
	}
	return result
}

// cutoff describes which starts are already in the past
type cutoff struct {
	skipAll   bool
	afterSecs int // starts must be strictly after this second of the day
	applies   bool
}

func startCutoff(in Input) cutoff {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}
	now := in.Now.In(loc)

	requested := dateOnly(in.Date)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch {
	case requested.Before(today):
		return cutoff{skipAll: true}
	case requested.After(today):
		return cutoff{}
	}

	secs := now.Hour()*3600 + now.Minute()*60 + now.Second() + in.MinNoticeMinutes*60
	return cutoff{afterSecs: secs, applies: true}
}

func quantize(free IntervalSet, duration int, c cutoff) []domain.TimeSlot {
	slots := make([]domain.TimeSlot, 0)
	if c.skipAll {
		return slots
	}

	for _, region := range free {
		for start := region.Start; start+duration <= region.End; start += duration {
			if c.applies && start*60 <= c.afterSecs {
				continue
			}
			startTime, err := types.NewTimeStringFromMinutes(start)
			if err != nil {
				continue
			}
			endTime, err := types.NewTimeStringFromMinutes(start + duration)
			if err != nil {
				continue
			}
			slots = append(slots, domain.TimeSlot{
				StartTime:       startTime,
				EndTime:         endTime,
				DurationMinutes: duration,
			})
		}
	}
	return slots
}

func sameDate(a, b time.Time) bool {
	return dateOnly(a).Equal(dateOnly(b))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
