package availability

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/GymLessonBookingService/internal/domain"
	"github.com/m04kA/GymLessonBookingService/pkg/types"
)

var (
	july7  = time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC) // Monday
	la, _  = time.LoadLocation("America/Los_Angeles")
	sunday = time.Date(2025, 7, 6, 8, 0, 0, 0, time.UTC)
)

func ts(s string) types.TimeString {
	return types.TimeString(s)
}

func mondayRule(start, end string) *domain.RecurringAvailabilityRule {
	return &domain.RecurringAvailabilityRule{
		DayOfWeek:   time.Monday,
		StartTime:   ts(start),
		EndTime:     ts(end),
		IsRecurring: true,
		IsAvailable: true,
	}
}

func exception(date time.Time, start, end string, available bool) *domain.AvailabilityException {
	return &domain.AvailabilityException{
		Date:        date,
		StartTime:   ts(start),
		EndTime:     ts(end),
		IsAvailable: available,
	}
}

func starts(slots []domain.TimeSlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.StartTime.String())
	}
	return out
}

func baseInput() Input {
	return Input{
		Date:            july7,
		DurationMinutes: 30,
		Rules:           []*domain.RecurringAvailabilityRule{mondayRule("09:00", "16:00")},
		Now:             sunday,
		Location:        la,
		Order:           DefaultExceptionOrder,
	}
}

func TestResolve_ExceptionRemovesMorning(t *testing.T) {
	in := baseInput()
	in.Exceptions = []*domain.AvailabilityException{exception(july7, "09:00", "12:00", false)}

	slots, err := Resolve(in)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"12:00", "12:30", "13:00", "13:30", "14:00", "14:30", "15:00", "15:30",
	}, starts(slots))
	for _, s := range slots {
		assert.GreaterOrEqual(t, s.StartTime.Minutes(), ts("12:00").Minutes())
		assert.Less(t, s.StartTime.Minutes(), ts("16:00").Minutes())
		assert.Equal(t, 30, s.DurationMinutes)
	}
	assert.Equal(t, "16:00", slots[len(slots)-1].EndTime.String())
}

func TestResolve_PartialExceptionSplitsWindow(t *testing.T) {
	in := baseInput()
	in.DurationMinutes = 60
	in.Exceptions = []*domain.AvailabilityException{exception(july7, "11:00", "12:30", false)}

	slots, err := Resolve(in)
	require.NoError(t, err)

	// 09:00-11:00 and 12:30-16:00 remain
	assert.Equal(t, []string{"09:00", "10:00", "12:30", "13:30", "14:30"}, starts(slots))
}

func TestResolve_AdditionOutsideTemplate(t *testing.T) {
	in := baseInput()
	in.Exceptions = []*domain.AvailabilityException{exception(july7, "17:00", "18:00", true)}

	slots, err := Resolve(in)
	require.NoError(t, err)

	got := starts(slots)
	assert.Contains(t, got, "17:00")
	assert.Contains(t, got, "17:30")
	assert.NotContains(t, got, "16:00")
	assert.NotContains(t, got, "16:30")
}

func TestResolve_UnavailableRuleGivesEmptyBase(t *testing.T) {
	in := baseInput()
	in.Rules[0].IsAvailable = false

	slots, err := Resolve(in)
	require.NoError(t, err)
	assert.Empty(t, slots)

	// special opening still works on a closed day
	in.Exceptions = []*domain.AvailabilityException{exception(july7, "10:00", "11:00", true)}
	slots, err = Resolve(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "10:30"}, starts(slots))
}

func TestResolve_ExceptionForOtherDateIgnored(t *testing.T) {
	in := baseInput()
	in.Exceptions = []*domain.AvailabilityException{exception(july7.AddDate(0, 0, 7), "09:00", "16:00", false)}

	slots, err := Resolve(in)
	require.NoError(t, err)
	assert.Len(t, slots, 14)
}

func TestResolve_OverlappingExceptions_BothOrders(t *testing.T) {
	// removal 10:00-12:00 and addition 11:00-13:00 on the same date
	exceptions := []*domain.AvailabilityException{
		exception(july7, "10:00", "12:00", false),
		exception(july7, "11:00", "13:00", true),
	}

	t.Run("additions then removals: removal wins", func(t *testing.T) {
		in := baseInput()
		in.Exceptions = exceptions
		in.Order = AdditionsThenRemovals

		slots, err := Resolve(in)
		require.NoError(t, err)

		got := starts(slots)
		assert.NotContains(t, got, "10:00")
		assert.NotContains(t, got, "11:00")
		assert.NotContains(t, got, "11:30")
		assert.Contains(t, got, "12:00")
		assert.Equal(t, "09:30", got[1])
	})

	t.Run("removals then additions: addition wins", func(t *testing.T) {
		in := baseInput()
		in.Exceptions = exceptions
		in.Order = RemovalsThenAdditions

		slots, err := Resolve(in)
		require.NoError(t, err)

		got := starts(slots)
		assert.NotContains(t, got, "10:00")
		assert.NotContains(t, got, "10:30")
		assert.Contains(t, got, "11:00")
		assert.Contains(t, got, "11:30")
	})
}

func TestResolve_SubtractsActiveBookingsOnly(t *testing.T) {
	in := baseInput()
	in.Bookings = []*domain.Booking{
		{BookingDate: july7, StartTime: ts("09:00"), DurationMinutes: 60, Status: domain.BookingStatusPaid},
		{BookingDate: july7, StartTime: ts("13:00"), DurationMinutes: 60, Status: domain.BookingStatusCancelled},
		{BookingDate: july7, StartTime: ts("14:00"), DurationMinutes: 60, Status: domain.BookingStatusFailed},
		{BookingDate: july7, StartTime: ts("15:00"), DurationMinutes: 30, Status: domain.BookingStatusCompleted},
	}

	slots, err := Resolve(in)
	require.NoError(t, err)

	got := starts(slots)
	assert.NotContains(t, got, "09:00")
	assert.NotContains(t, got, "09:30")
	assert.Contains(t, got, "10:00")
	assert.Contains(t, got, "13:00")
	assert.Contains(t, got, "14:00")
	assert.NotContains(t, got, "15:00")
	assert.Contains(t, got, "15:30")
}

func TestResolve_HoldExpiryBoundary(t *testing.T) {
	created := time.Date(2025, 7, 6, 10, 0, 0, 0, time.UTC)
	hold := &domain.SlotReservation{
		Date:            july7,
		StartTime:       ts("10:00"),
		DurationMinutes: 30,
		CreatedAt:       created,
		ExpiresAt:       created.Add(10 * time.Minute),
	}

	in := baseInput()
	in.Holds = []*domain.SlotReservation{hold}

	in.Now = created.Add(9*time.Minute + 59*time.Second)
	slots, err := Resolve(in)
	require.NoError(t, err)
	assert.NotContains(t, starts(slots), "10:00")

	in.Now = created.Add(10*time.Minute + time.Second)
	slots, err = Resolve(in)
	require.NoError(t, err)
	assert.Contains(t, starts(slots), "10:00")
}

func TestResolve_PartialOverlapDisqualifiesSlot(t *testing.T) {
	in := baseInput()
	in.DurationMinutes = 60
	in.Rules = []*domain.RecurringAvailabilityRule{mondayRule("09:00", "11:30")}

	slots, err := Resolve(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00"}, starts(slots))
}

func TestResolve_DiscardsPastStartsInBusinessTimezone(t *testing.T) {
	in := baseInput()
	// 2025-07-07 12:00 in Los Angeles (PDT, UTC-7)
	in.Now = time.Date(2025, 7, 7, 19, 0, 0, 0, time.UTC)

	slots, err := Resolve(in)
	require.NoError(t, err)

	got := starts(slots)
	assert.NotContains(t, got, "11:30")
	assert.NotContains(t, got, "12:00", "start equal to now is discarded")
	assert.Equal(t, "12:30", got[0])
}

func TestResolve_MinNotice(t *testing.T) {
	in := baseInput()
	in.Now = time.Date(2025, 7, 7, 19, 0, 0, 0, time.UTC) // 12:00 local
	in.MinNoticeMinutes = 60

	slots, err := Resolve(in)
	require.NoError(t, err)
	assert.Equal(t, "13:30", starts(slots)[0])
}

func TestResolve_PastDateIsEmpty(t *testing.T) {
	in := baseInput()
	in.Now = time.Date(2025, 7, 9, 0, 0, 0, 0, time.UTC)

	slots, err := Resolve(in)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestResolve_Restartable(t *testing.T) {
	in := baseInput()
	first, err := Resolve(in)
	require.NoError(t, err)
	second, err := Resolve(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolve_InvalidInput(t *testing.T) {
	in := baseInput()
	in.DurationMinutes = 0
	_, err := Resolve(in)
	assert.ErrorIs(t, err, ErrInvalidInput)

	in = baseInput()
	in.Date = time.Time{}
	_, err = Resolve(in)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseExceptionOrder(t *testing.T) {
	order, err := ParseExceptionOrder("")
	require.NoError(t, err)
	assert.Equal(t, AdditionsThenRemovals, order)

	order, err = ParseExceptionOrder("Removals-Then-Additions")
	require.NoError(t, err)
	assert.Equal(t, RemovalsThenAdditions, order)

	_, err = ParseExceptionOrder("whatever")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
