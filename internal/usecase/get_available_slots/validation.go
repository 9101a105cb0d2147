package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/GymLessonBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) (domain.LessonType, error) {
	if req == nil {
		return "", fmt.Errorf("%w: empty request", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return "", fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	lessonType, err := domain.ParseLessonType(req.LessonType)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return lessonType, nil
}

// validateHorizon проверяет, что дата не дальше горизонта бронирования
func validateHorizon(date, now time.Time, loc *time.Location, advanceDays int) error {
	if advanceDays <= 0 {
		return nil
	}

	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	target := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	if target.After(today.AddDate(0, 0, advanceDays)) {
		return fmt.Errorf("%w: max %d days ahead", ErrDateTooFarInFuture, advanceDays)
	}
	return nil
}
