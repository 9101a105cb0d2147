package handlers

import (
	"errors"
	"net/http"

	"github.com/m04kA/GymLessonBookingService/internal/domain"
)

// StatusFromError HTTP статус по классу доменной ошибки
// ValidationError 400, SlotConflict 409, ReservationExpired 410, не найдено 404, остальное 500
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSlotConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrReservationExpired):
		return http.StatusGone
	case errors.Is(err, domain.ErrBookingNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
