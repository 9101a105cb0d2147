package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/GymLessonBookingService/internal/api/handlers"
	"github.com/m04kA/GymLessonBookingService/internal/domain"
	"github.com/m04kA/GymLessonBookingService/internal/service/reservations/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidReservation = "некорректные параметры удержания"
	msgSlotConflict       = "выбранное время уже занято"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	hold, err := h.service.Create(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("POST /reservations - Invalid reservation: session=%s, error=%v", req.SessionID, err)
			handlers.RespondBadRequest(w, msgInvalidReservation)

		case errors.Is(err, domain.ErrSlotConflict):
			h.logger.Warn("POST /reservations - Slot conflict: date=%s, start=%s", req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotConflict)

		default:
			h.logger.Error("POST /reservations - Failed to create hold: session=%s, error=%v", req.SessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Hold created: id=%d, session=%s, expires_at=%s",
		hold.ID, hold.SessionID, hold.ExpiresAt)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomain(hold))
}
