package release_reservation

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/GymLessonBookingService/internal/api/handlers"
	"github.com/m04kA/GymLessonBookingService/internal/domain"
)

const msgInvalidSessionID = "некорректный ID сессии"

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

// Handle DELETE /api/v1/reservations/{sessionId}
// Повторное снятие удержания не является ошибкой
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	if err := h.service.Release(r.Context(), sessionID); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			h.logger.Warn("DELETE /reservations/{sessionId} - Invalid session id: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSessionID)
			return
		}
		h.logger.Error("DELETE /reservations/{sessionId} - Failed to release hold: session=%s, error=%v", sessionID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /reservations/{sessionId} - Hold released: session=%s", sessionID)
	w.WriteHeader(http.StatusNoContent)
}
