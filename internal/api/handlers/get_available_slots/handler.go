package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/GymLessonBookingService/internal/api/handlers"
	"github.com/m04kA/GymLessonBookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/GymLessonBookingService/internal/usecase/get_available_slots"
)

const (
	msgMissingDate       = "дата обязательна"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingLessonType = "тип урока обязателен"
	msgInvalidRequest    = "некорректные параметры запроса"
	msgDateTooFar        = "дата слишком далеко в будущем"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/available-slots
// Query params: date (required, YYYY-MM-DD), lessonType (required)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	lessonType := r.URL.Query().Get("lessonType")
	if lessonType == "" {
		h.logger.Warn("GET /available-slots - Missing lesson type")
		handlers.RespondBadRequest(w, msgMissingLessonType)
		return
	}

	useCaseReq, err := ToUseCaseRequest(dateStr, lessonType)
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			h.logger.Warn("GET /available-slots - Date too far: date=%s", dateStr)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("GET /available-slots - Invalid request: date=%s, lesson_type=%s, error=%v", dateStr, lessonType, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("GET /available-slots - Failed to get slots: date=%s, lesson_type=%s, error=%v", dateStr, lessonType, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /available-slots - Slots retrieved successfully: date=%s, lesson_type=%s, slots_count=%d",
		dateStr, lessonType, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
