package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/GymLessonBookingService/internal/api/handlers"
	"github.com/m04kA/GymLessonBookingService/internal/domain"
	bookingLifecycle "github.com/m04kA/GymLessonBookingService/internal/usecase/booking_lifecycle"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDetails     = "некорректные контактные данные или список спортсменов"
	msgReservationExpired = "удержание слота истекло или не найдено"
	msgSlotConflict       = "выбранное время уже занято"
	msgPaymentFailed      = "не удалось создать платеж, бронирование отменено"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.CreateFromReservation(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("POST /bookings - Invalid details: session=%s, error=%v", req.SessionID, err)
			handlers.RespondBadRequest(w, msgInvalidDetails)

		case errors.Is(err, domain.ErrReservationExpired):
			h.logger.Warn("POST /bookings - Reservation expired: session=%s", req.SessionID)
			handlers.RespondGone(w, msgReservationExpired)

		case errors.Is(err, domain.ErrSlotConflict):
			h.logger.Warn("POST /bookings - Slot conflict: session=%s", req.SessionID)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, bookingLifecycle.ErrPaymentInitiation):
			h.logger.Error("POST /bookings - Payment initiation failed: session=%s, error=%v", req.SessionID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgPaymentFailed)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: session=%s, error=%v", req.SessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, session=%s",
		result.Booking.ID, req.SessionID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResult(result))
}
