package reservations

import (
	"errors"
	"fmt"

	"github.com/m04kA/GymLessonBookingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("reservations: %w", domain.ErrValidation)

	// ErrSlotConflict возвращается, когда интервал уже удержан или забронирован
	ErrSlotConflict = fmt.Errorf("reservations: %w", domain.ErrSlotConflict)

	// ErrReservationExpired возвращается, когда удержание отсутствует или истекло
	ErrReservationExpired = fmt.Errorf("reservations: %w", domain.ErrReservationExpired)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("reservations: %w", domain.ErrPersistence)

	// ErrInvalidTTL возвращается при недопустимом сроке жизни удержания
	ErrInvalidTTL = errors.New("reservations: hold ttl out of range")
)
