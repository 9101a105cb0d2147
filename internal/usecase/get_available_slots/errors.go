package get_available_slots

import (
	"errors"
	"fmt"

	"github.com/m04kA/GymLessonBookingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("get_available_slots: %w", domain.ErrValidation)

	// ErrDateTooFarInFuture возвращается, когда дата превышает горизонт бронирования
	ErrDateTooFarInFuture = fmt.Errorf("get_available_slots: date is too far in the future: %w", domain.ErrValidation)

	// ErrInvalidConfig возвращается при некорректной конфигурации use case
	ErrInvalidConfig = errors.New("get_available_slots: invalid config")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("get_available_slots: %w", domain.ErrPersistence)
)
