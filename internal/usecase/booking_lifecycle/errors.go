package booking_lifecycle

import (
	"errors"
	"fmt"

	"github.com/m04kA/GymLessonBookingService/internal/domain"
	"github.com/m04kA/GymLessonBookingService/pkg/metrics"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("booking_lifecycle: %w", domain.ErrValidation)

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("booking_lifecycle: %w", domain.ErrBookingNotFound)

	// ErrSlotConflict возвращается, когда интервал занят (реактивация бронирования)
	ErrSlotConflict = fmt.Errorf("booking_lifecycle: %w", domain.ErrSlotConflict)

	// ErrPaymentInitiation возвращается, если не удалось создать платеж; бронирование переведено в FAILED
	ErrPaymentInitiation = errors.New("booking_lifecycle: payment initiation failed")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("booking_lifecycle: %w", domain.ErrPersistence)
)

const (
	outcomeApplied   = metrics.PaymentEventApplied
	outcomeIgnored   = metrics.PaymentEventIgnored
	outcomeDuplicate = metrics.PaymentEventDuplicate
	outcomeFailed    = metrics.PaymentEventFailed
)
