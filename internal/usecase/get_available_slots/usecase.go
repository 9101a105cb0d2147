package get_available_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/GymLessonBookingService/internal/availability"
	"github.com/m04kA/GymLessonBookingService/internal/domain"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	availabilityRepo AvailabilityRepository
	bookingRepo      BookingRepository
	reservationRepo  ReservationRepository
	timeProvider     TimeProvider
	logger           Logger

	location           *time.Location
	order              availability.ExceptionOrder
	minNoticeMinutes   int
	advanceBookingDays int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	availabilityRepo AvailabilityRepository,
	bookingRepo BookingRepository,
	reservationRepo ReservationRepository,
	logger Logger,
	cfg Config,
) (*UseCase, error) {
	order, err := availability.ParseExceptionOrder(cfg.ExceptionOrder)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if cfg.MinNoticeMinutes < 0 || cfg.MinNoticeMinutes > domain.MaxMinNoticeMinutes {
		return nil, fmt.Errorf("%w: min notice %d minutes", ErrInvalidConfig, cfg.MinNoticeMinutes)
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	return &UseCase{
		availabilityRepo:   availabilityRepo,
		bookingRepo:        bookingRepo,
		reservationRepo:    reservationRepo,
		timeProvider:       &RealTimeProvider{},
		logger:             logger,
		location:           cfg.Location,
		order:              order,
		minNoticeMinutes:   cfg.MinNoticeMinutes,
		advanceBookingDays: cfg.AdvanceBookingDays,
	}, nil
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов
// Чтение не блокирует удержания: результат может устареть к моменту создания удержания
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	lessonType, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	date := req.Date
	dateStr := date.Format(domain.DateFormat)
	uc.logger.Info("GetAvailableSlots: date=%s, lessonType=%s", dateStr, lessonType)

	// 2. Текущее время одно на весь расчет
	now := uc.timeProvider.Now()

	if err := validateHorizon(date, now, uc.location, uc.advanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: %v", err)
		return nil, err
	}

	// 3. Недельный шаблон
	rules, err := uc.availabilityRepo.GetRulesByDayOfWeek(ctx, date.Weekday())
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get rules: %v", ErrInternal, err)
	}

	// 4. Исключения на дату
	exceptions, err := uc.availabilityRepo.GetExceptionsByDate(ctx, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get exceptions: %v", err)
		return nil, fmt.Errorf("%w: failed to get exceptions: %v", ErrInternal, err)
	}

	// 5. Активные бронирования
	bookings, err := uc.bookingRepo.GetActiveByDate(ctx, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 6. Живые удержания
	holds, err := uc.reservationRepo.GetActiveHoldsByDate(ctx, date, now)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get holds: %v", err)
		return nil, fmt.Errorf("%w: failed to get holds: %v", ErrInternal, err)
	}

	// 7. Расчет
	duration := lessonType.DurationMinutes()
	slots, err := availability.Resolve(availability.Input{
		Date:             date,
		DurationMinutes:  duration,
		Rules:            rules,
		Exceptions:       exceptions,
		Bookings:         bookings,
		Holds:            holds,
		Now:              now,
		Location:         uc.location,
		Order:            uc.order,
		MinNoticeMinutes: uc.minNoticeMinutes,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: resolver failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	uc.logger.Info("GetAvailableSlots: %d slots on %s (rules=%d, exceptions=%d, bookings=%d, holds=%d)",
		len(slots), dateStr, len(rules), len(exceptions), len(bookings), len(holds))

	return &Response{
		Date:            date,
		LessonType:      lessonType,
		DurationMinutes: duration,
		Slots:           slots,
	}, nil
}
