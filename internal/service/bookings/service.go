package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/GymLessonBookingService/internal/domain"
	bookingRepo "github.com/m04kA/GymLessonBookingService/internal/infra/storage/booking"
	"github.com/m04kA/GymLessonBookingService/internal/service/bookings/models"
)

// Service сервис чтения бронирований
type Service struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: booking id must be positive", ErrInvalidInput)
	}
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// GetDayBookings активные бронирования на дату (расписание тренера)
func (s *Service) GetDayBookings(ctx context.Context, date time.Time) (*models.BookingListResponse, error) {
	s.logger.Info("GetDayBookings: fetching bookings for date=%s", date.Format(domain.DateFormat))

	bookings, err := s.bookingRepo.GetActiveByDate(ctx, date)
	if err != nil {
		s.logger.Error("GetDayBookings: repository error for date=%s: %v", date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: GetDayBookings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}
