package reservations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/GymLessonBookingService/internal/domain"
	reservationRepo "github.com/m04kA/GymLessonBookingService/internal/infra/storage/reservation"
	"github.com/m04kA/GymLessonBookingService/internal/service/reservations/models"
	"github.com/m04kA/GymLessonBookingService/pkg/metrics"
	"github.com/m04kA/GymLessonBookingService/pkg/types"
)

// Config параметры удержаний
type Config struct {
	HoldTTLMinutes int
	Location       *time.Location // часовой пояс студии
}

// Service менеджер удержаний интервалов
type Service struct {
	txManager TransactionManager
	repo      ReservationRepository
	clock     TimeProvider
	metrics   Metrics
	logger    Logger
	newToken  TokenGenerator
	ttl       time.Duration
	location  *time.Location
}

// NewService создает новый экземпляр менеджера удержаний
func NewService(
	txManager TransactionManager,
	repo ReservationRepository,
	clock TimeProvider,
	m Metrics,
	logger Logger,
	cfg Config,
) (*Service, error) {
	if cfg.HoldTTLMinutes == 0 {
		cfg.HoldTTLMinutes = domain.DefaultHoldTTLMinutes
	}
	if cfg.HoldTTLMinutes < domain.MinHoldTTLMinutes || cfg.HoldTTLMinutes > domain.MaxHoldTTLMinutes {
		return nil, fmt.Errorf("%w: %d minutes", ErrInvalidTTL, cfg.HoldTTLMinutes)
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	return &Service{
		txManager: txManager,
		repo:      repo,
		clock:     clock,
		metrics:   m,
		logger:    logger,
		newToken:  uuid.NewString,
		ttl:       time.Duration(cfg.HoldTTLMinutes) * time.Minute,
		location:  cfg.Location,
	}, nil
}

// WithTokenGenerator подменяет генератор токенов (для тестов)
func (s *Service) WithTokenGenerator(gen TokenGenerator) *Service {
	s.newToken = gen
	return s
}

// TTL возвращает срок жизни удержания
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Create удерживает интервал [startTime, startTime+длительность урока) для сессии
// Прежнее удержание этой сессии заменяется. Проверка и вставка атомарны на уровне БД.
func (s *Service) Create(ctx context.Context, req models.CreateRequest) (*domain.SlotReservation, error) {
	now := s.clock.Now()

	hold, err := s.buildHold(req, now)
	if err != nil {
		s.logger.Warn("Create: invalid request session=%q: %v", req.SessionID, err)
		return nil, err
	}

	s.logger.Info("Create: holding %s %s (%d min) for session=%s",
		req.Date, hold.StartTime, hold.DurationMinutes, hold.SessionID)

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		_, err := s.repo.CreateHold(ctx, hold, now)
		return err
	})
	if err != nil {
		if errors.Is(err, reservationRepo.ErrOverlap) {
			s.logger.Warn("Create: slot %s %s is taken", req.Date, hold.StartTime)
			s.metrics.RecordReservation(metrics.ReservationConflict)
			return nil, ErrSlotConflict
		}
		s.logger.Error("Create: repository error for session=%s: %v", hold.SessionID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.metrics.RecordReservation(metrics.ReservationCreated)
	s.logger.Info("Create: hold id=%d created, expires at %s", hold.ID, hold.ExpiresAt.Format(time.RFC3339))
	return hold, nil
}

// Release снимает удержание сессии; повторный вызов не является ошибкой
func (s *Service) Release(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if err := validateSessionID(sessionID); err != nil {
		return err
	}

	released, err := s.repo.ReleaseBySession(ctx, sessionID)
	if err != nil {
		s.logger.Error("Release: repository error for session=%s: %v", sessionID, err)
		return fmt.Errorf("%w: Release - repository error: %v", ErrInternal, err)
	}

	if released > 0 {
		s.metrics.RecordReservation(metrics.ReservationReleased)
		s.logger.Info("Release: hold of session=%s released", sessionID)
	}
	return nil
}

// Consume гасит живое удержание сессии и возвращает его
// Выполняется в транзакции вызывающего, если она есть в контексте
func (s *Service) Consume(ctx context.Context, sessionID string) (*domain.SlotReservation, error) {
	sessionID = strings.TrimSpace(sessionID)
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}

	hold, err := s.repo.ConsumeBySession(ctx, sessionID, s.clock.Now())
	if err != nil {
		if errors.Is(err, reservationRepo.ErrHoldNotFound) {
			s.logger.Warn("Consume: no live hold for session=%s", sessionID)
			s.metrics.RecordReservation(metrics.ReservationExpired)
			return nil, ErrReservationExpired
		}
		s.logger.Error("Consume: repository error for session=%s: %v", sessionID, err)
		return nil, fmt.Errorf("%w: Consume - repository error: %v", ErrInternal, err)
	}

	s.metrics.RecordReservation(metrics.ReservationConsumed)
	return hold, nil
}

// ListActive возвращает неистекшие удержания на дату
func (s *Service) ListActive(ctx context.Context, date time.Time) ([]*domain.SlotReservation, error) {
	holds, err := s.repo.GetActiveHoldsByDate(ctx, date, s.clock.Now())
	if err != nil {
		s.logger.Error("ListActive: repository error for date=%s: %v", date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: ListActive - repository error: %v", ErrInternal, err)
	}
	return holds, nil
}

// Sweep удаляет истекшие удержания; на корректность не влияет
func (s *Service) Sweep(ctx context.Context) (int64, error) {
	deleted, err := s.repo.DeleteExpiredHolds(ctx, s.clock.Now())
	if err != nil {
		s.logger.Error("Sweep: repository error: %v", err)
		return 0, fmt.Errorf("%w: Sweep - repository error: %v", ErrInternal, err)
	}

	s.metrics.RecordSweep(deleted)
	if deleted > 0 {
		s.logger.Info("Sweep: deleted %d expired holds", deleted)
	}
	return deleted, nil
}

func (s *Service) buildHold(req models.CreateRequest, now time.Time) (*domain.SlotReservation, error) {
	sessionID := strings.TrimSpace(req.SessionID)
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	start, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil || start.Minutes() >= 24*60 {
		return nil, fmt.Errorf("%w: startTime must be HH:MM", ErrInvalidInput)
	}

	lessonType, err := domain.ParseLessonType(req.LessonType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	duration := lessonType.DurationMinutes()
	if _, err := start.AddMinutes(duration); err != nil {
		return nil, fmt.Errorf("%w: lesson must end by midnight", ErrInvalidInput)
	}

	startAt := time.Date(date.Year(), date.Month(), date.Day(), 0, start.Minutes(), 0, 0, s.location)
	if !startAt.After(now) {
		return nil, fmt.Errorf("%w: slot is in the past", ErrInvalidInput)
	}

	return &domain.SlotReservation{
		Token:           s.newToken(),
		Date:            date,
		StartTime:       start,
		DurationMinutes: duration,
		LessonType:      lessonType,
		SessionID:       sessionID,
		CreatedAt:       now,
		ExpiresAt:       now.Add(s.ttl),
	}, nil
}

func validateSessionID(sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("%w: sessionId is required", ErrInvalidInput)
	}
	if len(sessionID) > domain.MaxSessionIDLength {
		return fmt.Errorf("%w: sessionId is too long", ErrInvalidInput)
	}
	return nil
}
