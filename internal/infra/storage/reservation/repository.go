package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/GymLessonBookingService/internal/domain"
	"github.com/m04kA/GymLessonBookingService/pkg/dbmetrics"
	"github.com/m04kA/GymLessonBookingService/pkg/psqlbuilder"
	"github.com/m04kA/GymLessonBookingService/pkg/types"
)

const (
	tableName = "slot_claims"

	kindHold    = "hold"
	kindBooking = "booking"
)

// Коды ошибок PostgreSQL, означающие занятость интервала
const (
	pqExclusionViolation pq.ErrorCode = "23P01"
	pqUniqueViolation    pq.ErrorCode = "23505"
)

var holdColumns = []string{
	"id",
	"token",
	"slot_date",
	"start_minute",
	"end_minute",
	"lesson_type",
	"session_id",
	"created_at",
	"expires_at",
}

// Repository арена интервалов slot_claims: удержания и интервалы бронирований
// Отсутствие пересечений гарантирует ограничение исключения slot_claims_no_overlap,
// а не проверка на стороне приложения
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория удержаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateHold атомарно создает удержание интервала для сессии
// Должен вызываться в транзакции: удаляет прежнее удержание сессии и истекшие
// пересекающиеся удержания, затем вставляет новое. При пересечении с живым
// удержанием или бронированием возвращает ErrOverlap.
func (r *Repository) CreateHold(ctx context.Context, hold *domain.SlotReservation, now time.Time) (*domain.SlotReservation, error) {
	if !dbmetrics.IsInTransaction(ctx) {
		return nil, ErrNotInTransaction
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	interval := hold.Interval()
	date := hold.Date.Format(domain.DateFormat)

	// 1. Одна сессия - одно удержание
	if _, err := r.ReleaseBySession(ctx, hold.SessionID); err != nil {
		return nil, err
	}

	// 2. Истекшие удержания не должны блокировать вставку
	if err := r.deleteExpiredOverlapping(ctx, date, interval, now); err != nil {
		return nil, err
	}

	// 3. Вставка; пересечение отсекает ограничение исключения
	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"kind",
			"slot_date",
			"start_minute",
			"end_minute",
			"lesson_type",
			"token",
			"session_id",
			"created_at",
			"expires_at",
		).
		Values(
			kindHold,
			date,
			interval.Start,
			interval.End,
			string(hold.LessonType),
			hold.Token,
			hold.SessionID,
			hold.CreatedAt,
			hold.ExpiresAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateHold - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&hold.ID); err != nil {
		if isOverlap(err) {
			return nil, ErrOverlap
		}
		return nil, fmt.Errorf("%w: CreateHold - execute insert: %v", ErrExecQuery, err)
	}

	return hold, nil
}

// ReleaseBySession удаляет удержание сессии; возвращает число удаленных строк
// Повторный вызов безопасен
func (r *Repository) ReleaseBySession(ctx context.Context, sessionID string) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"kind": kindHold, "session_id": sessionID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: ReleaseBySession - build delete query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: ReleaseBySession - execute delete: %v", ErrExecQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: ReleaseBySession - rows affected: %v", ErrExecQuery, err)
	}
	return affected, nil
}

// ConsumeBySession удаляет живое удержание сессии и возвращает его
// Истекшее или отсутствующее удержание - ErrHoldNotFound
func (r *Repository) ConsumeBySession(ctx context.Context, sessionID string, now time.Time) (*domain.SlotReservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"kind": kindHold, "session_id": sessionID}).
		Where(squirrel.Gt{"expires_at": now}).
		Suffix("RETURNING " + strings.Join(holdColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ConsumeBySession - build delete query: %v", ErrBuildQuery, err)
	}

	hold, err := scanHold(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHoldNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: ConsumeBySession - scan hold: %v", ErrScanRow, err)
	}
	return hold, nil
}

// GetActiveHoldsByDate возвращает удержания на дату, не истекшие к моменту now
func (r *Repository) GetActiveHoldsByDate(ctx context.Context, date time.Time, now time.Time) ([]*domain.SlotReservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(holdColumns...).
		From(tableName).
		Where(squirrel.Eq{"kind": kindHold, "slot_date": date.Format(domain.DateFormat)}).
		Where(squirrel.Gt{"expires_at": now}).
		OrderBy("start_minute").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveHoldsByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveHoldsByDate - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	holds := make([]*domain.SlotReservation, 0)
	for rows.Next() {
		hold, err := scanHold(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetActiveHoldsByDate - scan hold: %v", ErrScanRow, err)
		}
		holds = append(holds, hold)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetActiveHoldsByDate - rows: %v", ErrScanRow, err)
	}

	return holds, nil
}

// ClaimForBooking занимает интервал бронирования в арене
// Вызывается в той же транзакции, где удержание было погашено (или при реактивации бронирования)
func (r *Repository) ClaimForBooking(ctx context.Context, booking *domain.Booking, now time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	interval := booking.Interval()
	date := booking.BookingDate.Format(domain.DateFormat)

	if err := r.deleteExpiredOverlapping(ctx, date, interval, now); err != nil {
		return err
	}

	query, args, err := psqlbuilder.Insert(tableName).
		Columns("kind", "slot_date", "start_minute", "end_minute", "lesson_type", "booking_id").
		Values(kindBooking, date, interval.Start, interval.End, string(booking.LessonType), booking.ID).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ClaimForBooking - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if isOverlap(err) {
			return ErrOverlap
		}
		return fmt.Errorf("%w: ClaimForBooking - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

// ReleaseBookingClaim освобождает интервал отмененного или неуспешного бронирования
func (r *Repository) ReleaseBookingClaim(ctx context.Context, bookingID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"kind": kindBooking, "booking_id": bookingID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReleaseBookingClaim - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReleaseBookingClaim - execute delete: %v", ErrExecQuery, err)
	}
	return nil
}

// DeleteExpiredHolds удаляет все истекшие удержания (очистка хранилища)
func (r *Repository) DeleteExpiredHolds(ctx context.Context, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"kind": kindHold}).
		Where(squirrel.LtOrEq{"expires_at": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpiredHolds - build delete query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpiredHolds - execute delete: %v", ErrExecQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpiredHolds - rows affected: %v", ErrExecQuery, err)
	}
	return affected, nil
}

func (r *Repository) deleteExpiredOverlapping(ctx context.Context, date string, interval domain.Interval, now time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"kind": kindHold, "slot_date": date}).
		Where(squirrel.LtOrEq{"expires_at": now}).
		Where(squirrel.Expr("int4range(start_minute, end_minute) && int4range(?, ?)", interval.Start, interval.End)).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: deleteExpiredOverlapping - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: deleteExpiredOverlapping - execute delete: %v", ErrExecQuery, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHold(row rowScanner) (*domain.SlotReservation, error) {
	var (
		hold        domain.SlotReservation
		startMinute int
		endMinute   int
		lessonType  string
	)

	err := row.Scan(
		&hold.ID,
		&hold.Token,
		&hold.Date,
		&startMinute,
		&endMinute,
		&lessonType,
		&hold.SessionID,
		&hold.CreatedAt,
		&hold.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}

	start, err := types.NewTimeStringFromMinutes(startMinute)
	if err != nil {
		return nil, err
	}
	hold.StartTime = start
	hold.DurationMinutes = endMinute - startMinute
	hold.LessonType = domain.LessonType(lessonType)

	return &hold, nil
}

func isOverlap(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == pqExclusionViolation || pqErr.Code == pqUniqueViolation
}
