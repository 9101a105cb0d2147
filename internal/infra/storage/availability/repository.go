package availability

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/GymLessonBookingService/internal/domain"
	"github.com/m04kA/GymLessonBookingService/pkg/dbmetrics"
	"github.com/m04kA/GymLessonBookingService/pkg/psqlbuilder"
	"github.com/m04kA/GymLessonBookingService/pkg/types"
)

const (
	rulesTable      = "availability"
	exceptionsTable = "availability_exceptions"

	// TIME читаем строкой: lib/pq не разбирает 24:00 в time.Time
	startTimeColumn = "to_char(start_time, 'HH24:MI') AS start_time"
	endTimeColumn   = "to_char(end_time, 'HH24:MI') AS end_time"
)

// Repository репозиторий недельного шаблона доступности и исключений
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория доступности
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateRule добавляет окно в недельный шаблон
func (r *Repository) CreateRule(ctx context.Context, rule *domain.RecurringAvailabilityRule) (*domain.RecurringAvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(rulesTable).
		Columns("day_of_week", "start_time", "end_time", "is_recurring", "is_available").
		Values(int(rule.DayOfWeek), rule.StartTime, rule.EndTime, rule.IsRecurring, rule.IsAvailable).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateRule - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&rule.ID); err != nil {
		return nil, fmt.Errorf("%w: CreateRule - execute insert: %v", ErrExecQuery, err)
	}

	return rule, nil
}

// CreateException добавляет исключение на конкретную дату
func (r *Repository) CreateException(ctx context.Context, exception *domain.AvailabilityException) (*domain.AvailabilityException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(exceptionsTable).
		Columns("exception_date", "start_time", "end_time", "is_available", "reason").
		Values(
			exception.Date.Format(domain.DateFormat),
			exception.StartTime,
			exception.EndTime,
			exception.IsAvailable,
			exception.Reason,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateException - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exception.ID); err != nil {
		return nil, fmt.Errorf("%w: CreateException - execute insert: %v", ErrExecQuery, err)
	}

	return exception, nil
}

// GetRulesByDayOfWeek возвращает все окна шаблона для дня недели, включая выключенные
// Фильтрация по IsAvailable выполняется резолвером
func (r *Repository) GetRulesByDayOfWeek(ctx context.Context, day time.Weekday) ([]*domain.RecurringAvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"day_of_week",
		startTimeColumn,
		endTimeColumn,
		"is_recurring",
		"is_available",
	).
		From(rulesTable).
		Where(squirrel.Eq{"day_of_week": int(day)}).
		OrderBy("start_time").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetRulesByDayOfWeek - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetRulesByDayOfWeek - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]*domain.RecurringAvailabilityRule, 0)
	for rows.Next() {
		var (
			rule       domain.RecurringAvailabilityRule
			dayOfWeek  int
			start, end string
		)

		if err := rows.Scan(&rule.ID, &dayOfWeek, &start, &end, &rule.IsRecurring, &rule.IsAvailable); err != nil {
			return nil, fmt.Errorf("%w: GetRulesByDayOfWeek - scan row: %v", ErrScanRow, err)
		}

		rule.DayOfWeek = time.Weekday(dayOfWeek)
		if rule.StartTime, rule.EndTime, err = parseWindow(start, end); err != nil {
			return nil, fmt.Errorf("%w: GetRulesByDayOfWeek - parse window: %v", ErrScanRow, err)
		}

		rules = append(rules, &rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetRulesByDayOfWeek - rows error: %v", ErrScanRow, err)
	}

	return rules, nil
}

// GetExceptionsByDate возвращает исключения на дату
func (r *Repository) GetExceptionsByDate(ctx context.Context, date time.Time) ([]*domain.AvailabilityException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"exception_date",
		startTimeColumn,
		endTimeColumn,
		"is_available",
		"reason",
	).
		From(exceptionsTable).
		Where(squirrel.Eq{"exception_date": date.Format(domain.DateFormat)}).
		OrderBy("start_time").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetExceptionsByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetExceptionsByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	exceptions := make([]*domain.AvailabilityException, 0)
	for rows.Next() {
		var (
			exception  domain.AvailabilityException
			start, end string
			reason     sql.NullString
		)

		if err := rows.Scan(&exception.ID, &exception.Date, &start, &end, &exception.IsAvailable, &reason); err != nil {
			return nil, fmt.Errorf("%w: GetExceptionsByDate - scan row: %v", ErrScanRow, err)
		}

		if exception.StartTime, exception.EndTime, err = parseWindow(start, end); err != nil {
			return nil, fmt.Errorf("%w: GetExceptionsByDate - parse window: %v", ErrScanRow, err)
		}
		if reason.Valid {
			exception.Reason = &reason.String
		}

		exceptions = append(exceptions, &exception)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetExceptionsByDate - rows error: %v", ErrScanRow, err)
	}

	return exceptions, nil
}

func parseWindow(start, end string) (types.TimeString, types.TimeString, error) {
	startTime, err := types.NewTimeStringFromString(start)
	if err != nil {
		return "", "", err
	}
	endTime, err := types.NewTimeStringFromString(end)
	if err != nil {
		return "", "", err
	}
	return startTime, endTime, nil
}
