package paymentevent

import (
	"context"
	"fmt"

	"github.com/m04kA/GymLessonBookingService/internal/domain"
	"github.com/m04kA/GymLessonBookingService/pkg/dbmetrics"
	"github.com/m04kA/GymLessonBookingService/pkg/psqlbuilder"
)

// Repository журнал обработанных платежных событий
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория платежных событий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// MarkProcessed регистрирует событие; false означает, что событие уже обрабатывалось
// Вызывается в транзакции применения события: при откате отметка тоже откатывается
func (r *Repository) MarkProcessed(ctx context.Context, eventID string, bookingID int64, eventType domain.PaymentEventType) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("processed_payment_events").
		Columns("event_id", "booking_id", "event_type").
		Values(eventID, bookingID, string(eventType)).
		Suffix("ON CONFLICT (event_id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: MarkProcessed - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: MarkProcessed - execute insert: %v", ErrExecQuery, err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: MarkProcessed - get rows affected: %v", ErrExecQuery, err)
	}

	return inserted == 1, nil
}
