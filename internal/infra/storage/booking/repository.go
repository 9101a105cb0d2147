package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/GymLessonBookingService/internal/domain"
	"github.com/m04kA/GymLessonBookingService/pkg/dbmetrics"
	"github.com/m04kA/GymLessonBookingService/pkg/psqlbuilder"
	"github.com/m04kA/GymLessonBookingService/pkg/types"
)

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Итоговый статус вычисляется из подстатусов, поле booking.Status перезаписывается
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	values := substatusColumns(booking.PaymentStatus, booking.AttendanceStatus)
	values["booking_date"] = booking.BookingDate.Format(domain.DateFormat)
	values["start_time"] = booking.StartTime
	values["duration_minutes"] = booking.DurationMinutes
	values["lesson_type"] = string(booking.LessonType)
	values["amount_cents"] = booking.AmountCents
	values["parent_first_name"] = booking.ParentFirstName
	values["parent_last_name"] = booking.ParentLastName
	values["parent_email"] = booking.ParentEmail
	values["parent_phone"] = booking.ParentPhone
	values["athletes"] = pq.Array(booking.Athletes)
	values["notes"] = booking.Notes

	query, args, err := psqlbuilder.Insert(tableName).
		SetMap(values).
		Suffix("RETURNING id, status, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var status string
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.Status = domain.BookingStatus(status)
	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate получает бронирование по ID и блокирует строку до конца транзакции
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getByID(ctx, id, true)
}

func (r *Repository) getByID(ctx context.Context, id int64, forUpdate bool) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(selectColumns...).
		From(tableName).
		Where(squirrel.Eq{"id": id})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetActiveByDate получает бронирования на дату, которые занимают интервал
// Отмененные и неуспешные бронирования не возвращаются
func (r *Repository) GetActiveByDate(ctx context.Context, date time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	inactive := make([]string, 0, len(domain.InactiveBookingStatuses))
	for _, s := range domain.InactiveBookingStatuses {
		inactive = append(inactive, string(s))
	}

	query, args, err := psqlbuilder.Select(selectColumns...).
		From(tableName).
		Where(squirrel.Eq{"booking_date": date.Format(domain.DateFormat)}).
		Where(squirrel.NotEq{"status": inactive}).
		OrderBy("start_time").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetActiveByDate - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetActiveByDate - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// UpdateSubstatuses записывает пару подстатусов и пересчитанный итоговый статус
func (r *Repository) UpdateSubstatuses(ctx context.Context, id int64, payment domain.PaymentStatus, attendance domain.AttendanceStatus) (domain.BookingStatus, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		SetMap(substatusColumns(payment, attendance)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING status").
		ToSql()
	if err != nil {
		return "", fmt.Errorf("%w: UpdateSubstatuses - build update query: %v", ErrBuildQuery, err)
	}

	var status string
	err = executor.QueryRowContext(ctx, query, args...).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrBookingNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: UpdateSubstatuses - execute update: %v", ErrExecQuery, err)
	}

	return domain.BookingStatus(status), nil
}

// UpdatePaymentDetails сохраняет ссылку на checkout-сессию и/или оплаченную сумму
// nil поля не изменяются
func (r *Repository) UpdatePaymentDetails(ctx context.Context, id int64, reference *string, paidAmountCents *int64) error {
	if reference == nil && paidAmountCents == nil {
		return ErrEmptyUpdate
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Update(tableName).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})
	if reference != nil {
		builder = builder.Set("payment_reference", *reference)
	}
	if paidAmountCents != nil {
		builder = builder.Set("paid_amount_cents", *paidAmountCents)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdatePaymentDetails - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdatePaymentDetails", query, args)
}

// AttachProfile привязывает профиль родителя к бронированию
func (r *Repository) AttachProfile(ctx context.Context, id int64, profileID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("profile_id", profileID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AttachProfile - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "AttachProfile", query, args)
}

func (r *Repository) execAffectingOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует строку в бронирование
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking          domain.Booking
		startTime        string
		lessonType       string
		paymentStatus    string
		attendanceStatus string
		status           string
		notes            sql.NullString
		profileID        sql.NullInt64
		paymentReference sql.NullString
		paidAmountCents  sql.NullInt64
	)

	err := row.Scan(
		&booking.ID,
		&booking.BookingDate,
		&startTime,
		&booking.DurationMinutes,
		&lessonType,
		&booking.AmountCents,
		&paymentStatus,
		&attendanceStatus,
		&status,
		&booking.ParentFirstName,
		&booking.ParentLastName,
		&booking.ParentEmail,
		&booking.ParentPhone,
		pq.Array(&booking.Athletes),
		&notes,
		&profileID,
		&paymentReference,
		&paidAmountCents,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.StartTime, err = types.NewTimeStringFromString(startTime)
	if err != nil {
		return nil, err
	}

	booking.LessonType = domain.LessonType(lessonType)
	booking.PaymentStatus = domain.PaymentStatus(paymentStatus)
	booking.AttendanceStatus = domain.AttendanceStatus(attendanceStatus)
	booking.Status = domain.BookingStatus(status)

	if notes.Valid {
		booking.Notes = &notes.String
	}
	if profileID.Valid {
		booking.ProfileID = &profileID.Int64
	}
	if paymentReference.Valid {
		booking.PaymentReference = &paymentReference.String
	}
	if paidAmountCents.Valid {
		booking.PaidAmountCents = &paidAmountCents.Int64
	}

	return &booking, nil
}
