package reservation

import "errors"

var (
	// ErrOverlap возвращается, когда интервал пересекается с активным удержанием или бронированием
	ErrOverlap = errors.New("reservation.repository: interval overlaps an existing claim")

	// ErrHoldNotFound возвращается, когда активного удержания сессии нет (отсутствует или истекло)
	ErrHoldNotFound = errors.New("reservation.repository: active hold not found")

	// ErrNotInTransaction возвращается, если составная операция вызвана вне транзакции
	ErrNotInTransaction = errors.New("reservation.repository: operation requires a transaction")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation.repository: failed to scan row")
)
