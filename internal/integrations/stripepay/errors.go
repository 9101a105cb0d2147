package stripepay

import "errors"

var (
	// ErrCheckoutFailed возвращается, когда платежный провайдер отклонил создание сессии
	ErrCheckoutFailed = errors.New("stripepay client: checkout session failed")

	// ErrInvalidRequest возвращается при некорректных данных для оплаты
	ErrInvalidRequest = errors.New("stripepay client: invalid checkout request")
)
