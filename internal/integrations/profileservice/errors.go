package profileservice

import "errors"

var (
	// ErrParentNotFound возвращается, когда профиль родителя не найден
	ErrParentNotFound = errors.New("profileservice client: parent not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("profileservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("profileservice client: invalid response")
)
