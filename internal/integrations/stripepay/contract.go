package stripepay

import "github.com/stripe/stripe-go/v76"

// SessionCreator создание checkout-сессий (stripe client.API.CheckoutSessions)
type SessionCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
