package stripepay

// CheckoutRequest данные для создания checkout-сессии
type CheckoutRequest struct {
	BookingID     int64
	AmountCents   int64
	Description   string
	LessonName    string
	CustomerEmail string
}

// Checkout созданная checkout-сессия
type Checkout struct {
	SessionID string // ссылка на платеж, приходит обратно в webhook
	URL       string // страница оплаты для клиента
}

// Config параметры провайдера
type Config struct {
	SecretKey  string
	Currency   string
	SuccessURL string // {BOOKING_ID} подставляется
	CancelURL  string
}
