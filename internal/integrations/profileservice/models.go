package profileservice

// Parent профиль родителя в сервисе профилей
type Parent struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Athletes  []Athlete `json:"athletes"`
}

// Athlete профиль спортсмена
type Athlete struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// ParentRequest данные для поиска или создания профиля
type ParentRequest struct {
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Athletes  []Athlete `json:"athletes"`
}

// ErrorResponse модель ошибки от сервиса профилей
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
