package create_booking

import (
	"github.com/m04kA/GymLessonBookingService/internal/domain"
	"github.com/m04kA/GymLessonBookingService/internal/service/bookings/models"
	bookingLifecycle "github.com/m04kA/GymLessonBookingService/internal/usecase/booking_lifecycle"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	SessionID       string   `json:"sessionId"`
	ParentFirstName string   `json:"parentFirstName"`
	ParentLastName  string   `json:"parentLastName"`
	ParentEmail     string   `json:"parentEmail"`
	ParentPhone     string   `json:"parentPhone"`
	Athletes        []string `json:"athletes"`
	Notes           *string  `json:"notes,omitempty"`
}

// CreateBookingResponse бронирование и страница оплаты
type CreateBookingResponse struct {
	Booking     *models.BookingResponse `json:"booking"`
	CheckoutURL string                  `json:"checkoutUrl"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() *bookingLifecycle.CreateRequest {
	return &bookingLifecycle.CreateRequest{
		SessionID: r.SessionID,
		Details: domain.BookingDetails{
			ParentFirstName: r.ParentFirstName,
			ParentLastName:  r.ParentLastName,
			ParentEmail:     r.ParentEmail,
			ParentPhone:     r.ParentPhone,
			Athletes:        r.Athletes,
			Notes:           r.Notes,
		},
	}
}

// FromUseCaseResult конвертирует результат use case в HTTP response
func FromUseCaseResult(res *bookingLifecycle.CreateResult) *CreateBookingResponse {
	return &CreateBookingResponse{
		Booking:     models.FromDomainBooking(res.Booking),
		CheckoutURL: res.CheckoutURL,
	}
}
