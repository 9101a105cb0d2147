package models

import (
	"time"

	"github.com/m04kA/GymLessonBookingService/internal/domain"
)

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64  `json:"id"`
	BookingDate     string `json:"bookingDate"` // "2025-07-07"
	StartTime       string `json:"startTime"`   // "12:00"
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
	LessonType      string `json:"lessonType"`
	AmountCents     int64  `json:"amountCents"`

	Status           string `json:"status"`
	PaymentStatus    string `json:"paymentStatus"`
	AttendanceStatus string `json:"attendanceStatus"`

	ParentFirstName string   `json:"parentFirstName"`
	ParentLastName  string   `json:"parentLastName"`
	ParentEmail     string   `json:"parentEmail"`
	ParentPhone     string   `json:"parentPhone"`
	Athletes        []string `json:"athletes"`
	Notes           *string  `json:"notes,omitempty"`

	ProfileID        *int64  `json:"profileId,omitempty"`
	PaymentReference *string `json:"paymentReference,omitempty"`
	PaidAmountCents  *int64  `json:"paidAmountCents,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:               b.ID,
		BookingDate:      b.BookingDate.Format(domain.DateFormat),
		StartTime:        b.StartTime.String(),
		DurationMinutes:  b.DurationMinutes,
		LessonType:       string(b.LessonType),
		AmountCents:      b.AmountCents,
		Status:           string(b.Status),
		PaymentStatus:    string(b.PaymentStatus),
		AttendanceStatus: string(b.AttendanceStatus),
		ParentFirstName:  b.ParentFirstName,
		ParentLastName:   b.ParentLastName,
		ParentEmail:      b.ParentEmail,
		ParentPhone:      b.ParentPhone,
		Athletes:         b.Athletes,
		Notes:            b.Notes,
		ProfileID:        b.ProfileID,
		PaymentReference: b.PaymentReference,
		PaidAmountCents:  b.PaidAmountCents,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}

	if end, err := b.EndTime(); err == nil {
		resp.EndTime = end.String()
	}
	if resp.Athletes == nil {
		resp.Athletes = []string{}
	}

	return resp
}

// FromDomainBookingList конвертирует список бронирований
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{Bookings: make([]BookingResponse, 0, len(bookings))}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}
	return resp
}
