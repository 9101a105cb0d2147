package booking_lifecycle

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/GymLessonBookingService/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateCreateRequest проверяет контактные данные и список спортсменов
func validateCreateRequest(req *CreateRequest) error {
	if req == nil {
		return fmt.Errorf("%w: empty request", ErrInvalidInput)
	}
	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.SessionID == "" {
		return fmt.Errorf("%w: sessionId is required", ErrInvalidInput)
	}

	normalizeDetails(&req.Details)

	if err := validate.Struct(req.Details); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("%w: field %s failed %q", ErrInvalidInput, fe.Field(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func normalizeDetails(d *domain.BookingDetails) {
	d.ParentFirstName = strings.TrimSpace(d.ParentFirstName)
	d.ParentLastName = strings.TrimSpace(d.ParentLastName)
	d.ParentEmail = strings.ToLower(strings.TrimSpace(d.ParentEmail))
	d.ParentPhone = strings.TrimSpace(d.ParentPhone)
	for i := range d.Athletes {
		d.Athletes[i] = strings.TrimSpace(d.Athletes[i])
	}
	if d.Notes != nil {
		notes := strings.TrimSpace(*d.Notes)
		if notes == "" {
			d.Notes = nil
		} else {
			d.Notes = &notes
		}
	}
}

// parseOverride разбирает ручную правку; хотя бы одно поле обязательно
func parseOverride(req AdminOverrideRequest, current *domain.Booking) (domain.PaymentStatus, domain.AttendanceStatus, error) {
	if req.PaymentStatus == nil && req.AttendanceStatus == nil {
		return "", "", fmt.Errorf("%w: paymentStatus or attendanceStatus is required", ErrInvalidInput)
	}

	payment := current.PaymentStatus
	attendance := current.AttendanceStatus

	if req.PaymentStatus != nil {
		p, err := domain.ParsePaymentStatus(*req.PaymentStatus)
		if err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		payment = p
	}
	if req.AttendanceStatus != nil {
		a, err := domain.ParseAttendanceStatus(*req.AttendanceStatus)
		if err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		attendance = a
	}
	return payment, attendance, nil
}
