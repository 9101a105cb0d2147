package models

import (
	"time"

	"github.com/m04kA/GymLessonBookingService/internal/domain"
)

// CreateRequest запрос на удержание интервала
type CreateRequest struct {
	Date       string `json:"date"`       // YYYY-MM-DD
	StartTime  string `json:"startTime"`  // HH:MM
	LessonType string `json:"lessonType"` // quick-journey, dual-quest, ...
	SessionID  string `json:"sessionId"`
}

// ReservationResponse ответ с данными удержания
type ReservationResponse struct {
	Token           string    `json:"token"`
	SessionID       string    `json:"sessionId"`
	Date            string    `json:"date"`
	StartTime       string    `json:"startTime"`
	EndTime         string    `json:"endTime"`
	DurationMinutes int       `json:"durationMinutes"`
	LessonType      string    `json:"lessonType"`
	ExpiresAt       time.Time `json:"expiresAt"`
}

// FromDomain конвертирует удержание в ответ
func FromDomain(r *domain.SlotReservation) *ReservationResponse {
	end, _ := r.StartTime.AddMinutes(r.DurationMinutes)
	return &ReservationResponse{
		Token:           r.Token,
		SessionID:       r.SessionID,
		Date:            r.Date.Format(domain.DateFormat),
		StartTime:       r.StartTime.String(),
		EndTime:         end.String(),
		DurationMinutes: r.DurationMinutes,
		LessonType:      string(r.LessonType),
		ExpiresAt:       r.ExpiresAt,
	}
}
