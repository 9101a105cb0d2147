package create_reservation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/GymLessonBookingService/internal/domain"
	"github.com/m04kA/GymLessonBookingService/internal/service/reservations"
	"github.com/m04kA/GymLessonBookingService/internal/service/reservations/models"
	"github.com/m04kA/GymLessonBookingService/pkg/logger"
)

type stubService struct {
	err error
}

func (s *stubService) Create(_ context.Context, req models.CreateRequest) (*domain.SlotReservation, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.SlotReservation{
		ID:              1,
		Token:           "tok",
		Date:            time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC),
		StartTime:       "12:00",
		DurationMinutes: 30,
		LessonType:      domain.LessonQuickJourney,
		SessionID:       req.SessionID,
		ExpiresAt:       time.Date(2025, 7, 6, 19, 15, 0, 0, time.UTC),
	}, nil
}

const body = `{"date":"2025-07-07","startTime":"12:00","lessonType":"quick-journey","sessionId":"sess-1"}`

func TestHandle(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"created", body, nil, http.StatusCreated},
		{"conflict", body, reservations.ErrSlotConflict, http.StatusConflict},
		{"invalid", body, reservations.ErrInvalidInput, http.StatusBadRequest},
		{"internal", body, reservations.ErrInternal, http.StatusInternalServerError},
		{"malformed body", `{"date":`, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&stubService{err: tt.err}, logger.NewNop())
			rec := httptest.NewRecorder()
			h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(tt.body)))
			require.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandle_ResponseBody(t *testing.T) {
	h := NewHandler(&stubService{}, logger.NewNop())
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body)))

	assert.JSONEq(t, `{"token":"tok","sessionId":"sess-1","date":"2025-07-07","startTime":"12:00","endTime":"12:30",
		"durationMinutes":30,"lessonType":"quick-journey","expiresAt":"2025-07-06T19:15:00Z"}`, rec.Body.String())
}
