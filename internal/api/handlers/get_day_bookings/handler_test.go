package get_day_bookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/GymLessonBookingService/internal/service/bookings"
	"github.com/m04kA/GymLessonBookingService/internal/service/bookings/models"
	"github.com/m04kA/GymLessonBookingService/pkg/logger"
)

type stubService struct {
	err  error
	date time.Time
}

func (s *stubService) GetDayBookings(_ context.Context, date time.Time) (*models.BookingListResponse, error) {
	s.date = date
	if s.err != nil {
		return nil, s.err
	}
	return &models.BookingListResponse{Bookings: []models.BookingResponse{{ID: 1}, {ID: 2}}}, nil
}

func TestHandle(t *testing.T) {
	svc := &stubService{}
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/bookings?date=2025-07-07", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2025-07-07", svc.date.Format("2006-01-02"))
	assert.Contains(t, rec.Body.String(), `"id":2`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		query string
		err   error
		want  int
	}{
		{"", nil, http.StatusBadRequest},
		{"?date=tomorrow", nil, http.StatusBadRequest},
		{"?date=2025-07-07", bookings.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		NewHandler(&stubService{err: tt.err}, logger.NewNop()).
			Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/bookings"+tt.query, nil))
		assert.Equal(t, tt.want, rec.Code, tt.query)
	}
}
