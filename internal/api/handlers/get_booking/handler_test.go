package get_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/GymLessonBookingService/internal/service/bookings"
	"github.com/m04kA/GymLessonBookingService/internal/service/bookings/models"
	"github.com/m04kA/GymLessonBookingService/pkg/logger"
)

type stubService struct{}

func (stubService) GetByID(_ context.Context, id int64) (*models.BookingResponse, error) {
	switch id {
	case 1:
		return &models.BookingResponse{ID: 1, Status: "paid"}, nil
	case 2:
		return nil, bookings.ErrInternal
	default:
		return nil, bookings.ErrBookingNotFound
	}
}

func TestHandle(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/bookings/{bookingId}", NewHandler(stubService{}, logger.NewNop()).Handle)

	tests := map[string]int{
		"/api/v1/bookings/1":   http.StatusOK,
		"/api/v1/bookings/2":   http.StatusInternalServerError,
		"/api/v1/bookings/9":   http.StatusNotFound,
		"/api/v1/bookings/abc": http.StatusBadRequest,
		"/api/v1/bookings/-1":  http.StatusBadRequest,
	}

	for path, want := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, rec.Code, path)
	}
}
