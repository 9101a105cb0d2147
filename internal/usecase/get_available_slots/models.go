package get_available_slots

import (
	"time"

	"github.com/m04kA/GymLessonBookingService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	Date       time.Time // Дата для получения слотов (без времени)
	LessonType string    // Тип урока определяет длительность слота
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time
	LessonType      domain.LessonType
	DurationMinutes int
	Slots           []domain.TimeSlot // упорядочены по времени начала
}

// Config параметры расчета слотов
type Config struct {
	Location           *time.Location
	ExceptionOrder     string
	MinNoticeMinutes   int
	AdvanceBookingDays int // 0 - без ограничения
}
