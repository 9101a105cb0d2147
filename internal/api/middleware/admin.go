package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/m04kA/GymLessonBookingService/internal/api/handlers"
)

// AdminKeyHeader заголовок с ключом администратора
const AdminKeyHeader = "X-Admin-Key"

const msgUnauthorized = "требуется ключ администратора"

// AdminKey пропускает только запросы с корректным ключом администратора
func AdminKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(AdminKeyHeader)
			if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
