package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/GymLessonBookingService/internal/api/handlers"
)

const msgTooManyRequests = "слишком много запросов, попробуйте позже"

const (
	// limiterIdleTTL после этого простоя лимитер клиента удаляется
	limiterIdleTTL = 10 * time.Minute
	// limiterSweepInterval как часто проверяем простаивающие лимитеры
	limiterSweepInterval = time.Minute
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterStore лимитеры по IP клиента
type limiterStore struct {
	mu        sync.Mutex
	entries   map[string]*limiterEntry
	limit     rate.Limit
	burst     int
	now       func() time.Time
	lastSweep time.Time
}

func newLimiterStore(perMinute int, now func() time.Time) *limiterStore {
	return &limiterStore{
		entries:   make(map[string]*limiterEntry),
		limit:     rate.Every(time.Minute / time.Duration(perMinute)),
		burst:     perMinute,
		now:       now,
		lastSweep: now(),
	}
}

// allow списывает один запрос с лимита клиента
func (s *limiterStore) allow(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= limiterSweepInterval {
		s.sweep(now)
	}

	entry, ok := s.entries[ip]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.entries[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// sweep удаляет лимитеры клиентов, не приходивших дольше limiterIdleTTL; вызывается под mu
func (s *limiterStore) sweep(now time.Time) {
	for ip, entry := range s.entries {
		if now.Sub(entry.lastSeen) > limiterIdleTTL {
			delete(s.entries, ip)
		}
	}
	s.lastSweep = now
}

// RateLimit ограничивает число запросов с одного IP (perMinute запросов в минуту)
// Используется на публичных маршрутах удержания слотов.
// perMinute <= 0 отключает ограничение.
// trustProxy разрешает брать адрес клиента из X-Forwarded-For / X-Real-IP,
// включать только за доверенным прокси
func RateLimit(perMinute int, trustProxy bool, logger Logger) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	store := newLimiterStore(perMinute, time.Now)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r, trustProxy)
			if !store.allow(ip) {
				logger.Warn("%s %s - Rate limit exceeded: ip=%s", r.Method, r.URL.Path, ip)
				handlers.RespondTooManyRequests(w, msgTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP адрес клиента. Заголовки прокси (первый адрес из X-Forwarded-For, затем X-Real-IP)
// учитываются только при trustProxy, иначе берётся RemoteAddr
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
				return first
			}
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
