package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Результаты операций с удержаниями слотов
const (
	ReservationCreated  = "created"
	ReservationConflict = "conflict"
	ReservationReleased = "released"
	ReservationConsumed = "consumed"
	ReservationExpired  = "expired"
)

// Результаты обработки платежных событий
const (
	PaymentEventApplied   = "applied"
	PaymentEventIgnored   = "ignored"
	PaymentEventDuplicate = "duplicate"
	PaymentEventFailed    = "failed"
)

// Metrics набор prometheus метрик сервиса
// Все методы Record* безопасны для nil receiver (метрики выключены)
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueriesTotal  *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec
	dbOpenConns     *prometheus.GaugeVec
	dbInUseConns    *prometheus.GaugeVec
	dbIdleConns     *prometheus.GaugeVec

	reservationsTotal  *prometheus.CounterVec
	paymentEventsTotal *prometheus.CounterVec
	statusChangesTotal *prometheus.CounterVec
	sweptHoldsTotal    *prometheus.CounterVec
}

// New регистрирует метрики в глобальном prometheus registry
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry регистрирует метрики в переданном registry (используется в тестах)
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),
		dbQueriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: constLabels,
		}, []string{"operation", "status"}),
		dbQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		dbOpenConns: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{}),
		dbInUseConns: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{}),
		dbIdleConns: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{}),
		reservationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "slot_reservations_total",
			Help:        "Slot hold operations by result",
			ConstLabels: constLabels,
		}, []string{"result"}),
		paymentEventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "payment_events_total",
			Help:        "Payment events by type and outcome",
			ConstLabels: constLabels,
		}, []string{"type", "outcome"}),
		statusChangesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_status_changes_total",
			Help:        "Booking status transitions by target status",
			ConstLabels: constLabels,
		}, []string{"status"}),
		sweptHoldsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "swept_slot_reservations_total",
			Help:        "Expired holds removed by the sweeper",
			ConstLabels: constLabels,
		}, []string{}),
	}
}

// RecordHTTPRequest записывает метрики HTTP запроса
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordDBQuery записывает метрики SQL запроса
func (m *Metrics) RecordDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.dbQueriesTotal.WithLabelValues(operation, status).Inc()
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetDBPoolStats обновляет метрики пула соединений
func (m *Metrics) SetDBPoolStats(open, inUse, idle int) {
	if m == nil {
		return
	}
	m.dbOpenConns.WithLabelValues().Set(float64(open))
	m.dbInUseConns.WithLabelValues().Set(float64(inUse))
	m.dbIdleConns.WithLabelValues().Set(float64(idle))
}

// RecordReservation учитывает операцию с удержанием слота
func (m *Metrics) RecordReservation(result string) {
	if m == nil {
		return
	}
	m.reservationsTotal.WithLabelValues(result).Inc()
}

// RecordPaymentEvent учитывает обработку платежного события
func (m *Metrics) RecordPaymentEvent(eventType, outcome string) {
	if m == nil {
		return
	}
	m.paymentEventsTotal.WithLabelValues(eventType, outcome).Inc()
}

// RecordStatusChange учитывает переход бронирования в новый статус
func (m *Metrics) RecordStatusChange(status string) {
	if m == nil {
		return
	}
	m.statusChangesTotal.WithLabelValues(status).Inc()
}

// RecordSweep учитывает удаленные просроченные удержания
func (m *Metrics) RecordSweep(deleted int64) {
	if m == nil {
		return
	}
	m.sweptHoldsTotal.WithLabelValues().Add(float64(deleted))
}
