package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор метрик сервиса. Все методы безопасны для nil-получателя,
// поэтому компоненты могут работать и при выключенных метриках.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration   *prometheus.HistogramVec
	dbOpenConnections prometheus.Gauge
	dbInUse           prometheus.Gauge
	dbIdle            prometheus.Gauge
	dbWaitCount       prometheus.Gauge

	submissionsTotal   *prometheus.CounterVec
	slotsReservedTotal prometheus.Counter
	notificationsTotal *prometheus.CounterVec
	ledgerDriftSlots   prometheus.Gauge
}

// New регистрирует метрики в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegisterer регистрирует метрики в переданном реестре
func NewWithRegisterer(reg prometheus.Registerer, serviceName string) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation", "status"}),
		dbOpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Open connections in the pool",
			ConstLabels: labels,
		}),
		dbInUse: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Connections currently in use",
			ConstLabels: labels,
		}),
		dbIdle: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Idle connections in the pool",
			ConstLabels: labels,
		}),
		dbWaitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: labels,
		}),
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointment_submissions_total",
			Help:        "Appointment submissions by outcome",
			ConstLabels: labels,
		}, []string{"outcome"}),
		slotsReservedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "appointment_slots_reserved_total",
			Help:        "Slot units committed to the capacity ledger",
			ConstLabels: labels,
		}),
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointment_notifications_total",
			Help:        "Confirmation deliveries by channel and status",
			ConstLabels: labels,
		}, []string{"channel", "status"}),
		ledgerDriftSlots: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "capacity_ledger_drift_slots",
			Help:        "Slots whose ledger count differs from persisted bookings",
			ConstLabels: labels,
		}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbQueryDuration,
		m.dbOpenConnections,
		m.dbInUse,
		m.dbIdle,
		m.dbWaitCount,
		m.submissionsTotal,
		m.slotsReservedTotal,
		m.notificationsTotal,
		m.ledgerDriftSlots,
	)

	return m
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.dbQueryDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
}

func (m *Metrics) SetDBStats(stats sql.DBStats) {
	if m == nil {
		return
	}
	m.dbOpenConnections.Set(float64(stats.OpenConnections))
	m.dbInUse.Set(float64(stats.InUse))
	m.dbIdle.Set(float64(stats.Idle))
	m.dbWaitCount.Set(float64(stats.WaitCount))
}

// ObserveSubmission считает результат обработки заявки (accepted, conflict, ...)
func (m *Metrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) AddSlotsReserved(n int) {
	if m == nil {
		return
	}
	m.slotsReservedTotal.Add(float64(n))
}

func (m *Metrics) ObserveNotification(channel string, err error) {
	if m == nil {
		return
	}
	status := "sent"
	if err != nil {
		status = "failed"
	}
	m.notificationsTotal.WithLabelValues(channel, status).Inc()
}

func (m *Metrics) SetLedgerDrift(slots int) {
	if m == nil {
		return
	}
	m.ledgerDriftSlots.Set(float64(slots))
}
