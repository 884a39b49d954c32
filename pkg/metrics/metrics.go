package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics коллектор метрик сервиса.
// Все методы безопасны для nil-получателя: при выключенных метриках передаётся nil.
type Metrics struct {
	registry *prometheus.Registry
	service  string

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	externalCallsTotal   *prometheus.CounterVec
	externalCallDuration *prometheus.HistogramVec

	mutationsTotal *prometheus.CounterVec

	dbQueryDuration    *prometheus.HistogramVec
	dbOpenConnections  prometheus.Gauge
	dbInUseConnections prometheus.Gauge
	dbIdleConnections  prometheus.Gauge
	dbWaitCount        prometheus.Gauge
	wsSubscribers      prometheus.Gauge
}

// New создает и регистрирует метрики сервиса в собственном реестре
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		service:  serviceName,

		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),

		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		externalCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "tour_api_calls_total",
			Help:        "Total number of calls to the external tour API",
			ConstLabels: constLabels,
		}, []string{"operation", "outcome"}),

		externalCallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "tour_api_call_duration_seconds",
			Help:        "External tour API call duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"operation"}),

		mutationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "availability_mutations_total",
			Help:        "Availability mutations by operation and result kind",
			ConstLabels: constLabels,
		}, []string{"operation", "result"}),

		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		dbOpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "db_open_connections", Help: "Open database connections", ConstLabels: constLabels,
		}),
		dbInUseConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "db_in_use_connections", Help: "Database connections in use", ConstLabels: constLabels,
		}),
		dbIdleConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "db_idle_connections", Help: "Idle database connections", ConstLabels: constLabels,
		}),
		dbWaitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "db_wait_count", Help: "Total number of connections waited for", ConstLabels: constLabels,
		}),
		wsSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "availability_ws_subscribers", Help: "Connected availability event subscribers", ConstLabels: constLabels,
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.externalCallsTotal,
		m.externalCallDuration,
		m.mutationsTotal,
		m.dbQueryDuration,
		m.dbOpenConnections,
		m.dbInUseConnections,
		m.dbIdleConnections,
		m.dbWaitCount,
		m.wsSubscribers,
	)

	return m
}

// Handler HTTP handler для /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry возвращает реестр (используется в тестах)
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTPRequest записывает метрики HTTP запроса
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveExternalCall записывает метрики вызова внешнего API
func (m *Metrics) ObserveExternalCall(operation, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.externalCallsTotal.WithLabelValues(operation, outcome).Inc()
	m.externalCallDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// IncMutation увеличивает счётчик мутаций слотов
func (m *Metrics) IncMutation(operation, result string) {
	if m == nil {
		return
	}
	m.mutationsTotal.WithLabelValues(operation, result).Inc()
}

// ObserveDBQuery записывает длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetDBPoolStats обновляет метрики пула соединений
func (m *Metrics) SetDBPoolStats(open, inUse, idle int, waitCount int64) {
	if m == nil {
		return
	}
	m.dbOpenConnections.Set(float64(open))
	m.dbInUseConnections.Set(float64(inUse))
	m.dbIdleConnections.Set(float64(idle))
	m.dbWaitCount.Set(float64(waitCount))
}

// AddWSSubscribers изменяет количество подключенных подписчиков
func (m *Metrics) AddWSSubscribers(delta int) {
	if m == nil {
		return
	}
	m.wsSubscribers.Add(float64(delta))
}
