package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsAreNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest(http.MethodGet, "/api/v1/availability", http.StatusOK, time.Millisecond)
		m.ObserveExternalCall("list", "ok", time.Millisecond)
		m.IncMutation("create", "ok")
		m.ObserveDBQuery("exec", time.Millisecond)
		m.SetDBPoolStats(1, 1, 0, 0)
		m.AddWSSubscribers(1)
	})
}

// gathered значение метрики по имени и значениям меток
func gathered(t *testing.T, m *Metrics, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	for _, f := range families {
		if f.GetName() != name {
			continue
		}
	metricLoop:
		for _, metric := range f.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if want, ok := labels[pair.GetName()]; ok && want != pair.GetValue() {
					continue metricLoop
				}
			}
			if metric.GetCounter() != nil {
				return metric.GetCounter().GetValue()
			}
			return metric.GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s%v not found", name, labels)
	return 0
}

func TestCounters(t *testing.T) {
	m := New("availability_test")

	m.IncMutation("delete", "validation")
	m.IncMutation("delete", "validation")
	m.ObserveExternalCall("create", "remote_error", 10*time.Millisecond)
	m.AddWSSubscribers(2)
	m.AddWSSubscribers(-1)

	assert.Equal(t, 2.0, gathered(t, m, "availability_mutations_total", map[string]string{"operation": "delete", "result": "validation"}))
	assert.Equal(t, 1.0, gathered(t, m, "tour_api_calls_total", map[string]string{"operation": "create", "outcome": "remote_error"}))
	assert.Equal(t, 1.0, gathered(t, m, "availability_ws_subscribers", nil))
}

func TestHandler(t *testing.T) {
	m := New("availability_test")
	m.ObserveHTTPRequest(http.MethodPost, "/api/v1/availability", http.StatusCreated, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `http_requests_total{method="POST",route="/api/v1/availability",service="availability_test",status="201"} 1`))
}
