package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.CalculationsTotal.WithLabelValues("ok").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.CalculationsTotal.WithLabelValues("ok")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.CalculationsTotal.WithLabelValues("ok")))
}

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest("/api/v1/calculate", 200, 10*time.Millisecond)
	m.ObserveRequest("/api/v1/calculate", 422, time.Millisecond)
	m.ObserveRequest("/api/v1/calculate", 201, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/api/v1/calculate", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/api/v1/calculate", "4xx")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))
}

func TestObserveCalculation(t *testing.T) {
	m := New()
	m.ObserveCalculation(1184, nil)
	m.ObserveCalculation(0, errors.New("invalid gender"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CalculationsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CalculationsTotal.WithLabelValues("error")))
}

func TestObserveExtraction(t *testing.T) {
	m := New()
	m.ObserveExtraction(".pdf", "ok", time.Second)
	m.ObserveExtraction(".png", "unavailable", time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExtractionsTotal.WithLabelValues(".png", "unavailable")))

	families, err := m.Registry.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "grpension_extraction_duration_seconds")
	assert.Contains(t, names, "go_goroutines")
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "2xx", statusLabel(200))
	assert.Equal(t, "3xx", statusLabel(304))
	assert.Equal(t, "4xx", statusLabel(415))
	assert.Equal(t, "5xx", statusLabel(503))
}
