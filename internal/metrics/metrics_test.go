package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsSingleton(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestCollector_Counters(t *testing.T) {
	c := NewCollector("test")
	c.GeocodeCacheTotal.WithLabelValues("hit").Inc()
	c.GeocodeCacheTotal.WithLabelValues("hit").Inc()
	c.GeocodeCacheTotal.WithLabelValues("miss").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.GeocodeCacheTotal.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.GeocodeCacheTotal.WithLabelValues("miss")))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("test")
	c.UpstreamRequestsTotal.WithLabelValues("openweathermap", "weather", "ok").Inc()

	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `test_upstream_requests_total{endpoint="weather",outcome="ok",provider="openweathermap"} 1`)
}
