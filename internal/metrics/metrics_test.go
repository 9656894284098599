package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveAssembly(t *testing.T) {
	m := New()

	m.ObserveAssembly("success", 3)
	m.ObserveAssembly("success", 0)
	m.ObserveAssembly("validation", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.assemblies.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.assemblies.WithLabelValues("validation")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.needsEmitted))
}

func TestObserveSlotLookup(t *testing.T) {
	m := New()

	m.ObserveSlotLookup(10*time.Millisecond, nil)
	m.ObserveSlotLookup(time.Second, errors.New("down"))

	assert.Equal(t, 2, testutil.CollectAndCount(m.slotLookup))
}

func TestRequestMetricsAndHandler(t *testing.T) {
	m := New()

	done := m.RequestStarted()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.activeRequests))
	done()
	m.ObserveRequest(http.MethodPost, "/listing-needs", "200", 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `listing_http_requests_total{method="POST",route="/listing-needs",status="200"} 1`), body)
	assert.Contains(t, body, "listing_http_active_requests 0")
	assert.Contains(t, body, "go_goroutines")
}
