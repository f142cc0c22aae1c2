package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest("/api/summarize", "POST", 200, 120*time.Millisecond)
	m.ObserveRequest("/api/summarize", "POST", 200, 80*time.Millisecond)
	m.ObserveRequest("/api/summarize", "POST", 400, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/api/summarize", "POST", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/api/summarize", "POST", "400")))
}

func TestObserveCall(t *testing.T) {
	m := New()
	m.ObserveCall("model", "chat", nil, time.Second)
	m.ObserveCall("model", "chat", errors.New("boom"), time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.callsTotal.WithLabelValues("model", "chat", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.callsTotal.WithLabelValues("model", "chat", "error")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("/", "GET", 200, time.Millisecond)
	m.ObserveCall("model", "speech", nil, time.Millisecond)
	m.ObserveBinary("wav", 10)
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveBinary("pdf", 4096)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "bionic_binary_response_bytes")
	assert.Contains(t, string(body), "go_goroutines")
}
