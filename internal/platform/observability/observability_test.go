package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupAndSpan(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	shutdown, err := Setup(context.Background(), Config{Enabled: true}, logger)
	require.NoError(t, err)
	assert.True(t, Enabled())

	_, end := StartSpan(context.Background(), "relay", "forward")
	end(errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "span start")
	assert.Contains(t, out, "span end")
	assert.Contains(t, out, "boom")

	require.NoError(t, shutdown(context.Background()))
	assert.False(t, Enabled())
}

func TestStartSpanWithoutLogger(t *testing.T) {
	ctx := context.Background()
	got, end := StartSpan(ctx, "c", "op")
	assert.Equal(t, ctx, got)
	assert.NotPanics(t, func() { end(nil) })
}

func TestObserveUpstream(t *testing.T) {
	before := testutil.ToFloat64(RelayUpstreamTotal.WithLabelValues("503"))
	ObserveUpstream(503, 20*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(RelayUpstreamTotal.WithLabelValues("503")))

	beforeErr := testutil.ToFloat64(RelayUpstreamTotal.WithLabelValues("error"))
	ObserveUpstream(0, time.Millisecond)
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(RelayUpstreamTotal.WithLabelValues("error")))
}

func TestMetricsHandlerExposesCollectors(t *testing.T) {
	RecordHTTP(context.Background(), http.MethodPost, "/api/generate", http.StatusOK, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "imgcaption_http_requests_total"))
}
