package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveMeeting(true)
	m.ObserveMeeting(false)
	m.ObserveMeeting(false)
	m.ObserveWorker("interviews", nil)
	m.ObserveWorker("interviews", errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.MeetingsCreated.WithLabelValues("created")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.MeetingsCreated.WithLabelValues("skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WorkerRuns.WithLabelValues("interviews", "error")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveMeeting(true)
		m.ObserveWorker("x", nil)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.InterviewsCreated.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "findtern_interviews_created_total 1"))
}
