package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAttempt("static", "success")
		m.ObserveInvocation("static", true, time.Second)
		m.ObservePlan("completed", true, time.Second)
		m.ObserveRepair("padded")
		m.ObserveFeedback("positive")
		m.ObserveRecord("Success")
		m.ObserveSinkFailure("redis")
	})
	assert.Nil(t, m.Registry())
}

func TestCounters(t *testing.T) {
	m := New(Config{})
	m.ObserveAttempt("groq/llama", "timeout")
	m.ObserveAttempt("groq/llama", "timeout")
	m.ObserveAttempt("groq/llama", "success")
	m.ObserveFeedback("negative")

	body := scrape(t, m)
	assert.Contains(t, body, `voyage_invoke_attempts_total{outcome="timeout",provider="groq/llama"} 2`)
	assert.Contains(t, body, `voyage_invoke_attempts_total{outcome="success",provider="groq/llama"} 1`)
	assert.Contains(t, body, `voyage_api_feedback_total{rating="negative"} 1`)
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New(Config{})
	m.ObservePlan("completed", true, 1500*time.Millisecond)

	assert.Contains(t, scrape(t, m), `voyage_planner_plans_total{stage="completed",status="success"} 1`)
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}
