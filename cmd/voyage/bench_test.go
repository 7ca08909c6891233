package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBench(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := hits.Add(1)
		if r.URL.Path != "/api/itineraries" || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if n == 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"itinerary":{}}`))
	}))
	defer srv.Close()

	results := runBench(context.Background(), srv.Client(), benchConfig{
		BaseURL: srv.URL, Requests: 5, Concurrency: 1, Days: 2, Timeout: time.Second,
	})
	require.Len(t, results, 5)
	assert.Equal(t, int32(5), hits.Load())

	var out bytes.Buffer
	err := printBench(&out, results)
	assert.EqualError(t, err, "1 of 5 requests failed")
	assert.Contains(t, out.String(), "PASS=4 FAIL=1")
	assert.Contains(t, out.String(), "[PASS] Paris")
}

func TestPercentile(t *testing.T) {
	d := []time.Duration{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.Equal(t, time.Duration(5), percentile(d, 50))
	assert.Equal(t, time.Duration(10), percentile(d, 95))
	assert.Equal(t, time.Duration(1), percentile(d[:1], 50))
}

func TestBenchRejectsBadFlags(t *testing.T) {
	_, err := run(t, "bench", "--requests=-3")
	assert.EqualError(t, err, "--requests must be at least 1, got -3")

	_, err = run(t, "bench", "--concurrency=0")
	assert.EqualError(t, err, "--concurrency must be at least 1, got 0")
}
