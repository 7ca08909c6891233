// README: bench command; fires concurrent plan requests at a running API and prints a summary.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"voyage/internal/presets"
)

type benchConfig struct {
	BaseURL     string
	Requests    int
	Concurrency int
	Days        int
	Timeout     time.Duration
}

type benchResult struct {
	City    string
	Status  int
	Latency time.Duration
	Err     error
}

func newBenchCmd() *cobra.Command {
	var cfg benchConfig
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Load-test a running API with preset destinations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
			defer cancel()

			results := runBench(ctx, &http.Client{Timeout: cfg.Timeout}, cfg)
			return printBench(cmd.OutOrStdout(), results)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&cfg.BaseURL, "base-url", "http://localhost:8080", "API base URL")
	fl.IntVar(&cfg.Requests, "requests", 10, "total plan requests")
	fl.IntVar(&cfg.Concurrency, "concurrency", 4, "requests in flight")
	fl.IntVar(&cfg.Days, "days", 3, "trip length per request")
	fl.DurationVar(&cfg.Timeout, "timeout", 5*time.Minute, "overall deadline")
	return cmd
}

func (c benchConfig) validate() error {
	switch {
	case c.Requests < 1:
		return fmt.Errorf("--requests must be at least 1, got %d", c.Requests)
	case c.Concurrency < 1:
		return fmt.Errorf("--concurrency must be at least 1, got %d", c.Concurrency)
	case c.Days < 1:
		return fmt.Errorf("--days must be at least 1, got %d", c.Days)
	case c.Timeout <= 0:
		return fmt.Errorf("--timeout must be positive")
	}
	return nil
}

func runBench(ctx context.Context, client *http.Client, cfg benchConfig) []benchResult {
	all := presets.All()
	results := make([]benchResult, cfg.Requests)
	start := time.Now().AddDate(0, 0, 7)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Concurrency, 1))
	for i := 0; i < cfg.Requests; i++ {
		p := all[i%len(all)]
		g.Go(func() error {
			r := postPlan(gctx, client, cfg.BaseURL, p, start, cfg.Days)
			mu.Lock()
			results[i] = r
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func postPlan(ctx context.Context, client *http.Client, baseURL string, p presets.Preset, start time.Time, days int) benchResult {
	body, _ := json.Marshal(map[string]any{
		"city":       p.City,
		"interests":  p.Interests,
		"start_date": start.Format(time.DateOnly),
		"end_date":   start.AddDate(0, 0, max(days, 1)-1).Format(time.DateOnly),
		"adults":     2,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(baseURL, "/")+"/api/itineraries", bytes.NewReader(body))
	if err != nil {
		return benchResult{City: p.City, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	t0 := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return benchResult{City: p.City, Latency: time.Since(t0), Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return benchResult{City: p.City, Status: resp.StatusCode, Latency: time.Since(t0)}
}

func printBench(w io.Writer, results []benchResult) error {
	var pass, fail int
	latencies := make([]time.Duration, 0, len(results))
	for _, r := range results {
		status := "PASS"
		if r.Err != nil || r.Status != http.StatusOK {
			status = "FAIL"
			fail++
		} else {
			pass++
			latencies = append(latencies, r.Latency)
		}
		detail := fmt.Sprintf("http %d", r.Status)
		if r.Err != nil {
			detail = r.Err.Error()
		}
		fmt.Fprintf(w, "[%s] %-12s %8s  %s\n", status, r.City, r.Latency.Round(time.Millisecond), detail)
	}

	fmt.Fprintln(w, "\n== Summary ==")
	fmt.Fprintf(w, "PASS=%d FAIL=%d\n", pass, fail)
	if len(latencies) > 0 {
		sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
		fmt.Fprintf(w, "p50=%s p95=%s max=%s\n",
			percentile(latencies, 50).Round(time.Millisecond),
			percentile(latencies, 95).Round(time.Millisecond),
			latencies[len(latencies)-1].Round(time.Millisecond))
	}
	if fail > 0 {
		return fmt.Errorf("%d of %d requests failed", fail, len(results))
	}
	return nil
}

// percentile expects sorted input.
func percentile(sorted []time.Duration, p int) time.Duration {
	idx := (len(sorted)*p + 99) / 100
	if idx < 1 {
		idx = 1
	}
	return sorted[idx-1]
}
