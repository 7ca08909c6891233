// README: serve command; runs the HTTP API until SIGINT/SIGTERM.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"voyage/internal/config"
	httptransport "voyage/internal/http"
	"voyage/internal/modules/invoke"
	"voyage/internal/modules/prompt"
	"voyage/internal/modules/trip"
)

const requestSlack = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var (
		requestTimeout time.Duration
		summaryEvery   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the itinerary HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			eng, err := buildEngine(ctx, a.cfg, a.logger, true)
			if err != nil {
				return err
			}

			if requestTimeout <= 0 {
				requestTimeout = maxRequestTime(a.cfg, eng.policy)
			}
			srv := httptransport.NewServer(a.cfg.HTTP.Addr, httptransport.ServerDeps{
				Planner:        eng.planner,
				Log:            eng.log,
				Metrics:        eng.metrics,
				Logger:         a.logger,
				RequestTimeout: requestTimeout,
			})

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return srv.Run(gctx) })
			if summaryEvery > 0 {
				g.Go(func() error {
					reportActivity(gctx, eng, summaryEvery)
					return nil
				})
			}
			runErr := g.Wait()

			closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := eng.close(closeCtx); err != nil {
				a.logger.Error("shutdown", "error", err)
			}
			a.logger.Info("server stopped")
			return runErr
		},
	}
	cmd.Flags().String("addr", "", "listen address (overrides http.addr)")
	cmd.Flags().DurationVar(&requestTimeout, "request-timeout", 0, "upper bound for one planning request (0 derives it from the retry policy)")
	cmd.Flags().DurationVar(&summaryEvery, "summary-interval", 15*time.Minute, "how often to log the activity summary (0 disables)")
	bindFlag(a.v, "http.addr", cmd.Flags().Lookup("addr"))
	return cmd
}

// maxRequestTime bounds one HTTP plan call: every request of the longest
// allowed trip may exhaust its retries.
func maxRequestTime(cfg config.Config, policy invoke.Policy) time.Duration {
	requests := 1
	if cfg.Prompt.Strategy == string(prompt.StrategyChunked) && cfg.Prompt.ChunkDays > 0 {
		requests = (trip.MaxTripDays + cfg.Prompt.ChunkDays - 1) / cfg.Prompt.ChunkDays
	}
	return policy.MaxBlocking()*time.Duration(requests) + requestSlack
}

// reportActivity logs the activity summary on a ticker until ctx is done.
func reportActivity(ctx context.Context, eng *engine, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s := eng.log.Summary()
			eng.logger.Info("activity summary", "total", s.Total, "success", s.SuccessCount, "error", s.ErrorCount)
		}
	}
}
