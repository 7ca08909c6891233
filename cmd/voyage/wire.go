// README: Builds the planning engine and its sinks from Config.
package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"voyage/internal/ai"
	"voyage/internal/config"
	"voyage/internal/infra"
	"voyage/internal/maps"
	"voyage/internal/metrics"
	"voyage/internal/modules/activity"
	"voyage/internal/modules/invoke"
	"voyage/internal/modules/itinerary"
	"voyage/internal/modules/prompt"
	"voyage/internal/service"
)

// engine holds the planner and everything that must be released on exit.
type engine struct {
	planner  *service.Planner
	log      *activity.Log
	metrics  *metrics.Metrics
	provider ai.LLMProvider
	policy   invoke.Policy
	redis    *redis.Client
	db       *pgxpool.Pool
	logger   *slog.Logger
}

func buildEngine(ctx context.Context, cfg config.Config, logger *slog.Logger, withSinks bool) (*engine, error) {
	e := &engine{logger: logger, metrics: metrics.New(metrics.DefaultConfig())}

	provider, err := ai.NewProvider(ctx, ai.Config{
		Provider:    cfg.LLM.Provider,
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: float32(cfg.LLM.Temperature),
		MaxTokens:   cfg.LLM.MaxTokens,
		StaticReply: cfg.LLM.StaticReply,
	})
	if err != nil {
		return nil, err
	}
	e.provider = provider

	logOpts := []activity.Option{
		activity.WithLocation(cfg.Location()),
		activity.WithBuffer(cfg.Activity.Buffer),
		activity.WithLogger(logger),
		activity.WithMetrics(e.metrics),
	}
	if withSinks {
		sinks, err := e.openSinks(ctx, cfg.Sink)
		if err != nil {
			e.close(ctx)
			return nil, err
		}
		logOpts = append(logOpts, activity.WithSinks(sinks...))
		if cfg.Activity.StartupRecord {
			logOpts = append(logOpts, activity.WithStartupRecord())
		}
	}
	e.log = activity.NewLog(logOpts...)

	policy := invoke.Policy{
		Timeout:        cfg.Invoke.Timeout,
		MaxRetries:     cfg.Invoke.MaxRetries,
		InitialBackoff: cfg.Invoke.InitialBackoff,
		MaxBackoff:     cfg.Invoke.MaxBackoff,
		Multiplier:     cfg.Invoke.Multiplier,
		Jitter:         invoke.DefaultPolicy().Jitter,
	}
	e.policy = policy
	plannerOpts := []service.Option{
		service.WithLogger(logger),
		service.WithMetrics(e.metrics),
	}
	if cfg.Maps.APIKey != "" {
		geo, err := maps.NewGeocoder(cfg.Maps.APIKey)
		if err != nil {
			logger.Warn("geocoder disabled", "error", err)
		} else {
			plannerOpts = append(plannerOpts, service.WithResolver(geo, cfg.Maps.Timeout))
		}
	}

	e.planner = service.NewPlanner(
		prompt.NewCompiler(prompt.Options{
			Strategy:  prompt.Strategy(cfg.Prompt.Strategy),
			Seed:      cfg.Prompt.Seed,
			ChunkDays: cfg.Prompt.ChunkDays,
		}),
		invoke.NewAdapter(provider, policy, invoke.WithLogger(logger), invoke.WithMetrics(e.metrics)),
		itinerary.NewAssembler(itinerary.WithLogger(logger), itinerary.WithMetrics(e.metrics)),
		e.log,
		plannerOpts...,
	)
	return e, nil
}

func (e *engine) openSinks(ctx context.Context, cfg config.SinkConfig) ([]activity.Sink, error) {
	var sinks []activity.Sink
	if cfg.Stdout {
		sinks = append(sinks, activity.NewSlogSink(e.logger))
	}
	if cfg.RedisAddr != "" {
		client, err := infra.NewRedis(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		e.redis = client
		sinks = append(sinks, activity.NewRedisSink(client, cfg.RedisStream, cfg.RedisMaxLen))
	}
	if cfg.PostgresDSN != "" {
		pool, err := infra.NewDB(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		e.db = pool
		sinks = append(sinks, activity.NewPostgresSink(pool))
	}
	return sinks, nil
}

// close drains the activity log before releasing the clients its sinks use.
func (e *engine) close(ctx context.Context) error {
	var errs []error
	if e.log != nil {
		errs = append(errs, e.log.Close(ctx))
	}
	if e.provider != nil {
		errs = append(errs, e.provider.Close())
	}
	if e.redis != nil {
		errs = append(errs, e.redis.Close())
	}
	if e.db != nil {
		e.db.Close()
	}
	return errors.Join(errs...)
}

func bindFlag(v *viper.Viper, key string, f *pflag.Flag) {
	if err := v.BindPFlag(key, f); err != nil {
		panic(err)
	}
}
