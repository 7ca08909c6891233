// README: Downstream sinks for activity records (slog, Redis stream, Postgres).
package activity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Sink receives each appended record. Publish runs off the caller's path;
// errors are logged by the Log and never surface to Record.
type Sink interface {
	Publish(ctx context.Context, r Record) error
	Name() string
}

// SlogSink writes every record as one structured log line.
type SlogSink struct {
	logger *slog.Logger
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger}
}

func (s *SlogSink) Name() string { return "slog" }

func (s *SlogSink) Publish(ctx context.Context, r Record) error {
	fields := r.Fields()
	attrs := make([]any, 0, len(fields)*2)
	for _, k := range []string{"id", "timestamp", "action", "status", "city", "interests", "error", "stage", "latency_ms", "itinerary_id"} {
		if v, ok := fields[k]; ok {
			attrs = append(attrs, k, v)
		}
	}
	level := slog.LevelInfo
	if r.Status == StatusError {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, "activity", attrs...)
	return nil
}

// RedisSink appends records to a Redis stream with XADD.
type RedisSink struct {
	client *redis.Client
	stream string
	maxLen int64
}

const DefaultStream = "voyage:activity"

func NewRedisSink(client *redis.Client, stream string, maxLen int64) *RedisSink {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisSink{client: client, stream: stream, maxLen: maxLen}
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Publish(ctx context.Context, r Record) error {
	values := make(map[string]interface{})
	for k, v := range r.Fields() {
		values[k] = v
	}
	args := &redis.XAddArgs{Stream: s.stream, Values: values}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}
	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	return nil
}

// PostgresSink inserts records into the append-only activity_records table.
type PostgresSink struct {
	db *pgxpool.Pool
}

func NewPostgresSink(db *pgxpool.Pool) *PostgresSink {
	return &PostgresSink{db: db}
}

func (s *PostgresSink) Name() string { return "postgres" }

func (s *PostgresSink) Publish(ctx context.Context, r Record) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO activity_records (
			id, recorded_at, action, status, city, interests,
			error, stage, latency_ms, itinerary_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`,
		r.ID, r.Timestamp, r.Action, string(r.Status), r.City, r.Interests,
		nullable(r.Error), nullable(r.Stage), r.LatencyMs, nullable(r.ItineraryID),
	)
	return err
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
