// README: Config loader (viper) with VOYAGE_* env overrides, optional config file and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "VOYAGE"

type LLMConfig struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	StaticReply string
}

type InvokeConfig struct {
	Timeout        time.Duration
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
}

type PromptConfig struct {
	Strategy  string
	Seed      int64
	ChunkDays int
}

type ActivityConfig struct {
	Timezone      string
	Buffer        int
	StartupRecord bool
}

type SinkConfig struct {
	Stdout      bool
	RedisAddr   string
	RedisStream string
	RedisMaxLen int64
	PostgresDSN string
}

type Config struct {
	HTTP struct {
		Addr string
	}
	LLM      LLMConfig
	Invoke   InvokeConfig
	Prompt   PromptConfig
	Activity ActivityConfig
	Sink     SinkConfig
	Maps     struct {
		APIKey  string
		Timeout time.Duration
	}
	Log struct {
		Level  string
		Format string
	}
}

// New returns a viper instance with defaults and environment bindings.
// Keys map to env as VOYAGE_<SECTION>_<KEY>, e.g. VOYAGE_LLM_PROVIDER.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Provider keys are also read from their conventional variables.
	_ = v.BindEnv("llm.api_key", "VOYAGE_LLM_API_KEY", "GROQ_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("maps.api_key", "VOYAGE_MAPS_API_KEY", "GOOGLE_MAPS_API_KEY")
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")

	v.SetDefault("llm.provider", "groq")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.temperature", 0.4)
	v.SetDefault("llm.max_tokens", 4096)
	v.SetDefault("llm.static_reply", "")

	v.SetDefault("invoke.timeout", 30*time.Second)
	v.SetDefault("invoke.max_retries", 2)
	v.SetDefault("invoke.initial_backoff", 500*time.Millisecond)
	v.SetDefault("invoke.max_backoff", 8*time.Second)
	v.SetDefault("invoke.multiplier", 2.0)

	v.SetDefault("prompt.strategy", "combined")
	v.SetDefault("prompt.seed", 0)
	v.SetDefault("prompt.chunk_days", 7)

	v.SetDefault("activity.timezone", DefaultTimezone)
	v.SetDefault("activity.buffer", 256)
	v.SetDefault("activity.startup_record", true)

	v.SetDefault("sink.stdout", false)
	v.SetDefault("sink.redis_addr", "")
	v.SetDefault("sink.redis_stream", "voyage:activity")
	v.SetDefault("sink.redis_max_len", 10000)
	v.SetDefault("sink.postgres_dsn", "")

	v.SetDefault("maps.api_key", "")
	v.SetDefault("maps.timeout", 3*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads an optional config file and builds a validated Config from v.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg Config
	cfg.HTTP.Addr = v.GetString("http.addr")

	cfg.LLM = LLMConfig{
		Provider:    strings.ToLower(strings.TrimSpace(v.GetString("llm.provider"))),
		Model:       v.GetString("llm.model"),
		APIKey:      v.GetString("llm.api_key"),
		BaseURL:     v.GetString("llm.base_url"),
		Temperature: v.GetFloat64("llm.temperature"),
		MaxTokens:   v.GetInt("llm.max_tokens"),
		StaticReply: v.GetString("llm.static_reply"),
	}
	cfg.Invoke = InvokeConfig{
		Timeout:        v.GetDuration("invoke.timeout"),
		MaxRetries:     v.GetInt("invoke.max_retries"),
		InitialBackoff: v.GetDuration("invoke.initial_backoff"),
		MaxBackoff:     v.GetDuration("invoke.max_backoff"),
		Multiplier:     v.GetFloat64("invoke.multiplier"),
	}
	cfg.Prompt = PromptConfig{
		Strategy:  strings.ToLower(v.GetString("prompt.strategy")),
		Seed:      v.GetInt64("prompt.seed"),
		ChunkDays: v.GetInt("prompt.chunk_days"),
	}
	cfg.Activity = ActivityConfig{
		Timezone:      v.GetString("activity.timezone"),
		Buffer:        v.GetInt("activity.buffer"),
		StartupRecord: v.GetBool("activity.startup_record"),
	}
	cfg.Sink = SinkConfig{
		Stdout:      v.GetBool("sink.stdout"),
		RedisAddr:   v.GetString("sink.redis_addr"),
		RedisStream: v.GetString("sink.redis_stream"),
		RedisMaxLen: v.GetInt64("sink.redis_max_len"),
		PostgresDSN: v.GetString("sink.postgres_dsn"),
	}
	cfg.Maps.APIKey = v.GetString("maps.api_key")
	cfg.Maps.Timeout = v.GetDuration("maps.timeout")
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var knownProviders = map[string]bool{"gemini": true, "groq": true, "openai": true, "static": true}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	var errs []error
	if !knownProviders[c.LLM.Provider] {
		errs = append(errs, fmt.Errorf("llm.provider %q is not one of gemini, groq, openai, static", c.LLM.Provider))
	}
	if c.LLM.Provider != "static" && c.LLM.APIKey == "" {
		errs = append(errs, fmt.Errorf("llm.api_key is required for provider %q", c.LLM.Provider))
	}
	if c.Invoke.Timeout <= 0 {
		errs = append(errs, errors.New("invoke.timeout must be positive"))
	}
	if c.Invoke.MaxRetries < 0 {
		errs = append(errs, errors.New("invoke.max_retries must not be negative"))
	}
	if c.Prompt.Strategy != "combined" && c.Prompt.Strategy != "chunked" {
		errs = append(errs, fmt.Errorf("prompt.strategy %q is not combined or chunked", c.Prompt.Strategy))
	}
	if _, err := location(c.Activity.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("activity.timezone: %w", err))
	}
	return errors.Join(errs...)
}

// Location returns the activity display zone. Validate has already checked it.
func (c Config) Location() *time.Location {
	loc, err := location(c.Activity.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

const DefaultTimezone = "Asia/Kolkata"

var loadLocation = time.LoadLocation

// location resolves name, falling back to a fixed +05:30 zone for the default
// timezone when the tz database is unavailable.
func location(name string) (*time.Location, error) {
	loc, err := loadLocation(name)
	if err != nil && name == DefaultTimezone {
		return time.FixedZone("IST", 5*3600+1800), nil
	}
	return loc, err
}
