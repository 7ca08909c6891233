package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"voyage/internal/config"
	"voyage/internal/modules/invoke"
)

func TestMaxRequestTime(t *testing.T) {
	policy := invoke.Policy{Timeout: time.Second, MaxRetries: 0, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond, Multiplier: 2}

	var cfg config.Config
	cfg.Prompt.Strategy = "combined"
	assert.Equal(t, time.Second+requestSlack, maxRequestTime(cfg, policy))

	cfg.Prompt.Strategy = "chunked"
	cfg.Prompt.ChunkDays = 7
	assert.Equal(t, 5*time.Second+requestSlack, maxRequestTime(cfg, policy))
}
