package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"unitycheck/internal/config"
)

func TestBelowFailThreshold(t *testing.T) {
	cfg := config.DefaultConfig()
	fair := cfg.Analysis.ScoreThresholds.Fair

	assert.True(t, belowFailThreshold(cfg, fair-1))
	assert.False(t, belowFailThreshold(cfg, fair))
	assert.False(t, belowFailThreshold(cfg, 100))
}
