package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// StatsConfig points at the external stats collector. FallbackURL takes
// over when the primary endpoint rejects or times out.
type StatsConfig struct {
	PrimaryURL  string `json:"primary_url"`
	FallbackURL string `json:"fallback_url"`
	Issuer      string `json:"issuer"`
	SigningKey  string `json:"signing_key"`
}

type GameConfig struct {
	ScoreLimit      int `json:"score_limit"`
	AutoPassSeconds int `json:"auto_pass_seconds"`
	TickMillis      int `json:"tick_millis"`
	BotRetryLimit   int `json:"bot_retry_limit"`
	// BotTurnDelayMillis paces bot moves so humans can follow the table.
	BotTurnDelayMillis int `json:"bot_turn_delay_millis"`
	// BotAutoFillDelaySeconds configures how long a solo human lobby waits
	// before bots take the open seats.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`

	Stats StatsConfig `json:"stats"`
}

// Default returns the built-in configuration used when no file is provided.
func Default() GameConfig {
	return GameConfig{
		ScoreLimit:              101,
		AutoPassSeconds:         10,
		TickMillis:              100,
		BotRetryLimit:           3,
		BotTurnDelayMillis:      1200,
		BotAutoFillDelaySeconds: 10,
	}
}

// Load reads a config file and applies environment overrides on top. An
// empty path yields the defaults plus overrides. Callers own the returned
// value; there is no package-level configuration state.
func Load(path string) (GameConfig, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read game config: %w", err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to unmarshal game config: %w", err)
		}
	}

	applyEnv(&cfg)

	if cfg.ScoreLimit <= 0 {
		return cfg, fmt.Errorf("score_limit must be positive, got %d", cfg.ScoreLimit)
	}
	if cfg.AutoPassSeconds <= 0 {
		return cfg, fmt.Errorf("auto_pass_seconds must be positive, got %d", cfg.AutoPassSeconds)
	}
	return cfg, nil
}

func applyEnv(cfg *GameConfig) {
	if v, ok := intEnv("BIGTWO_SCORE_LIMIT"); ok {
		cfg.ScoreLimit = v
	}
	if v, ok := intEnv("BIGTWO_AUTO_PASS_SECONDS"); ok {
		cfg.AutoPassSeconds = v
	}
	if v := os.Getenv("BIGTWO_STATS_PRIMARY_URL"); v != "" {
		cfg.Stats.PrimaryURL = v
	}
	if v := os.Getenv("BIGTWO_STATS_FALLBACK_URL"); v != "" {
		cfg.Stats.FallbackURL = v
	}
	if v := os.Getenv("BIGTWO_STATS_ISSUER"); v != "" {
		cfg.Stats.Issuer = v
	}
	if v := os.Getenv("BIGTWO_STATS_SIGNING_KEY"); v != "" {
		cfg.Stats.SigningKey = v
	}
}

func intEnv(key string) (int, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
