package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWithoutFileYieldsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game_config.json")
	blob := `{"score_limit":51,"stats":{"primary_url":"https://stats.example.com/report"}}`
	if err := os.WriteFile(path, []byte(blob), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ScoreLimit != 51 {
		t.Fatalf("score limit = %d, want 51", cfg.ScoreLimit)
	}
	if cfg.Stats.PrimaryURL != "https://stats.example.com/report" {
		t.Fatalf("primary url = %q", cfg.Stats.PrimaryURL)
	}
	// Fields the file omits keep their defaults.
	if cfg.AutoPassSeconds != Default().AutoPassSeconds {
		t.Fatalf("auto pass = %d, want default", cfg.AutoPassSeconds)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game_config.json")
	if err := os.WriteFile(path, []byte(`{"score_limit":51}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("BIGTWO_SCORE_LIMIT", "201")
	t.Setenv("BIGTWO_STATS_SIGNING_KEY", "env-secret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ScoreLimit != 201 {
		t.Fatalf("score limit = %d, want env override 201", cfg.ScoreLimit)
	}
	if cfg.Stats.SigningKey != "env-secret" {
		t.Fatalf("signing key = %q", cfg.Stats.SigningKey)
	}
}

func TestLoadRejectsNonPositiveLimits(t *testing.T) {
	t.Setenv("BIGTWO_SCORE_LIMIT", "0")
	if _, err := Load(""); err == nil {
		t.Fatal("zero score limit accepted")
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("missing file accepted")
	}
}
