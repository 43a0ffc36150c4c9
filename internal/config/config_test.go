package config

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/compass")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.HTTPPort)
	}
	if cfg.RecommendTimeout != 10*time.Second {
		t.Fatalf("expected 10s timeout, got %v", cfg.RecommendTimeout)
	}
	if cfg.RecommendCandidateLimit != 50 {
		t.Fatalf("expected candidate limit 50, got %d", cfg.RecommendCandidateLimit)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSOrigins)
	}
}

func TestLoadConfig_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when DATABASE_URL is empty")
	}
}

func TestScoringConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/compass")
	t.Setenv("SCORING_FIT_WEIGHT", "0.6")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Fatalf("expected two origins, got %v", cfg.CORSOrigins)
	}
	sc, err := cfg.ScoringConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sc.Weights.Fit != 0.6 || sc.Weights.Practical != 0.3 {
		t.Fatalf("unexpected weights %+v", sc.Weights)
	}

	cfg.Scoring.GoalsWeight = -1
	if _, err := cfg.ScoringConfig(); err == nil {
		t.Fatalf("expected negative weight to be rejected")
	}
}

func TestLoadScoring_WithoutDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SCORING_FIT_WEIGHT", "0.6")

	s, err := LoadScoring()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.FitWeight != 0.6 || s.GoalsWeight != 0.2 || s.OccurrencesPerMonth != 4 {
		t.Fatalf("unexpected scoring env %+v", s)
	}
	sc, err := s.RecommendConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sc.Weights.Fit != 0.6 {
		t.Fatalf("expected fit weight 0.6, got %v", sc.Weights.Fit)
	}
}
