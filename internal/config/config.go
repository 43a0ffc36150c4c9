package config

import (
	"time"

	"github.com/caarlos0/env/v10"

	"compass/internal/recommend"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort      string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL   string `env:"DATABASE_URL,required,notEmpty"`
	DBAutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret            string `env:"JWT_SECRET"`
	JWTAccessTTLMinutes  int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"15"`
	JWTRefreshTTLMinutes int    `env:"JWT_REFRESH_TTL_MINUTES" envDefault:"10080"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	RecommendTimeout        time.Duration `env:"RECOMMEND_TIMEOUT" envDefault:"10s"`
	RecommendCandidateLimit int           `env:"RECOMMEND_CANDIDATE_LIMIT" envDefault:"50"`
	RecommendLockTTL        time.Duration `env:"RECOMMEND_LOCK_TTL" envDefault:"30s"`
	RecommendRatePerHour    int           `env:"RECOMMEND_RATE_PER_HOUR" envDefault:"30"`

	Scoring Scoring

	AppEnv          string  `env:"APP_ENV" envDefault:"development"`
	OtelEnabled     bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OtelEndpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelInsecure    bool    `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"false"`
	OtelSampleRatio float64 `env:"OTEL_SAMPLER_RATIO" envDefault:"0.1"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Scoring agrupa las variables SCORING_*. Se puede cargar sola, sin el resto del servicio.
type Scoring struct {
	FitWeight           float64 `env:"SCORING_FIT_WEIGHT" envDefault:"0.5"`
	PracticalWeight     float64 `env:"SCORING_PRACTICAL_WEIGHT" envDefault:"0.3"`
	GoalsWeight         float64 `env:"SCORING_GOALS_WEIGHT" envDefault:"0.2"`
	OccurrencesPerMonth int     `env:"SCORING_OCCURRENCES_PER_MONTH" envDefault:"4"`
}

// LoadScoring lee solo los pesos del motor. No exige DATABASE_URL.
func LoadScoring() (Scoring, error) {
	var s Scoring
	if err := env.Parse(&s); err != nil {
		return Scoring{}, err
	}
	return s, nil
}

// ScoringConfig arma la configuración del motor a partir de los valores por defecto
// y los pesos sobreescritos por entorno.
func (c *Config) ScoringConfig() (recommend.Config, error) {
	return c.Scoring.RecommendConfig()
}

// RecommendConfig aplica los pesos sobre recommend.DefaultConfig y valida el resultado.
func (s Scoring) RecommendConfig() (recommend.Config, error) {
	sc := recommend.DefaultConfig()
	sc.Weights = recommend.GroupWeights{
		Fit:       s.FitWeight,
		Practical: s.PracticalWeight,
		Goals:     s.GoalsWeight,
	}
	sc.OccurrencesPerMonth = s.OccurrencesPerMonth
	if err := sc.Validate(); err != nil {
		return recommend.Config{}, err
	}
	return sc, nil
}
