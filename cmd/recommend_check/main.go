package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"compass/internal/config"
	"compass/internal/recommend"
)

func main() {
	file := flag.String("file", "", "JSON scenario file (defaults to the built-in scenarios)")
	useEnv := flag.Bool("env", false, "load scoring weights from the environment instead of defaults")
	flag.Parse()

	scoring, err := scoringConfig(*useEnv)
	if err != nil {
		log.Fatalf("scoring config: %v", err)
	}

	raw := defaultScenarios
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			log.Fatalf("read scenarios: %v", err)
		}
		raw = data
	}

	scenarios, err := parseScenarios(raw)
	if err != nil {
		log.Fatalf("parse scenarios: %v", err)
	}

	passed := runScenarios(os.Stdout, scoring, scenarios)
	fmt.Printf("Scenarios: %d/%d passed\n", passed, len(scenarios))
	if passed != len(scenarios) {
		os.Exit(1)
	}
}

// scoringConfig lee solo SCORING_*; la corrida no necesita base de datos.
func scoringConfig(useEnv bool) (recommend.Config, error) {
	if !useEnv {
		return recommend.DefaultConfig(), nil
	}
	_ = godotenv.Load()
	weights, err := config.LoadScoring()
	if err != nil {
		return recommend.Config{}, fmt.Errorf("load scoring env: %w", err)
	}
	return weights.RecommendConfig()
}
