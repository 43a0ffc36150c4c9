package main

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"compass/internal/domain"
	"compass/internal/recommend"
)

//go:embed scenarios.json
var defaultScenarios []byte

var defaultNow = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// Scenario describe un caso offline: un nino, su hogar, el catalogo y las actividades
// que se espera ver seleccionadas.
type Scenario struct {
	Name          string              `json:"name"`
	Now           *time.Time          `json:"now,omitempty"`
	MaxActivities int                 `json:"max_activities"`
	Child         domain.ChildProfile `json:"child"`
	Family        domain.Family       `json:"family"`
	Activities    []domain.Activity   `json:"activities"`
	Expect        []string            `json:"expect"`
}

type scenarioFile struct {
	Scenarios []Scenario `json:"scenarios"`
}

func parseScenarios(raw []byte) ([]Scenario, error) {
	var f scenarioFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	if len(f.Scenarios) == 0 {
		return nil, errors.New("no scenarios")
	}
	return f.Scenarios, nil
}

// evaluate corre el motor completo sin I/O y devuelve los seleccionados en orden.
func evaluate(engine *recommend.Engine, sc Scenario) []recommend.Scored {
	now := defaultNow
	if sc.Now != nil {
		now = *sc.Now
	}
	maxCount := sc.MaxActivities
	if maxCount <= 0 {
		maxCount = 3
	}
	activities := make([]domain.Activity, 0, len(sc.Activities))
	for _, a := range sc.Activities {
		if strings.TrimSpace(a.ID) != "" {
			activities = append(activities, a)
		}
	}
	scored := engine.ScoreAll(sc.Child, sc.Family, activities, now)
	recommend.SortCandidates(scored)
	return recommend.Select(scored, recommend.CeilingFromBudget(sc.Family.BudgetMonthly), maxCount)
}

// missing devuelve los IDs esperados que no quedaron seleccionados.
func missing(expect []string, selected []recommend.Scored) []string {
	got := make(map[string]bool, len(selected))
	for _, s := range selected {
		got[s.Activity.ID] = true
	}
	var out []string
	for _, id := range expect {
		if !got[id] {
			out = append(out, id)
		}
	}
	return out
}

func runScenarios(w io.Writer, cfg recommend.Config, scenarios []Scenario) int {
	engine := recommend.NewEngine(cfg)
	passed := 0
	for _, sc := range scenarios {
		fmt.Fprintf(w, "=== %s ===\n", sc.Name)
		selected := evaluate(engine, sc)
		for i, s := range selected {
			fmt.Fprintf(w, "  %d. %-28s total=%6.2f fit=%5.2f practical=%5.2f goals=%5.2f cost=%d\n",
				i+1, s.Activity.Name, s.Total,
				s.Breakdown.Fit.Sum(), s.Breakdown.Practical.Sum(), s.Breakdown.Goals.Sum(), s.Cost)
		}
		if miss := missing(sc.Expect, selected); len(miss) > 0 {
			fmt.Fprintf(w, "❌ FAIL [%s] missing=%v\n\n", sc.Name, miss)
			continue
		}
		fmt.Fprintf(w, "✅ PASS [%s]\n\n", sc.Name)
		passed++
	}
	return passed
}
