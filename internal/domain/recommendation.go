package domain

import "time"

type Tier string

const (
	TierPrimary Tier = "primary"
	TierStretch Tier = "stretch"
	// TierBudgetSaver forma parte de la taxonomia pero ninguna regla actual lo asigna.
	TierBudgetSaver Tier = "budget_saver"
)

// Recommendation es el resultado inmutable de una corrida de generacion para un nino.
// Una corrida posterior reemplaza el conjunto completo; nunca se actualiza en sitio.
type Recommendation struct {
	ID             string         `json:"id"`
	FamilyID       string         `json:"family_id"`
	ChildProfileID string         `json:"child_profile_id"`
	ActivityID     string         `json:"activity_id"`
	ActivityName   string         `json:"activity_name,omitempty"`
	GenerationID   string         `json:"generation_id"`
	TotalScore     float64        `json:"total_score"`
	FitScore       float64        `json:"fit_score"`
	PracticalScore float64        `json:"practical_score"`
	GoalsScore     float64        `json:"goals_score"`
	ScoreDetails   ScoreBreakdown `json:"score_details"`
	Tier           Tier           `json:"tier"`
	Explanation    string         `json:"explanation"`
	WhyGoodFit     []string       `json:"why_good_fit"`
	Considerations []string       `json:"considerations"`
	FutureBenefits []string       `json:"future_benefits"`
	GeneratedAt    time.Time      `json:"generated_at"`
}

// ScoreBreakdown conserva cada componente del puntaje con la misma forma que el JSONB persistido.
type ScoreBreakdown struct {
	Fit       FitScores       `json:"fit"`
	Practical PracticalScores `json:"practical"`
	Goals     GoalScores      `json:"goals"`
}

type FitScores struct {
	AgeBandMatch     float64 `json:"age_band_match"`
	IntensityMatch   float64 `json:"intensity_match"`
	SensoryTolerance float64 `json:"sensory_tolerance"`
	TeamVsSolo       float64 `json:"team_vs_solo"`
	Prerequisites    float64 `json:"prerequisites"`
	Neurodiversity   float64 `json:"neurodiversity"`
}

func (f FitScores) Sum() float64 {
	return f.AgeBandMatch + f.IntensityMatch + f.SensoryTolerance + f.TeamVsSolo + f.Prerequisites + f.Neurodiversity
}

type PracticalScores struct {
	CommuteTime       float64 `json:"commute_time"`
	ScheduleFit       float64 `json:"schedule_fit"`
	PriceVsBudget     float64 `json:"price_vs_budget"`
	ScholarshipBonus  float64 `json:"scholarship_bonus"`
	TransitAccessible float64 `json:"transit_accessible"`
}

func (p PracticalScores) Sum() float64 {
	return p.CommuteTime + p.ScheduleFit + p.PriceVsBudget + p.ScholarshipBonus + p.TransitAccessible
}

type GoalScores struct {
	PrimaryGoal   float64 `json:"primary_goal"`
	SecondaryGoal float64 `json:"secondary_goal"`
	TertiaryGoal  float64 `json:"tertiary_goal"`
}

func (g GoalScores) Sum() float64 {
	return g.PrimaryGoal + g.SecondaryGoal + g.TertiaryGoal
}
