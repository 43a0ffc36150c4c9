package recommend

import (
	"math"
	"strings"
	"time"

	"compass/internal/domain"
)

// Valores neutrales y de coincidencia parcial del modelo.
const (
	ageWidenedMatch  = 10.0
	ageUnbounded     = 12.0
	ageOneSidedMatch = 10.0
	ageFallback      = 5.0

	intensityAdjacent = 6.0
	intensityFar      = 2.0
	intensityNeutral  = 5.0

	sensoryHighMedium = 6.0
	sensoryHighHigh   = 2.0
	sensoryMedium     = 8.0
	sensoryNeutral    = 5.0

	socialMismatch = 2.0
	socialNeutral  = 2.5

	neurodiversityNotFriendly = 2.0

	priceMidBand     = 3.0
	priceHighBand    = 2.0
	priceNeutral     = 3.0
	centsPerCurrency = 100.0
)

var intensityOrder = map[string]int{"low": 0, "moderate": 1, "high": 2}

// Scored es un candidato ya puntuado, listo para ordenar y seleccionar.
type Scored struct {
	Activity  domain.Activity
	Total     float64
	Breakdown domain.ScoreBreakdown
	// Cost es el costo mensual estimado en centavos.
	Cost int64
}

// Engine calcula el puntaje de una actividad para un nino. No hace I/O y no guarda estado mutable.
type Engine struct {
	cfg Config
}

// NewEngine completa con DefaultConfig los grupos que lleguen en cero, asi
// NewEngine(Config{}) puntua igual que NewEngine(DefaultConfig()).
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg.WithDefaults()}
}

// Config devuelve la configuracion efectiva del motor.
func (e *Engine) Config() Config {
	return e.cfg
}

// Score devuelve el puntaje total ponderado y el desglose por componente.
// La edad del nino se calcula respecto de now.
func (e *Engine) Score(child domain.ChildProfile, family domain.Family, activity domain.Activity, now time.Time) (float64, domain.ScoreBreakdown) {
	breakdown := domain.ScoreBreakdown{
		Fit:       e.fitScores(child, activity, now),
		Practical: e.practicalScores(child, family, activity),
		Goals:     e.goalScores(child, activity),
	}
	return e.Total(breakdown), breakdown
}

// Total aplica los pesos de grupo sobre un desglose.
func (e *Engine) Total(b domain.ScoreBreakdown) float64 {
	w := e.cfg.Weights
	return b.Fit.Sum()*w.Fit + b.Practical.Sum()*w.Practical + b.Goals.Sum()*w.Goals
}

// ScoreAll puntua cada candidato conservando el orden de entrada.
func (e *Engine) ScoreAll(child domain.ChildProfile, family domain.Family, activities []domain.Activity, now time.Time) []Scored {
	out := make([]Scored, 0, len(activities))
	for _, a := range activities {
		total, breakdown := e.Score(child, family, a, now)
		out = append(out, Scored{
			Activity:  a,
			Total:     total,
			Breakdown: breakdown,
			Cost:      e.cfg.MonthlyCostCents(a),
		})
	}
	return out
}

/*
========================
 Fit
========================
*/

func (e *Engine) fitScores(child domain.ChildProfile, activity domain.Activity, now time.Time) domain.FitScores {
	m := e.cfg.Fit
	return domain.FitScores{
		AgeBandMatch:     clamp(e.ageBandMatch(child.Age(now), activity), m.AgeBandMatch),
		IntensityMatch:   clamp(e.intensityMatch(child, activity), m.IntensityMatch),
		SensoryTolerance: clamp(e.sensoryTolerance(child, activity), m.SensoryTolerance),
		TeamVsSolo:       clamp(e.teamVsSolo(child, activity), m.TeamVsSolo),
		// Todavia no se verifican prerequisitos: siempre se otorga el maximo.
		Prerequisites:  m.Prerequisites,
		Neurodiversity: clamp(e.neurodiversity(child, activity), m.Neurodiversity),
	}
}

func (e *Engine) ageBandMatch(age int, activity domain.Activity) float64 {
	minAge, maxAge := activity.MinAge, activity.MaxAge

	if minAge != nil && maxAge != nil {
		switch {
		case *minAge <= age && age <= *maxAge:
			return e.cfg.Fit.AgeBandMatch
		case *minAge-1 <= age && age <= *maxAge+1:
			return ageWidenedMatch
		default:
			return 0
		}
	}

	if minAge == nil && maxAge == nil {
		return ageUnbounded
	}
	if minAge != nil && age >= *minAge {
		return ageOneSidedMatch
	}
	if maxAge != nil && age <= *maxAge {
		return ageOneSidedMatch
	}
	return ageFallback
}

func (e *Engine) intensityMatch(child domain.ChildProfile, activity domain.Activity) float64 {
	if child.Temperament == nil {
		return intensityNeutral
	}
	childLevel := normalizeOr(child.Temperament.IntensityPreference, "moderate")
	activityLevel := "moderate"
	if activity.Attributes != nil {
		activityLevel = normalizeOr(activity.Attributes.IntensityLevel, "moderate")
	}

	ci, okChild := intensityOrder[childLevel]
	ai, okActivity := intensityOrder[activityLevel]
	if !okChild || !okActivity {
		return intensityNeutral
	}

	switch abs(ci - ai) {
	case 0:
		return e.cfg.Fit.IntensityMatch
	case 1:
		return intensityAdjacent
	default:
		return intensityFar
	}
}

func (e *Engine) sensoryTolerance(child domain.ChildProfile, activity domain.Activity) float64 {
	if child.Temperament == nil {
		return sensoryNeutral
	}
	sensitivity := normalizeOr(child.Temperament.SensorySensitivity, "medium")
	load := "medium"
	if activity.Attributes != nil {
		load = normalizeOr(activity.Attributes.SensoryLoad, "medium")
	}

	switch sensitivity {
	case "high":
		switch load {
		case "low":
			return e.cfg.Fit.SensoryTolerance
		case "medium":
			return sensoryHighMedium
		case "high":
			return sensoryHighHigh
		}
		return sensoryNeutral
	case "medium":
		return sensoryMedium
	case "low":
		return e.cfg.Fit.SensoryTolerance
	}
	return sensoryNeutral
}

func (e *Engine) teamVsSolo(child domain.ChildProfile, activity domain.Activity) float64 {
	if child.Temperament == nil {
		return socialNeutral
	}
	preference := normalizeOr(child.Temperament.SocialPreference, "small_group")
	setting := "small_group"
	if activity.Attributes != nil {
		setting = normalizeOr(activity.Attributes.TeamVsSolo, "small_group")
	}
	if preference == setting {
		return e.cfg.Fit.TeamVsSolo
	}
	return socialMismatch
}

func (e *Engine) neurodiversity(child domain.ChildProfile, activity domain.Activity) float64 {
	if child.Constraints == nil || strings.TrimSpace(child.Constraints.NeurodiversityNotes) == "" {
		return e.cfg.Fit.Neurodiversity
	}
	if activity.Attributes != nil && activity.Attributes.NeurodiversityFriendly {
		return e.cfg.Fit.Neurodiversity
	}
	return neurodiversityNotFriendly
}

/*
========================
 Practical
========================
*/

func (e *Engine) practicalScores(child domain.ChildProfile, family domain.Family, activity domain.Activity) domain.PracticalScores {
	m := e.cfg.Practical
	scholarship := 0.0
	if activity.HasScholarship {
		scholarship = m.ScholarshipBonus
	}
	return domain.PracticalScores{
		CommuteTime:       clamp(e.cfg.CommuteScore(child, family, activity), m.CommuteTime),
		ScheduleFit:       clamp(e.cfg.ScheduleScore(child, family, activity), m.ScheduleFit),
		PriceVsBudget:     clamp(e.priceVsBudget(family, activity), m.PriceVsBudget),
		ScholarshipBonus:  scholarship,
		TransitAccessible: clamp(e.cfg.TransitScore(child, family, activity), m.TransitAccessible),
	}
}

// priceVsBudget compara el costo mensual (en unidades de moneda) contra el presupuesto del hogar.
func (e *Engine) priceVsBudget(family domain.Family, activity domain.Activity) float64 {
	if activity.PriceCents == nil || *activity.PriceCents <= 0 || !family.HasBudget() {
		return priceNeutral
	}
	monthlyCost := float64(e.cfg.MonthlyCostCents(activity)) / centsPerCurrency
	budget := float64(*family.BudgetMonthly)
	bands := e.cfg.PriceBands

	switch {
	case monthlyCost <= budget*bands.Low:
		return e.cfg.Practical.PriceVsBudget
	case monthlyCost <= budget*bands.Mid:
		return priceMidBand
	case monthlyCost <= budget*bands.High:
		return priceHighBand
	default:
		return 0
	}
}

/*
========================
 Goals
========================
*/

func (e *Engine) goalScores(child domain.ChildProfile, activity domain.Activity) domain.GoalScores {
	m := e.cfg.Goals
	return domain.GoalScores{
		PrimaryGoal:   e.goalAlignment(activity, child.PrimaryGoal, m.Primary),
		SecondaryGoal: e.goalAlignment(activity, child.SecondaryGoal, m.Secondary),
		TertiaryGoal:  e.goalAlignment(activity, child.TertiaryGoal, m.Tertiary),
	}
}

func (e *Engine) goalAlignment(activity domain.Activity, goal string, maxPoints float64) float64 {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return 0
	}
	if GoalMatchesActivity(e.cfg.GoalActivityTypes, goal, activity.ActivityType) {
		return maxPoints
	}
	return clamp(maxPoints*e.cfg.PartialGoalRatio, maxPoints)
}

// GoalMatchesActivity indica si alguna etiqueta de la meta aparece dentro del tipo de actividad.
func GoalMatchesActivity(table map[string][]string, goal, activityType string) bool {
	kind := strings.ToLower(activityType)
	if kind == "" {
		return false
	}
	for _, tag := range table[goal] {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" && strings.Contains(kind, tag) {
			return true
		}
	}
	return false
}

/*
========================
 Helpers
========================
*/

// clamp limita v a [0, limit] y convierte NaN en cero.
func clamp(v, limit float64) float64 {
	if math.IsNaN(v) || v < 0 || limit <= 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}

func normalizeOr(s, fallback string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return fallback
	}
	return s
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
