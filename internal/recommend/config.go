package recommend

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"compass/internal/domain"
)

// StubFunc devuelve un puntaje practico que todavia no tiene colaborador real
// (distancia, ventanas de horario, accesibilidad del lugar).
type StubFunc func(child domain.ChildProfile, family domain.Family, activity domain.Activity) float64

// Config agrupa todos los pesos, maximos y tablas del motor. Se inyecta una sola vez.
type Config struct {
	Weights   GroupWeights
	Fit       FitMaxima
	Practical PracticalMaxima
	Goals     GoalMaxima

	// PriceBands son fracciones del presupuesto mensual: <=Low -> maximo, <=Mid, <=High, resto 0.
	PriceBands PriceBands

	// OccurrencesPerMonth asume recurrencia semanal para estimar el costo mensual.
	OccurrencesPerMonth int `validate:"gt=0"`

	// PartialGoalRatio es la fraccion otorgada cuando hay meta pero ninguna etiqueta coincide.
	PartialGoalRatio float64 `validate:"gte=0,lte=1"`

	Thresholds ExplanationThresholds

	// GoalActivityTypes mapea cada meta a etiquetas en minusculas buscadas dentro de activity_type.
	GoalActivityTypes map[string][]string
	// GoalBenefits mapea cada meta a una frase de beneficio futuro.
	GoalBenefits map[string]string
	// FallbackBenefit se usa cuando no hay meta primaria o no esta mapeada.
	FallbackBenefit string `validate:"required"`

	CommuteScore  StubFunc
	ScheduleScore StubFunc
	TransitScore  StubFunc
}

type GroupWeights struct {
	Fit       float64 `validate:"gte=0"`
	Practical float64 `validate:"gte=0"`
	Goals     float64 `validate:"gte=0"`
}

type FitMaxima struct {
	AgeBandMatch     float64 `validate:"gte=0"`
	IntensityMatch   float64 `validate:"gte=0"`
	SensoryTolerance float64 `validate:"gte=0"`
	TeamVsSolo       float64 `validate:"gte=0"`
	Prerequisites    float64 `validate:"gte=0"`
	Neurodiversity   float64 `validate:"gte=0"`
}

func (m FitMaxima) Sum() float64 {
	return m.AgeBandMatch + m.IntensityMatch + m.SensoryTolerance + m.TeamVsSolo + m.Prerequisites + m.Neurodiversity
}

type PracticalMaxima struct {
	CommuteTime       float64 `validate:"gte=0"`
	ScheduleFit       float64 `validate:"gte=0"`
	PriceVsBudget     float64 `validate:"gte=0"`
	ScholarshipBonus  float64 `validate:"gte=0"`
	TransitAccessible float64 `validate:"gte=0"`
}

func (m PracticalMaxima) Sum() float64 {
	return m.CommuteTime + m.ScheduleFit + m.PriceVsBudget + m.ScholarshipBonus + m.TransitAccessible
}

type GoalMaxima struct {
	Primary   float64 `validate:"gte=0"`
	Secondary float64 `validate:"gte=0"`
	Tertiary  float64 `validate:"gte=0"`
}

func (m GoalMaxima) Sum() float64 {
	return m.Primary + m.Secondary + m.Tertiary
}

type PriceBands struct {
	Low  float64 `validate:"gt=0"`
	Mid  float64 `validate:"gtefield=Low"`
	High float64 `validate:"gtefield=Mid"`
}

// ExplanationThresholds define a partir de que valor un componente se menciona al padre.
type ExplanationThresholds struct {
	AgeMatch      float64
	Intensity     float64
	Sensory       float64
	Social        float64
	PrimaryGoal   float64
	CommuteBelow  float64
	ScheduleBelow float64
	PriceBelow    float64
}

// DefaultConfig devuelve los valores documentados del modelo de puntaje.
func DefaultConfig() Config {
	return Config{
		Weights: GroupWeights{Fit: 0.5, Practical: 0.3, Goals: 0.2},
		Fit: FitMaxima{
			AgeBandMatch:     15,
			IntensityMatch:   10,
			SensoryTolerance: 10,
			TeamVsSolo:       5,
			Prerequisites:    5,
			Neurodiversity:   5,
		},
		Practical: PracticalMaxima{
			CommuteTime:       10,
			ScheduleFit:       10,
			PriceVsBudget:     5,
			ScholarshipBonus:  2.5,
			TransitAccessible: 2.5,
		},
		Goals:               GoalMaxima{Primary: 10, Secondary: 6, Tertiary: 4},
		PriceBands:          PriceBands{Low: 0.3, Mid: 0.5, High: 1.0},
		OccurrencesPerMonth: 4,
		PartialGoalRatio:    0.3,
		Thresholds: ExplanationThresholds{
			AgeMatch:      12,
			Intensity:     8,
			Sensory:       8,
			Social:        4,
			PrimaryGoal:   7,
			CommuteBelow:  7,
			ScheduleBelow: 7,
			PriceBelow:    3,
		},
		GoalActivityTypes: DefaultGoalActivityTypes(),
		GoalBenefits:      DefaultGoalBenefits(),
		FallbackBenefit:   "Building skills and experiences for future growth",
		CommuteScore:      constantStub(8),
		ScheduleScore:     constantStub(8),
		TransitScore:      constantStub(2),
	}
}

// DefaultGoalActivityTypes devuelve una copia nueva de la tabla meta -> etiquetas.
func DefaultGoalActivityTypes() map[string][]string {
	return map[string][]string{
		domain.GoalBuildConfidence:     {"arts", "music", "theatre", "martial_arts"},
		domain.GoalCollegePrepSkills:   {"stem", "academic", "robotics", "coding"},
		domain.GoalPhysicalFitness:     {"sports", "swimming", "dance", "martial_arts"},
		domain.GoalCreativeExpression:  {"arts", "music", "theatre", "crafts"},
		domain.GoalSocialSkills:        {"team_sports", "scouts", "group_activities"},
		domain.GoalSTEMLearning:        {"stem", "robotics", "coding", "science"},
		domain.GoalLanguageDevelopment: {"language", "reading", "debate", "theatre"},
		domain.GoalCulturalConnection:  {"cultural", "language", "music", "dance"},
		domain.GoalEmotionalRegulation: {"mindfulness", "yoga", "martial_arts", "nature"},
		domain.GoalLeadership:          {"scouts", "team_captain", "student_government"},
	}
}

// DefaultGoalBenefits devuelve una copia nueva de la tabla meta -> beneficio futuro.
func DefaultGoalBenefits() map[string]string {
	return map[string]string{
		domain.GoalBuildConfidence:     "Building self-esteem and willingness to try new things",
		domain.GoalCollegePrepSkills:   "Developing critical thinking and study habits",
		domain.GoalPhysicalFitness:     "Establishing healthy exercise routines",
		domain.GoalCreativeExpression:  "Developing creative problem-solving skills",
		domain.GoalSocialSkills:        "Learning teamwork and communication",
		domain.GoalSTEMLearning:        "Building foundation for science and math courses",
		domain.GoalLanguageDevelopment: "Strengthening communication and literacy",
		domain.GoalCulturalConnection:  "Connecting with heritage and identity",
		domain.GoalEmotionalRegulation: "Developing coping strategies and resilience",
		domain.GoalLeadership:          "Building confidence to take initiative",
	}
}

// WithDefaults completa cada grupo que llega en cero (pesos, maximos, bandas, umbrales,
// tablas y stubs) con el valor de DefaultConfig. Los grupos con algun valor se respetan.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.Weights == (GroupWeights{}) {
		c.Weights = d.Weights
	}
	if c.Fit == (FitMaxima{}) {
		c.Fit = d.Fit
	}
	if c.Practical == (PracticalMaxima{}) {
		c.Practical = d.Practical
	}
	if c.Goals == (GoalMaxima{}) {
		c.Goals = d.Goals
	}
	if c.PriceBands == (PriceBands{}) {
		c.PriceBands = d.PriceBands
	}
	if c.Thresholds == (ExplanationThresholds{}) {
		c.Thresholds = d.Thresholds
	}
	if c.OccurrencesPerMonth <= 0 {
		c.OccurrencesPerMonth = d.OccurrencesPerMonth
	}
	if c.GoalActivityTypes == nil {
		c.GoalActivityTypes = d.GoalActivityTypes
	}
	if c.GoalBenefits == nil {
		c.GoalBenefits = d.GoalBenefits
	}
	if c.FallbackBenefit == "" {
		c.FallbackBenefit = d.FallbackBenefit
	}
	if c.CommuteScore == nil {
		c.CommuteScore = d.CommuteScore
	}
	if c.ScheduleScore == nil {
		c.ScheduleScore = d.ScheduleScore
	}
	if c.TransitScore == nil {
		c.TransitScore = d.TransitScore
	}
	return c
}

func constantStub(v float64) StubFunc {
	return func(domain.ChildProfile, domain.Family, domain.Activity) float64 { return v }
}

var configValidator = validator.New()

// Validate rechaza pesos o maximos negativos y bandas de precio desordenadas.
func (c Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("invalid scoring config: %w", err)
	}
	if c.GoalActivityTypes == nil {
		return fmt.Errorf("invalid scoring config: goal activity types table is nil")
	}
	return nil
}

// MaxTotal es el maximo alcanzable con estos pesos (≈38 con los valores por defecto).
// El puntaje no se renormaliza a 0-100.
func (c Config) MaxTotal() float64 {
	return c.Fit.Sum()*c.Weights.Fit + c.Practical.Sum()*c.Weights.Practical + c.Goals.Sum()*c.Weights.Goals
}

// MonthlyCostCents estima el costo mensual de una actividad en centavos.
// Sin precio el costo es cero.
func (c Config) MonthlyCostCents(activity domain.Activity) int64 {
	if activity.PriceCents == nil || *activity.PriceCents <= 0 {
		return 0
	}
	return int64(*activity.PriceCents) * int64(c.occurrences())
}

func (c Config) occurrences() int {
	if c.OccurrencesPerMonth <= 0 {
		return 4
	}
	return c.OccurrencesPerMonth
}
