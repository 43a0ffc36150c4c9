package recommend

import (
	"fmt"
	"strings"
	"time"

	"compass/internal/domain"
)

// Explanation es el texto para padres derivado de un desglose ya calculado.
type Explanation struct {
	Summary        string
	WhyGoodFit     []string
	Considerations []string
	FutureBenefits []string
}

// Explainer traduce un desglose de puntaje a lenguaje para padres. Nunca recalcula puntajes.
type Explainer struct {
	thresholds      ExplanationThresholds
	benefits        map[string]string
	fallbackBenefit string
}

func NewExplainer(cfg Config) *Explainer {
	cfg = cfg.WithDefaults()
	return &Explainer{
		thresholds:      cfg.Thresholds,
		benefits:        cfg.GoalBenefits,
		fallbackBenefit: strings.TrimSpace(cfg.FallbackBenefit),
	}
}

// Explain arma el resumen, las razones, las consideraciones y los beneficios futuros.
func (x *Explainer) Explain(child domain.ChildProfile, activity domain.Activity, b domain.ScoreBreakdown, now time.Time) Explanation {
	return Explanation{
		Summary:        fmt.Sprintf("We think %s could be a great fit for %s.", displayOr(activity.Name, "this activity"), displayOr(child.Name, "your child")),
		WhyGoodFit:     x.whyGoodFit(child, b, now),
		Considerations: x.considerations(activity, b),
		FutureBenefits: x.futureBenefits(child),
	}
}

func (x *Explainer) whyGoodFit(child domain.ChildProfile, b domain.ScoreBreakdown, now time.Time) []string {
	t := x.thresholds
	reasons := make([]string, 0, 5)

	if b.Fit.AgeBandMatch >= t.AgeMatch {
		reasons = append(reasons, fmt.Sprintf("Perfect age match (%d years old)", child.Age(now)))
	}
	if b.Fit.IntensityMatch >= t.Intensity {
		intensity := "moderate"
		if child.Temperament != nil {
			intensity = displayOr(child.Temperament.IntensityPreference, intensity)
		}
		reasons = append(reasons, fmt.Sprintf("Matches their %s-energy temperament", intensity))
	}
	if b.Fit.SensoryTolerance >= t.Sensory {
		reasons = append(reasons, "Comfortable sensory environment")
	}
	if b.Fit.TeamVsSolo >= t.Social {
		social := "small_group"
		if child.Temperament != nil {
			social = displayOr(child.Temperament.SocialPreference, social)
		}
		reasons = append(reasons, fmt.Sprintf("Works well with their %s preference", strings.ReplaceAll(social, "_", " ")))
	}
	if b.Goals.PrimaryGoal >= t.PrimaryGoal {
		if goal := strings.TrimSpace(child.PrimaryGoal); goal != "" {
			reasons = append(reasons, fmt.Sprintf("Directly supports '%s' goal", goal))
		}
	}
	return reasons
}

func (x *Explainer) considerations(activity domain.Activity, b domain.ScoreBreakdown) []string {
	t := x.thresholds
	notes := make([]string, 0, 4)

	if b.Practical.CommuteTime < t.CommuteBelow {
		notes = append(notes, "May require longer travel time")
	}
	if b.Practical.ScheduleFit < t.ScheduleBelow {
		notes = append(notes, "Check schedule compatibility carefully")
	}
	if b.Practical.PriceVsBudget < t.PriceBelow {
		notes = append(notes, "Higher cost - consider if it fits your budget")
	}
	if activity.MaxParticipants != nil && *activity.MaxParticipants > 0 {
		notes = append(notes, fmt.Sprintf("Limited to %d participants - register early", *activity.MaxParticipants))
	}
	return notes
}

// futureBenefits nunca devuelve una lista vacia.
func (x *Explainer) futureBenefits(child domain.ChildProfile) []string {
	if goal := strings.TrimSpace(child.PrimaryGoal); goal != "" {
		if benefit, ok := x.benefits[goal]; ok && strings.TrimSpace(benefit) != "" {
			return []string{benefit}
		}
	}
	return []string{x.fallbackBenefit}
}

func displayOr(s, fallback string) string {
	if s = strings.TrimSpace(s); s == "" {
		return fallback
	}
	return s
}
