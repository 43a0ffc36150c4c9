package domain

import "time"

// Taxonomia fija de metas de desarrollo.
const (
	GoalBuildConfidence     = "Build Confidence"
	GoalCollegePrepSkills   = "College Prep Skills"
	GoalPhysicalFitness     = "Physical Fitness"
	GoalCreativeExpression  = "Creative Expression"
	GoalSocialSkills        = "Social Skills"
	GoalSTEMLearning        = "STEM Learning"
	GoalLanguageDevelopment = "Language Development"
	GoalCulturalConnection  = "Cultural Connection"
	GoalEmotionalRegulation = "Emotional Regulation"
	GoalLeadership          = "Leadership"
)

// PredefinedGoals lista la taxonomia en el orden en que se presenta a los padres.
var PredefinedGoals = []string{
	GoalBuildConfidence,
	GoalCollegePrepSkills,
	GoalPhysicalFitness,
	GoalCreativeExpression,
	GoalSocialSkills,
	GoalSTEMLearning,
	GoalLanguageDevelopment,
	GoalCulturalConnection,
	GoalEmotionalRegulation,
	GoalLeadership,
}

type ChildProfile struct {
	ID                     string       `json:"id"`
	FamilyID               string       `json:"family_id"`
	Name                   string       `json:"name"`
	BirthDate              time.Time    `json:"birth_date"`
	Temperament            *Temperament `json:"temperament,omitempty"`
	PrimaryGoal            string       `json:"primary_goal,omitempty"`
	SecondaryGoal          string       `json:"secondary_goal,omitempty"`
	TertiaryGoal           string       `json:"tertiary_goal,omitempty"`
	CustomGoals            []string     `json:"custom_goals,omitempty"`
	Constraints            *Constraints `json:"constraints,omitempty"`
	PreferredActivityTypes []string     `json:"preferred_activity_types,omitempty"`
	Notes                  string       `json:"notes,omitempty"`
	CreatedAt              time.Time    `json:"created_at"`
	UpdatedAt              time.Time    `json:"updated_at"`
}

// Temperament resume el perfil del nino. Los rasgos Big Five van de 1 a 5.
// Un rasgo en cero significa que el padre no respondio.
type Temperament struct {
	BigFive             BigFive `json:"big_five"`
	SensorySensitivity  string  `json:"sensory_sensitivity" validate:"omitempty,oneof=low medium high"`
	IntensityPreference string  `json:"intensity_preference" validate:"omitempty,oneof=low moderate high"`
	SocialPreference    string  `json:"social_preference" validate:"omitempty,oneof=solo small_group team"`
}

type BigFive struct {
	Openness          int `json:"openness" validate:"omitempty,min=1,max=5"`
	Conscientiousness int `json:"conscientiousness" validate:"omitempty,min=1,max=5"`
	Extraversion      int `json:"extraversion" validate:"omitempty,min=1,max=5"`
	Agreeableness     int `json:"agreeableness" validate:"omitempty,min=1,max=5"`
	Neuroticism       int `json:"neuroticism" validate:"omitempty,min=1,max=5"`
}

type ScheduleWindow struct {
	Day   string `json:"day" validate:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	Start string `json:"start" validate:"required,datetime=15:04"`
	End   string `json:"end" validate:"required,datetime=15:04"`
}

type Constraints struct {
	ScheduleWindows      []ScheduleWindow `json:"schedule_windows,omitempty" validate:"dive"`
	MaxActivitiesPerWeek *int             `json:"max_activities_per_week,omitempty" validate:"omitempty,min=1,max=14"`
	SpecialNeeds         string           `json:"special_needs,omitempty"`
	DietaryRestrictions  string           `json:"dietary_restrictions,omitempty"`
	MedicalNotes         string           `json:"medical_notes,omitempty"`
	NeurodiversityNotes  string           `json:"neurodiversity_notes,omitempty"`
}

// Age calcula la edad en anos cumplidos a la fecha now.
// Si todavia no llego el cumpleanos de este ano se resta uno.
func (c ChildProfile) Age(now time.Time) int {
	if c.BirthDate.IsZero() {
		return 0
	}
	age := now.Year() - c.BirthDate.Year()
	if now.Month() < c.BirthDate.Month() ||
		(now.Month() == c.BirthDate.Month() && now.Day() < c.BirthDate.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}
