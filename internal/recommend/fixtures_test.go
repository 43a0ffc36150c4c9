package recommend

import (
	"time"

	"compass/internal/domain"
)

var testNow = time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

// childAged devuelve un nino con la edad indicada a testNow y temperamento moderado.
func childAged(age int) domain.ChildProfile {
	return domain.ChildProfile{
		ID:        "child-1",
		FamilyID:  "family-1",
		Name:      "Maya",
		BirthDate: time.Date(testNow.Year()-age, time.January, 15, 0, 0, 0, 0, time.UTC),
		Temperament: &domain.Temperament{
			SensorySensitivity:  "medium",
			IntensityPreference: "moderate",
			SocialPreference:    "small_group",
		},
	}
}

func familyWithBudget(budget int) domain.Family {
	return domain.Family{ID: "family-1", OwnerID: "user-1", BudgetMonthly: intPtr(budget)}
}

func activityFor(id string, minAge, maxAge int) domain.Activity {
	return domain.Activity{
		ID:           id,
		Name:         "Activity " + id,
		ActivityType: "arts",
		MinAge:       intPtr(minAge),
		MaxAge:       intPtr(maxAge),
		IsActive:     true,
		Attributes: &domain.ActivityAttributes{
			IntensityLevel: "moderate",
			TeamVsSolo:     "small_group",
			SensoryLoad:    "medium",
		},
	}
}
