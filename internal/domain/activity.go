package domain

import "time"

// Activity es una actividad de enriquecimiento ya validada y deduplicada por la ingesta.
type Activity struct {
	ID              string              `json:"id"`
	ProviderID      string              `json:"provider_id"`
	VenueID         string              `json:"venue_id,omitempty"`
	Name            string              `json:"name"`
	Description     string              `json:"description,omitempty"`
	ActivityType    string              `json:"activity_type,omitempty"`
	StartDate       *time.Time          `json:"start_date,omitempty"`
	EndDate         *time.Time          `json:"end_date,omitempty"`
	RRule           string              `json:"rrule,omitempty"`
	DaysOfWeek      []string            `json:"days_of_week,omitempty"`
	MinAge          *int                `json:"min_age,omitempty"`
	MaxAge          *int                `json:"max_age,omitempty"`
	PriceCents      *int                `json:"price_cents,omitempty"`
	HasScholarship  bool                `json:"has_scholarship"`
	MaxParticipants *int                `json:"max_participants,omitempty"`
	Attributes      *ActivityAttributes `json:"attributes,omitempty"`
	CanonHash       string              `json:"canon_hash"`
	IsActive        bool                `json:"is_active"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

type ActivityAttributes struct {
	IntensityLevel         string   `json:"intensity_level,omitempty"` // low | moderate | high
	TeamVsSolo             string   `json:"team_vs_solo,omitempty"`    // team | small_group | solo
	IndoorOutdoor          string   `json:"indoor_outdoor,omitempty"`
	NeurodiversityFriendly bool     `json:"neurodiversity_friendly,omitempty"`
	SensoryLoad            string   `json:"sensory_load,omitempty"` // low | medium | high
	Prerequisites          []string `json:"prerequisites,omitempty"`
	EquipmentNeeded        []string `json:"equipment_needed,omitempty"`
	DropInAllowed          bool     `json:"drop_in_allowed,omitempty"`
}
