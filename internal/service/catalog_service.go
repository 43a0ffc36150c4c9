package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"compass/internal/domain"
	"compass/internal/repository"
)

var (
	ErrInvalidActivity   = errors.New("invalid activity")
	ErrDuplicateActivity = errors.New("activity already in catalog")
	ErrActivityNotFound  = errors.New("activity not found")
	ErrInvalidFilter     = errors.New("invalid activity filter")
)

const (
	canonNoDate    = "NODATE"
	canonNoGeohash = "UNKNOWN"
	geohashPrefix  = 6
)

var activityValidator = validator.New()

// CatalogService da de alta actividades en el catalogo con deduplicacion por canon_hash.
type CatalogService struct {
	logger     *zap.Logger
	activities repository.ActivityRepository
	now        func() time.Time
}

func NewCatalogService(logger *zap.Logger, activities repository.ActivityRepository) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		logger:     logger,
		activities: activities,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

type CreateActivityInput struct {
	ProviderID      string     `validate:"required,uuid"`
	OrgName         string     `validate:"required,max=200"`
	VenueID         string     `validate:"omitempty,uuid"`
	Geohash         string     `validate:"omitempty,max=12,alphanum"`
	Name            string     `validate:"required,max=200"`
	Description     string     `validate:"max=5000"`
	ActivityType    string     `validate:"max=50"`
	StartDate       *time.Time `validate:"required_without=RRule"`
	EndDate         *time.Time `validate:"omitempty"`
	RRule           string     `validate:"max=500"`
	DaysOfWeek      []string   `validate:"dive,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	MinAge          *int       `validate:"omitempty,min=0,max=18"`
	MaxAge          *int       `validate:"omitempty,min=0,max=18"`
	PriceCents      *int       `validate:"omitempty,min=0"`
	HasScholarship  bool
	MaxParticipants *int                       `validate:"omitempty,min=1"`
	Attributes      *domain.ActivityAttributes `validate:"omitempty"`
}

// Create valida, calcula el canon_hash e inserta la actividad activa.
func (s *CatalogService) Create(ctx context.Context, input CreateActivityInput) (domain.Activity, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := activityValidator.Struct(input); err != nil {
		return domain.Activity{}, fmt.Errorf("%w: %v", ErrInvalidActivity, err)
	}
	if input.MinAge != nil && input.MaxAge != nil && *input.MinAge > *input.MaxAge {
		return domain.Activity{}, fmt.Errorf("%w: min_age above max_age", ErrInvalidActivity)
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return domain.Activity{}, fmt.Errorf("%w: end_date before start_date", ErrInvalidActivity)
	}

	now := s.now()
	activity := domain.Activity{
		ID:              uuid.NewString(),
		ProviderID:      input.ProviderID,
		VenueID:         input.VenueID,
		Name:            input.Name,
		Description:     strings.TrimSpace(input.Description),
		ActivityType:    strings.ToLower(strings.TrimSpace(input.ActivityType)),
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		RRule:           strings.TrimSpace(input.RRule),
		DaysOfWeek:      input.DaysOfWeek,
		MinAge:          input.MinAge,
		MaxAge:          input.MaxAge,
		PriceCents:      input.PriceCents,
		HasScholarship:  input.HasScholarship,
		MaxParticipants: input.MaxParticipants,
		Attributes:      input.Attributes,
		CanonHash:       CanonHash(input.Name, input.StartDate, input.Geohash, input.OrgName),
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.activities.Create(ctx, activity); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.Activity{}, ErrDuplicateActivity
		}
		return domain.Activity{}, err
	}
	s.logger.Info("activity added to catalog",
		zap.String("activity_id", activity.ID),
		zap.String("canon_hash", activity.CanonHash),
	)
	return activity, nil
}

// ListActivitiesInput es una pagina del catalogo. IsActive en nil lista solo activas.
type ListActivitiesInput struct {
	ActivityType string `validate:"max=50"`
	MinAge       *int   `validate:"omitempty,min=0,max=18"`
	MaxAge       *int   `validate:"omitempty,min=0,max=18"`
	IsActive     *bool
	Skip         int `validate:"min=0"`
	Limit        int `validate:"omitempty,min=1,max=100"`
}

func (s *CatalogService) List(ctx context.Context, input ListActivitiesInput) ([]domain.Activity, error) {
	if err := activityValidator.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	activities, err := s.activities.List(ctx, repository.ActivityFilter{
		ActivityType: input.ActivityType,
		MinAge:       input.MinAge,
		MaxAge:       input.MaxAge,
		IsActive:     active,
		Skip:         input.Skip,
		Limit:        input.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (domain.Activity, error) {
	if !isUUID(id) {
		return domain.Activity{}, ErrActivityNotFound
	}
	activity, err := s.activities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Activity{}, ErrActivityNotFound
		}
		return domain.Activity{}, fmt.Errorf("load activity: %w", err)
	}
	return activity, nil
}

// CanonHash identifica una actividad por nombre normalizado, fecha de inicio,
// geohash de precision 6 y organizacion. Devuelve SHA-256 en hex.
func CanonHash(name string, startDate *time.Time, geohash, orgName string) string {
	date := canonNoDate
	if startDate != nil {
		date = startDate.UTC().Format("2006-01-02")
	}
	geo := strings.ToLower(strings.TrimSpace(geohash))
	switch {
	case geo == "":
		geo = canonNoGeohash
	case len(geo) > geohashPrefix:
		geo = geo[:geohashPrefix]
	}
	canon := strings.Join([]string{collapse(name), date, geo, collapse(orgName)}, "|")
	sum := sha256.Sum256([]byte(canon))
	return hex.EncodeToString(sum[:])
}

func collapse(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
