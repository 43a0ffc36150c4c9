package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"compass/internal/domain"
	"compass/internal/repository"
)

var (
	ErrFamilyNotFound  = errors.New("family not found")
	ErrFamilyExists    = errors.New("family already exists for user")
	ErrInvalidBudget   = errors.New("budget must be zero or positive")
	ErrInvalidTimezone = errors.New("invalid timezone")
)

const defaultTimezone = "America/Los_Angeles"

// FamilyService administra el hogar de cada usuario. Un usuario tiene a lo sumo un hogar.
type FamilyService struct {
	logger   *zap.Logger
	families repository.FamilyRepository
}

func NewFamilyService(logger *zap.Logger, families repository.FamilyRepository) *FamilyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FamilyService{logger: logger, families: families}
}

type CreateFamilyInput struct {
	BudgetMonthly *int
	Address       string
	City          string
	State         string
	ZipCode       string
	Timezone      string
}

func (s *FamilyService) Create(ctx context.Context, ownerID string, input CreateFamilyInput) (domain.Family, error) {
	if input.BudgetMonthly != nil && *input.BudgetMonthly < 0 {
		return domain.Family{}, ErrInvalidBudget
	}
	tz := strings.TrimSpace(input.Timezone)
	if tz == "" {
		tz = defaultTimezone
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return domain.Family{}, ErrInvalidTimezone
	}

	now := time.Now().UTC()
	family := domain.Family{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		BudgetMonthly: input.BudgetMonthly,
		Address:       strings.TrimSpace(input.Address),
		City:          strings.TrimSpace(input.City),
		State:         strings.TrimSpace(input.State),
		ZipCode:       strings.TrimSpace(input.ZipCode),
		Timezone:      tz,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.families.Create(ctx, family); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.Family{}, ErrFamilyExists
		}
		return domain.Family{}, err
	}
	s.logger.Info("family created", zap.String("family_id", family.ID), zap.String("owner_id", ownerID))
	return family, nil
}

func (s *FamilyService) GetForOwner(ctx context.Context, ownerID string) (domain.Family, error) {
	family, err := s.families.GetByOwnerID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Family{}, ErrFamilyNotFound
		}
		return domain.Family{}, err
	}
	return family, nil
}

// UpdateFamilyInput solo aplica los campos presentes. Un presupuesto en cero equivale a no tener tope.
type UpdateFamilyInput struct {
	BudgetMonthly *int
	Address       *string
	City          *string
	State         *string
	ZipCode       *string
	Timezone      *string
}

func (s *FamilyService) Update(ctx context.Context, ownerID string, input UpdateFamilyInput) (domain.Family, error) {
	family, err := s.GetForOwner(ctx, ownerID)
	if err != nil {
		return domain.Family{}, err
	}

	if input.BudgetMonthly != nil {
		if *input.BudgetMonthly < 0 {
			return domain.Family{}, ErrInvalidBudget
		}
		family.BudgetMonthly = input.BudgetMonthly
	}
	if input.Timezone != nil {
		tz := strings.TrimSpace(*input.Timezone)
		if _, err := time.LoadLocation(tz); err != nil || tz == "" {
			return domain.Family{}, ErrInvalidTimezone
		}
		family.Timezone = tz
	}
	setTrimmed(&family.Address, input.Address)
	setTrimmed(&family.City, input.City)
	setTrimmed(&family.State, input.State)
	setTrimmed(&family.ZipCode, input.ZipCode)
	family.UpdatedAt = time.Now().UTC()

	if err := s.families.Update(ctx, family); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Family{}, ErrFamilyNotFound
		}
		return domain.Family{}, err
	}
	s.logger.Info("family updated", zap.String("family_id", family.ID))
	return family, nil
}

// Delete borra el hogar del usuario junto con sus perfiles y recomendaciones.
func (s *FamilyService) Delete(ctx context.Context, ownerID string) error {
	family, err := s.GetForOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	if err := s.families.Delete(ctx, family.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrFamilyNotFound
		}
		return err
	}
	s.logger.Info("family deleted", zap.String("family_id", family.ID), zap.String("owner_id", ownerID))
	return nil
}

func setTrimmed(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
