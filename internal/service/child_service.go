package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"compass/internal/domain"
	"compass/internal/repository"
)

var (
	ErrChildNotFound = errors.New("child profile not found")
	ErrInvalidChild  = errors.New("invalid child profile")
)

const maxChildAge = 18

var childValidator = validator.New()

// ChildService administra los perfiles de ninos de un hogar.
type ChildService struct {
	logger   *zap.Logger
	children repository.ChildRepository
	families repository.FamilyRepository
	now      func() time.Time
}

func NewChildService(logger *zap.Logger, children repository.ChildRepository, families repository.FamilyRepository) *ChildService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChildService{
		logger:   logger,
		children: children,
		families: families,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type CreateChildInput struct {
	Name                   string              `validate:"required,max=100"`
	BirthDate              time.Time           `validate:"required"`
	Temperament            *domain.Temperament `validate:"omitempty"`
	PrimaryGoal            string              `validate:"max=100"`
	SecondaryGoal          string              `validate:"max=100"`
	TertiaryGoal           string              `validate:"max=100"`
	CustomGoals            []string            `validate:"max=10,dive,max=100"`
	Constraints            *domain.Constraints `validate:"omitempty"`
	PreferredActivityTypes []string            `validate:"max=20,dive,max=50"`
	Notes                  string              `validate:"max=2000"`
}

func (s *ChildService) Create(ctx context.Context, ownerID string, input CreateChildInput) (domain.ChildProfile, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := childValidator.Struct(input); err != nil {
		return domain.ChildProfile{}, fmt.Errorf("%w: %v", ErrInvalidChild, err)
	}

	now := s.now()
	if input.BirthDate.After(now) {
		return domain.ChildProfile{}, fmt.Errorf("%w: birth date in the future", ErrInvalidChild)
	}
	child := domain.ChildProfile{
		Name:      input.Name,
		BirthDate: input.BirthDate,
	}
	if child.Age(now) > maxChildAge {
		return domain.ChildProfile{}, fmt.Errorf("%w: age above %d", ErrInvalidChild, maxChildAge)
	}

	family, err := s.families.GetByOwnerID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ChildProfile{}, ErrFamilyNotFound
		}
		return domain.ChildProfile{}, err
	}

	child.ID = uuid.NewString()
	child.FamilyID = family.ID
	child.Temperament = input.Temperament
	child.PrimaryGoal = strings.TrimSpace(input.PrimaryGoal)
	child.SecondaryGoal = strings.TrimSpace(input.SecondaryGoal)
	child.TertiaryGoal = strings.TrimSpace(input.TertiaryGoal)
	child.CustomGoals = input.CustomGoals
	child.Constraints = input.Constraints
	child.PreferredActivityTypes = input.PreferredActivityTypes
	child.Notes = strings.TrimSpace(input.Notes)
	child.CreatedAt = now
	child.UpdatedAt = now

	if err := s.children.Create(ctx, child); err != nil {
		return domain.ChildProfile{}, err
	}
	s.logger.Info("child profile created", zap.String("child_id", child.ID), zap.String("family_id", family.ID))
	return child, nil
}

// Get devuelve el perfil solo si pertenece al hogar del usuario.
func (s *ChildService) Get(ctx context.Context, ownerID, childID string) (domain.ChildProfile, error) {
	child, _, err := loadOwnedChild(ctx, s.children, s.families, ownerID, childID)
	return child, err
}

func (s *ChildService) ListForOwner(ctx context.Context, ownerID string) ([]domain.ChildProfile, error) {
	family, err := s.families.GetByOwnerID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFamilyNotFound
		}
		return nil, err
	}
	return s.children.ListByFamily(ctx, family.ID)
}

type UpdateChildInput struct {
	Name                   *string             `validate:"omitempty,max=100"`
	BirthDate              *time.Time          `validate:"omitempty"`
	Temperament            *domain.Temperament `validate:"omitempty"`
	PrimaryGoal            *string             `validate:"omitempty,max=100"`
	SecondaryGoal          *string             `validate:"omitempty,max=100"`
	TertiaryGoal           *string             `validate:"omitempty,max=100"`
	CustomGoals            []string            `validate:"omitempty,max=10,dive,max=100"`
	Constraints            *domain.Constraints `validate:"omitempty"`
	PreferredActivityTypes []string            `validate:"omitempty,max=20,dive,max=50"`
	Notes                  *string             `validate:"omitempty,max=2000"`
}

// Update aplica solo los campos presentes. Las listas en nil quedan como estaban.
func (s *ChildService) Update(ctx context.Context, ownerID, childID string, input UpdateChildInput) (domain.ChildProfile, error) {
	if err := childValidator.Struct(input); err != nil {
		return domain.ChildProfile{}, fmt.Errorf("%w: %v", ErrInvalidChild, err)
	}
	child, _, err := loadOwnedChild(ctx, s.children, s.families, ownerID, childID)
	if err != nil {
		return domain.ChildProfile{}, err
	}

	now := s.now()
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return domain.ChildProfile{}, fmt.Errorf("%w: name is required", ErrInvalidChild)
		}
		child.Name = name
	}
	if input.BirthDate != nil {
		if input.BirthDate.IsZero() || input.BirthDate.After(now) {
			return domain.ChildProfile{}, fmt.Errorf("%w: invalid birth date", ErrInvalidChild)
		}
		child.BirthDate = *input.BirthDate
		if child.Age(now) > maxChildAge {
			return domain.ChildProfile{}, fmt.Errorf("%w: age above %d", ErrInvalidChild, maxChildAge)
		}
	}
	if input.Temperament != nil {
		child.Temperament = input.Temperament
	}
	if input.PrimaryGoal != nil {
		child.PrimaryGoal = strings.TrimSpace(*input.PrimaryGoal)
	}
	if input.SecondaryGoal != nil {
		child.SecondaryGoal = strings.TrimSpace(*input.SecondaryGoal)
	}
	if input.TertiaryGoal != nil {
		child.TertiaryGoal = strings.TrimSpace(*input.TertiaryGoal)
	}
	if input.CustomGoals != nil {
		child.CustomGoals = input.CustomGoals
	}
	if input.Constraints != nil {
		child.Constraints = input.Constraints
	}
	if input.PreferredActivityTypes != nil {
		child.PreferredActivityTypes = input.PreferredActivityTypes
	}
	if input.Notes != nil {
		child.Notes = strings.TrimSpace(*input.Notes)
	}
	child.UpdatedAt = now

	if err := s.children.Update(ctx, child); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ChildProfile{}, ErrChildNotFound
		}
		return domain.ChildProfile{}, fmt.Errorf("update child: %w", err)
	}
	s.logger.Info("child profile updated", zap.String("child_id", child.ID))
	return child, nil
}

// Delete hace borrado logico; las recomendaciones previas quedan guardadas.
func (s *ChildService) Delete(ctx context.Context, ownerID, childID string) error {
	child, _, err := loadOwnedChild(ctx, s.children, s.families, ownerID, childID)
	if err != nil {
		return err
	}
	if err := s.children.SoftDelete(ctx, child.ID, s.now()); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrChildNotFound
		}
		return fmt.Errorf("delete child: %w", err)
	}
	s.logger.Info("child profile deleted", zap.String("child_id", child.ID), zap.String("family_id", child.FamilyID))
	return nil
}

// loadOwnedChild responde ErrChildNotFound tanto si el nino no existe como si es de otro hogar,
// para no revelar perfiles ajenos. El nino y el hogar del usuario se leen en paralelo.
func loadOwnedChild(ctx context.Context, children repository.ChildRepository, families repository.FamilyRepository, ownerID, childID string) (domain.ChildProfile, domain.Family, error) {
	if !isUUID(childID) {
		return domain.ChildProfile{}, domain.Family{}, ErrChildNotFound
	}

	var (
		child  domain.ChildProfile
		family domain.Family
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := children.GetByID(gctx, childID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrChildNotFound
			}
			return fmt.Errorf("load child: %w", err)
		}
		child = c
		return nil
	})
	g.Go(func() error {
		f, err := families.GetByOwnerID(gctx, ownerID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrChildNotFound
			}
			return fmt.Errorf("load family: %w", err)
		}
		family = f
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.ChildProfile{}, domain.Family{}, err
	}
	if child.FamilyID != family.ID {
		return domain.ChildProfile{}, domain.Family{}, ErrChildNotFound
	}
	return child, family, nil
}

// isUUID acepta solo la forma canonica con guiones; cualquier otra cosa no llega a Postgres.
func isUUID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
