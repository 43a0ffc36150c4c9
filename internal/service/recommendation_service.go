package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"compass/internal/domain"
	"compass/internal/metrics"
	"compass/internal/recommend"
	"compass/internal/repository"
)

var (
	ErrInvalidMaxActivities = errors.New("max_activities must be between 1 and 10")
	ErrRateLimited          = errors.New("rate limited")
)

const (
	DefaultMaxActivities = 3
	MaxMaxActivities     = 10
)

// GenerateRequest pide una corrida para un nino. MaxActivities en cero usa el valor por defecto.
type GenerateRequest struct {
	UserID         string
	ChildProfileID string
	MaxActivities  int
}

// RecommendationOptions agrupa colaboradores opcionales del orquestador.
type RecommendationOptions struct {
	Lock           GenerationLock
	Limiter        GenerationRateLimiter
	CandidateLimit int
	Now            func() time.Time
}

// RecommendationService orquesta carga de datos, motor de puntaje y persistencia.
// El motor no hace I/O; todo acceso a datos vive aca.
type RecommendationService struct {
	logger          *zap.Logger
	children        repository.ChildRepository
	families        repository.FamilyRepository
	activities      repository.ActivityRepository
	recommendations repository.RecommendationRepository
	engine          *recommend.Engine
	explainer       *recommend.Explainer
	lock            GenerationLock
	limiter         GenerationRateLimiter
	candidateLimit  int
	now             func() time.Time
	tracer          trace.Tracer
}

func NewRecommendationService(
	logger *zap.Logger,
	children repository.ChildRepository,
	families repository.FamilyRepository,
	activities repository.ActivityRepository,
	recommendations repository.RecommendationRepository,
	scoring recommend.Config,
	opts RecommendationOptions,
) *RecommendationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Lock == nil {
		opts.Lock = NewMemoryGenerationLock()
	}
	if opts.CandidateLimit <= 0 {
		opts.CandidateLimit = repository.DefaultCandidateLimit
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	return &RecommendationService{
		logger:          logger,
		children:        children,
		families:        families,
		activities:      activities,
		recommendations: recommendations,
		engine:          recommend.NewEngine(scoring),
		explainer:       recommend.NewExplainer(scoring),
		lock:            opts.Lock,
		limiter:         opts.Limiter,
		candidateLimit:  opts.CandidateLimit,
		now:             opts.Now,
		tracer:          otel.Tracer("compass/service"),
	}
}

// Generate puntua, selecciona y explica actividades para el nino y reemplaza el conjunto persistido.
// Devuelve las recomendaciones en orden de puntaje.
func (s *RecommendationService) Generate(ctx context.Context, req GenerateRequest) (recs []domain.Recommendation, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "recommendations.generate",
		trace.WithAttributes(attribute.String("child_profile_id", req.ChildProfileID)))
	defer func() {
		outcome := generationOutcome(recs, err)
		metrics.ObserveGeneration(outcome, time.Since(start).Seconds())
		span.SetAttributes(attribute.String("outcome", outcome))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		span.End()
	}()

	maxCount := req.MaxActivities
	if maxCount == 0 {
		maxCount = DefaultMaxActivities
	}
	if maxCount < 1 || maxCount > MaxMaxActivities {
		return nil, ErrInvalidMaxActivities
	}
	if !isUUID(req.ChildProfileID) {
		return nil, ErrChildNotFound
	}

	if s.limiter != nil && !s.limiter.Allow(req.UserID) {
		return nil, ErrRateLimited
	}

	// La propiedad se verifica antes del lock: otro usuario no puede ocupar el lock de un nino ajeno.
	child, family, err := loadOwnedChild(ctx, s.children, s.families, req.UserID, req.ChildProfileID)
	if err != nil {
		return nil, err
	}

	release, err := s.lock.Acquire(ctx, child.ID)
	if err != nil {
		if errors.Is(err, ErrGenerationInProgress) {
			return nil, err
		}
		return nil, fmt.Errorf("acquire generation lock: %w", err)
	}
	defer release()

	now := s.now()
	candidates, err := s.activities.ListCandidates(ctx, child.Age(now), s.candidateLimit)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	candidates = s.dropUnidentified(candidates, child.ID)
	scored := s.engine.ScoreAll(child, family, candidates, now)
	recommend.SortCandidates(scored)
	selected := recommend.Select(scored, recommend.CeilingFromBudget(family.BudgetMonthly), maxCount)

	metrics.CandidatesScored.Observe(float64(len(scored)))
	metrics.Selected.Observe(float64(len(selected)))
	span.SetAttributes(
		attribute.Int("candidates", len(scored)),
		attribute.Int("selected", len(selected)),
	)

	recs = s.buildRecommendations(child, family, selected, maxCount, now)
	if err := s.recommendations.ReplaceForChild(ctx, child.ID, recs); err != nil {
		return nil, fmt.Errorf("persist recommendations: %w", err)
	}

	s.logger.Info("recommendations generated",
		zap.String("child_id", child.ID),
		zap.Int("candidates", len(scored)),
		zap.Int("selected", len(recs)),
		zap.Int("max", maxCount),
	)
	return recs, nil
}

// List devuelve el ultimo conjunto persistido para un nino del usuario.
func (s *RecommendationService) List(ctx context.Context, userID, childID string) ([]domain.Recommendation, error) {
	child, family, err := loadOwnedChild(ctx, s.children, s.families, userID, childID)
	if err != nil {
		return nil, err
	}
	recs, err := s.recommendations.ListByChild(ctx, family.ID, child.ID)
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	return recs, nil
}

func (s *RecommendationService) dropUnidentified(activities []domain.Activity, childID string) []domain.Activity {
	kept := activities[:0:0]
	for _, a := range activities {
		if strings.TrimSpace(a.ID) == "" {
			s.logger.Warn("skipping activity without id",
				zap.String("child_id", childID),
				zap.String("name", a.Name),
				zap.String("canon_hash", a.CanonHash),
			)
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

func (s *RecommendationService) buildRecommendations(child domain.ChildProfile, family domain.Family, selected []recommend.Scored, maxCount int, now time.Time) []domain.Recommendation {
	generationID := uuid.NewString()
	recs := make([]domain.Recommendation, 0, len(selected))
	for i, item := range selected {
		exp := s.explainer.Explain(child, item.Activity, item.Breakdown, now)
		recs = append(recs, domain.Recommendation{
			ID:             uuid.NewString(),
			FamilyID:       family.ID,
			ChildProfileID: child.ID,
			ActivityID:     item.Activity.ID,
			ActivityName:   item.Activity.Name,
			GenerationID:   generationID,
			TotalScore:     item.Total,
			FitScore:       item.Breakdown.Fit.Sum(),
			PracticalScore: item.Breakdown.Practical.Sum(),
			GoalsScore:     item.Breakdown.Goals.Sum(),
			ScoreDetails:   item.Breakdown,
			Tier:           recommend.TierFor(i, maxCount),
			Explanation:    exp.Summary,
			WhyGoodFit:     exp.WhyGoodFit,
			Considerations: exp.Considerations,
			FutureBenefits: exp.FutureBenefits,
			GeneratedAt:    now,
		})
	}
	return recs
}

func generationOutcome(recs []domain.Recommendation, err error) string {
	switch {
	case err == nil && len(recs) == 0:
		return metrics.OutcomeEmpty
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrChildNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, ErrGenerationInProgress):
		return metrics.OutcomeBusy
	case errors.Is(err, ErrRateLimited):
		return metrics.OutcomeRateLimited
	case errors.Is(err, ErrInvalidMaxActivities):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}
