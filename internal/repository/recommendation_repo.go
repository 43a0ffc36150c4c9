package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"compass/internal/domain"
)

type RecommendationRepository interface {
	// ReplaceForChild borra el conjunto anterior del nino e inserta el nuevo en una sola transaccion.
	ReplaceForChild(ctx context.Context, childID string, recs []domain.Recommendation) error
	ListByChild(ctx context.Context, familyID, childID string) ([]domain.Recommendation, error)
}

type PgRecommendationRepository struct {
	pool *pgxpool.Pool
}

func NewPgRecommendationRepository(pool *pgxpool.Pool) *PgRecommendationRepository {
	return &PgRecommendationRepository{pool: pool}
}

func (r *PgRecommendationRepository) ReplaceForChild(ctx context.Context, childID string, recs []domain.Recommendation) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM recommendations WHERE child_profile_id = $1`, childID); err != nil {
		return fmt.Errorf("delete previous recommendations: %w", err)
	}

	const insert = `
		INSERT INTO recommendations (
			id, family_id, child_profile_id, activity_id, generation_id, total_score, fit_score,
			practical_score, goals_score, score_details, tier, explanation, why_good_fit,
			considerations, future_benefits, generated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	batch := &pgx.Batch{}
	for _, rec := range recs {
		batch.Queue(insert,
			rec.ID,
			rec.FamilyID,
			rec.ChildProfileID,
			rec.ActivityID,
			rec.GenerationID,
			rec.TotalScore,
			rec.FitScore,
			rec.PracticalScore,
			rec.GoalsScore,
			rec.ScoreDetails,
			string(rec.Tier),
			rec.Explanation,
			nonNil(rec.WhyGoodFit),
			nonNil(rec.Considerations),
			nonNil(rec.FutureBenefits),
			rec.GeneratedAt,
		)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert recommendations: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// ListByChild filtra tambien por family_id para no cruzar hogares.
func (r *PgRecommendationRepository) ListByChild(ctx context.Context, familyID, childID string) ([]domain.Recommendation, error) {
	const query = `
		SELECT r.id, r.family_id, r.child_profile_id, r.activity_id, a.name, r.generation_id,
			r.total_score, r.fit_score, r.practical_score, r.goals_score, r.score_details, r.tier,
			r.explanation, r.why_good_fit, r.considerations, r.future_benefits, r.generated_at
		FROM recommendations r
		JOIN activities a ON a.id = r.activity_id
		WHERE r.family_id = $1 AND r.child_profile_id = $2
		ORDER BY r.total_score DESC, r.activity_id ASC
	`
	rows, err := r.pool.Query(ctx, query, familyID, childID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []domain.Recommendation
	for rows.Next() {
		var rec domain.Recommendation
		var tier string
		if err := rows.Scan(
			&rec.ID,
			&rec.FamilyID,
			&rec.ChildProfileID,
			&rec.ActivityID,
			&rec.ActivityName,
			&rec.GenerationID,
			&rec.TotalScore,
			&rec.FitScore,
			&rec.PracticalScore,
			&rec.GoalsScore,
			&rec.ScoreDetails,
			&tier,
			&rec.Explanation,
			&rec.WhyGoodFit,
			&rec.Considerations,
			&rec.FutureBenefits,
			&rec.GeneratedAt,
		); err != nil {
			return nil, err
		}
		rec.Tier = domain.Tier(tier)
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}
