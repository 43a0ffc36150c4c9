package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"compass/internal/domain"
)

type ChildRepository interface {
	Create(ctx context.Context, child domain.ChildProfile) error
	GetByID(ctx context.Context, id string) (domain.ChildProfile, error)
	ListByFamily(ctx context.Context, familyID string) ([]domain.ChildProfile, error)
	Update(ctx context.Context, child domain.ChildProfile) error
	// SoftDelete marca deleted_at; los perfiles borrados dejan de aparecer en lecturas.
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

type PgChildRepository struct {
	pool *pgxpool.Pool
}

func NewPgChildRepository(pool *pgxpool.Pool) *PgChildRepository {
	return &PgChildRepository{pool: pool}
}

const childColumns = `id, family_id, name, birth_date, temperament, primary_goal, secondary_goal, tertiary_goal,
	custom_goals, constraints, preferred_activity_types, notes, created_at, updated_at`

func (r *PgChildRepository) Create(ctx context.Context, child domain.ChildProfile) error {
	const query = `
		INSERT INTO child_profiles (` + childColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.pool.Exec(ctx, query,
		child.ID,
		child.FamilyID,
		child.Name,
		child.BirthDate,
		child.Temperament,
		child.PrimaryGoal,
		child.SecondaryGoal,
		child.TertiaryGoal,
		nonNil(child.CustomGoals),
		child.Constraints,
		nonNil(child.PreferredActivityTypes),
		child.Notes,
		child.CreatedAt,
		child.UpdatedAt,
	)
	return err
}

func (r *PgChildRepository) GetByID(ctx context.Context, id string) (domain.ChildProfile, error) {
	const query = `SELECT ` + childColumns + ` FROM child_profiles WHERE id = $1 AND deleted_at IS NULL`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return domain.ChildProfile{}, err
	}
	defer rows.Close()

	children, err := scanChildren(rows)
	if err != nil {
		return domain.ChildProfile{}, err
	}
	if len(children) == 0 {
		return domain.ChildProfile{}, pgx.ErrNoRows
	}
	return children[0], nil
}

func (r *PgChildRepository) ListByFamily(ctx context.Context, familyID string) ([]domain.ChildProfile, error) {
	const query = `SELECT ` + childColumns + ` FROM child_profiles WHERE family_id = $1 AND deleted_at IS NULL ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanChildren(rows)
}

func (r *PgChildRepository) Update(ctx context.Context, child domain.ChildProfile) error {
	const query = `
		UPDATE child_profiles
		SET name = $2, birth_date = $3, temperament = $4, primary_goal = $5, secondary_goal = $6,
			tertiary_goal = $7, custom_goals = $8, constraints = $9, preferred_activity_types = $10,
			notes = $11, updated_at = $12
		WHERE id = $1 AND deleted_at IS NULL
	`
	tag, err := r.pool.Exec(ctx, query,
		child.ID,
		child.Name,
		child.BirthDate,
		child.Temperament,
		child.PrimaryGoal,
		child.SecondaryGoal,
		child.TertiaryGoal,
		nonNil(child.CustomGoals),
		child.Constraints,
		nonNil(child.PreferredActivityTypes),
		child.Notes,
		child.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgChildRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE child_profiles SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.pool.Exec(ctx, query, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanChildren(rows pgxRows) ([]domain.ChildProfile, error) {
	var children []domain.ChildProfile
	for rows.Next() {
		var c domain.ChildProfile
		if err := rows.Scan(
			&c.ID,
			&c.FamilyID,
			&c.Name,
			&c.BirthDate,
			&c.Temperament,
			&c.PrimaryGoal,
			&c.SecondaryGoal,
			&c.TertiaryGoal,
			&c.CustomGoals,
			&c.Constraints,
			&c.PreferredActivityTypes,
			&c.Notes,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		children = append(children, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return children, nil
}

// IsNotFound indica si el error corresponde a una fila inexistente.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
