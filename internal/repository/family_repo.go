package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"compass/internal/domain"
)

type FamilyRepository interface {
	Create(ctx context.Context, family domain.Family) error
	GetByID(ctx context.Context, id string) (domain.Family, error)
	GetByOwnerID(ctx context.Context, ownerID string) (domain.Family, error)
	Update(ctx context.Context, family domain.Family) error
	// Delete borra el hogar; perfiles y recomendaciones caen por cascada.
	Delete(ctx context.Context, id string) error
}

type PgFamilyRepository struct {
	pool *pgxpool.Pool
}

func NewPgFamilyRepository(pool *pgxpool.Pool) *PgFamilyRepository {
	return &PgFamilyRepository{pool: pool}
}

func (r *PgFamilyRepository) Create(ctx context.Context, family domain.Family) error {
	const query = `
		INSERT INTO families (id, owner_id, budget_monthly, address, city, state, zip_code, timezone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.pool.Exec(ctx, query,
		family.ID,
		family.OwnerID,
		family.BudgetMonthly,
		family.Address,
		family.City,
		family.State,
		family.ZipCode,
		family.Timezone,
		family.CreatedAt,
		family.UpdatedAt,
	)
	return mapUniqueViolation(err)
}

func (r *PgFamilyRepository) GetByID(ctx context.Context, id string) (domain.Family, error) {
	const query = `
		SELECT id, owner_id, budget_monthly, address, city, state, zip_code, timezone, created_at, updated_at
		FROM families
		WHERE id = $1
	`
	return r.scanOne(ctx, query, id)
}

func (r *PgFamilyRepository) GetByOwnerID(ctx context.Context, ownerID string) (domain.Family, error) {
	const query = `
		SELECT id, owner_id, budget_monthly, address, city, state, zip_code, timezone, created_at, updated_at
		FROM families
		WHERE owner_id = $1
	`
	return r.scanOne(ctx, query, ownerID)
}

func (r *PgFamilyRepository) Update(ctx context.Context, family domain.Family) error {
	const query = `
		UPDATE families
		SET budget_monthly = $2, address = $3, city = $4, state = $5, zip_code = $6, timezone = $7, updated_at = $8
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		family.ID,
		family.BudgetMonthly,
		family.Address,
		family.City,
		family.State,
		family.ZipCode,
		family.Timezone,
		family.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgFamilyRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM families WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgFamilyRepository) scanOne(ctx context.Context, query string, arg any) (domain.Family, error) {
	var f domain.Family
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&f.ID,
		&f.OwnerID,
		&f.BudgetMonthly,
		&f.Address,
		&f.City,
		&f.State,
		&f.ZipCode,
		&f.Timezone,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Family{}, err
	}
	return f, err
}
