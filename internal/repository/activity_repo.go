package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"compass/internal/domain"
)

// DefaultCandidateLimit acota cuantas actividades se puntuan por corrida.
const DefaultCandidateLimit = 50

const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// ActivityFilter describe una pagina del catalogo. MinAge conserva actividades que
// aceptan esa edad como minimo; MaxAge, las que la aceptan como maximo.
type ActivityFilter struct {
	ActivityType string
	MinAge       *int
	MaxAge       *int
	IsActive     bool
	Skip         int
	Limit        int
}

type ActivityRepository interface {
	// ListCandidates devuelve actividades activas, elegibles para la edad y con fecha o recurrencia.
	ListCandidates(ctx context.Context, age, limit int) ([]domain.Activity, error)
	Create(ctx context.Context, activity domain.Activity) error
	List(ctx context.Context, filter ActivityFilter) ([]domain.Activity, error)
	GetByID(ctx context.Context, id string) (domain.Activity, error)
}

type PgActivityRepository struct {
	pool *pgxpool.Pool
}

func NewPgActivityRepository(pool *pgxpool.Pool) *PgActivityRepository {
	return &PgActivityRepository{pool: pool}
}

const activityColumns = `id, provider_id, COALESCE(venue_id::text, ''), name, description, activity_type,
	start_date, end_date, rrule, days_of_week, min_age, max_age, price_cents, has_scholarship,
	max_participants, attributes, canon_hash, is_active, created_at, updated_at`

func (r *PgActivityRepository) ListCandidates(ctx context.Context, age, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		limit = DefaultCandidateLimit
	}
	const query = `
		SELECT ` + activityColumns + `
		FROM activities
		WHERE is_active
		  AND (min_age IS NULL OR min_age <= $1)
		  AND (max_age IS NULL OR max_age >= $1)
		  AND (start_date IS NOT NULL OR rrule <> '')
		ORDER BY id
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, age, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

func (r *PgActivityRepository) List(ctx context.Context, f ActivityFilter) ([]domain.Activity, error) {
	query, args := activityListQuery(f)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// activityListQuery arma el WHERE segun los filtros presentes y pagina con OFFSET/LIMIT.
func activityListQuery(f ActivityFilter) (string, []any) {
	conds := []string{"is_active = $1"}
	args := []any{f.IsActive}
	if kind := strings.TrimSpace(f.ActivityType); kind != "" {
		args = append(args, strings.ToLower(kind))
		conds = append(conds, fmt.Sprintf("activity_type = $%d", len(args)))
	}
	if f.MinAge != nil {
		args = append(args, *f.MinAge)
		conds = append(conds, fmt.Sprintf("(min_age IS NULL OR min_age <= $%d)", len(args)))
	}
	if f.MaxAge != nil {
		args = append(args, *f.MaxAge)
		conds = append(conds, fmt.Sprintf("(max_age IS NULL OR max_age >= $%d)", len(args)))
	}
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	skip := f.Skip
	if skip < 0 {
		skip = 0
	}
	args = append(args, skip, limit)

	query := `SELECT ` + activityColumns + ` FROM activities WHERE ` + strings.Join(conds, " AND ") +
		fmt.Sprintf(" ORDER BY created_at DESC, id OFFSET $%d LIMIT $%d", len(args)-1, len(args))
	return query, args
}

func (r *PgActivityRepository) GetByID(ctx context.Context, id string) (domain.Activity, error) {
	const query = `SELECT ` + activityColumns + ` FROM activities WHERE id = $1`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return domain.Activity{}, err
	}
	defer rows.Close()

	activities, err := scanActivities(rows)
	if err != nil {
		return domain.Activity{}, err
	}
	if len(activities) == 0 {
		return domain.Activity{}, pgx.ErrNoRows
	}
	return activities[0], nil
}

// Create inserta una actividad ya validada. Devuelve ErrDuplicate si el canon_hash ya existe.
func (r *PgActivityRepository) Create(ctx context.Context, a domain.Activity) error {
	const query = `
		INSERT INTO activities (id, provider_id, venue_id, name, description, activity_type,
			start_date, end_date, rrule, days_of_week, min_age, max_age, price_cents, has_scholarship,
			max_participants, attributes, canon_hash, is_active, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (canon_hash) DO NOTHING
	`
	tag, err := r.pool.Exec(ctx, query,
		a.ID,
		a.ProviderID,
		a.VenueID,
		a.Name,
		a.Description,
		a.ActivityType,
		a.StartDate,
		a.EndDate,
		a.RRule,
		nonNil(a.DaysOfWeek),
		a.MinAge,
		a.MaxAge,
		a.PriceCents,
		a.HasScholarship,
		a.MaxParticipants,
		a.Attributes,
		a.CanonHash,
		a.IsActive,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDuplicate
	}
	return nil
}

func scanActivities(rows pgxRows) ([]domain.Activity, error) {
	var activities []domain.Activity
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(
			&a.ID,
			&a.ProviderID,
			&a.VenueID,
			&a.Name,
			&a.Description,
			&a.ActivityType,
			&a.StartDate,
			&a.EndDate,
			&a.RRule,
			&a.DaysOfWeek,
			&a.MinAge,
			&a.MaxAge,
			&a.PriceCents,
			&a.HasScholarship,
			&a.MaxParticipants,
			&a.Attributes,
			&a.CanonHash,
			&a.IsActive,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return activities, nil
}
