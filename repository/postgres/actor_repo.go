package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dinehub/backend/domain"
	"github.com/dinehub/backend/repository"
)

type actorRepository struct {
	pool *pgxpool.Pool
}

// NewActorRepository instantiates a Postgres-backed actor repository.
func NewActorRepository(pool *pgxpool.Pool) repository.ActorRepository {
	return &actorRepository{pool: pool}
}

func (r *actorRepository) GetByID(ctx context.Context, id string) (*domain.Actor, error) {
	const query = `
		SELECT id, email, name, role, franchise_id, status, created_at, updated_at
		FROM actors
		WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)

	var actor domain.Actor
	var role string

	if err := row.Scan(&actor.ID, &actor.Email, &actor.Name, &role, &actor.FranchiseID, &actor.Status, &actor.CreatedAt, &actor.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrActorNotFound
		}
		return nil, err
	}

	actor.Role = domain.Role(role)
	return &actor, nil
}

func (r *actorRepository) Upsert(ctx context.Context, actor *domain.Actor) error {
	if actor == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO actors (id, email, name, role, franchise_id, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()), NOW())
	ON CONFLICT (id) DO UPDATE
	SET email = EXCLUDED.email,
		name = EXCLUDED.name,
		role = EXCLUDED.role,
		franchise_id = EXCLUDED.franchise_id,
		status = EXCLUDED.status,
		updated_at = NOW()
	RETURNING created_at, updated_at;
	`

	var createdAt, updatedAt time.Time

	if err := r.pool.QueryRow(ctx, query,
		actor.ID,
		actor.Email,
		actor.Name,
		string(actor.Role),
		actor.FranchiseID,
		actor.Status,
		nullTime(actor.CreatedAt),
	).Scan(&createdAt, &updatedAt); err != nil {
		return err
	}

	actor.CreatedAt = createdAt
	actor.UpdatedAt = updatedAt
	return nil
}
