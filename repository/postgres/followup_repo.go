package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dinehub/backend/domain"
	"github.com/dinehub/backend/repository"
)

type followUpRepository struct {
	pool *pgxpool.Pool
}

// NewFollowUpRepository returns a Postgres-backed implementation of FollowUpRepository.
func NewFollowUpRepository(pool *pgxpool.Pool) repository.FollowUpRepository {
	return &followUpRepository{pool: pool}
}

func (r *followUpRepository) GetByID(ctx context.Context, id string) (*domain.FollowUp, error) {
	const query = `
	SELECT id, lead_id, scheduled_for, notes, completed, completed_at, assigned_to, created_by, created_at
	FROM follow_ups
	WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	return scanFollowUp(row)
}

func (r *followUpRepository) ListByLead(ctx context.Context, leadID string) ([]domain.FollowUp, error) {
	const query = `
	SELECT id, lead_id, scheduled_for, notes, completed, completed_at, assigned_to, created_by, created_at
	FROM follow_ups
	WHERE lead_id = $1
	ORDER BY scheduled_for ASC
	`
	rows, err := r.pool.Query(ctx, query, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var followUps []domain.FollowUp
	for rows.Next() {
		followUp, err := scanFollowUp(rows)
		if err != nil {
			return nil, err
		}
		followUps = append(followUps, *followUp)
	}
	return followUps, rows.Err()
}

func (r *followUpRepository) Create(ctx context.Context, followUp *domain.FollowUp) (*domain.FollowUp, error) {
	if followUp == nil {
		return nil, domain.ErrInvalidPayload
	}
	if followUp.ID == "" {
		followUp.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO follow_ups (id, lead_id, scheduled_for, notes, assigned_to, created_by)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		followUp.ID,
		followUp.LeadID,
		followUp.ScheduledFor,
		followUp.Notes,
		followUp.AssignedTo,
		followUp.CreatedBy,
	).Scan(&followUp.CreatedAt); err != nil {
		return nil, err
	}

	return followUp, nil
}

// MarkCompleted flips completed once; already completed rows are untouched so
// the original completion timestamp survives repeat calls.
func (r *followUpRepository) MarkCompleted(ctx context.Context, id string) error {
	const query = `
	UPDATE follow_ups
	SET completed = TRUE, completed_at = NOW()
	WHERE id = $1 AND NOT completed
	`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		const exists = `SELECT 1 FROM follow_ups WHERE id = $1`
		var one int
		if err := r.pool.QueryRow(ctx, exists, id).Scan(&one); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrFollowUpNotFound
			}
			return err
		}
	}
	return nil
}

func scanFollowUp(row interface {
	Scan(dest ...interface{}) error
}) (*domain.FollowUp, error) {
	var followUp domain.FollowUp
	var completedAt *time.Time

	if err := row.Scan(
		&followUp.ID,
		&followUp.LeadID,
		&followUp.ScheduledFor,
		&followUp.Notes,
		&followUp.Completed,
		&completedAt,
		&followUp.AssignedTo,
		&followUp.CreatedBy,
		&followUp.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFollowUpNotFound
		}
		return nil, err
	}

	followUp.CompletedAt = completedAt
	return &followUp, nil
}
