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

type leadRepository struct {
	pool *pgxpool.Pool
}

// NewLeadRepository returns a Postgres-backed implementation of LeadRepository.
func NewLeadRepository(pool *pgxpool.Pool) repository.LeadRepository {
	return &leadRepository{pool: pool}
}

func (r *leadRepository) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	const query = `
	SELECT id, franchise_id, name, phone, email, source, status, assigned_to,
	       last_activity, next_follow_up, booking_id, converted_at, archived, created_at, updated_at
	FROM leads
	WHERE id = $1 AND NOT archived
	`
	row := r.pool.QueryRow(ctx, query, id)
	return scanLead(row)
}

func (r *leadRepository) List(ctx context.Context, filter repository.LeadFilter) ([]domain.Lead, error) {
	const query = `
	SELECT id, franchise_id, name, phone, email, source, status, assigned_to,
	       last_activity, next_follow_up, booking_id, converted_at, archived, created_at, updated_at
	FROM leads
	WHERE archived = $1
	  AND ($2 = '' OR franchise_id = $2)
	  AND ($3 = '' OR status = $3)
	  AND ($4 = '' OR assigned_to = $4)
	ORDER BY created_at DESC
	LIMIT $5 OFFSET $6
	`
	rows, err := r.pool.Query(ctx, query,
		filter.Archived,
		filter.FranchiseID,
		filter.Status,
		filter.AssignedTo,
		clampLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []domain.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *lead)
	}
	return leads, rows.Err()
}

func (r *leadRepository) Create(ctx context.Context, lead *domain.Lead) (*domain.Lead, error) {
	if lead == nil {
		return nil, domain.ErrInvalidPayload
	}
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO leads (id, franchise_id, name, phone, email, source, status, assigned_to, last_activity, next_follow_up)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		lead.ID,
		lead.FranchiseID,
		lead.Name,
		lead.Phone,
		lead.Email,
		lead.Source,
		string(lead.Status),
		lead.AssignedTo,
		lead.LastActivity,
		lead.NextFollowUp,
	).Scan(&lead.CreatedAt, &lead.UpdatedAt); err != nil {
		return nil, err
	}

	return lead, nil
}

func (r *leadRepository) Update(ctx context.Context, lead *domain.Lead) error {
	if lead == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE leads
	SET franchise_id = $2,
		name = $3,
		phone = $4,
		email = $5,
		source = $6,
		status = $7,
		assigned_to = $8,
		last_activity = $9,
		next_follow_up = $10,
		booking_id = $11,
		converted_at = $12,
		updated_at = NOW()
	WHERE id = $1 AND NOT archived
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		lead.ID,
		lead.FranchiseID,
		lead.Name,
		lead.Phone,
		lead.Email,
		lead.Source,
		string(lead.Status),
		lead.AssignedTo,
		lead.LastActivity,
		lead.NextFollowUp,
		lead.BookingID,
		lead.ConvertedAt,
	).Scan(&lead.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrLeadNotFound
		}
		return err
	}

	return nil
}

func (r *leadRepository) Archive(ctx context.Context, id string) error {
	const query = `UPDATE leads SET archived = TRUE, updated_at = NOW() WHERE id = $1 AND NOT archived`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLeadNotFound
	}
	return nil
}

func scanLead(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Lead, error) {
	var lead domain.Lead
	var (
		status       string
		nextFollowUp *time.Time
		convertedAt  *time.Time
	)

	if err := row.Scan(
		&lead.ID,
		&lead.FranchiseID,
		&lead.Name,
		&lead.Phone,
		&lead.Email,
		&lead.Source,
		&status,
		&lead.AssignedTo,
		&lead.LastActivity,
		&nextFollowUp,
		&lead.BookingID,
		&convertedAt,
		&lead.Archived,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLeadNotFound
		}
		return nil, err
	}

	lead.Status = domain.LeadStatus(status)
	lead.NextFollowUp = nextFollowUp
	lead.ConvertedAt = convertedAt
	return &lead, nil
}
