package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dinehub/backend/domain"
	"github.com/dinehub/backend/repository"
)

type activityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository returns a Postgres-backed append-only activity log.
func NewActivityRepository(pool *pgxpool.Pool) repository.ActivityRepository {
	return &activityRepository{pool: pool}
}

func (r *activityRepository) Append(ctx context.Context, activity *domain.Activity) error {
	if activity == nil {
		return domain.ErrInvalidPayload
	}
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO activities (id, record_id, type, details, performed_by, performed_at, franchise_id)
	VALUES ($1, $2, $3, $4, $5, COALESCE($6, NOW()), $7)
	`
	_, err := r.pool.Exec(ctx, query,
		activity.ID,
		activity.RecordID,
		string(activity.Type),
		activity.Details,
		activity.PerformedBy,
		nullTime(activity.PerformedAt),
		activity.FranchiseID,
	)
	return err
}

func (r *activityRepository) ListByRecord(ctx context.Context, recordID string) ([]domain.Activity, error) {
	const query = `
	SELECT id, record_id, type, details, performed_by, performed_at, franchise_id
	FROM activities
	WHERE record_id = $1
	ORDER BY performed_at DESC
	`
	rows, err := r.pool.Query(ctx, query, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []domain.Activity
	for rows.Next() {
		var activity domain.Activity
		var typ string
		if err := rows.Scan(
			&activity.ID,
			&activity.RecordID,
			&typ,
			&activity.Details,
			&activity.PerformedBy,
			&activity.PerformedAt,
			&activity.FranchiseID,
		); err != nil {
			return nil, err
		}
		activity.Type = domain.ActivityType(typ)
		activities = append(activities, activity)
	}
	return activities, rows.Err()
}
