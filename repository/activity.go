package repository

import (
	"context"

	"github.com/dinehub/backend/domain"
)

// ActivityRepository is append-only: activities are never updated or deleted.
type ActivityRepository interface {
	Append(ctx context.Context, activity *domain.Activity) error
	ListByRecord(ctx context.Context, recordID string) ([]domain.Activity, error)
}
