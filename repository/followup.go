package repository

import (
	"context"

	"github.com/dinehub/backend/domain"
)

type FollowUpRepository interface {
	GetByID(ctx context.Context, id string) (*domain.FollowUp, error)
	ListByLead(ctx context.Context, leadID string) ([]domain.FollowUp, error)
	Create(ctx context.Context, followUp *domain.FollowUp) (*domain.FollowUp, error)
	MarkCompleted(ctx context.Context, id string) error
}
