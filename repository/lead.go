package repository

import (
	"context"

	"github.com/dinehub/backend/domain"
)

type LeadFilter struct {
	FranchiseID string
	Status      string
	AssignedTo  string
	Archived    bool
	Limit       int
	Offset      int
}

type LeadRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Lead, error)
	List(ctx context.Context, filter LeadFilter) ([]domain.Lead, error)
	Create(ctx context.Context, lead *domain.Lead) (*domain.Lead, error)
	Update(ctx context.Context, lead *domain.Lead) error
	Archive(ctx context.Context, id string) error
}
