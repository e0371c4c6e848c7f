package repository

import (
	"context"

	"github.com/dinehub/backend/domain"
)

type ActorRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Actor, error)
	Upsert(ctx context.Context, actor *domain.Actor) error
}
