package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dinehub/backend/domain"
	"github.com/dinehub/backend/repository"
)

type actorRepository struct {
	mu     sync.RWMutex
	actors map[string]domain.Actor
}

// NewActorRepository returns an in-memory implementation of ActorRepository.
func NewActorRepository() repository.ActorRepository {
	return &actorRepository{actors: make(map[string]domain.Actor)}
}

func (r *actorRepository) GetByID(ctx context.Context, id string) (*domain.Actor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	actor, ok := r.actors[id]
	if !ok {
		return nil, domain.ErrActorNotFound
	}
	out := actor
	return &out, nil
}

func (r *actorRepository) Upsert(ctx context.Context, actor *domain.Actor) error {
	if actor == nil || actor.ID == "" {
		return domain.ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if existing, ok := r.actors[actor.ID]; ok {
		actor.CreatedAt = existing.CreatedAt
	} else if actor.CreatedAt.IsZero() {
		actor.CreatedAt = now
	}
	actor.UpdatedAt = now
	r.actors[actor.ID] = *actor
	return nil
}
