package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dinehub/backend/domain"
	"github.com/dinehub/backend/repository"
)

type followUpRepository struct {
	mu        sync.RWMutex
	followUps map[string]domain.FollowUp
}

// NewFollowUpRepository returns an in-memory implementation of FollowUpRepository.
func NewFollowUpRepository() repository.FollowUpRepository {
	return &followUpRepository{followUps: make(map[string]domain.FollowUp)}
}

func (r *followUpRepository) GetByID(ctx context.Context, id string) (*domain.FollowUp, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	followUp, ok := r.followUps[id]
	if !ok {
		return nil, domain.ErrFollowUpNotFound
	}
	out := followUp
	return &out, nil
}

func (r *followUpRepository) ListByLead(ctx context.Context, leadID string) ([]domain.FollowUp, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.FollowUp
	for _, followUp := range r.followUps {
		if followUp.LeadID == leadID {
			out = append(out, followUp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ScheduledFor.Before(out[j].ScheduledFor)
	})
	return out, nil
}

func (r *followUpRepository) Create(ctx context.Context, followUp *domain.FollowUp) (*domain.FollowUp, error) {
	if followUp == nil {
		return nil, domain.ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if followUp.ID == "" {
		followUp.ID = uuid.NewString()
	}
	if followUp.CreatedAt.IsZero() {
		followUp.CreatedAt = time.Now()
	}
	r.followUps[followUp.ID] = *followUp
	out := *followUp
	return &out, nil
}

func (r *followUpRepository) MarkCompleted(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	followUp, ok := r.followUps[id]
	if !ok {
		return domain.ErrFollowUpNotFound
	}
	// Completion is one-way; a second call leaves the original timestamp.
	if followUp.Completed {
		return nil
	}
	now := time.Now()
	followUp.Completed = true
	followUp.CompletedAt = &now
	r.followUps[id] = followUp
	return nil
}
