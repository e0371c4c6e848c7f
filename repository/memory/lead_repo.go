// Package memory provides in-memory repository implementations. They back
// unit tests and the memory storage driver, and uphold the single-writer
// invariant over each record with a store-level mutex.
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

type leadRepository struct {
	mu    sync.RWMutex
	leads map[string]domain.Lead
}

// NewLeadRepository returns an in-memory implementation of LeadRepository.
func NewLeadRepository() repository.LeadRepository {
	return &leadRepository{leads: make(map[string]domain.Lead)}
}

func (r *leadRepository) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lead, ok := r.leads[id]
	if !ok || lead.Archived {
		return nil, domain.ErrLeadNotFound
	}
	out := lead
	return &out, nil
}

func (r *leadRepository) List(ctx context.Context, filter repository.LeadFilter) ([]domain.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Lead, 0, len(r.leads))
	for _, lead := range r.leads {
		if lead.Archived != filter.Archived {
			continue
		}
		if filter.FranchiseID != "" && lead.FranchiseID != filter.FranchiseID {
			continue
		}
		if filter.Status != "" && string(lead.Status) != filter.Status {
			continue
		}
		if filter.AssignedTo != "" && lead.AssignedTo != filter.AssignedTo {
			continue
		}
		out = append(out, lead)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (r *leadRepository) Create(ctx context.Context, lead *domain.Lead) (*domain.Lead, error) {
	if lead == nil {
		return nil, domain.ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	now := time.Now()
	lead.CreatedAt = now
	lead.UpdatedAt = now
	r.leads[lead.ID] = *lead
	out := *lead
	return &out, nil
}

func (r *leadRepository) Update(ctx context.Context, lead *domain.Lead) error {
	if lead == nil {
		return domain.ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.leads[lead.ID]; !ok {
		return domain.ErrLeadNotFound
	}
	lead.UpdatedAt = time.Now()
	r.leads[lead.ID] = *lead
	return nil
}

func (r *leadRepository) Archive(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lead, ok := r.leads[id]
	if !ok || lead.Archived {
		return domain.ErrLeadNotFound
	}
	lead.Archived = true
	lead.UpdatedAt = time.Now()
	r.leads[id] = lead
	return nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
