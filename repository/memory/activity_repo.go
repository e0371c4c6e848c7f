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

type activityRepository struct {
	mu      sync.RWMutex
	entries []domain.Activity
}

// NewActivityRepository returns an in-memory append-only activity log.
func NewActivityRepository() repository.ActivityRepository {
	return &activityRepository{}
}

func (r *activityRepository) Append(ctx context.Context, activity *domain.Activity) error {
	if activity == nil {
		return domain.ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	if activity.PerformedAt.IsZero() {
		activity.PerformedAt = time.Now()
	}
	r.entries = append(r.entries, *activity)
	return nil
}

func (r *activityRepository) ListByRecord(ctx context.Context, recordID string) ([]domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Activity
	for _, entry := range r.entries {
		if entry.RecordID == recordID {
			out = append(out, entry)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PerformedAt.After(out[j].PerformedAt)
	})
	return out, nil
}
