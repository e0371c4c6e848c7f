package domain

import "time"

// Session represents a cached authentication session stored in Redis.
// Role and franchise are captured at login and stay fixed for the session
// lifetime, so visibility decisions never depend on ambient state.
type Session struct {
	ID          string            `json:"id"`
	ActorID     string            `json:"actor_id"`
	Role        Role              `json:"role"`
	FranchiseID string            `json:"franchise_id,omitempty"`
	ExpiresAt   time.Time         `json:"expires_at"`
	CreatedAt   time.Time         `json:"created_at"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

func (s *Session) IsExpired(reference time.Time) bool {
	if s == nil {
		return true
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	return !s.ExpiresAt.After(reference)
}
