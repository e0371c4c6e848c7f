package domain

import "time"

// FollowUp is a scheduled touchpoint against a lead. Completion is a one-way
// flip: once completed it never reverts.
type FollowUp struct {
	ID           string     `json:"id"`
	LeadID       string     `json:"lead_id"`
	ScheduledFor time.Time  `json:"scheduled_for"`
	Notes        string     `json:"notes,omitempty"`
	Completed    bool       `json:"completed"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	AssignedTo   string     `json:"assigned_to,omitempty"`
	CreatedBy    string     `json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
}
