package domain

import "time"

// ActivityType classifies an audit-trail entry.
type ActivityType string

const (
	ActivityNote         ActivityType = "note"
	ActivityStatusChange ActivityType = "status_change"
	ActivityFollowUp     ActivityType = "follow_up"
	ActivityMessage      ActivityType = "message"
	ActivityConversion   ActivityType = "conversion"
	ActivityContact      ActivityType = "contact"
)

// Activity is an immutable audit entry appended whenever a state-changing
// operation on a record succeeds. The franchise id is denormalized from the
// record at write time so the trail survives later reassignment.
type Activity struct {
	ID          string       `json:"id"`
	RecordID    string       `json:"record_id"`
	Type        ActivityType `json:"type"`
	Details     string       `json:"details"`
	PerformedBy string       `json:"performed_by"`
	PerformedAt time.Time    `json:"performed_at"`
	FranchiseID string       `json:"franchise_id,omitempty"`
}
