package domain

import "time"

// LeadStatus follows the pipeline new -> contacted -> follow_up -> converted | dropped.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusFollowUp  LeadStatus = "follow_up"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusDropped   LeadStatus = "dropped"
)

// ValidLeadStatus reports whether s names a known pipeline stage.
func ValidLeadStatus(s LeadStatus) bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusFollowUp, LeadStatusConverted, LeadStatusDropped:
		return true
	}
	return false
}

// Lead represents a franchise-scoped prospect. ID and FranchiseID are
// immutable after creation except through an explicit franchise reassignment.
type Lead struct {
	ID           string     `json:"id"`
	FranchiseID  string     `json:"franchise_id,omitempty"`
	Name         string     `json:"name"`
	Phone        string     `json:"phone,omitempty"`
	Email        string     `json:"email,omitempty"`
	Source       string     `json:"source,omitempty"`
	Status       LeadStatus `json:"status"`
	AssignedTo   string     `json:"assigned_to,omitempty"`
	LastActivity string     `json:"last_activity,omitempty"`
	NextFollowUp *time.Time `json:"next_follow_up,omitempty"`
	BookingID    string     `json:"booking_id,omitempty"`
	ConvertedAt  *time.Time `json:"converted_at,omitempty"`
	Archived     bool       `json:"archived,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (l *Lead) Scope() string {
	if l == nil {
		return ""
	}
	return l.FranchiseID
}

func (l *Lead) IsTerminal() bool {
	return l != nil && (l.Status == LeadStatusConverted || l.Status == LeadStatusDropped)
}

func (l *Lead) Touch() {
	if l == nil {
		return
	}
	l.UpdatedAt = time.Now()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = l.UpdatedAt
	}
}
