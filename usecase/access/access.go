// Package access implements the tenant-visibility filter and the mutation
// gate. Both are pure: every decision is a function of the actor and the
// records passed in, never of ambient state.
package access

import (
	"sort"
	"strings"

	"github.com/dinehub/backend/domain"
)

// All is the criteria sentinel meaning "no narrowing".
const All = "all"

// Criteria captures the ephemeral filter state of a single listing request.
type Criteria struct {
	Search          string
	Source          string
	Platform        string
	FranchiseID     string
	Status          string
	AssignedTo      string
	MinResponseTime int
	SortField       string
	SortDesc        bool
}

func wantAll(value string) bool {
	return value == "" || value == All
}

// Authorize is the mutation gate: an actor may mutate a record iff they are
// superadmin or the record belongs to their franchise. Evaluated per
// operation, never cached.
func Authorize(actor *domain.Actor, franchiseID string) bool {
	if actor == nil {
		return false
	}
	if actor.Role == domain.RoleSuperadmin {
		return true
	}
	return actor.FranchiseID != "" && actor.FranchiseID == franchiseID
}

// scoped applies the role-scoping step shared by all record kinds. It runs
// before any other criterion so no filter can leak cross-franchise records.
// A non-superadmin without a franchise sees nothing (fail closed).
func scoped(actor *domain.Actor, recordFranchise string, criteria Criteria) bool {
	if actor == nil {
		return false
	}
	if actor.Role != domain.RoleSuperadmin {
		if actor.FranchiseID == "" {
			return false
		}
		return recordFranchise == actor.FranchiseID
	}
	if !wantAll(criteria.FranchiseID) {
		return recordFranchise == criteria.FranchiseID
	}
	return true
}

func matchesSearch(query string, fields ...string) bool {
	if query == "" {
		return true
	}
	query = strings.ToLower(query)
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

// VisibleLeads returns the subset of leads the actor may see, filtered by the
// criteria and sorted by the requested field and direction.
func VisibleLeads(leads []domain.Lead, actor *domain.Actor, criteria Criteria) []domain.Lead {
	out := make([]domain.Lead, 0, len(leads))
	for _, lead := range leads {
		if !scoped(actor, lead.FranchiseID, criteria) {
			continue
		}
		if !matchesSearch(criteria.Search, lead.Name, lead.Phone, lead.Email) {
			continue
		}
		if !wantAll(criteria.Source) && lead.Source != criteria.Source {
			continue
		}
		if !wantAll(criteria.Status) && string(lead.Status) != criteria.Status {
			continue
		}
		if !wantAll(criteria.AssignedTo) && lead.AssignedTo != criteria.AssignedTo {
			continue
		}
		out = append(out, lead)
	}
	sortLeads(out, criteria.SortField, criteria.SortDesc)
	return out
}

// VisibleConversations returns the subset of conversations the actor may see,
// sorted by most recent message first.
func VisibleConversations(convs []domain.Conversation, actor *domain.Actor, criteria Criteria) []domain.Conversation {
	out := make([]domain.Conversation, 0, len(convs))
	for _, conv := range convs {
		if !scoped(actor, conv.FranchiseID, criteria) {
			continue
		}
		if !matchesSearch(criteria.Search, conv.GuestName, conv.Phone, conv.Email, conv.ExternalID) {
			continue
		}
		if !wantAll(criteria.Platform) && conv.Platform != criteria.Platform {
			continue
		}
		if !wantAll(criteria.Status) && string(conv.Status) != criteria.Status {
			continue
		}
		if !wantAll(criteria.AssignedTo) && conv.AssignedTo != criteria.AssignedTo {
			continue
		}
		if criteria.MinResponseTime > 0 && conv.ResponseTime <= criteria.MinResponseTime {
			continue
		}
		out = append(out, conv)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastMessageAt.After(out[j].LastMessageAt)
	})
	return out
}

func sortLeads(leads []domain.Lead, field string, desc bool) {
	less := leadLess(field)
	sort.SliceStable(leads, func(i, j int) bool {
		if desc {
			return less(leads[j], leads[i])
		}
		return less(leads[i], leads[j])
	})
}

// leadLess returns an ascending comparator for the named field. Date-valued
// fields compare by their epoch value; unknown fields fall back to creation
// time.
func leadLess(field string) func(a, b domain.Lead) bool {
	switch field {
	case "name":
		return func(a, b domain.Lead) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case "status":
		return func(a, b domain.Lead) bool { return a.Status < b.Status }
	case "source":
		return func(a, b domain.Lead) bool { return a.Source < b.Source }
	case "updated_at":
		return func(a, b domain.Lead) bool { return a.UpdatedAt.UnixNano() < b.UpdatedAt.UnixNano() }
	case "next_follow_up":
		return func(a, b domain.Lead) bool {
			return followUpEpoch(a) < followUpEpoch(b)
		}
	default:
		return func(a, b domain.Lead) bool { return a.CreatedAt.UnixNano() < b.CreatedAt.UnixNano() }
	}
}

func followUpEpoch(lead domain.Lead) int64 {
	if lead.NextFollowUp == nil {
		return 0
	}
	return lead.NextFollowUp.UnixNano()
}
