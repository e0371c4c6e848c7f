package access

import (
	"testing"
	"time"

	"github.com/dinehub/backend/domain"
)

func lead(id, franchise string) domain.Lead {
	return domain.Lead{ID: id, FranchiseID: franchise, Name: "Lead " + id, Status: domain.LeadStatusNew}
}

func leadIDs(leads []domain.Lead) []string {
	ids := make([]string, 0, len(leads))
	for _, l := range leads {
		ids = append(ids, l.ID)
	}
	return ids
}

func TestAuthorize(t *testing.T) {
	cases := []struct {
		name    string
		role    domain.Role
		actorF  string
		recordF string
		allow   bool
	}{
		{name: "superadmin matching franchise", role: domain.RoleSuperadmin, actorF: "f1", recordF: "f1", allow: true},
		{name: "superadmin foreign franchise", role: domain.RoleSuperadmin, actorF: "f1", recordF: "f2", allow: true},
		{name: "manager matching franchise", role: domain.RoleFranchiseManager, actorF: "f1", recordF: "f1", allow: true},
		{name: "manager foreign franchise", role: domain.RoleFranchiseManager, actorF: "f1", recordF: "f2", allow: false},
		{name: "manager without franchise", role: domain.RoleFranchiseManager, actorF: "", recordF: "f1", allow: false},
		{name: "staff without franchise on global record", role: domain.RoleStaff, actorF: "", recordF: "", allow: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			actor := &domain.Actor{ID: "a1", Role: tc.role, FranchiseID: tc.actorF}
			if got := Authorize(actor, tc.recordF); got != tc.allow {
				t.Fatalf("Authorize(%s/%q, %q) = %v, want %v", tc.role, tc.actorF, tc.recordF, got, tc.allow)
			}
		})
	}

	if Authorize(nil, "f1") {
		t.Fatal("Authorize(nil, ...) must be false")
	}
}

func TestVisibleLeadsRoleScoping(t *testing.T) {
	records := []domain.Lead{lead("r1", "f1"), lead("r2", "f2")}

	manager := &domain.Actor{ID: "a1", Role: domain.RoleFranchiseManager, FranchiseID: "f1"}
	got := VisibleLeads(records, manager, Criteria{FranchiseID: All, Status: All})
	if len(got) != 1 || got[0].ID != "r1" {
		t.Fatalf("manager visibility = %v, want [r1]", leadIDs(got))
	}

	// Criteria must not widen the scope past the actor's franchise.
	got = VisibleLeads(records, manager, Criteria{FranchiseID: "f2"})
	if len(got) != 1 || got[0].ID != "r1" {
		t.Fatalf("criteria leaked foreign records: %v", leadIDs(got))
	}
}

func TestVisibleLeadsFailClosed(t *testing.T) {
	records := []domain.Lead{lead("r1", "f1"), lead("r2", "")}
	orphan := &domain.Actor{ID: "a1", Role: domain.RoleStaff}

	if got := VisibleLeads(records, orphan, Criteria{}); len(got) != 0 {
		t.Fatalf("actor without franchise saw %v, want nothing", leadIDs(got))
	}
	if got := VisibleLeads(records, nil, Criteria{}); len(got) != 0 {
		t.Fatalf("nil actor saw %v, want nothing", leadIDs(got))
	}
}

func TestVisibleLeadsSuperadmin(t *testing.T) {
	records := []domain.Lead{lead("r1", "f1"), lead("r2", "f2"), lead("r3", "")}
	admin := &domain.Actor{ID: "root", Role: domain.RoleSuperadmin}

	if got := VisibleLeads(records, admin, Criteria{FranchiseID: All}); len(got) != 3 {
		t.Fatalf("superadmin with all saw %v, want every record", leadIDs(got))
	}
	got := VisibleLeads(records, admin, Criteria{FranchiseID: "f2"})
	if len(got) != 1 || got[0].ID != "r2" {
		t.Fatalf("superadmin narrowed to f2 saw %v, want [r2]", leadIDs(got))
	}
}

func TestVisibleLeadsCriteria(t *testing.T) {
	records := []domain.Lead{
		{ID: "r1", FranchiseID: "f1", Name: "Anna Kovacs", Phone: "+36201234567", Source: "website", Status: domain.LeadStatusNew, AssignedTo: "s1"},
		{ID: "r2", FranchiseID: "f1", Name: "Bela Toth", Phone: "+36309876543", Source: "walk_in", Status: domain.LeadStatusContacted, AssignedTo: "s2"},
		{ID: "r3", FranchiseID: "f1", Name: "Cecilia Nagy", Email: "cecilia@example.com", Source: "website", Status: domain.LeadStatusContacted, AssignedTo: "s1"},
	}
	admin := &domain.Actor{ID: "root", Role: domain.RoleSuperadmin}

	cases := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{name: "search by name fragment", criteria: Criteria{Search: "anna"}, want: []string{"r1"}},
		{name: "search by phone", criteria: Criteria{Search: "3630"}, want: []string{"r2"}},
		{name: "search by email", criteria: Criteria{Search: "example.com"}, want: []string{"r3"}},
		{name: "source filter", criteria: Criteria{Source: "website"}, want: []string{"r1", "r3"}},
		{name: "status filter", criteria: Criteria{Status: "contacted"}, want: []string{"r2", "r3"}},
		{name: "assignee filter", criteria: Criteria{AssignedTo: "s1"}, want: []string{"r1", "r3"}},
		{name: "all sentinel keeps everything", criteria: Criteria{Source: All, Status: All, AssignedTo: All}, want: []string{"r1", "r2", "r3"}},
		{name: "combined", criteria: Criteria{Source: "website", Status: "contacted"}, want: []string{"r3"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := leadIDs(VisibleLeads(records, admin, tc.criteria))
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("got %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestVisibleLeadsSort(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	records := []domain.Lead{
		{ID: "r1", FranchiseID: "f1", Name: "zeta", CreatedAt: base.Add(2 * time.Hour), UpdatedAt: base.Add(time.Hour)},
		{ID: "r2", FranchiseID: "f1", Name: "alpha", CreatedAt: base, UpdatedAt: base.Add(3 * time.Hour)},
		{ID: "r3", FranchiseID: "f1", Name: "Mid", CreatedAt: base.Add(time.Hour), UpdatedAt: base},
	}
	admin := &domain.Actor{ID: "root", Role: domain.RoleSuperadmin}

	got := leadIDs(VisibleLeads(records, admin, Criteria{SortField: "name"}))
	want := []string{"r2", "r3", "r1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("name asc = %v, want %v", got, want)
		}
	}

	got = leadIDs(VisibleLeads(records, admin, Criteria{SortField: "updated_at", SortDesc: true}))
	want = []string{"r2", "r1", "r3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("updated_at desc = %v, want %v", got, want)
		}
	}
}

func TestVisibleConversations(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	convs := []domain.Conversation{
		{ID: "c1", FranchiseID: "f1", GuestName: "Anna", Platform: "instagram", Status: domain.LeadStatusNew, ResponseTime: 5, LastMessageAt: base},
		{ID: "c2", FranchiseID: "f1", GuestName: "Bela", Platform: "whatsapp", Status: domain.LeadStatusContacted, ResponseTime: 45, LastMessageAt: base.Add(time.Hour)},
		{ID: "c3", FranchiseID: "f2", GuestName: "Cecil", Platform: "whatsapp", Status: domain.LeadStatusNew, ResponseTime: 90, LastMessageAt: base.Add(2 * time.Hour)},
	}

	manager := &domain.Actor{ID: "a1", Role: domain.RoleFranchiseManager, FranchiseID: "f1"}
	got := VisibleConversations(convs, manager, Criteria{})
	if len(got) != 2 || got[0].ID != "c2" || got[1].ID != "c1" {
		ids := make([]string, len(got))
		for i, c := range got {
			ids[i] = c.ID
		}
		t.Fatalf("manager conversations = %v, want [c2 c1] newest first", ids)
	}

	admin := &domain.Actor{ID: "root", Role: domain.RoleSuperadmin}
	got = VisibleConversations(convs, admin, Criteria{Platform: "whatsapp", MinResponseTime: 60})
	if len(got) != 1 || got[0].ID != "c3" {
		t.Fatalf("threshold filter returned %d conversations, want only c3", len(got))
	}
}
