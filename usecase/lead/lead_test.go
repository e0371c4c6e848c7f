package lead

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinehub/backend/domain"
	"github.com/dinehub/backend/repository/memory"
	"github.com/dinehub/backend/usecase/access"
)

type recordedExport struct {
	filename string
	header   []string
	rows     [][]string
}

type fakeExporter struct {
	exports []recordedExport
	err     error
}

func (e *fakeExporter) Export(_ context.Context, filename string, header []string, rows [][]string) error {
	if e.err != nil {
		return e.err
	}
	e.exports = append(e.exports, recordedExport{filename: filename, header: header, rows: rows})
	return nil
}

func newTestUseCase(t *testing.T) (*UseCase, *fakeExporter) {
	t.Helper()
	exporter := &fakeExporter{}
	uc := New(
		memory.NewLeadRepository(),
		memory.NewActivityRepository(),
		memory.NewFollowUpRepository(),
		nil,
		nil,
		exporter,
		nil,
	)
	return uc, exporter
}

func superadmin() *domain.Actor {
	return &domain.Actor{ID: "admin-1", Role: domain.RoleSuperadmin}
}

func manager(franchiseID string) *domain.Actor {
	return &domain.Actor{ID: "mgr-1", Role: domain.RoleFranchiseManager, FranchiseID: franchiseID}
}

func seedLead(t *testing.T, uc *UseCase, franchiseID string) *domain.Lead {
	t.Helper()
	created, err := uc.Create(context.Background(), superadmin(), &domain.Lead{
		FranchiseID: franchiseID,
		Name:        "Walk-in guest",
		Phone:       "+33612345678",
		Source:      "website",
	})
	require.NoError(t, err)
	return created
}

func TestUpdateStatus(t *testing.T) {
	uc, _ := newTestUseCase(t)
	lead := seedLead(t, uc, "fr-paris")

	updated, err := uc.UpdateStatus(context.Background(), manager("fr-paris"), lead.ID, domain.LeadStatusContacted)
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusContacted, updated.Status)
	assert.Equal(t, "Status changed to contacted", updated.LastActivity)

	activities, err := uc.Activities(context.Background(), superadmin(), lead.ID)
	require.NoError(t, err)
	require.NotEmpty(t, activities)
	assert.Equal(t, domain.ActivityStatusChange, activities[0].Type)
	assert.Equal(t, "fr-paris", activities[0].FranchiseID)
}

func TestUpdateStatusRejectsUnknownStage(t *testing.T) {
	uc, _ := newTestUseCase(t)
	lead := seedLead(t, uc, "fr-paris")

	_, err := uc.UpdateStatus(context.Background(), superadmin(), lead.ID, "vanished")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestMutationGateBlocksForeignFranchise(t *testing.T) {
	uc, _ := newTestUseCase(t)
	lead := seedLead(t, uc, "fr-paris")

	_, err := uc.UpdateStatus(context.Background(), manager("fr-lyon"), lead.ID, domain.LeadStatusContacted)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	// The record must be left untouched after a denied mutation.
	got, err := uc.Get(context.Background(), superadmin(), lead.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusNew, got.Status)
	assert.Equal(t, lead.UpdatedAt, got.UpdatedAt)
}

func TestMutationGateBlocksFranchiselessActor(t *testing.T) {
	uc, _ := newTestUseCase(t)
	lead := seedLead(t, uc, "fr-paris")

	_, err := uc.Reassign(context.Background(), manager(""), lead.ID, "staff-2")
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestReassignRecordsPreviousAssignee(t *testing.T) {
	uc, _ := newTestUseCase(t)
	lead := seedLead(t, uc, "fr-paris")

	updated, err := uc.Reassign(context.Background(), manager("fr-paris"), lead.ID, "staff-2")
	require.NoError(t, err)
	assert.Equal(t, "staff-2", updated.AssignedTo)
	assert.Equal(t, "Reassigned from unassigned to staff-2", updated.LastActivity)
}

func TestAddNoteRequiresText(t *testing.T) {
	uc, _ := newTestUseCase(t)
	lead := seedLead(t, uc, "fr-paris")

	err := uc.AddNote(context.Background(), superadmin(), lead.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)

	err = uc.AddNote(context.Background(), superadmin(), lead.ID, "prefers window table")
	require.NoError(t, err)

	activities, err := uc.Activities(context.Background(), superadmin(), lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "prefers window table", activities[0].Details)
}

func TestAddFollowUpStampsLead(t *testing.T) {
	uc, _ := newTestUseCase(t)
	lead := seedLead(t, uc, "fr-paris")
	when := time.Now().Add(48 * time.Hour).Truncate(time.Second)

	followUp, err := uc.AddFollowUp(context.Background(), manager("fr-paris"), lead.ID, "call back", when)
	require.NoError(t, err)
	assert.Equal(t, lead.ID, followUp.LeadID)
	assert.False(t, followUp.Completed)

	got, err := uc.Get(context.Background(), superadmin(), lead.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusFollowUp, got.Status)
	require.NotNil(t, got.NextFollowUp)
	assert.True(t, got.NextFollowUp.Equal(when))
}

func TestCompleteFollowUpIsIdempotent(t *testing.T) {
	uc, _ := newTestUseCase(t)
	lead := seedLead(t, uc, "fr-paris")

	followUp, err := uc.AddFollowUp(context.Background(), superadmin(), lead.ID, "call back", time.Now().Add(time.Hour))
	require.NoError(t, err)

	require.NoError(t, uc.CompleteFollowUp(context.Background(), superadmin(), followUp.ID))
	before, err := uc.Activities(context.Background(), superadmin(), lead.ID)
	require.NoError(t, err)

	// Second completion is a no-op: no error, no extra activity.
	require.NoError(t, uc.CompleteFollowUp(context.Background(), superadmin(), followUp.ID))
	after, err := uc.Activities(context.Background(), superadmin(), lead.ID)
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

func TestCompleteFollowUpEnforcesGate(t *testing.T) {
	uc, _ := newTestUseCase(t)
	lead := seedLead(t, uc, "fr-paris")

	followUp, err := uc.AddFollowUp(context.Background(), superadmin(), lead.ID, "call back", time.Now().Add(time.Hour))
	require.NoError(t, err)

	err = uc.CompleteFollowUp(context.Background(), manager("fr-lyon"), followUp.ID)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestConvertToBooking(t *testing.T) {
	uc, _ := newTestUseCase(t)
	lead := seedLead(t, uc, "fr-paris")

	converted, err := uc.ConvertToBooking(context.Background(), manager("fr-paris"), lead.ID, "bk-42")
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusConverted, converted.Status)
	assert.Equal(t, "bk-42", converted.BookingID)
	require.NotNil(t, converted.ConvertedAt)

	// Converting twice is a conflict.
	_, err = uc.ConvertToBooking(context.Background(), manager("fr-paris"), lead.ID, "bk-43")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeConflict))
}

func TestConvertToBookingEnforcesGate(t *testing.T) {
	uc, _ := newTestUseCase(t)
	lead := seedLead(t, uc, "fr-paris")

	_, err := uc.ConvertToBooking(context.Background(), manager("fr-lyon"), lead.ID, "bk-42")
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestActivitiesNewestFirst(t *testing.T) {
	uc, _ := newTestUseCase(t)
	lead := seedLead(t, uc, "fr-paris")

	_, err := uc.UpdateStatus(context.Background(), superadmin(), lead.ID, domain.LeadStatusContacted)
	require.NoError(t, err)
	require.NoError(t, uc.AddNote(context.Background(), superadmin(), lead.ID, "left a voicemail"))

	activities, err := uc.Activities(context.Background(), superadmin(), lead.ID)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(activities), 2)
	for i := 1; i < len(activities); i++ {
		assert.False(t, activities[i-1].PerformedAt.Before(activities[i].PerformedAt))
	}
}

func TestCreateForcesActorFranchise(t *testing.T) {
	uc, _ := newTestUseCase(t)

	created, err := uc.Create(context.Background(), manager("fr-lyon"), &domain.Lead{
		Name:        "Phone enquiry",
		FranchiseID: "fr-paris",
	})
	require.NoError(t, err)
	assert.Equal(t, "fr-lyon", created.FranchiseID)
	assert.Equal(t, domain.LeadStatusNew, created.Status)
}

func TestListScopesToActorFranchise(t *testing.T) {
	uc, _ := newTestUseCase(t)
	seedLead(t, uc, "fr-paris")
	seedLead(t, uc, "fr-lyon")

	visible, err := uc.List(context.Background(), manager("fr-paris"), access.Criteria{})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "fr-paris", visible[0].FranchiseID)

	all, err := uc.List(context.Background(), superadmin(), access.Criteria{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// A non-superadmin without a franchise sees nothing.
	none, err := uc.List(context.Background(), manager(""), access.Criteria{})
	require.NoError(t, err)
	assert.Empty(t, none)
}
