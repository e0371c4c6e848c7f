package lead

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinehub/backend/domain"
)

func TestBulkApplySkipsMissingIDs(t *testing.T) {
	uc, _ := newTestUseCase(t)
	a := seedLead(t, uc, "fr-paris")
	b := seedLead(t, uc, "fr-paris")

	result, err := uc.BulkApply(context.Background(), superadmin(),
		[]string{a.ID, "gone-1", b.ID, "gone-2"}, BulkUpdateStatus, BulkParams{Status: domain.LeadStatusContacted})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, result.Applied)
	assert.ElementsMatch(t, []string{"gone-1", "gone-2"}, result.Skipped)
}

func TestBulkApplyRejectsWholeBatchOnGateFailure(t *testing.T) {
	uc, _ := newTestUseCase(t)
	mine := seedLead(t, uc, "fr-paris")
	foreign := seedLead(t, uc, "fr-lyon")

	_, err := uc.BulkApply(context.Background(), manager("fr-paris"),
		[]string{mine.ID, foreign.ID}, BulkUpdateStatus, BulkParams{Status: domain.LeadStatusContacted})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	// Nothing may have been written, not even to the lead the actor owns.
	got, err := uc.Get(context.Background(), superadmin(), mine.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusNew, got.Status)
}

func TestBulkArchive(t *testing.T) {
	uc, _ := newTestUseCase(t)
	a := seedLead(t, uc, "fr-paris")
	b := seedLead(t, uc, "fr-paris")

	result, err := uc.BulkApply(context.Background(), manager("fr-paris"),
		[]string{a.ID, b.ID}, BulkArchive, BulkParams{})
	require.NoError(t, err)
	assert.Len(t, result.Applied, 2)

	// Archived leads drop out of the working set.
	_, err = uc.Get(context.Background(), superadmin(), a.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestBulkReassignFranchise(t *testing.T) {
	uc, _ := newTestUseCase(t)
	a := seedLead(t, uc, "fr-paris")

	_, err := uc.BulkApply(context.Background(), superadmin(),
		[]string{a.ID}, BulkReassignFranchise, BulkParams{FranchiseID: "fr-lyon"})
	require.NoError(t, err)

	got, err := uc.Get(context.Background(), superadmin(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "fr-lyon", got.FranchiseID)

	// The record is now out of reach for the old franchise's manager.
	_, err = uc.Get(context.Background(), manager("fr-paris"), a.ID)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestBulkUpdateStatusValidatesStage(t *testing.T) {
	uc, _ := newTestUseCase(t)
	a := seedLead(t, uc, "fr-paris")

	_, err := uc.BulkApply(context.Background(), superadmin(),
		[]string{a.ID}, BulkUpdateStatus, BulkParams{Status: "teleported"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestBulkExport(t *testing.T) {
	uc, exporter := newTestUseCase(t)
	a := seedLead(t, uc, "fr-paris")
	b := seedLead(t, uc, "fr-paris")

	result, err := uc.BulkApply(context.Background(), manager("fr-paris"),
		[]string{a.ID, b.ID, "gone"}, BulkExport, BulkParams{Filename: "paris.csv"})
	require.NoError(t, err)
	assert.Len(t, result.Applied, 2)
	assert.Equal(t, []string{"gone"}, result.Skipped)

	require.Len(t, exporter.exports, 1)
	export := exporter.exports[0]
	assert.Equal(t, "paris.csv", export.filename)
	assert.Equal(t, "id", export.header[0])
	assert.Len(t, export.rows, 2)

	// Export is read-only: the leads stay in the working set untouched.
	got, err := uc.Get(context.Background(), superadmin(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusNew, got.Status)
}

func TestBulkApplyUnknownOperation(t *testing.T) {
	uc, _ := newTestUseCase(t)
	a := seedLead(t, uc, "fr-paris")

	_, err := uc.BulkApply(context.Background(), superadmin(), []string{a.ID}, "detonate", BulkParams{})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}
