package lead

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dinehub/backend/domain"
	"github.com/dinehub/backend/usecase"
	"github.com/dinehub/backend/usecase/access"
)

// BulkOperation names a mutation applied across a selected set of lead ids.
type BulkOperation string

const (
	BulkArchive           BulkOperation = "archive"
	BulkReassignFranchise BulkOperation = "reassign_franchise"
	BulkUpdateStatus      BulkOperation = "update_status"
	BulkExport            BulkOperation = "export"
)

// BulkParams carries the operation-specific arguments.
type BulkParams struct {
	FranchiseID string
	Status      domain.LeadStatus
	Filename    string
}

// BulkResult reports which ids were touched. Callers treat Applied as the new
// (empty) selection: a finished bulk action always clears the selected set.
type BulkResult struct {
	Applied []string `json:"applied"`
	Skipped []string `json:"skipped"`
}

type bulkHandler func(ctx context.Context, actor *domain.Actor, lead *domain.Lead, params BulkParams) error

// BulkApply runs one operation over every selected lead. Ids absent from the
// store are silently skipped. The mutation gate is enforced per item up
// front: if any present lead fails the gate the whole batch is rejected
// before a single write happens.
func (uc *UseCase) BulkApply(ctx context.Context, actor *domain.Actor, ids []string, op BulkOperation, params BulkParams) (BulkResult, error) {
	handlers := map[BulkOperation]bulkHandler{
		BulkArchive:           uc.bulkArchive,
		BulkReassignFranchise: uc.bulkReassignFranchise,
		BulkUpdateStatus:      uc.bulkUpdateStatus,
	}

	if op == BulkUpdateStatus && !domain.ValidLeadStatus(params.Status) {
		return BulkResult{}, domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("unknown lead status %q", params.Status))
	}

	result := BulkResult{Applied: []string{}, Skipped: []string{}}
	var selected []*domain.Lead
	for _, id := range ids {
		lead, err := uc.leads.GetByID(ctx, id)
		if err != nil {
			if domain.IsDomainError(err, domain.ErrCodeNotFound) {
				result.Skipped = append(result.Skipped, id)
				continue
			}
			return BulkResult{}, uc.fail(ctx, err)
		}
		selected = append(selected, lead)
	}

	for _, lead := range selected {
		if !access.Authorize(actor, lead.FranchiseID) {
			return BulkResult{}, uc.fail(ctx, domain.ErrPermissionDenied)
		}
	}

	if op == BulkExport {
		if err := uc.bulkExport(ctx, selected, params); err != nil {
			return BulkResult{}, uc.fail(ctx, err)
		}
		for _, lead := range selected {
			result.Applied = append(result.Applied, lead.ID)
		}
		uc.notify(ctx, usecase.SeveritySuccess, fmt.Sprintf("Exported %d leads", len(result.Applied)))
		return result, nil
	}

	handler, ok := handlers[op]
	if !ok {
		return BulkResult{}, domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("unknown bulk operation %q", op))
	}

	for _, lead := range selected {
		if err := handler(ctx, actor, lead, params); err != nil {
			uc.logger.Error("bulk operation failed mid-batch",
				zap.String("operation", string(op)),
				zap.String("lead_id", lead.ID),
				zap.Error(err))
			return result, uc.fail(ctx, err)
		}
		result.Applied = append(result.Applied, lead.ID)
	}

	uc.notify(ctx, usecase.SeveritySuccess, fmt.Sprintf("Applied %s to %d leads", op, len(result.Applied)))
	return result, nil
}

func (uc *UseCase) bulkArchive(ctx context.Context, actor *domain.Actor, lead *domain.Lead, _ BulkParams) error {
	if err := uc.leads.Archive(ctx, lead.ID); err != nil {
		return err
	}
	lead.Archived = true
	uc.record(ctx, actor, lead, domain.ActivityNote, "Lead archived")
	return nil
}

func (uc *UseCase) bulkReassignFranchise(ctx context.Context, actor *domain.Actor, lead *domain.Lead, params BulkParams) error {
	previous := lead.FranchiseID
	lead.FranchiseID = params.FranchiseID
	lead.LastActivity = fmt.Sprintf("Moved from franchise %s to %s", orUnassigned(previous), orUnassigned(params.FranchiseID))
	lead.Touch()
	if err := uc.update(ctx, lead); err != nil {
		return err
	}
	uc.record(ctx, actor, lead, domain.ActivityNote, lead.LastActivity)
	return nil
}

func (uc *UseCase) bulkUpdateStatus(ctx context.Context, actor *domain.Actor, lead *domain.Lead, params BulkParams) error {
	lead.Status = params.Status
	lead.LastActivity = fmt.Sprintf("Status changed to %s", params.Status)
	lead.Touch()
	if err := uc.update(ctx, lead); err != nil {
		return err
	}
	uc.record(ctx, actor, lead, domain.ActivityStatusChange, lead.LastActivity)
	return nil
}

func (uc *UseCase) bulkExport(ctx context.Context, selected []*domain.Lead, params BulkParams) error {
	if uc.exporter == nil {
		return domain.NewError(domain.ErrCodeUnavailable, "export is not configured")
	}
	filename := params.Filename
	if filename == "" {
		filename = "leads.csv"
	}
	header := []string{"id", "franchise_id", "name", "phone", "email", "source", "status", "assigned_to", "created_at"}
	rows := make([][]string, 0, len(selected))
	for _, lead := range selected {
		rows = append(rows, []string{
			lead.ID,
			lead.FranchiseID,
			lead.Name,
			lead.Phone,
			lead.Email,
			lead.Source,
			string(lead.Status),
			lead.AssignedTo,
			lead.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return uc.exporter.Export(ctx, filename, header, rows)
}
