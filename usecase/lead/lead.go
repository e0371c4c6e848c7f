package lead

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dinehub/backend/domain"
	"github.com/dinehub/backend/repository"
	"github.com/dinehub/backend/usecase"
	"github.com/dinehub/backend/usecase/access"
)

type UseCase struct {
	leads      repository.LeadRepository
	activities repository.ActivityRepository
	followUps  repository.FollowUpRepository
	buffer     usecase.OperationBuffer
	notifier   usecase.Notifier
	exporter   usecase.Exporter
	logger     *zap.Logger
}

func New(
	leads repository.LeadRepository,
	activities repository.ActivityRepository,
	followUps repository.FollowUpRepository,
	buffer usecase.OperationBuffer,
	notifier usecase.Notifier,
	exporter usecase.Exporter,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		leads:      leads,
		activities: activities,
		followUps:  followUps,
		buffer:     buffer,
		notifier:   notifier,
		exporter:   exporter,
		logger:     logger,
	}
}

// List returns the leads visible to the actor under the given criteria. The
// repository narrows by franchise for non-superadmins; the access filter then
// applies the full criteria pass over the loaded set.
func (uc *UseCase) List(ctx context.Context, actor *domain.Actor, criteria access.Criteria) ([]domain.Lead, error) {
	filter := repository.LeadFilter{}
	if actor != nil && actor.Role != domain.RoleSuperadmin {
		if actor.FranchiseID == "" {
			return []domain.Lead{}, nil
		}
		filter.FranchiseID = actor.FranchiseID
	}
	leads, err := uc.leads.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return access.VisibleLeads(leads, actor, criteria), nil
}

func (uc *UseCase) Get(ctx context.Context, actor *domain.Actor, id string) (*domain.Lead, error) {
	lead, err := uc.leads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.Authorize(actor, lead.FranchiseID) {
		return nil, domain.ErrPermissionDenied
	}
	return lead, nil
}

func (uc *UseCase) Create(ctx context.Context, actor *domain.Actor, lead *domain.Lead) (*domain.Lead, error) {
	if lead == nil || lead.Name == "" {
		return nil, domain.ErrInvalidPayload
	}
	if actor != nil && actor.Role != domain.RoleSuperadmin {
		lead.FranchiseID = actor.FranchiseID
	}
	if !access.Authorize(actor, lead.FranchiseID) {
		return nil, domain.ErrPermissionDenied
	}
	if lead.Status == "" {
		lead.Status = domain.LeadStatusNew
	}
	created, err := uc.leads.Create(ctx, lead)
	if err != nil {
		return nil, err
	}
	uc.record(ctx, actor, created, domain.ActivityContact, "Lead created")
	return created, nil
}

// UpdateStatus moves the lead to a new pipeline stage and records the change.
func (uc *UseCase) UpdateStatus(ctx context.Context, actor *domain.Actor, id string, status domain.LeadStatus) (*domain.Lead, error) {
	if !domain.ValidLeadStatus(status) {
		return nil, domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("unknown lead status %q", status))
	}
	lead, err := uc.authorized(ctx, actor, id)
	if err != nil {
		return nil, uc.fail(ctx, err)
	}

	lead.Status = status
	lead.LastActivity = fmt.Sprintf("Status changed to %s", status)
	lead.Touch()

	if err := uc.update(ctx, lead); err != nil {
		return nil, uc.fail(ctx, err)
	}
	uc.record(ctx, actor, lead, domain.ActivityStatusChange, lead.LastActivity)
	uc.notify(ctx, usecase.SeveritySuccess, "Lead status updated")
	return lead, nil
}

// Reassign hands the lead to another staff member.
func (uc *UseCase) Reassign(ctx context.Context, actor *domain.Actor, id, assignee string) (*domain.Lead, error) {
	lead, err := uc.authorized(ctx, actor, id)
	if err != nil {
		return nil, uc.fail(ctx, err)
	}

	previous := lead.AssignedTo
	lead.AssignedTo = assignee
	lead.LastActivity = fmt.Sprintf("Reassigned from %s to %s", orUnassigned(previous), orUnassigned(assignee))
	lead.Touch()

	if err := uc.update(ctx, lead); err != nil {
		return nil, uc.fail(ctx, err)
	}
	uc.record(ctx, actor, lead, domain.ActivityNote, lead.LastActivity)
	uc.notify(ctx, usecase.SeveritySuccess, "Lead reassigned")
	return lead, nil
}

// AddNote appends a note activity without changing the lead's pipeline state.
func (uc *UseCase) AddNote(ctx context.Context, actor *domain.Actor, id, text string) error {
	if text == "" {
		return domain.ErrInvalidPayload
	}
	lead, err := uc.authorized(ctx, actor, id)
	if err != nil {
		return uc.fail(ctx, err)
	}

	lead.LastActivity = "Note added"
	lead.Touch()
	if err := uc.update(ctx, lead); err != nil {
		return uc.fail(ctx, err)
	}
	uc.record(ctx, actor, lead, domain.ActivityNote, text)
	uc.notify(ctx, usecase.SeveritySuccess, "Note added")
	return nil
}

// AddFollowUp schedules a touchpoint and stamps the lead's next follow-up date.
func (uc *UseCase) AddFollowUp(ctx context.Context, actor *domain.Actor, id string, notes string, scheduledFor time.Time) (*domain.FollowUp, error) {
	lead, err := uc.authorized(ctx, actor, id)
	if err != nil {
		return nil, uc.fail(ctx, err)
	}

	followUp := &domain.FollowUp{
		ID:           uuid.NewString(),
		LeadID:       lead.ID,
		ScheduledFor: scheduledFor,
		Notes:        notes,
		AssignedTo:   lead.AssignedTo,
		CreatedBy:    actorID(actor),
		CreatedAt:    time.Now(),
	}
	created, err := uc.followUps.Create(ctx, followUp)
	if err != nil {
		return nil, uc.fail(ctx, err)
	}

	lead.NextFollowUp = &created.ScheduledFor
	lead.Status = domain.LeadStatusFollowUp
	lead.LastActivity = fmt.Sprintf("Follow-up scheduled for %s", scheduledFor.Format("2006-01-02 15:04"))
	lead.Touch()
	if err := uc.update(ctx, lead); err != nil {
		return nil, uc.fail(ctx, err)
	}
	uc.record(ctx, actor, lead, domain.ActivityFollowUp, lead.LastActivity)
	uc.notify(ctx, usecase.SeveritySuccess, "Follow-up scheduled")
	return created, nil
}

// CompleteFollowUp flips the follow-up to completed. Completing an already
// completed follow-up is a successful no-op and appends no second activity.
func (uc *UseCase) CompleteFollowUp(ctx context.Context, actor *domain.Actor, followUpID string) error {
	followUp, err := uc.followUps.GetByID(ctx, followUpID)
	if err != nil {
		return uc.fail(ctx, err)
	}
	lead, err := uc.leads.GetByID(ctx, followUp.LeadID)
	if err != nil {
		return uc.fail(ctx, err)
	}
	if !access.Authorize(actor, lead.FranchiseID) {
		return uc.fail(ctx, domain.ErrPermissionDenied)
	}
	if followUp.Completed {
		return nil
	}

	if err := uc.followUps.MarkCompleted(ctx, followUpID); err != nil {
		return uc.fail(ctx, err)
	}
	lead.LastActivity = "Follow-up completed"
	lead.Touch()
	if err := uc.update(ctx, lead); err != nil {
		return uc.fail(ctx, err)
	}
	uc.record(ctx, actor, lead, domain.ActivityNote, "Follow-up completed: "+followUp.Notes)
	uc.notify(ctx, usecase.SeveritySuccess, "Follow-up completed")
	return nil
}

// ConvertToBooking moves the lead to the terminal converted state and links
// the booking that came out of it.
func (uc *UseCase) ConvertToBooking(ctx context.Context, actor *domain.Actor, id, bookingID string) (*domain.Lead, error) {
	lead, err := uc.authorized(ctx, actor, id)
	if err != nil {
		return nil, uc.fail(ctx, err)
	}
	if lead.Status == domain.LeadStatusConverted {
		return nil, uc.fail(ctx, domain.NewError(domain.ErrCodeConflict, "lead already converted"))
	}

	now := time.Now()
	lead.Status = domain.LeadStatusConverted
	lead.ConvertedAt = &now
	lead.BookingID = bookingID
	lead.LastActivity = "Converted to booking " + bookingID
	lead.Touch()

	if err := uc.update(ctx, lead); err != nil {
		return nil, uc.fail(ctx, err)
	}
	uc.record(ctx, actor, lead, domain.ActivityConversion, lead.LastActivity)
	uc.notify(ctx, usecase.SeveritySuccess, "Lead converted to booking")
	return lead, nil
}

// Activities returns the lead's audit trail, newest first.
func (uc *UseCase) Activities(ctx context.Context, actor *domain.Actor, id string) ([]domain.Activity, error) {
	lead, err := uc.leads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.Authorize(actor, lead.FranchiseID) {
		return nil, domain.ErrPermissionDenied
	}
	return uc.activities.ListByRecord(ctx, id)
}

// authorized loads the lead and runs the mutation gate.
func (uc *UseCase) authorized(ctx context.Context, actor *domain.Actor, id string) (*domain.Lead, error) {
	lead, err := uc.leads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.Authorize(actor, lead.FranchiseID) {
		return nil, domain.ErrPermissionDenied
	}
	return lead, nil
}

// update persists the lead, falling back to the offline buffer when the
// primary store rejects the write for infrastructure reasons.
func (uc *UseCase) update(ctx context.Context, lead *domain.Lead) error {
	err := uc.leads.Update(ctx, lead)
	if err == nil {
		return nil
	}
	if domain.IsDomainError(err, domain.ErrCodeNotFound) || uc.buffer == nil {
		return err
	}
	if bufErr := uc.buffer.BufferLead(ctx, usecase.OperationUpdate, lead); bufErr != nil {
		uc.logger.Error("failed to buffer lead update", zap.Error(bufErr))
		return err
	}
	uc.logger.Warn("lead update buffered", zap.String("lead_id", lead.ID), zap.Error(err))
	return nil
}

// record appends an audit activity. Recorder failures are logged, never
// surfaced: the mutation itself already succeeded.
func (uc *UseCase) record(ctx context.Context, actor *domain.Actor, lead *domain.Lead, typ domain.ActivityType, details string) {
	activity := &domain.Activity{
		ID:          uuid.NewString(),
		RecordID:    lead.ID,
		Type:        typ,
		Details:     details,
		PerformedBy: actorID(actor),
		PerformedAt: time.Now(),
		FranchiseID: lead.FranchiseID,
	}
	if err := uc.activities.Append(ctx, activity); err != nil {
		uc.logger.Warn("failed to append activity",
			zap.String("lead_id", lead.ID),
			zap.String("type", string(typ)),
			zap.Error(err))
	}
}

func (uc *UseCase) notify(ctx context.Context, severity usecase.Severity, message string) {
	if uc.notifier != nil {
		uc.notifier.Notify(ctx, severity, message)
	}
}

func (uc *UseCase) fail(ctx context.Context, err error) error {
	uc.notify(ctx, usecase.SeverityError, err.Error())
	return err
}

func actorID(actor *domain.Actor) string {
	if actor == nil {
		return ""
	}
	return actor.ID
}

func orUnassigned(id string) string {
	if id == "" {
		return "unassigned"
	}
	return id
}
