package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dinehub/backend/domain"
	"github.com/dinehub/backend/repository"
	"github.com/dinehub/backend/usecase"
	"github.com/dinehub/backend/usecase/access"
)

type UseCase struct {
	convs      repository.ConversationRepository
	activities repository.ActivityRepository
	buffer     usecase.OperationBuffer
	notifier   usecase.Notifier
	provider   usecase.MessageProvider
	scheduler  usecase.ProgressionScheduler
	logger     *zap.Logger
}

func New(
	convs repository.ConversationRepository,
	activities repository.ActivityRepository,
	buffer usecase.OperationBuffer,
	notifier usecase.Notifier,
	provider usecase.MessageProvider,
	scheduler usecase.ProgressionScheduler,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		convs:      convs,
		activities: activities,
		buffer:     buffer,
		notifier:   notifier,
		provider:   provider,
		scheduler:  scheduler,
		logger:     logger,
	}
}

// List returns the conversations visible to the actor, newest message first.
func (uc *UseCase) List(ctx context.Context, actor *domain.Actor, criteria access.Criteria) ([]domain.Conversation, error) {
	filter := repository.ConversationFilter{}
	if actor != nil && actor.Role != domain.RoleSuperadmin {
		if actor.FranchiseID == "" {
			return []domain.Conversation{}, nil
		}
		filter.FranchiseID = actor.FranchiseID
	}
	convs, err := uc.convs.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return access.VisibleConversations(convs, actor, criteria), nil
}

func (uc *UseCase) Get(ctx context.Context, actor *domain.Actor, id string) (*domain.Conversation, error) {
	return uc.authorized(ctx, actor, id)
}

// Messages returns the thread for a conversation the actor may see.
func (uc *UseCase) Messages(ctx context.Context, actor *domain.Actor, id string) ([]domain.Message, error) {
	if _, err := uc.authorized(ctx, actor, id); err != nil {
		return nil, err
	}
	return uc.convs.ListMessages(ctx, id)
}

// SendMessage delivers an outbound message over the chosen channel. The
// conversation must carry the contact info the channel requires; a provider
// failure leaves all state untouched. Sending to a conversation still in the
// "new" stage advances it to "contacted" as a side effect.
func (uc *UseCase) SendMessage(ctx context.Context, actor *domain.Actor, id, content string, channel domain.Channel) (*domain.Message, error) {
	if content == "" {
		return nil, domain.ErrInvalidPayload
	}
	conv, err := uc.authorized(ctx, actor, id)
	if err != nil {
		return nil, uc.fail(ctx, err)
	}
	if !conv.ContactFor(channel) {
		return nil, uc.fail(ctx, domain.ErrInvalidChannel)
	}

	if err := uc.provider.Send(ctx, conv, channel, content); err != nil {
		uc.logger.Warn("provider rejected message",
			zap.String("conversation_id", conv.ID),
			zap.String("channel", string(channel)),
			zap.Error(err))
		return nil, uc.fail(ctx, domain.WrapError(domain.ErrCodeUnavailable, domain.ErrSendFailed.Message, err))
	}

	msg := &domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conv.ID,
		Direction:      "outbound",
		Channel:        channel,
		Content:        content,
		Delivery:       domain.DeliverySent,
		SentBy:         actorID(actor),
		CreatedAt:      time.Now(),
	}
	if err := uc.convs.AppendMessage(ctx, msg); err != nil {
		return nil, uc.fail(ctx, err)
	}

	conv.LastMessage = content
	conv.LastMessageAt = msg.CreatedAt
	if conv.Status == domain.LeadStatusNew {
		conv.Status = domain.LeadStatusContacted
	}
	if err := uc.update(ctx, conv); err != nil {
		return nil, uc.fail(ctx, err)
	}
	uc.record(ctx, actor, conv, domain.ActivityMessage, "Message sent via "+string(channel))

	if uc.scheduler != nil {
		uc.scheduler.Schedule(conv.ID, msg.ID)
	}
	uc.notify(ctx, usecase.SeveritySuccess, "Message sent")
	return msg, nil
}

// UpdateStatus moves the conversation's pipeline stage.
func (uc *UseCase) UpdateStatus(ctx context.Context, actor *domain.Actor, id string, status domain.LeadStatus) (*domain.Conversation, error) {
	if !domain.ValidLeadStatus(status) {
		return nil, domain.ErrInvalidPayload
	}
	conv, err := uc.authorized(ctx, actor, id)
	if err != nil {
		return nil, uc.fail(ctx, err)
	}

	conv.Status = status
	if err := uc.update(ctx, conv); err != nil {
		return nil, uc.fail(ctx, err)
	}
	uc.record(ctx, actor, conv, domain.ActivityStatusChange, "Status changed to "+string(status))
	uc.notify(ctx, usecase.SeveritySuccess, "Conversation status updated")
	return conv, nil
}

// Reassign hands the conversation to another staff member.
func (uc *UseCase) Reassign(ctx context.Context, actor *domain.Actor, id, assignee string) (*domain.Conversation, error) {
	conv, err := uc.authorized(ctx, actor, id)
	if err != nil {
		return nil, uc.fail(ctx, err)
	}

	conv.AssignedTo = assignee
	if err := uc.update(ctx, conv); err != nil {
		return nil, uc.fail(ctx, err)
	}
	uc.record(ctx, actor, conv, domain.ActivityNote, "Conversation reassigned to "+assignee)
	uc.notify(ctx, usecase.SeveritySuccess, "Conversation reassigned")
	return conv, nil
}

// Archive removes the conversation from the working set and cancels any
// in-flight delivery progressions scheduled for it.
func (uc *UseCase) Archive(ctx context.Context, actor *domain.Actor, id string) error {
	conv, err := uc.authorized(ctx, actor, id)
	if err != nil {
		return uc.fail(ctx, err)
	}
	if err := uc.convs.Archive(ctx, id); err != nil {
		return uc.fail(ctx, err)
	}
	if uc.scheduler != nil {
		uc.scheduler.Cancel(id)
	}
	uc.record(ctx, actor, conv, domain.ActivityNote, "Conversation archived")
	uc.notify(ctx, usecase.SeveritySuccess, "Conversation archived")
	return nil
}

func (uc *UseCase) authorized(ctx context.Context, actor *domain.Actor, id string) (*domain.Conversation, error) {
	conv, err := uc.convs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.Authorize(actor, conv.FranchiseID) {
		return nil, domain.ErrPermissionDenied
	}
	return conv, nil
}

func (uc *UseCase) update(ctx context.Context, conv *domain.Conversation) error {
	err := uc.convs.Update(ctx, conv)
	if err == nil {
		return nil
	}
	if domain.IsDomainError(err, domain.ErrCodeNotFound) || uc.buffer == nil {
		return err
	}
	if bufErr := uc.buffer.BufferConversation(ctx, usecase.OperationUpdate, conv); bufErr != nil {
		uc.logger.Error("failed to buffer conversation update", zap.Error(bufErr))
		return err
	}
	uc.logger.Warn("conversation update buffered", zap.String("conversation_id", conv.ID), zap.Error(err))
	return nil
}

func (uc *UseCase) record(ctx context.Context, actor *domain.Actor, conv *domain.Conversation, typ domain.ActivityType, details string) {
	activity := &domain.Activity{
		ID:          uuid.NewString(),
		RecordID:    conv.ID,
		Type:        typ,
		Details:     details,
		PerformedBy: actorID(actor),
		PerformedAt: time.Now(),
		FranchiseID: conv.FranchiseID,
	}
	if err := uc.activities.Append(ctx, activity); err != nil {
		uc.logger.Warn("failed to append activity",
			zap.String("conversation_id", conv.ID),
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
