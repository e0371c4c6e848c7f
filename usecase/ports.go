package usecase

import (
	"context"

	"github.com/dinehub/backend/domain"
)

const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// OperationBuffer abstracts the offline buffer so use cases stay storage-agnostic.
type OperationBuffer interface {
	BufferLead(ctx context.Context, operation string, lead *domain.Lead) error
	BufferConversation(ctx context.Context, operation string, conv *domain.Conversation) error
}

// Severity classifies a user-visible notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notifier is the user-visible feedback sink. Implementations must never fail
// the operation that emits the notification.
type Notifier interface {
	Notify(ctx context.Context, severity Severity, message string)
}

// Exporter hands a selected subset of rows to an external formatter/sink.
type Exporter interface {
	Export(ctx context.Context, filename string, header []string, rows [][]string) error
}

// MessageProvider delivers an outbound message over the chosen channel.
// A returned error means nothing was sent.
type MessageProvider interface {
	Send(ctx context.Context, conv *domain.Conversation, channel domain.Channel, content string) error
}

// ProgressionScheduler advances the simulated delivery state of sent messages
// at a later turn. Cancel stops all in-flight progressions for a conversation.
type ProgressionScheduler interface {
	Schedule(conversationID, messageID string)
	Cancel(conversationID string)
}
