package repository

import (
	"context"

	"github.com/dinehub/backend/domain"
)

type ConversationFilter struct {
	FranchiseID string
	Platform    string
	Status      string
	Archived    bool
	Limit       int
	Offset      int
}

type ConversationRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Conversation, error)
	List(ctx context.Context, filter ConversationFilter) ([]domain.Conversation, error)
	Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error)
	Update(ctx context.Context, conv *domain.Conversation) error
	Archive(ctx context.Context, id string) error
	AppendMessage(ctx context.Context, msg *domain.Message) error
	ListMessages(ctx context.Context, conversationID string) ([]domain.Message, error)
	UpdateMessageDelivery(ctx context.Context, messageID string, state domain.DeliveryState) error
}
