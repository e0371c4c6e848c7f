package services

import (
	"context"
	"encoding/json"

	"github.com/dinehub/backend/domain"
	"github.com/dinehub/backend/internal/infrastructure/buffer"
	"github.com/dinehub/backend/usecase"
)

type BufferBridge struct {
	processor *BufferProcessor
}

func NewBufferBridge(processor *BufferProcessor) *BufferBridge {
	return &BufferBridge{processor: processor}
}

func (b *BufferBridge) BufferLead(ctx context.Context, operation string, lead *domain.Lead) error {
	if b.processor == nil || lead == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(lead)
	if err != nil {
		return err
	}
	item := buffer.Item{
		ID:          lead.ID,
		FranchiseID: lead.FranchiseID,
		Entity:      buffer.EntityLead,
		Operation:   operation,
		Data:        payload,
		Priority:    4,
	}
	return b.processor.BufferOperation(ctx, item)
}

func (b *BufferBridge) BufferConversation(ctx context.Context, operation string, conv *domain.Conversation) error {
	if b.processor == nil || conv == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(conv)
	if err != nil {
		return err
	}
	item := buffer.Item{
		ID:          conv.ID,
		FranchiseID: conv.FranchiseID,
		Entity:      buffer.EntityConversation,
		Operation:   operation,
		Data:        payload,
		Priority:    3,
	}
	return b.processor.BufferOperation(ctx, item)
}

var _ usecase.OperationBuffer = (*BufferBridge)(nil)
