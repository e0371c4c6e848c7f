package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dinehub/backend/domain"
	"github.com/dinehub/backend/repository"
)

type conversationRepository struct {
	mu       sync.RWMutex
	convs    map[string]domain.Conversation
	messages map[string][]domain.Message
}

// NewConversationRepository returns an in-memory implementation of ConversationRepository.
func NewConversationRepository() repository.ConversationRepository {
	return &conversationRepository{
		convs:    make(map[string]domain.Conversation),
		messages: make(map[string][]domain.Message),
	}
}

func (r *conversationRepository) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conv, ok := r.convs[id]
	if !ok || conv.Archived {
		return nil, domain.ErrConversationNotFound
	}
	out := conv
	return &out, nil
}

func (r *conversationRepository) List(ctx context.Context, filter repository.ConversationFilter) ([]domain.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Conversation, 0, len(r.convs))
	for _, conv := range r.convs {
		if conv.Archived != filter.Archived {
			continue
		}
		if filter.FranchiseID != "" && conv.FranchiseID != filter.FranchiseID {
			continue
		}
		if filter.Platform != "" && conv.Platform != filter.Platform {
			continue
		}
		if filter.Status != "" && string(conv.Status) != filter.Status {
			continue
		}
		out = append(out, conv)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastMessageAt.After(out[j].LastMessageAt)
	})
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (r *conversationRepository) Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error) {
	if conv == nil {
		return nil, domain.ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if conv.ID == "" {
		conv.ID = uuid.NewString()
	}
	now := time.Now()
	conv.CreatedAt = now
	conv.UpdatedAt = now
	r.convs[conv.ID] = *conv
	out := *conv
	return &out, nil
}

func (r *conversationRepository) Update(ctx context.Context, conv *domain.Conversation) error {
	if conv == nil {
		return domain.ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.convs[conv.ID]; !ok {
		return domain.ErrConversationNotFound
	}
	conv.UpdatedAt = time.Now()
	r.convs[conv.ID] = *conv
	return nil
}

func (r *conversationRepository) Archive(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.convs[id]
	if !ok || conv.Archived {
		return domain.ErrConversationNotFound
	}
	conv.Archived = true
	conv.UpdatedAt = time.Now()
	r.convs[id] = conv
	return nil
}

func (r *conversationRepository) AppendMessage(ctx context.Context, msg *domain.Message) error {
	if msg == nil {
		return domain.ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.convs[msg.ConversationID]; !ok {
		return domain.ErrConversationNotFound
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	r.messages[msg.ConversationID] = append(r.messages[msg.ConversationID], *msg)
	return nil
}

func (r *conversationRepository) ListMessages(ctx context.Context, conversationID string) ([]domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	msgs := r.messages[conversationID]
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (r *conversationRepository) UpdateMessageDelivery(ctx context.Context, messageID string, state domain.DeliveryState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for convID, msgs := range r.messages {
		for i := range msgs {
			if msgs[i].ID == messageID {
				msgs[i].Delivery = state
				r.messages[convID] = msgs
				return nil
			}
		}
	}
	return domain.ErrConversationNotFound
}
