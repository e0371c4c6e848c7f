package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dinehub/backend/domain"
	"github.com/dinehub/backend/repository"
	"github.com/dinehub/backend/usecase"
)

// Progression advances the delivery state of sent messages on cancellable
// timers: sent -> delivered -> read. Archiving a conversation cancels every
// progression still pending for it.
type Progression struct {
	convs          repository.ConversationRepository
	deliveredAfter time.Duration
	readAfter      time.Duration
	logger         *zap.Logger

	mu      sync.Mutex
	pending map[string]map[string][]*time.Timer
	closed  bool
}

func NewProgression(convs repository.ConversationRepository, deliveredAfter, readAfter time.Duration, logger *zap.Logger) *Progression {
	if deliveredAfter <= 0 {
		deliveredAfter = 2 * time.Second
	}
	if readAfter <= deliveredAfter {
		readAfter = deliveredAfter + 4*time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Progression{
		convs:          convs,
		deliveredAfter: deliveredAfter,
		readAfter:      readAfter,
		logger:         logger,
		pending:        make(map[string]map[string][]*time.Timer),
	}
}

// Schedule queues the delivered and read transitions for a freshly sent message.
func (p *Progression) Schedule(conversationID, messageID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	delivered := time.AfterFunc(p.deliveredAfter, func() {
		p.advance(conversationID, messageID, domain.DeliveryDelivered, false)
	})
	read := time.AfterFunc(p.readAfter, func() {
		p.advance(conversationID, messageID, domain.DeliveryRead, true)
	})

	byMessage, ok := p.pending[conversationID]
	if !ok {
		byMessage = make(map[string][]*time.Timer)
		p.pending[conversationID] = byMessage
	}
	byMessage[messageID] = []*time.Timer{delivered, read}
}

// Cancel stops all in-flight progressions for a conversation.
func (p *Progression) Cancel(conversationID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, timers := range p.pending[conversationID] {
		for _, timer := range timers {
			timer.Stop()
		}
	}
	delete(p.pending, conversationID)
}

// Close cancels everything; used during shutdown.
func (p *Progression) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	for conversationID, byMessage := range p.pending {
		for _, timers := range byMessage {
			for _, timer := range timers {
				timer.Stop()
			}
		}
		delete(p.pending, conversationID)
	}
}

func (p *Progression) advance(conversationID, messageID string, state domain.DeliveryState, final bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := p.convs.UpdateMessageDelivery(ctx, messageID, state); err != nil {
		p.logger.Warn("delivery progression failed",
			zap.String("message_id", messageID),
			zap.String("state", string(state)),
			zap.Error(err))
	}

	if final {
		p.mu.Lock()
		if byMessage, ok := p.pending[conversationID]; ok {
			delete(byMessage, messageID)
			if len(byMessage) == 0 {
				delete(p.pending, conversationID)
			}
		}
		p.mu.Unlock()
	}
}

var _ usecase.ProgressionScheduler = (*Progression)(nil)
