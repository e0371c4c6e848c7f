package services

import (
	"context"
	"math/rand"

	"go.uber.org/zap"

	"github.com/dinehub/backend/domain"
	"github.com/dinehub/backend/usecase"
)

// SimulatedProvider stands in for the real messaging gateway. A configurable
// failure rate lets staging environments exercise the failed-send path.
type SimulatedProvider struct {
	failureRate float64
	logger      *zap.Logger
}

func NewSimulatedProvider(failureRate float64, logger *zap.Logger) *SimulatedProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SimulatedProvider{failureRate: failureRate, logger: logger}
}

func (p *SimulatedProvider) Send(ctx context.Context, conv *domain.Conversation, channel domain.Channel, content string) error {
	if p.failureRate > 0 && rand.Float64() < p.failureRate {
		return domain.NewError(domain.ErrCodeUnavailable, "provider rejected delivery")
	}
	p.logger.Debug("message handed to provider",
		zap.String("conversation_id", conv.ID),
		zap.String("channel", string(channel)),
		zap.Int("length", len(content)))
	return nil
}

var _ usecase.MessageProvider = (*SimulatedProvider)(nil)
