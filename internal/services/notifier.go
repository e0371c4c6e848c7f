package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/dinehub/backend/pkg/logger"
	"github.com/dinehub/backend/usecase"
)

// LogNotifier is the default notification sink: user-visible feedback is
// emitted as structured log entries tagged with the request id, which the
// API edge forwards to clients out of band.
type LogNotifier struct {
	base *zap.Logger
}

func NewLogNotifier(base *zap.Logger) *LogNotifier {
	if base == nil {
		base = zap.NewNop()
	}
	return &LogNotifier{base: base}
}

func (n *LogNotifier) Notify(ctx context.Context, severity usecase.Severity, message string) {
	log := logger.WithRequestID(ctx, n.base)
	switch severity {
	case usecase.SeverityError:
		log.Warn("notification", zap.String("severity", string(severity)), zap.String("message", message))
	default:
		log.Info("notification", zap.String("severity", string(severity)), zap.String("message", message))
	}
}

var _ usecase.Notifier = (*LogNotifier)(nil)
