package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dinehub/backend/domain"
	"github.com/dinehub/backend/repository"
)

type UseCase struct {
	actors   repository.ActorRepository
	sessions repository.SessionRepository
	logger   *zap.Logger
}

func New(actors repository.ActorRepository, sessions repository.SessionRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		actors:   actors,
		sessions: sessions,
		logger:   logger,
	}
}

// CreateSession opens a work session for the actor. Role and franchise are
// captured into the session at login and stay fixed until it expires.
func (uc *UseCase) CreateSession(ctx context.Context, actorID string, ttl time.Duration) (*domain.Session, error) {
	actor, err := uc.actors.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:          uuid.NewString(),
		ActorID:     actor.ID,
		Role:        actor.Role,
		FranchiseID: actor.FranchiseID,
		CreatedAt:   time.Now(),
		ExpiresAt:   time.Now().Add(ttl),
	}

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (uc *UseCase) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (uc *UseCase) RefreshSession(ctx context.Context, sessionID string, ttl time.Duration) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := uc.sessions.Extend(ctx, sessionID, int(ttl.Seconds())); err != nil {
		return nil, err
	}
	session.ExpiresAt = time.Now().Add(ttl)
	return session, nil
}

func (uc *UseCase) RevokeSession(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}

// Resolve loads the acting identity for a request.
func (uc *UseCase) Resolve(ctx context.Context, actorID string) (*domain.Actor, error) {
	return uc.actors.GetByID(ctx, actorID)
}
