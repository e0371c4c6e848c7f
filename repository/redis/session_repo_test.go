package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"

	"github.com/dinehub/backend/domain"
	"github.com/dinehub/backend/repository"
)

func setupTestRepo(t *testing.T) (repository.SessionRepository, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	opts, err := redislib.ParseURL("redis://" + s.Addr())
	if err != nil {
		t.Fatalf("failed to parse miniredis url: %v", err)
	}
	return NewSessionRepository(redislib.NewClient(opts), time.Hour), s
}

func TestSaveAndGetSession(t *testing.T) {
	repo, s := setupTestRepo(t)
	defer s.Close()

	ctx := context.Background()
	session := &domain.Session{
		ID:          "sess-1",
		ActorID:     "actor-1",
		Role:        domain.RoleFranchiseManager,
		FranchiseID: "f1",
		ExpiresAt:   time.Now().Add(time.Hour),
	}

	if err := repo.Save(ctx, session); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ActorID != "actor-1" || got.Role != domain.RoleFranchiseManager || got.FranchiseID != "f1" {
		t.Errorf("session lost actor scope: %+v", got)
	}
}

func TestGetMissingSession(t *testing.T) {
	repo, s := setupTestRepo(t)
	defer s.Close()

	_, err := repo.Get(context.Background(), "nope")
	if err != domain.ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionExpiry(t *testing.T) {
	repo, s := setupTestRepo(t)
	defer s.Close()

	ctx := context.Background()
	session := &domain.Session{
		ID:        "sess-2",
		ActorID:   "actor-2",
		Role:      domain.RoleStaff,
		ExpiresAt: time.Now().Add(50 * time.Millisecond),
	}
	if err := repo.Save(ctx, session); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	s.FastForward(time.Second)

	if _, err := repo.Get(ctx, "sess-2"); err == nil {
		t.Error("expected error for expired session, got nil")
	}
}

func TestDeleteAndExtend(t *testing.T) {
	repo, s := setupTestRepo(t)
	defer s.Close()

	ctx := context.Background()
	session := &domain.Session{
		ID:        "sess-3",
		ActorID:   "actor-3",
		Role:      domain.RoleSuperadmin,
		ExpiresAt: time.Now().Add(time.Minute),
	}
	if err := repo.Save(ctx, session); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := repo.Extend(ctx, "sess-3", 3600); err != nil {
		t.Fatalf("Extend failed: %v", err)
	}
	ttl := s.TTL("session:sess-3")
	if ttl < 59*time.Minute {
		t.Errorf("expected extended ttl, got %v", ttl)
	}

	if err := repo.Delete(ctx, "sess-3"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.Get(ctx, "sess-3"); err != domain.ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
	}
}
