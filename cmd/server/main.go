package main

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/dinehub/backend/api/handler"
	"github.com/dinehub/backend/internal/config"
	"github.com/dinehub/backend/internal/infrastructure/buffer"
	"github.com/dinehub/backend/internal/infrastructure/monitor"
	pgInfra "github.com/dinehub/backend/internal/infrastructure/postgres"
	redisInfra "github.com/dinehub/backend/internal/infrastructure/redis"
	"github.com/dinehub/backend/internal/middleware"
	"github.com/dinehub/backend/internal/router"
	"github.com/dinehub/backend/internal/services"
	"github.com/dinehub/backend/internal/services/lifecycle"
	"github.com/dinehub/backend/pkg/httpcontext"
	"github.com/dinehub/backend/pkg/logger"
	"github.com/dinehub/backend/repository"
	"github.com/dinehub/backend/repository/memory"
	"github.com/dinehub/backend/repository/postgres"
	redisRepo "github.com/dinehub/backend/repository/redis"
	authUC "github.com/dinehub/backend/usecase/auth"
	chatUC "github.com/dinehub/backend/usecase/chat"
	leadUC "github.com/dinehub/backend/usecase/lead"
)

type repositories struct {
	leads      repository.LeadRepository
	convs      repository.ConversationRepository
	activities repository.ActivityRepository
	followUps  repository.FollowUpRepository
	actors     repository.ActorRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	repos, pool := buildRepositories(appCtx, cfg, manager, zapLogger)

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	bufferStore, err := buffer.Open(cfg.Buffer.Path, "buffer")
	if err != nil {
		zapLogger.Fatal("failed to open buffer store", zap.Error(err))
	}
	manager.Register("buffer", func(ctx context.Context) error {
		return bufferStore.Close()
	})

	mon := monitor.New(pool, redisClient, bufferStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	sessionRepo := redisRepo.NewSessionRepository(redisClient, 24*time.Hour)

	bufferProcessor := services.NewBufferProcessor(
		bufferStore,
		mon,
		repos.leads,
		repos.convs,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  50,
			MaxRetries: cfg.Buffer.MaxRetry,
		},
	)
	bufferProcessor.Start()
	manager.Register("buffer_processor", func(ctx context.Context) error {
		bufferProcessor.Stop(ctx)
		return nil
	})

	bufferBridge := services.NewBufferBridge(bufferProcessor)
	notifier := services.NewLogNotifier(zapLogger)
	exporter := services.NewCSVExporter(cfg.Export.Dir, zapLogger)
	provider := services.NewSimulatedProvider(cfg.Delivery.FailureRate, zapLogger)

	progression := services.NewProgression(repos.convs, cfg.Delivery.DeliveredAfter, cfg.Delivery.ReadAfter, zapLogger)
	manager.Register("progression", func(ctx context.Context) error {
		progression.Close()
		return nil
	})

	authUseCase := authUC.New(repos.actors, sessionRepo, zapLogger)
	leadUseCase := leadUC.New(repos.leads, repos.activities, repos.followUps, bufferBridge, notifier, exporter, zapLogger)
	chatUseCase := chatUC.New(repos.convs, repos.activities, bufferBridge, notifier, provider, progression, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, time.Hour),
		Lead:   apiHandler.NewLeadHandler(leadUseCase, ctxAdapter, zapLogger),
		Chat:   apiHandler.NewChatHandler(chatUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("storage", cfg.Storage.Driver))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

// buildRepositories wires the storage backend selected by STORAGE_DRIVER.
// The memory driver needs no external database and is meant for demos and
// local development; it returns a nil pool so the monitor skips the check.
func buildRepositories(ctx context.Context, cfg *config.Config, manager *lifecycle.Manager, zapLogger *zap.Logger) (repositories, *pgxpool.Pool) {
	if cfg.Storage.Driver == "memory" {
		zapLogger.Info("using in-memory storage")
		return repositories{
			leads:      memory.NewLeadRepository(),
			convs:      memory.NewConversationRepository(),
			activities: memory.NewActivityRepository(),
			followUps:  memory.NewFollowUpRepository(),
			actors:     memory.NewActorRepository(),
		}, nil
	}

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(ctx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	return repositories{
		leads:      postgres.NewLeadRepository(pool),
		convs:      postgres.NewConversationRepository(pool),
		activities: postgres.NewActivityRepository(pool),
		followUps:  postgres.NewFollowUpRepository(pool),
		actors:     postgres.NewActorRepository(pool),
	}, pool
}
