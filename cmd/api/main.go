package main

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/gas1730-arch/oi-market/internal/adapter/api"
	"github.com/gas1730-arch/oi-market/internal/adapter/api/handler"
	apimiddleware "github.com/gas1730-arch/oi-market/internal/adapter/api/middleware"
	"github.com/gas1730-arch/oi-market/internal/adapter/api/router"
	"github.com/gas1730-arch/oi-market/internal/adapter/repository"
	domainrepo "github.com/gas1730-arch/oi-market/internal/domain/repository"
	"github.com/gas1730-arch/oi-market/internal/domain/service"
	"github.com/gas1730-arch/oi-market/internal/infrastructure/firebase"
	"github.com/gas1730-arch/oi-market/internal/infrastructure/ratelimit"
	"github.com/gas1730-arch/oi-market/internal/usecase"
	"github.com/gas1730-arch/oi-market/pkg/config"
	"github.com/gas1730-arch/oi-market/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get().Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.Environment)
	log := logger.Get()

	ctx := context.Background()

	policy, err := service.ParseIncrementPolicy(cfg.IncrementTiers)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid BID_INCREMENT_TIERS")
	}

	needFirebase := cfg.StoreDriver != "memory" || cfg.AuthDriver != "dev"

	var (
		verifier apimiddleware.TokenVerifier
		itemRepo domainrepo.ItemRepository
		chatRepo domainrepo.ChatRepository
	)

	if needFirebase {
		firebaseApp, opts, err := firebase.NewApp(ctx, cfg.FirebaseProject, cfg.ServiceAccountJSON, cfg.ServiceAccountPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Firebase")
		}

		if cfg.AuthDriver != "dev" {
			authClient, err := firebaseApp.Auth(ctx)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to initialize Firebase Auth")
			}
			verifier = firebase.NewFirebaseAuthClient(authClient)
		}

		if cfg.StoreDriver != "memory" {
			firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to create Firestore client")
			}
			defer firestoreClient.Close()

			itemRepo = repository.NewFirestoreItemRepository(firestoreClient, cfg.TxMaxAttempts)
			chatRepo = repository.NewFirestoreChatRepository(firestoreClient)
		}
	}

	if cfg.AuthDriver == "dev" {
		if !cfg.IsDevelopment() {
			log.Fatal().Str("environment", cfg.Environment).Msg("AUTH_DRIVER=dev is only allowed in development")
		}
		log.Warn().Msg("Accepting dev:<uid> bearer tokens")
		verifier = firebase.NewDevTokenVerifier()
	}

	if cfg.StoreDriver == "memory" {
		log.Warn().Msg("Using in-memory store, data is lost on restart")
		store := repository.NewMemoryStore(cfg.TxMaxAttempts)
		itemRepo = repository.NewMemoryItemRepository(store)
		chatRepo = repository.NewMemoryChatRepository(store)
	}

	var limiter ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		switch cfg.RateLimit.Backend {
		case "redis":
			rdb, err := ratelimit.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
			if err != nil {
				log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to Redis")
			}
			defer rdb.Close()
			limiter = ratelimit.NewRedisLimiter(rdb, cfg.RateLimit.Prefix, cfg.RateLimit.TTL)
		default:
			memLimiter := ratelimit.NewRateLimiter()
			memLimiter.StartCleanupRoutine(ctx, 30*time.Minute, time.Hour)
			limiter = memLimiter
		}
	}

	bidUseCase := usecase.NewBidUseCase(itemRepo, policy)
	chatUseCase := usecase.NewChatUseCase(itemRepo, chatRepo)
	itemUseCase := usecase.NewItemUseCase(itemRepo)

	handler.Setup(bidUseCase, chatUseCase, itemUseCase)
	handler.SetupHealthHandler(cfg.StoreDriver)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(verifier)
	router.Setup(e, authMiddleware, limiter)
	router.SetupDevRouter(e, cfg.Environment, cfg.AuthDriver)

	log.Info().
		Str("port", cfg.ServerPort).
		Str("store", cfg.StoreDriver).
		Str("auth", cfg.AuthDriver).
		Bool("rate_limit", cfg.RateLimit.Enabled).
		Msg("Starting server")
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
