package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"vertrieb-backend/internal/auth"
	"vertrieb-backend/internal/cache"
	"vertrieb-backend/internal/config"
	"vertrieb-backend/internal/database"
	"vertrieb-backend/internal/db"
	"vertrieb-backend/internal/handlers"
	"vertrieb-backend/internal/health"
	h "vertrieb-backend/internal/http"
	"vertrieb-backend/internal/invalidation"
	"vertrieb-backend/internal/middleware"
	"vertrieb-backend/internal/repositories"
	"vertrieb-backend/internal/services"
	"vertrieb-backend/internal/storage"
)

func main() {
	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()

	// Redis is optional; without it caching and cross-instance
	// invalidation are disabled but the server still works.
	if err := cache.Init(); err != nil {
		log.Printf("Redis unavailable, running without cache: %v", err)
	}

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.NewMigrator(pool).RunMigrations(migrateCtx); err != nil {
		log.Fatalf("Migrations failed: %v", err)
	}

	healthChecker := health.NewHealthChecker(pool)
	jwtManager := auth.NewJWTManager(cfg)

	// Cache clearing is a topic subscriber: mutations anywhere (this
	// instance or a peer via pub/sub) drop the affected list caches.
	broadcaster := invalidation.New(cache.GetClient())
	broadcaster.Subscribe(func(topic string) {
		ctx := context.Background()
		switch topic {
		case invalidation.TopicMarkets:
			cache.InvalidateMarketCaches(ctx)
		case invalidation.TopicProducts:
			cache.InvalidateProductCaches(ctx)
		case invalidation.TopicWaves:
			cache.InvalidateWaveCaches(ctx)
		}
	})
	go broadcaster.Listen(context.Background())

	photoStorage := storage.NewPhotoStorage(cfg)

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	marketRepo := repositories.NewMarketRepository(pool)
	productRepo := repositories.NewProductRepository(pool)
	waveRepo := repositories.NewWaveRepository(pool)
	submissionRepo := repositories.NewSubmissionRepository(pool)
	visitRepo := repositories.NewVisitRepository(pool)
	pendingPhotoRepo := repositories.NewPendingPhotoRepository(pool)
	exchangeRepo := repositories.NewExchangeRepository(pool)
	naraRepo := repositories.NewNaraRepository(pool)

	// Services
	userService := services.NewUserService(userRepo, jwtManager)
	marketService := services.NewMarketService(marketRepo, broadcaster)
	productService := services.NewProductService(productRepo, broadcaster)
	waveService := services.NewWaveService(waveRepo, broadcaster)
	submissionService := services.NewSubmissionService(
		submissionRepo, waveRepo, marketRepo, visitRepo,
		pendingPhotoRepo, photoStorage, broadcaster,
	)
	wizardService := services.NewWizardService(waveRepo, marketRepo, pendingPhotoRepo, submissionService)
	exchangeService := services.NewExchangeService(exchangeRepo)
	naraService := services.NewNaraService(naraRepo, marketRepo, productRepo)
	tourService := services.NewTourService(marketRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	marketHandler := handlers.NewMarketHandler(marketService)
	productHandler := handlers.NewProductHandler(productService)
	waveHandler := handlers.NewWaveHandler(waveService)
	wizardHandler := handlers.NewWizardHandler(wizardService)
	submissionHandler := handlers.NewSubmissionHandler(submissionService)
	exchangeHandler := handlers.NewExchangeHandler(exchangeService)
	naraHandler := handlers.NewNaraHandler(naraService)
	tourHandler := handlers.NewTourHandler(tourService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	router := h.NewRouter(
		authHandler,
		userHandler,
		marketHandler,
		productHandler,
		waveHandler,
		wizardHandler,
		submissionHandler,
		exchangeHandler,
		naraHandler,
		tourHandler,
		healthHandler,
		authMiddleware,
	)

	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
