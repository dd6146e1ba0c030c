package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OldiBike/mototrip-planner-sub000/config"
	"github.com/OldiBike/mototrip-planner-sub000/handlers"
	"github.com/OldiBike/mototrip-planner-sub000/internal/adminapi"
	"github.com/OldiBike/mototrip-planner-sub000/internal/console"
	"github.com/OldiBike/mototrip-planner-sub000/internal/notify"
	"github.com/OldiBike/mototrip-planner-sub000/internal/progress"
	"github.com/OldiBike/mototrip-planner-sub000/logger"
	"github.com/OldiBike/mototrip-planner-sub000/router"
	"github.com/OldiBike/mototrip-planner-sub000/services"
	"github.com/OldiBike/mototrip-planner-sub000/web"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/text/language"
)

func main() {
	// Initialize logger
	logger.InitLogger()
	log := logger.GetLogger()
	defer logger.Close()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	lang, err := language.Parse(cfg.Console.DefaultLanguage)
	if err != nil {
		log.Warnw("Unknown console language, falling back to French", "language", cfg.Console.DefaultLanguage, "error", err)
		lang = language.French
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis backs toasts and the search rate limit; the console runs without it
	var redisClient *redis.Client
	var toastStore notify.Store = notify.NewMemoryStore()
	if cfg.Redis.Enabled {
		redisOptions := &redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}
		if cfg.Redis.UseTLS || cfg.IsProduction() {
			redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient = redis.NewClient(redisOptions)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warnw("Redis is not reachable yet", "address", cfg.Redis.Address, "error", err)
		}
		toastStore = notify.NewRedisStore(redisClient, cfg.Console.ToastTTL())
		defer redisClient.Close()
	}

	backend := adminapi.NewClient(cfg.Backend.BaseURL, cfg.Backend.APIKey,
		adminapi.WithTimeout(cfg.Backend.Timeout()),
	)

	// Services
	toasts := notify.NewService(toastStore)
	uploads := progress.NewRegistry(cfg.Console.ProgressTick(), cfg.Console.ProgressCeiling)
	go uploads.Run(ctx, time.Minute)
	hotelSearch := services.NewHotelSearchService(backend, cfg.Console.SuggestDebounce(), lang.String())
	uploadPool := services.NewWorkerPool(cfg.WorkerPool)
	uploadPool.Start()

	workspaces := console.NewRegistry(backend, cfg.Server.PublicOrigin, lang, console.RegistryConfig{
		IdleTimeout:   cfg.Console.WorkspaceIdle(),
		SweepInterval: console.DefaultRegistryConfig().SweepInterval,
	})
	workspaces.OnEvict(hotelSearch.ForgetSession)
	go workspaces.Run(ctx)

	healthService := services.NewHealthService(backend, redisClient, cfg.Server.Version)
	healthService.SetWorkspaceCounter(workspaces.Count)
	healthService.SetUploadQueue(uploadPool.QueueDepth)

	templates, err := web.Templates()
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}

	r := router.SetupRouter(router.Dependencies{
		Config:             cfg,
		Templates:          templates,
		RedisClient:        redisClient,
		HealthHandler:      handlers.NewHealthHandler(healthService, uploadPool),
		CatalogHandler:     handlers.NewCatalogHandler(workspaces, toasts, uploads, uploadPool),
		BuilderHandler:     handlers.NewBuilderHandler(workspaces, toasts),
		HotelSearchHandler: handlers.NewHotelSearchHandler(hotelSearch),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("Starting console", "port", cfg.Server.Port, "backend", cfg.Backend.BaseURL, "environment", cfg.Server.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received, draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Graceful shutdown failed", "error", err)
	}

	poolCtx, poolCancel := context.WithTimeout(context.Background(), cfg.WorkerPool.ShutdownTimeout())
	defer poolCancel()
	if err := uploadPool.Shutdown(poolCtx); err != nil {
		log.Warnw("Pending photo uploads were cancelled", "error", err)
	}
}
