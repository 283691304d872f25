package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/Franchi22/SafetyLabels/internal/config"
	"github.com/Franchi22/SafetyLabels/internal/database"
	"github.com/Franchi22/SafetyLabels/internal/httpapi"
	"github.com/Franchi22/SafetyLabels/internal/logger"
	"github.com/Franchi22/SafetyLabels/internal/notifier"
	"github.com/Franchi22/SafetyLabels/internal/repository"
	"github.com/Franchi22/SafetyLabels/internal/service"
	"github.com/Franchi22/SafetyLabels/internal/sweep"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "etiquetado")
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer log.Sync()

	// Repository backend: postgres for real deployments, memory for dev
	// runs without a database.
	var (
		areasRepo         repository.AreasRepository
		equiposRepo       repository.EquiposRepository
		labelsRepo        repository.LabelsRepository
		suscripcionesRepo repository.SuscripcionesRepository
	)
	if cfg.Storage == "postgres" {
		db, err := database.NewPostgresDB(&cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		areasRepo = repository.NewPostgresAreasRepository(db)
		equiposRepo = repository.NewPostgresEquiposRepository(db)
		labelsRepo = repository.NewPostgresLabelsRepository(db)
		suscripcionesRepo = repository.NewPostgresSuscripcionesRepository(db)
	} else {
		store := repository.NewMemoryStore()
		areasRepo, equiposRepo, labelsRepo, suscripcionesRepo = store, store, store, store
		log.Warn("Using in-memory storage; data is lost on restart")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis backs the estado cache; without it the sweep still runs, it
	// just skips the mirror.
	var estadoCache *sweep.EstadoCache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unavailable, estado cache disabled", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
		estadoCache = sweep.NewEstadoCache(cfg, redisClient, log)
	}

	var alertNotifier sweep.Notifier
	if cfg.Notifier.BaseURL != "" {
		alertNotifier = notifier.NewMailGateway(
			cfg.Notifier.BaseURL,
			cfg.Notifier.APIKey,
			time.Duration(cfg.Notifier.Timeout)*time.Second,
			log,
		)
	} else {
		alertNotifier = notifier.NewLogNotifier(log)
	}

	sweeper := sweep.NewSweeper(cfg, labelsRepo, suscripcionesRepo, estadoCache, alertNotifier, log)
	sweeperErrChan := make(chan error, 1)
	go func() {
		if err := sweeper.Start(ctx); err != nil {
			sweeperErrChan <- err
		}
	}()

	areaSvc := service.NewAreaService(areasRepo, equiposRepo, log)
	equipoSvc := service.NewEquipoService(equiposRepo, areasRepo, log)
	labelSvc := service.NewLabelService(labelsRepo, equiposRepo, log)
	subSvc := service.NewSuscripcionService(suscripcionesRepo, areasRepo, equiposRepo, labelsRepo, log)

	var auth *httpapi.JWTValidator
	if cfg.JWT.Secret != "" {
		auth = httpapi.NewJWTValidator(cfg.JWT.Secret, cfg.JWT.Issuer)
	}

	router := httpapi.NewRouter(log)
	router.RegisterRoutes(
		auth,
		httpapi.NewAreaHandler(areaSvc, log),
		httpapi.NewEquipoHandler(equipoSvc, log),
		httpapi.NewLabelHandler(labelSvc, cfg.Sweep.DefaultUmbralDias, log),
		httpapi.NewExportHandler(labelSvc, cfg.Sweep.DefaultUmbralDias, log),
		httpapi.NewSuscripcionHandler(subSvc, log),
	)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}
	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info("Received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErrChan:
		log.Error("HTTP server error", zap.Error(err))
	case err := <-sweeperErrChan:
		log.Error("Sweeper error", zap.Error(err))
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}

	log.Info("Etiquetado service stopped")
}
