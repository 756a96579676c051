package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/charerimana/agrisense/internal/config"
	"github.com/charerimana/agrisense/internal/database"
	httpapi "github.com/charerimana/agrisense/internal/http"
	"github.com/charerimana/agrisense/internal/logger"
	"github.com/charerimana/agrisense/internal/mqtt"
	"github.com/charerimana/agrisense/internal/notify"
	"github.com/charerimana/agrisense/internal/repository"
	"github.com/charerimana/agrisense/internal/service"
	"github.com/charerimana/agrisense/internal/store"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "agrisense")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	// Redis backs the dashboard cache; the service runs without it.
	var kv store.KV
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Warn("Redis unavailable, dashboard caching disabled", zap.Error(err))
			_ = redisClient.Close()
			redisClient = nil
		} else {
			kv = store.NewRedisKV(redisClient)
		}
	}

	usersRepo := repository.NewPostgresUsersRepository(db)
	farmsRepo := repository.NewPostgresFarmsRepository(db)
	sensorsRepo := repository.NewPostgresSensorsRepository(db)
	readingsRepo := repository.NewPostgresReadingsRepository(db)
	notifRepo := repository.NewPostgresNotificationsRepository(db)
	prefsRepo := repository.NewPostgresPreferencesRepository(db)
	resolver := repository.NewOwnerResolver(db)

	var emailChannel, smsChannel notify.Channel
	if cfg.Email.Enabled {
		emailChannel = notify.NewEmailChannel(cfg.Email)
	}
	if cfg.SMS.Enabled {
		smsChannel = notify.NewSMSChannel(cfg.SMS)
	}

	dispatcher := service.NewAlertDispatcher(prefsRepo, notifRepo, emailChannel, smsChannel, log)
	dashboard := service.NewDashboard(sensorsRepo, kv, cfg.DashboardCacheTTL, log)
	ingestor := service.NewIngestor(sensorsRepo, readingsRepo, dispatcher, dashboard, log)
	farmSvc := service.NewFarmService(farmsRepo, dashboard, log)
	prefSvc := service.NewPreferenceService(prefsRepo, log)

	authStore := httpapi.NewAuthStore(usersRepo)

	router := httpapi.NewRouter(log)
	router.RegisterAPIRoutes(
		httpapi.NewAuthHandler(authStore, log),
		httpapi.NewFarmHandler(farmSvc, readingsRepo, resolver, authStore, log),
		httpapi.NewReadingHandler(ingestor, readingsRepo, resolver, authStore, log),
		httpapi.NewDashboardHandler(dashboard, resolver, authStore, log),
		httpapi.NewPreferenceHandler(prefSvc, authStore, log),
		httpapi.NewNotificationHandler(notifRepo, authStore, log),
	)

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	var consumer *mqtt.Consumer
	if cfg.MQTT.Enabled {
		consumer = mqtt.NewConsumer(cfg.MQTT, ingestor, log)
		if err := consumer.Start(); err != nil {
			log.Warn("MQTT consumer failed to start, continuing without it", zap.Error(err))
			consumer = nil
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
	case err := <-errCh:
		log.Error("HTTP server stopped", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	if consumer != nil {
		consumer.Stop()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
}
