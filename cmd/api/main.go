package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/rasreserve/autoshop-api/internal/config"
	"github.com/rasreserve/autoshop-api/internal/email"
	"github.com/rasreserve/autoshop-api/internal/handler"
	appointmentHandler "github.com/rasreserve/autoshop-api/internal/handler/appointment"
	catalogHandler "github.com/rasreserve/autoshop-api/internal/handler/catalog"
	stockHandler "github.com/rasreserve/autoshop-api/internal/handler/stock"
	userHandler "github.com/rasreserve/autoshop-api/internal/handler/user"
	"github.com/rasreserve/autoshop-api/internal/middleware"
	"github.com/rasreserve/autoshop-api/internal/repository/postgres"
	"github.com/rasreserve/autoshop-api/internal/router"
	appointmentService "github.com/rasreserve/autoshop-api/internal/service/appointment"
	catalogService "github.com/rasreserve/autoshop-api/internal/service/catalog"
	notificationService "github.com/rasreserve/autoshop-api/internal/service/notification"
	stockService "github.com/rasreserve/autoshop-api/internal/service/stock"
	userService "github.com/rasreserve/autoshop-api/internal/service/user"
	"github.com/rasreserve/autoshop-api/pkg/auth"
	"github.com/rasreserve/autoshop-api/pkg/logger"
	"github.com/rasreserve/autoshop-api/pkg/messaging/redis"
	"github.com/rasreserve/autoshop-api/pkg/security"
	"github.com/rasreserve/autoshop-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	appointmentRepo := postgres.NewAppointmentRepository(db)
	stockRepo := postgres.NewStockRepository(db)
	userRepo := postgres.NewUserRepository(db)
	serviceRepo := postgres.NewServiceRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Services
	emailSvc := email.NewSMTPService(cfg.SMTP)
	catalogSvc := catalogService.NewService(serviceRepo)
	notifSvc := notificationService.NewService(outboxRepo, emailSvc, catalogSvc, cfg.Shop.Name, *appLogger.Zerolog())
	appointmentSvc := appointmentService.NewService(appointmentRepo, userRepo, notifSvc)
	stockSvc := stockService.NewService(stockRepo, cfg.Shop)
	userSvc := userService.NewService(userRepo, security.NewBcryptHasher(bcrypt.DefaultCost))

	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	// Handlers
	h := handler.NewHandler(db)
	appointmentH := appointmentHandler.NewHandler(appointmentSvc)
	stockH := stockHandler.NewHandler(stockSvc)
	userH := userHandler.NewHandler(userSvc, jwtSvc)
	catalogH := catalogHandler.NewHandler(catalogSvc)

	r := router.NewRouter(
		authMiddleware,
		appointmentH,
		stockH,
		userH,
		catalogH,
		h,
		router.Config{
			RateLimit:     rate.Limit(100),
			RateBurst:     200,
			Timeout:       time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "autoshop_api",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	// The outbox processor runs in-process as well as in the dedicated
	// worker binary, so a single-node deployment still drains events.
	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, appLogger.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	processorCtx, stopProcessor := context.WithCancel(context.Background())
	defer stopProcessor()

	processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:    50,
		PollInterval: 5 * time.Second,
	}, appLogger)
	go processor.Start(processorCtx)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	stopProcessor()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
