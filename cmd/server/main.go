package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/config"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/infrastructure/datasources/postgres"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/infrastructure/jobs"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/infrastructure/notifications"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/infrastructure/payment"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/infrastructure/repositories"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/interfaces/http/handlers"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/interfaces/http/middleware"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/usecases"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/pkg/jwt"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/pkg/logger"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openConn   = postgres.NewConnection
	openDB     = postgres.Open
	migrate    = postgres.Migrate
	runServer  = func(srv *http.Server) error { return srv.ListenAndServe() }

	notifyShutdown = func(quit chan<- os.Signal) {
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	}
	shutdownTimeout = 15 * time.Second
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	defer logger.Sync()
	ctx := context.Background()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer func() { _ = redis.Close() }()
	logger.Info(ctx, "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	conn, err := openConn(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func(c *sql.DB) { _ = c.Close() }(conn)

	db, err := openDB(conn)
	if err != nil {
		return err
	}
	if err := migrate(db); err != nil {
		return err
	}
	logger.Info(ctx, "Connected to PostgreSQL via GORM")

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry)

	// Repositories
	walletRepo := repositories.NewWalletRepository(db)
	walletTxRepo := repositories.NewWalletTransactionRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Gateways
	stripeGateway := payment.NewStripeGateway(cfg.Stripe)
	if !stripeGateway.Configured() {
		logger.Warn(ctx, "Stripe is not configured; add-funds will return 503")
	}
	notifier := notifications.NewRedisNotifier(cfg.Wallet.NotifyChannel)

	// Usecases
	walletUsecase := usecases.NewWalletUsecase(walletRepo, walletTxRepo, uow, stripeGateway, usecases.WalletOptions{
		Currency:    cfg.Stripe.Currency,
		ProductName: cfg.Stripe.ProductName,
		SuccessURL:  cfg.Stripe.SuccessURL,
		CancelURL:   cfg.Stripe.CancelURL,
		MinTopUp:    cfg.Wallet.MinTopUp,
		MaxTopUp:    cfg.Wallet.MaxTopUp,
		CheckoutTTL: cfg.Wallet.CheckoutTTL(),
	})
	settlementUsecase := usecases.NewSettlementUsecase(walletRepo, walletTxRepo, uow, stripeGateway, notifier, cfg.Wallet.TutorRole)
	auditUsecase := usecases.NewLedgerAuditUsecase(walletRepo, walletTxRepo, uow)

	// Handlers
	walletHandler := handlers.NewWalletHandler(walletUsecase)
	webhookHandler := handlers.NewWebhookHandler(settlementUsecase)
	adminHandler := handlers.NewAdminHandler(walletUsecase, auditUsecase)

	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var expiryJob *jobs.PendingTopUpExpiryJob
	if cfg.Wallet.PendingExpiry > 0 {
		expiryJob = jobs.NewPendingTopUpExpiryJob(walletTxRepo, cfg.Wallet.PendingExpiry, cfg.Wallet.ExpiryInterval)
		go expiryJob.Start(jobCtx)
		logger.Info(ctx, "Pending top-up expiry enabled", zap.Duration("max_age", cfg.Wallet.PendingExpiry))
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		walletHandler:  walletHandler,
		webhookHandler: webhookHandler,
		adminHandler:   adminHandler,
		authMiddleware: middleware.AuthMiddleware(jwtService),
	})

	for _, route := range r.Routes() {
		logger.Debug(ctx, "Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	notifyShutdown(quit)
	defer signal.Stop(quit)

	shutdownDone := make(chan error, 1)
	go func() {
		select {
		case <-quit:
		case <-jobCtx.Done():
			return
		}
		logger.Info(ctx, "Shutting down server")
		if expiryJob != nil {
			expiryJob.Stop()
		}
		cancel()

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		shutdownDone <- srv.Shutdown(shutdownCtx)
	}()

	logger.Info(ctx, "Wallet service starting", zap.String("port", cfg.Server.Port))
	err = runServer(srv)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	if errors.Is(err, http.ErrServerClosed) {
		if err := <-shutdownDone; err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		logger.Info(ctx, "Server stopped")
	}
	return nil
}
