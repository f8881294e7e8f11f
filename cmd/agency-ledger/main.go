package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"agency-ledger/internal/api"
	"agency-ledger/internal/api/handlers"
	"agency-ledger/internal/repository"
	"agency-ledger/internal/service"
	"agency-ledger/pkg/auth"
	"agency-ledger/pkg/config"
	"agency-ledger/pkg/logger"
	"agency-ledger/pkg/postgres"

	"go.uber.org/zap"
)

// @title Agency Ledger API
// @version 1.0
// @description CSV import, auto-matching and ledger API for agency bookkeeping

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting agency ledger service")

	if cfg.Database.Migrate {
		if err := postgres.RunMigrations(&cfg.Database, appLogger); err != nil {
			appLogger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db, appLogger)
	ruleRepo := repository.NewRuleRepository(db, appLogger)
	txRepo := repository.NewTransactionRepository(db, appLogger)
	salesRepo := repository.NewPayPaySaleRepository(db, appLogger)
	batchRepo := repository.NewImportBatchRepository(db, appLogger)

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Services
	authService := service.NewAuthService(userRepo, jwtManager, appLogger)
	ruleService := service.NewRuleService(ruleRepo, userRepo, appLogger)
	ledgerService := service.NewLedgerService(db, txRepo, salesRepo, batchRepo, userRepo, appLogger)

	importService, err := service.NewImportService(ruleService, ledgerService, ledgerService, userRepo, cfg.Import, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize import service", zap.Error(err))
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, appLogger)
	ruleHandler := handlers.NewRuleHandler(ruleService, appLogger)
	importHandler := handlers.NewImportHandler(importService, appLogger)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService, appLogger)
	userHandler := handlers.NewUserHandler(authService, appLogger)

	app := api.SetupRouter(
		authHandler,
		ruleHandler,
		importHandler,
		ledgerHandler,
		userHandler,
		jwtManager,
		appLogger,
		cfg.Server.BodyLimit,
	)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting",
			zap.String("address", addr),
			zap.String("match_order", cfg.Import.MatchOrder),
		)
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
