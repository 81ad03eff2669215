package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/application/audit"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/application/dispatcher"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/application/engine"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/application/gate"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/application/ledger"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/application/notify"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/config"
	httpserver "github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/interfaces/http"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/repository"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/pkg/database"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/pkg/utils"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting invoice approval service",
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(repository.Migrations); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	invoiceRepo := repository.NewInvoiceRepository(db, logger)
	siteRepo := repository.NewSiteRepository(db, logger)
	auditRepo := repository.NewAuditRepository(db, logger)
	correctionRepo := repository.NewCorrectionRepository(db, logger)

	eventDispatcher := dispatcher.NewDispatcher(logger)
	defer eventDispatcher.Close()

	notifier := notify.NewNotifier(repository.NewNotificationRepository(db, logger), logger)
	notifier.Register(eventDispatcher)

	eng := engine.New(engine.Deps{
		Invoices:   invoiceRepo,
		Sites:      siteRepo,
		Trail:      audit.NewTrail(auditRepo, logger),
		Ledger:     ledger.NewLedger(correctionRepo, logger),
		Gate:       gate.NewCalendar(cfg.Accounting.CloseDay, logger),
		Tx:         db,
		Dispatcher: eventDispatcher,
		Logger:     logger,
	})

	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, eng, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("Shutting down...")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited")
}
