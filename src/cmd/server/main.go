package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/api-sage/wallet-payment-processor/src/internal/adapter/http/controller"
	"github.com/api-sage/wallet-payment-processor/src/internal/adapter/http/middleware"
	"github.com/api-sage/wallet-payment-processor/src/internal/adapter/http/router"
	"github.com/api-sage/wallet-payment-processor/src/internal/adapter/repository/postgres"
	"github.com/api-sage/wallet-payment-processor/src/internal/config"
	"github.com/api-sage/wallet-payment-processor/src/internal/usecase/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := postgres.RunMigrations(migrateCtx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	accountRepo := postgres.NewAccountRepository(db)
	ledgerRepo := postgres.NewLedgerRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	productRepo := postgres.NewProductRepository(db)
	orderRepo := postgres.NewOrderRepository(db)

	notificationService := services.NewNotificationService(notificationRepo)
	transferService := services.NewTransferService(accountRepo, ledgerRepo, notificationService, cfg.TransferFee)
	accountService := services.NewAccountService(accountRepo, cfg.OpeningBalance, cfg.DefaultPIN)
	chargesService := services.NewChargesService(cfg.TransferFee)
	historyService := services.NewHistoryService(accountRepo, ledgerRepo)
	productService := services.NewProductService(productRepo, accountRepo)
	orderService := services.NewOrderService(orderRepo, productRepo, accountRepo, notificationRepo, transferService)

	authMiddleware := middleware.BasicAuth(cfg.ChannelID, cfg.ChannelKey)

	handler := router.New(authMiddleware,
		controller.NewAccountController(accountService),
		controller.NewTransferController(transferService),
		controller.NewChargesController(chargesService),
		controller.NewHistoryController(historyService),
		controller.NewNotificationController(notificationService),
		controller.NewProductController(productService),
		controller.NewOrderController(orderService),
	)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	log.Printf("wallet payment processor listening on %s", cfg.ListenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("serve: %v", err)
	}
}
