package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	appcart "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/application/cart"
	apporder "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/application/order"
	apppayment "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/application/payment"
	appreturns "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/application/returns"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/config"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/infrastructure/id"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/infrastructure/memory"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/infrastructure/mysql"
	paymentinfra "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/infrastructure/payment"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/pkg/clock"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/pkg/logging"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/storage"
	httptransport "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/transport/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		panic(err)
	}

	logger := logging.MustNewLogger("order-workflow", cfg.Environment, cfg.LogLevel)
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	workflowRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_requests_total",
			Help: "Total number of order workflow invocations.",
		},
		[]string{"operation", "outcome"},
	)
	paymentPollAttempts := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "payment_poll_attempts",
			Help:    "Verifier polls needed per payment attempt.",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		},
	)
	prometheus.MustRegister(workflowRequests, paymentPollAttempts)

	store, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal("storage_open_failed", zap.Error(err))
	}

	idGen := id.NewUUIDGenerator()
	clk := clock.System()
	verifier := paymentinfra.NewSimulator(store.Stores().Orders, cfg.Payment.SimulatorSuccessRate)

	cartService := appcart.NewService(store.Stores(), idGen)
	orderService := apporder.NewService(store, idGen, clk, workflowRequests)
	paymentService := apppayment.NewService(store, verifier, clk, apppayment.Config{
		PollInterval: cfg.Payment.PollInterval,
		PollAttempts: cfg.Payment.PollAttempts,
		HardTimeout:  cfg.Payment.HardTimeout,
	}, workflowRequests, paymentPollAttempts)
	returnsService := appreturns.NewService(store, idGen, clk, cfg.Returns.WindowDays)

	server := httptransport.NewServer(cfg, logger)
	handler := httptransport.NewHandler(cartService, orderService, paymentService, returnsService)
	handler.Register(server.App)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("http_server_start", zap.Int("port", cfg.ServerPort))
		if err := server.Listen(); err != nil {
			logger.Error("http_server_error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.App.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("http_server_shutdown_error", zap.Error(err))
	} else {
		logger.Info("http_server_stopped")
	}
}

func openStore(cfg *config.AppConfig, logger *zap.Logger) (storage.TxRunner, error) {
	switch cfg.StorageBackend {
	case "mysql":
		db, err := mysql.Open(cfg.Database.DSN())
		if err != nil {
			return nil, err
		}
		store := mysql.NewStore(db)
		if err := store.AutoMigrate(); err != nil {
			return nil, err
		}
		logger.Info("storage_ready", zap.String("backend", "mysql"))
		return store, nil
	default:
		store := memory.NewStore()
		seedProducts(store)
		logger.Info("storage_ready", zap.String("backend", "memory"))
		return store, nil
	}
}

// seedProducts gives the development backend a usable catalog slice; the
// product table is otherwise owned by the catalog collaborator.
func seedProducts(store *memory.Store) {
	store.SeedProduct("p-1001", 25, decimal.RequireFromString("19.90"))
	store.SeedProduct("p-1002", 10, decimal.RequireFromString("54.00"))
	store.SeedProduct("p-1003", 5, decimal.RequireFromString("120.50"))
}
