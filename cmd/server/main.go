package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	app "github.com/ruxshona2103/Primier-Print/internal/application/landedcost"
	"github.com/ruxshona2103/Primier-Print/internal/domain/accounting"
	"github.com/ruxshona2103/Primier-Print/internal/domain/landedcost"
	"github.com/ruxshona2103/Primier-Print/internal/infrastructure/config"
	"github.com/ruxshona2103/Primier-Print/internal/infrastructure/event"
	"github.com/ruxshona2103/Primier-Print/internal/infrastructure/logger"
	"github.com/ruxshona2103/Primier-Print/internal/infrastructure/persistence"
	"github.com/ruxshona2103/Primier-Print/internal/interfaces/http/handler"
	"github.com/ruxshona2103/Primier-Print/internal/interfaces/http/middleware"
	"github.com/ruxshona2103/Primier-Print/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Premier Print",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with a GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.AutoMigrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connected")

	// Repositories
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	rateRepo := persistence.NewGormExchangeRateRepository(db.DB)
	receiptRepo := persistence.NewGormReceiptRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	orderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	adjustmentRepo := persistence.NewGormAdjustmentRepository(db.DB)

	// Domain services
	resolver := accounting.NewAccountResolver(companyRepo, accountRepo,
		accounting.WithResolverLogger(log))
	rateLookup := accounting.NewRateLookup(rateRepo)
	normalizer := landedcost.NewCurrencyNormalizer(rateLookup,
		landedcost.WithNormalizerLogger(log))
	detector := landedcost.NewVarianceDetector(normalizer,
		landedcost.WithDetectorLogger(log))

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Application service
	notifier := app.NewLogNotifier(log)
	lifecycle := app.NewLifecycleService(
		invoiceRepo, receiptRepo, orderRepo, adjustmentRepo, companyRepo,
		resolver, normalizer, detector, notifier,
		app.WithLogger(log),
		app.WithPublisher(eventBus),
		app.WithTransportAccountName(cfg.LandedCost.TransportAccountName),
	)

	// Event handlers
	eventBus.Subscribe(app.NewInvoiceSubmittedHandler(lifecycle, notifier, log))
	eventBus.Subscribe(app.NewInvoiceCancelledHandler(lifecycle, notifier, log))
	eventBus.Subscribe(app.NewReceiptSubmittedHandler(lifecycle, invoiceRepo, log))

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	// Routes
	r := router.NewRouter(engine, log)
	r.Register(handler.NewLandedCostHandler(lifecycle, adjustmentRepo, log))
	r.Setup()

	// Health probes stay outside the API prefix
	handler.NewHealthHandler(db, log).RegisterRoutes(engine.Group(""))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
