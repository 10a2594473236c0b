package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"laundry/cmd"
	httpin "laundry/internal/adapters/in/http"
	"laundry/internal/adapters/in/http/apispec"
	"laundry/internal/adapters/out/postgres"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB := mustOpenDatabase(ctx, configs, logger)

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		log.Fatalf("Error building application: %v", err)
	}
	if err := app.BootstrapAdmin(ctx); err != nil {
		log.Fatalf("Error creating bootstrap admin: %v", err)
	}

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}

	e := newHTTPServer(ctx, app, configs, logger)
	go func() {
		addr := fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)
		logger.Info("http server started", "addr", addr, "version", configs.AppVersion)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	jobManager.StopAll()
	if err := app.Close(shutdownCtx); err != nil {
		logger.Error("closing adapters", "error", err)
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func mustOpenDatabase(ctx context.Context, configs cmd.Config, logger *slog.Logger) *gorm.DB {
	gormDB, err := postgres.Open(ctx, postgres.Options{
		Host:     configs.DBHost,
		Port:     configs.DBPort,
		User:     configs.DBUser,
		Password: configs.DBPassword,
		Name:     configs.DBName,
		SSLMode:  configs.DBSslMode,

		MaxOpenConns:    20,
		MaxIdleConns:    10,
		ConnMaxLifetime: 30 * time.Minute,
		SlowThreshold:   200 * time.Millisecond,
	}, logger)
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err := postgres.Migrate(ctx, gormDB); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
	return gormDB
}

func newHTTPServer(ctx context.Context, app *cmd.CompositionRoot, configs cmd.Config, logger *slog.Logger) *echo.Echo {
	doc, err := apispec.Load(ctx)
	if err != nil {
		log.Fatalf("Error loading OpenAPI document: %v", err)
	}
	if err := apispec.RegisterSwagger(doc); err != nil {
		log.Fatalf("Error registering swagger: %v", err)
	}

	var validator *httpin.RequestValidator
	if configs.OpenAPIValidation {
		validator, err = httpin.NewRequestValidator(doc, "/api/v1/webhooks/")
		if err != nil {
			log.Fatalf("Error building request validator: %v", err)
		}
	}

	server := httpin.NewServer(httpin.Handlers{
		RegisterUser:    app.CreateRegisterUserCommandHandler(),
		VerifyEmail:     app.CreateVerifyEmailCommandHandler(),
		Login:           app.CreateLoginCommandHandler(),
		RefreshTokens:   app.CreateRefreshTokensCommandHandler(),
		CreateStaffUser: app.CreateCreateStaffUserCommandHandler(),
		Authenticate:    app.CreateAuthenticateQueryHandler(),

		CreateOrder:     app.CreateCreateOrderCommandHandler(),
		AssignDriver:    app.CreateAssignDriverCommandHandler(),
		UpdateStatus:    app.CreateUpdateOrderStatusCommandHandler(),
		FinalizePricing: app.CreateFinalizeOrderPricingCommandHandler(),
		GetOrder:        app.CreateGetOrderQueryHandler(),
		ListOrders:      app.CreateListOrdersQueryHandler(),
		OrdersSummary:   app.CreateOrdersSummaryQueryHandler(),
		QuotePrice:      app.CreateQuoteOrderPriceQueryHandler(),

		InitiatePayment:    app.CreateInitiatePaymentCommandHandler(),
		HandlePaymentEvent: app.CreateHandlePaymentEventCommandHandler(),
	})

	return httpin.NewRouter(server, httpin.RouterConfig{
		Logger:         logger,
		AllowedOrigins: configs.CORSAllowedOrigins,
		Metrics:        httpin.NewMetrics(),
		Health:         httpin.NewHealthHandler(configs.AppVersion, app.HealthChecks()),
		Validator:      validator,
		OpenAPIYAML:    apispec.YAML(),
		SwaggerUI:      true,
	})
}
