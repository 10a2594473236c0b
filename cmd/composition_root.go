package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	httpin "laundry/internal/adapters/in/http"
	"laundry/internal/adapters/out/dedup"
	"laundry/internal/adapters/out/notify"
	"laundry/internal/adapters/out/orderevents"
	"laundry/internal/adapters/out/postgres"
	"laundry/internal/adapters/out/security"
	"laundry/internal/adapters/out/stripepay"
	"laundry/internal/core/application/usecases/commands"
	"laundry/internal/core/application/usecases/queries"
	"laundry/internal/core/domain/model/user"
	"laundry/internal/core/ports"
	"laundry/internal/jobs"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot owns the adapters and builds use case handlers on demand.
type CompositionRoot struct {
	cfg    Config
	logger *slog.Logger

	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory

	tokens      *security.JWTTokenManager
	hasher      *security.BcryptHasher
	payments    ports.PaymentProvider
	notifier    *notify.Dispatcher
	publisher   ports.OrderEventPublisher
	dedup       ports.EventDeduplicator
	redis       *redis.Client
	broadcaster commands.OrderBroadcaster

	closers []func(ctx context.Context) error
}

// NewCompositionRoot connects the outbound adapters selected by cfg. On
// error every adapter opened so far is closed again.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) (root *CompositionRoot, err error) {
	c := &CompositionRoot{
		cfg:        cfg,
		logger:     logger,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
	}
	defer func() {
		if err != nil {
			_ = c.Close(context.Background())
		}
	}()

	c.tokens, err = security.NewJWTTokenManager(security.TokenConfig{
		Secret:          cfg.JWTSecretKey,
		Algorithm:       cfg.JWTAlgorithm,
		AccessTTL:       cfg.accessTTL(),
		RefreshTTL:      cfg.refreshTTL(),
		VerificationTTL: cfg.verificationTTL(),
	}, time.Now)
	if err != nil {
		return nil, fmt.Errorf("token manager: %w", err)
	}

	c.hasher, err = security.NewBcryptHasher(cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("password hasher: %w", err)
	}

	c.payments, err = stripepay.NewProvider(stripepay.Config{
		SecretKey:     cfg.StripeSecretKey,
		WebhookSecret: cfg.StripeWebhookSecret,
		Currency:      cfg.StripeCurrency,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("payment provider: %w", err)
	}

	next, err := c.openNotifier()
	if err != nil {
		return nil, err
	}
	c.notifier = notify.NewDispatcher(next, cfg.NotifyWorkers, cfg.NotifyBuffer, logger)
	// Closed before the transport it feeds.
	c.closers = append(c.closers, c.notifier.Close)

	c.publisher = orderevents.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafka := orderevents.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaOrderChangedTopic, logger)
		c.publisher = kafka
		c.closers = append(c.closers, func(context.Context) error { return kafka.Close() })
	}

	c.dedup = dedup.Noop{}
	if cfg.RedisAddr != "" {
		c.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		c.dedup = dedup.NewRedisDeduplicator(c.redis, dedup.DefaultTTL)
		c.closers = append(c.closers, func(context.Context) error { return c.redis.Close() })
	}

	c.broadcaster = commands.NewOrderBroadcaster(c.notifier, c.publisher, logger)
	return c, nil
}

func (c *CompositionRoot) openNotifier() (ports.Notifier, error) {
	switch c.cfg.NotifierDriver {
	case "", "log":
		return notify.NewLogNotifier(c.logger), nil
	case "rabbitmq":
		rmq, err := notify.NewRabbitMQNotifier(c.cfg.RabbitMQURL, c.cfg.NotificationQueue, c.logger)
		if err != nil {
			return nil, fmt.Errorf("notifier: %w", err)
		}
		c.closers = append(c.closers, func(context.Context) error { return rmq.Close() })
		return rmq, nil
	default:
		return nil, fmt.Errorf("notifier: unknown driver %q", c.cfg.NotifierDriver)
	}
}

// Close releases the adapters in reverse order of creation.
func (c *CompositionRoot) Close(ctx context.Context) error {
	var errList []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](ctx); err != nil {
			errList = append(errList, err)
		}
	}
	c.closers = nil
	return errors.Join(errList...)
}

// HealthChecks lists the dependencies probed by the readiness endpoint.
func (c *CompositionRoot) HealthChecks() map[string]httpin.CheckFunc {
	checks := map[string]httpin.CheckFunc{
		"database": func(ctx context.Context) error { return postgres.Ping(ctx, c.gormDB) },
	}
	if c.redis != nil {
		checks["redis"] = func(ctx context.Context) error { return c.redis.Ping(ctx).Err() }
	}
	return checks
}

// BootstrapAdmin creates the configured admin account on first start.
// An existing account with that email is left untouched.
func (c *CompositionRoot) BootstrapAdmin(ctx context.Context) error {
	if c.cfg.BootstrapAdminEmail == "" {
		return nil
	}
	cmd, err := commands.NewCreateStaffUserCommand(
		c.cfg.BootstrapAdminEmail, c.cfg.BootstrapAdminPassword, user.RoleAdmin.String())
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	id, err := c.CreateCreateStaffUserCommandHandler().Handle(ctx, cmd)
	if errors.Is(err, user.ErrDuplicateEmail) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	c.logger.InfoContext(ctx, "bootstrap admin created", "user_id", id.String())
	return nil
}

// Auth

func (c *CompositionRoot) userUoWFactory() commands.UserUoWFactory {
	return FuncUserUoWFactory(func() commands.UserUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateRegisterUserCommandHandler() commands.RegisterUserCommandHandler {
	return commands.NewRegisterUserCommandHandler(
		c.userUoWFactory(), c.hasher, c.tokens, c.notifier, c.cfg.VerifyURL(), c.logger)
}

func (c *CompositionRoot) CreateVerifyEmailCommandHandler() commands.VerifyEmailCommandHandler {
	return commands.NewVerifyEmailCommandHandler(c.userUoWFactory(), c.tokens)
}

func (c *CompositionRoot) CreateLoginCommandHandler() commands.LoginCommandHandler {
	return commands.NewLoginCommandHandler(c.userUoWFactory(), c.hasher, c.tokens)
}

func (c *CompositionRoot) CreateRefreshTokensCommandHandler() commands.RefreshTokensCommandHandler {
	return commands.NewRefreshTokensCommandHandler(c.userUoWFactory(), c.tokens)
}

func (c *CompositionRoot) CreateCreateStaffUserCommandHandler() commands.CreateStaffUserCommandHandler {
	return commands.NewCreateStaffUserCommandHandler(c.userUoWFactory(), c.hasher)
}

func (c *CompositionRoot) CreateAuthenticateQueryHandler() queries.AuthenticateQueryHandler {
	return queries.NewAuthenticateQueryHandler(c.gormDB, c.tokens)
}

// Orders

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.cfg.Rates(), c.broadcaster)
}

func (c *CompositionRoot) CreateAssignDriverCommandHandler() commands.AssignDriverCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignDriverCommandHandler(f, c.broadcaster)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateOrderStatusCommandHandler(f, c.broadcaster)
}

func (c *CompositionRoot) CreateFinalizeOrderPricingCommandHandler() commands.FinalizeOrderPricingCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewFinalizeOrderPricingCommandHandler(f, c.broadcaster)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateOrdersSummaryQueryHandler() queries.OrdersSummaryQueryHandler {
	return queries.NewOrdersSummaryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateQuoteOrderPriceQueryHandler() queries.QuoteOrderPriceQueryHandler {
	return queries.NewQuoteOrderPriceQueryHandler(c.cfg.Rates())
}

// Payments

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateInitiatePaymentCommandHandler() commands.InitiatePaymentCommandHandler {
	return commands.NewInitiatePaymentCommandHandler(c.orderUoWFactory(), c.payments, c.broadcaster)
}

func (c *CompositionRoot) CreateHandlePaymentEventCommandHandler() commands.HandlePaymentEventCommandHandler {
	return commands.NewHandlePaymentEventCommandHandler(
		c.orderUoWFactory(), c.payments, c.dedup, c.broadcaster, c.logger)
}

func (c *CompositionRoot) CreateReconcilePaymentsCommandHandler() commands.ReconcilePaymentsCommandHandler {
	return commands.NewReconcilePaymentsCommandHandler(c.orderUoWFactory(), c.payments, c.broadcaster, c.logger)
}

// Jobs

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateReconcilePaymentsCommandHandler(), jobs.Config{
		ReconcileSchedule:  c.cfg.PaymentReconcileSchedule,
		ReconcileBatchSize: c.cfg.PaymentReconcileBatch,
	}, c.logger)
}

type FuncUserUoWFactory func() commands.UserUoW

func (f FuncUserUoWFactory) Create() commands.UserUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
