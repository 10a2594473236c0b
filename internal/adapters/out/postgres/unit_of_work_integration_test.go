package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "laundry/internal/adapters/out/postgres"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/pricing"
	"laundry/internal/core/domain/model/user"
	"laundry/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(ctx, db))
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders, users").Error)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2)
	suite.NotNil(uow1.OrderRepository())
	suite.NotNil(uow1.UserRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := suite.T().Context()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "second Begin keeps the open transaction")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := suite.T().Context()
	uow := suite.factory.Create()

	suite.ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CommitSpansUsersAndOrders() {
	ctx := suite.T().Context()
	uow := suite.factory.Create()

	customer := suite.newUser("buyer@example.com", user.RoleCustomer)
	o := suite.newOrder(customer.ID())

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.UserRepository().Add(ctx, customer))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Equal(2, uow.(*postgres_adapter.GormUnitOfWork).TrackedCount())
	suite.Require().NoError(uow.Commit(ctx))

	fresh := suite.factory.Create()
	_, err := fresh.UserRepository().Get(ctx, customer.ID())
	suite.Require().NoError(err)
	stored, err := fresh.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(customer.ID(), stored.CustomerID())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscardsBothStores() {
	ctx := suite.T().Context()
	uow := suite.factory.Create()

	customer := suite.newUser("gone@example.com", user.RoleCustomer)
	o := suite.newOrder(customer.ID())

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.UserRepository().Add(ctx, customer))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Rollback(ctx))

	fresh := suite.factory.Create()
	_, err := fresh.UserRepository().Get(ctx, customer.ID())
	suite.Error(err)
	_, err = fresh.OrderRepository().Get(ctx, o.ID())
	suite.Error(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RepositoryIsolation() {
	ctx := suite.T().Context()
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	order1 := suite.newOrder(kernel.NewUUID())
	order2 := suite.newOrder(kernel.NewUUID())

	suite.Require().NoError(uow1.Begin(ctx))
	suite.Require().NoError(uow2.Begin(ctx))

	suite.Require().NoError(uow1.OrderRepository().Add(ctx, order1))
	suite.Require().NoError(uow2.OrderRepository().Add(ctx, order2))

	_, err := uow1.OrderRepository().Get(ctx, order2.ID())
	suite.Error(err, "uncommitted order2 must not be visible to uow1")
	_, err = uow2.OrderRepository().Get(ctx, order1.ID())
	suite.Error(err, "uncommitted order1 must not be visible to uow2")

	suite.Require().NoError(uow1.Commit(ctx))
	suite.Require().NoError(uow2.Rollback(ctx))

	fresh := suite.factory.Create()
	_, err = fresh.OrderRepository().Get(ctx, order1.ID())
	suite.NoError(err)
	_, err = fresh.OrderRepository().Get(ctx, order2.ID())
	suite.Error(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_WithoutTransaction() {
	ctx := suite.T().Context()
	uow := suite.factory.Create()
	o := suite.newOrder(kernel.NewUUID())

	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))

	_, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.NoError(err)
}

// Two units lock the same order; the second waits for the first to commit
// and then reads the bumped version, so its write does not conflict.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RowLockSerializesWriters() {
	ctx := suite.T().Context()
	o := suite.newOrder(kernel.NewUUID())
	suite.Require().NoError(suite.factory.Create().OrderRepository().Add(ctx, o))

	first := suite.factory.Create()
	suite.Require().NoError(first.Begin(ctx))
	locked, err := first.OrderRepository().GetForUpdate(ctx, o.ID())
	suite.Require().NoError(err)

	secondDone := make(chan *order.Order, 1)
	secondErr := make(chan error, 1)
	go func() {
		second := suite.factory.Create()
		if beginErr := second.Begin(ctx); beginErr != nil {
			secondErr <- beginErr
			return
		}
		defer func() { _ = second.Rollback(ctx) }()

		got, getErr := second.OrderRepository().GetForUpdate(ctx, o.ID())
		if getErr != nil {
			secondErr <- getErr
			return
		}
		if pricingErr := got.FinalizePricing(5); pricingErr != nil {
			secondErr <- pricingErr
			return
		}
		if updateErr := second.OrderRepository().Update(ctx, got); updateErr != nil {
			secondErr <- updateErr
			return
		}
		if commitErr := second.Commit(ctx); commitErr != nil {
			secondErr <- commitErr
			return
		}
		secondDone <- got
	}()

	suite.Require().NoError(locked.AssignDriver(kernel.NewUUID()))
	suite.Require().NoError(first.OrderRepository().Update(ctx, locked))
	time.Sleep(200 * time.Millisecond)
	suite.Require().NoError(first.Commit(ctx))

	select {
	case got := <-secondDone:
		suite.Equal(int64(2), got.Version())
	case err = <-secondErr:
		suite.Fail("second writer failed", err.Error())
	case <-time.After(10 * time.Second):
		suite.Fail("second writer never finished")
	}

	stored, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.PickedUp, stored.Status())
	suite.Require().NotNil(stored.Breakdown())
	suite.Equal(int64(2), stored.Version())
}

func (suite *UnitOfWorkIntegrationTestSuite) newUser(address string, role user.Role) *user.User {
	email, err := user.NewEmail(address)
	suite.Require().NoError(err)
	u, err := user.NewUser(kernel.NewUUID(), email, "$2a$10$hash", role, time.Now().UTC())
	suite.Require().NoError(err)
	return u
}

func (suite *UnitOfWorkIntegrationTestSuite) newOrder(customerID kernel.UUID) *order.Order {
	pickup, err := order.NewPickup("7 Oak Ave", order.LaundryDryClean, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), "")
	suite.Require().NoError(err)
	o, err := order.NewOrder(kernel.NewUUID(), customerID, pickup, pricing.DefaultRates(), time.Now().UTC())
	suite.Require().NoError(err)
	return o
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
