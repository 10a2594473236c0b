package http

import (
	"context"

	"laundry/internal/core/application/usecases/commands"
	"laundry/internal/core/application/usecases/queries"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/user"

	"github.com/labstack/echo/v4"
)

// UseCase is a command or query handler with a result.
type UseCase[In, Out any] interface {
	Handle(ctx context.Context, in In) (Out, error)
}

// Action is a command handler without a result.
type Action[In any] interface {
	Handle(ctx context.Context, in In) error
}

// Handlers groups the use cases served over HTTP.
type Handlers struct {
	// Auth
	RegisterUser    UseCase[commands.RegisterUserCommand, commands.RegisterUserResult]
	VerifyEmail     Action[commands.VerifyEmailCommand]
	Login           UseCase[commands.LoginCommand, commands.TokenPair]
	RefreshTokens   UseCase[commands.RefreshTokensCommand, commands.TokenPair]
	CreateStaffUser UseCase[commands.CreateStaffUserCommand, kernel.UUID]
	Authenticate    Authenticator

	// Orders
	CreateOrder     UseCase[commands.CreateOrderCommand, *order.Order]
	AssignDriver    UseCase[commands.AssignDriverCommand, *order.Order]
	UpdateStatus    UseCase[commands.UpdateOrderStatusCommand, *order.Order]
	FinalizePricing UseCase[commands.FinalizeOrderPricingCommand, *order.Order]
	GetOrder        UseCase[queries.GetOrderQuery, queries.OrderView]
	ListOrders      UseCase[queries.ListOrdersQuery, queries.ListOrdersResult]
	OrdersSummary   UseCase[queries.OrdersSummaryQuery, queries.OrdersSummary]
	QuotePrice      UseCase[queries.QuoteOrderPriceQuery, queries.PriceQuote]

	// Payments
	InitiatePayment    UseCase[commands.InitiatePaymentCommand, commands.PaymentSession]
	HandlePaymentEvent Action[commands.HandlePaymentEventCommand]
}

// Server implements the /api/v1 routes on top of the use case handlers.
type Server struct {
	h Handlers
}

func NewServer(h Handlers) *Server {
	return &Server{h: h}
}

// Register mounts every route on g, which is expected to be the /api/v1 group.
func (s *Server) Register(g *echo.Group) {
	authenticated := RequireAuth(s.h.Authenticate)
	customer := RequireRole(user.RoleCustomer)
	driver := RequireRole(user.RoleDriver)
	admin := RequireRole(user.RoleAdmin)

	auth := g.Group("/auth")
	auth.POST("/register", s.RegisterUser)
	auth.GET("/verify-email", s.VerifyEmail)
	auth.POST("/login", s.Login)
	auth.POST("/refresh", s.Refresh)
	auth.GET("/me", s.Me, authenticated)
	auth.GET("/probe/customer", s.Probe, authenticated, customer)
	auth.GET("/probe/driver", s.Probe, authenticated, driver)
	auth.GET("/probe/admin", s.Probe, authenticated, admin)

	orders := g.Group("/orders", authenticated)
	orders.POST("", s.CreateOrder, customer)
	orders.GET("/my", s.ListMyOrders, customer)
	orders.GET("/assigned", s.ListAssignedOrders, driver)
	orders.GET("/quote", s.QuoteOrder, customer)
	orders.GET("/:id", s.GetOrder)
	orders.POST("/:id/pay", s.InitiatePayment, customer)
	orders.PATCH("/:id/assign", s.AssignDriver, admin)
	orders.PATCH("/:id/status", s.UpdateOrderStatus, driver)
	orders.PATCH("/:id/weight", s.FinalizeOrderPricing, admin)

	adm := g.Group("/admin", authenticated, admin)
	adm.POST("/users", s.CreateStaffUser)
	adm.GET("/orders", s.ListAllOrders)
	adm.GET("/orders/summary", s.OrdersSummary)

	g.POST("/webhooks/stripe", s.StripeWebhook)
}
