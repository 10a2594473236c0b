package commands_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"laundry/internal/core/application/usecases/commands"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/pricing"
	"laundry/internal/core/domain/model/user"
	"laundry/internal/core/ports"
	"laundry/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
)

const testPassword = "Sup3r$ecret"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore is an in-memory database. GetForUpdate takes a row lock held
// until the unit of work ends, and Update checks the stored version, so the
// handlers see the same concurrency behaviour as with postgres.
type memStore struct {
	mu     sync.Mutex
	users  map[string]*user.User
	orders map[string]order.State
	locks  map[string]*sync.Mutex
}

func newMemStore() *memStore {
	return &memStore{
		users:  make(map[string]*user.User),
		orders: make(map[string]order.State),
		locks:  make(map[string]*sync.Mutex),
	}
}

func (s *memStore) rowLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func (s *memStore) putUser(u *user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID().String()] = u
}

func (s *memStore) putOrder(o *order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID().String()] = snapshot(o)
}

func (s *memStore) order(id kernel.UUID) *order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.orders[id.String()]
	if !ok {
		return nil
	}
	o, err := order.RestoreOrder(state)
	if err != nil {
		panic(err)
	}
	return o
}

func (s *memStore) userByEmail(email string) *user.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email().String() == email {
			return u
		}
	}
	return nil
}

func snapshot(o *order.Order) order.State {
	state := order.State{
		ID:              o.ID(),
		CustomerID:      o.CustomerID(),
		Pickup:          o.Pickup(),
		Status:          o.Status(),
		Rates:           o.Rates(),
		IsPaid:          o.IsPaid(),
		PaymentIntentID: o.PaymentIntentID(),
		Version:         o.Version(),
		CreatedAt:       o.CreatedAt(),
	}
	if d := o.Driver(); d != nil {
		driver := *d
		state.DriverID = &driver
	}
	if b := o.Breakdown(); b != nil {
		breakdown := *b
		state.Breakdown = &breakdown
	}
	return state
}

func (s *memStore) factory() *memUoWFactory {
	return &memUoWFactory{store: s}
}

type memUoWFactory struct {
	store *memStore
}

func (f *memUoWFactory) create() *memUoW {
	return &memUoW{
		store:  f.store,
		users:  make(map[string]*user.User),
		orders: make(map[string]*order.Order),
	}
}

func (f *memUoWFactory) users() commands.UserUoWFactory {
	return userUoWFactoryFunc(func() commands.UserUoW { return f.create() })
}

func (f *memUoWFactory) orders() commands.OrderUoWFactory {
	return orderUoWFactoryFunc(func() commands.OrderUoW { return f.create() })
}

func (f *memUoWFactory) all() commands.UoWFactory {
	return uowFactoryFunc(func() commands.UoW { return f.create() })
}

type userUoWFactoryFunc func() commands.UserUoW

func (f userUoWFactoryFunc) Create() commands.UserUoW { return f() }

type orderUoWFactoryFunc func() commands.OrderUoW

func (f orderUoWFactoryFunc) Create() commands.OrderUoW { return f() }

type uowFactoryFunc func() commands.UoW

func (f uowFactoryFunc) Create() commands.UoW { return f() }

type memUoW struct {
	store  *memStore
	users  map[string]*user.User
	orders map[string]*order.Order
	held   []*sync.Mutex
	done   bool
}

func (u *memUoW) Begin(context.Context) error { return nil }

func (u *memUoW) Commit(context.Context) error {
	if u.done {
		return nil
	}
	u.store.mu.Lock()
	for id, usr := range u.users {
		u.store.users[id] = usr
	}
	for id, o := range u.orders {
		stored, exists := u.store.orders[id]
		if exists && stored.Version != o.Version() {
			u.store.mu.Unlock()
			u.release()
			return errs.NewVersionIsInvalidError("order")
		}
		o.AdvanceVersion()
		u.store.orders[id] = snapshot(o)
	}
	u.store.mu.Unlock()
	u.release()
	return nil
}

func (u *memUoW) Rollback(context.Context) error {
	u.release()
	return nil
}

func (u *memUoW) release() {
	if u.done {
		return
	}
	u.done = true
	for i := len(u.held) - 1; i >= 0; i-- {
		u.held[i].Unlock()
	}
	u.held = nil
}

func (u *memUoW) UserRepository() ports.UserRepository   { return memUsers{u} }
func (u *memUoW) OrderRepository() ports.OrderRepository { return memOrders{u} }

type memUsers struct{ uow *memUoW }

func (r memUsers) Add(_ context.Context, a *user.User) error {
	if existing := r.uow.store.userByEmail(a.Email().String()); existing != nil {
		return user.ErrDuplicateEmail
	}
	r.uow.users[a.ID().String()] = a
	return nil
}

func (r memUsers) Update(_ context.Context, a *user.User) error {
	r.uow.users[a.ID().String()] = a
	return nil
}

func (r memUsers) Get(_ context.Context, id kernel.UUID) (*user.User, error) {
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	if u, ok := r.uow.store.users[id.String()]; ok {
		return u, nil
	}
	return nil, errs.NewObjectNotFoundError("user", id.String())
}

func (r memUsers) GetByEmail(_ context.Context, email user.Email) (*user.User, error) {
	if u := r.uow.store.userByEmail(email.String()); u != nil {
		return u, nil
	}
	return nil, errs.NewObjectNotFoundError("user", email.String())
}

type memOrders struct{ uow *memUoW }

func (r memOrders) Add(_ context.Context, o *order.Order) error {
	r.uow.orders[o.ID().String()] = o
	return nil
}

func (r memOrders) Update(_ context.Context, o *order.Order) error {
	r.uow.orders[o.ID().String()] = o
	return nil
}

func (r memOrders) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	if o := r.uow.store.order(id); o != nil {
		return o, nil
	}
	return nil, errs.NewObjectNotFoundError("order", id.String())
}

func (r memOrders) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	l := r.uow.store.rowLock(id.String())
	l.Lock()
	r.uow.held = append(r.uow.held, l)
	return r.Get(ctx, id)
}

func (r memOrders) ListAwaitingPayment(_ context.Context, limit int) ([]*order.Order, error) {
	r.uow.store.mu.Lock()
	var states []order.State
	for _, state := range r.uow.store.orders {
		if !state.IsPaid && state.PaymentIntentID != "" {
			states = append(states, state)
		}
	}
	r.uow.store.mu.Unlock()

	var out []*order.Order
	for _, state := range states {
		if len(out) == limit {
			break
		}
		o, err := order.RestoreOrder(state)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// fakeHasher stores passwords with a visible prefix.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return ports.ErrPasswordMismatch
	}
	return nil
}

func (fakeHasher) DummyHash() string { return "hashed:\x00" }

// fakeTokens encodes claims in clear text: scope|subject|role.
type fakeTokens struct{}

func (fakeTokens) Issue(subject kernel.UUID, role user.Role, scope user.TokenScope) (string, error) {
	return fmt.Sprintf("%s|%s|%s", scope, subject, role), nil
}

func (fakeTokens) Verify(token string, scope user.TokenScope) (ports.TokenClaims, error) {
	parts := strings.Split(token, "|")
	if len(parts) != 3 || parts[0] != string(scope) {
		return ports.TokenClaims{}, errs.NewUnauthenticatedError("bad token")
	}
	subject, err := kernel.UUIDFromString(parts[1])
	if err != nil {
		return ports.TokenClaims{}, errs.NewUnauthenticatedError("bad subject")
	}
	return ports.TokenClaims{Subject: subject, Role: user.Role(parts[2]), Scope: scope}, nil
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) SendVerification(ctx context.Context, msg ports.VerificationMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockNotifier) SendStatusUpdate(ctx context.Context, msg ports.StatusUpdateMessage) error {
	return m.Called(ctx, msg).Error(0)
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.OrderEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e ports.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []ports.OrderEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ports.OrderEventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type MockPaymentProvider struct{ mock.Mock }

func (m *MockPaymentProvider) CreateIntent(ctx context.Context, req ports.CreatePaymentIntentRequest) (ports.PaymentIntent, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.PaymentIntent), args.Error(1)
}

func (m *MockPaymentProvider) RetrieveIntent(ctx context.Context, intentID string) (ports.PaymentIntent, error) {
	args := m.Called(ctx, intentID)
	return args.Get(0).(ports.PaymentIntent), args.Error(1)
}

func (m *MockPaymentProvider) ParseEvent(payload []byte, signature string) (ports.PaymentEvent, error) {
	args := m.Called(payload, signature)
	return args.Get(0).(ports.PaymentEvent), args.Error(1)
}

// memDedup is an EventDeduplicator backed by a map.
type memDedup struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newMemDedup() *memDedup {
	return &memDedup{seen: make(map[string]bool)}
}

func (d *memDedup) FirstSeen(_ context.Context, namespace, id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := namespace + ":" + id
	if d.seen[key] {
		return false, nil
	}
	d.seen[key] = true
	return true, nil
}

func (d *memDedup) Forget(_ context.Context, namespace, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, namespace+":"+id)
	return nil
}

// fixtures

func newAccount(store *memStore, email string, role user.Role, verified bool) *user.User {
	addr, err := user.NewEmail(email)
	if err != nil {
		panic(err)
	}
	u, err := user.NewUser(kernel.NewUUID(), addr, "hashed:"+testPassword, role, time.Now())
	if err != nil {
		panic(err)
	}
	if verified {
		u.Verify()
	}
	store.putUser(u)
	return u
}

func newScheduledOrder(store *memStore, customerID kernel.UUID) *order.Order {
	pickup, err := order.NewPickup("1 Main St", order.LaundryRegular, time.Now().Add(24*time.Hour), "")
	if err != nil {
		panic(err)
	}
	o, err := order.NewOrder(kernel.NewUUID(), customerID, pickup, pricing.DefaultRates(), time.Now())
	if err != nil {
		panic(err)
	}
	store.putOrder(o)
	return o
}

func newPickedUpOrder(store *memStore, customerID, driverID kernel.UUID) *order.Order {
	o := newScheduledOrder(store, customerID)
	if err := o.AssignDriver(driverID); err != nil {
		panic(err)
	}
	store.putOrder(o)
	return o
}

func newPricedOrder(store *memStore, customerID kernel.UUID, weightLbs int64) *order.Order {
	o := newScheduledOrder(store, customerID)
	if err := o.FinalizePricing(weightLbs); err != nil {
		panic(err)
	}
	store.putOrder(o)
	return o
}

func newPaidOrder(store *memStore, customerID kernel.UUID, weightLbs int64) *order.Order {
	o := newPricedOrder(store, customerID, weightLbs)
	intentID := "pi_" + o.ID().String()
	if err := o.AttachPaymentIntent(intentID); err != nil {
		panic(err)
	}
	if _, err := o.MarkPaid(intentID, o.Breakdown().TotalCents); err != nil {
		panic(err)
	}
	store.putOrder(o)
	return o
}
