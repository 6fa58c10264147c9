package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/coursestore/storefront/internal/core/domain"
	"github.com/coursestore/storefront/internal/core/ports"
	"github.com/coursestore/storefront/internal/infrastructure/tokenstore"
)

const validToken = "token-alice"

// fakeAPI is an in-memory marketplace with a server-side cart that keeps one
// line per course. Hooks, when set, run before the call is served.
type fakeAPI struct {
	mu sync.Mutex

	token   string
	user    domain.User
	courses map[int64]domain.Course
	cart    []domain.CartItem
	orders  []domain.Order
	nextID  int64

	meHook      func(ctx context.Context) error
	getCartHook func()
	addErr      error
	ackOnly     bool
	removeErr   error
	orderHook   func() error

	addCalls   int
	orderCalls int
	loginCalls int
	registered []ports.Registration
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		token: validToken,
		user:  domain.User{ID: 1, Name: "Alice", Email: "alice@example.com", IsActive: true},
		courses: map[int64]domain.Course{
			1: {ID: 1, Title: "Go Basics", Price: decimal.NewFromInt(5000), Level: "Beginner", IsActive: true},
			2: {ID: 2, Title: "Concurrency", Price: decimal.NewFromInt(4500), Level: "Advanced", IsActive: true},
			3: {ID: 3, Title: "Testing", Price: decimal.RequireFromString("1999.99"), Level: "beginner", IsActive: true},
		},
		nextID: 100,
	}
}

func (f *fakeAPI) authorize(token string) error {
	if token == "" || token != f.token {
		return domain.ErrUnauthorized
	}
	return nil
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginCalls++
	if email != f.user.Email || password != "secret1" {
		return "", domain.ErrInvalidCredentials
	}
	return f.token, nil
}

func (f *fakeAPI) Register(_ context.Context, in ports.Registration) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if in.Email == f.user.Email {
		return nil, &domain.APIError{StatusCode: 400, Detail: "Email already registered"}
	}
	f.registered = append(f.registered, in)
	f.nextID++
	return &domain.User{ID: f.nextID, Name: in.Name, Email: in.Email, IsActive: true}, nil
}

func (f *fakeAPI) Me(ctx context.Context, token string) (*domain.User, error) {
	if f.meHook != nil {
		if err := f.meHook(ctx); err != nil {
			return nil, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.authorize(token); err != nil {
		return nil, err
	}
	u := f.user
	return &u, nil
}

func (f *fakeAPI) ListCourses(_ context.Context, limit int) ([]domain.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Course, 0, len(f.courses))
	for id := int64(1); id <= int64(len(f.courses)); id++ {
		out = append(out, f.courses[id])
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeAPI) GetCourse(_ context.Context, id int64) (*domain.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.courses[id]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	return &c, nil
}

func (f *fakeAPI) GetCart(_ context.Context, token string) ([]domain.CartItem, error) {
	if f.getCartHook != nil {
		f.getCartHook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.authorize(token); err != nil {
		return nil, err
	}
	return append([]domain.CartItem(nil), f.cart...), nil
}

func (f *fakeAPI) AddToCart(_ context.Context, token string, courseID int64) (*domain.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCalls++
	if err := f.authorize(token); err != nil {
		return nil, err
	}
	if f.addErr != nil {
		return nil, f.addErr
	}
	course, ok := f.courses[courseID]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	for _, it := range f.cart {
		if it.Course.ID == courseID {
			return nil, domain.ErrAlreadyInCart
		}
	}
	f.nextID++
	item := domain.CartItem{ID: f.nextID, Course: course, CreatedAt: time.Now()}
	f.cart = append(f.cart, item)
	if f.ackOnly {
		return nil, nil
	}
	return &item, nil
}

func (f *fakeAPI) RemoveFromCart(_ context.Context, token string, cartItemID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.authorize(token); err != nil {
		return err
	}
	if f.removeErr != nil {
		return f.removeErr
	}
	for i, it := range f.cart {
		if it.ID == cartItemID {
			f.cart = append(f.cart[:i], f.cart[i+1:]...)
			return nil
		}
	}
	return &domain.APIError{StatusCode: 404, Detail: "Cart item not found"}
}

func (f *fakeAPI) CreateOrder(_ context.Context, token string) (*domain.Order, error) {
	f.mu.Lock()
	f.orderCalls++
	f.mu.Unlock()

	if f.orderHook != nil {
		if err := f.orderHook(); err != nil {
			return nil, err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.authorize(token); err != nil {
		return nil, err
	}
	if len(f.cart) == 0 {
		return nil, &domain.APIError{StatusCode: 400, Detail: "Cart is empty"}
	}
	f.nextID++
	order := domain.Order{ID: f.nextID, Status: domain.OrderPending, CreatedAt: time.Now()}
	for _, it := range f.cart {
		f.nextID++
		order.Items = append(order.Items, domain.OrderItem{ID: f.nextID, Price: it.Course.Price, Course: it.Course})
	}
	order.TotalAmount = order.ItemsTotal()
	f.orders = append(f.orders, order)
	f.cart = nil
	return &order, nil
}

func (f *fakeAPI) ListOrders(_ context.Context, token string) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.authorize(token); err != nil {
		return nil, err
	}
	return append([]domain.Order(nil), f.orders...), nil
}

func (f *fakeAPI) serverCartLen() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cart)
}

// ---- fixture helpers ----

type fixture struct {
	api      *fakeAPI
	store    *tokenstore.Memory
	session  *Session
	cart     *Cart
	checkout *Checkout
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	api := newFakeAPI()
	store := tokenstore.NewMemory("tab-1", "auth_token")
	session := NewSession(store, api, zerolog.Nop())
	cart := NewCart(api, session, zerolog.Nop())
	return &fixture{
		api:      api,
		store:    store,
		session:  session,
		cart:     cart,
		checkout: NewCheckout(api, session, cart, zerolog.Nop()),
	}
}

func (fx *fixture) login(t *testing.T) {
	t.Helper()
	if err := fx.session.Login(context.Background(), validToken); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	fx.session.Wait()
}

// eventually polls cond until it holds or the deadline passes.
func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met: %s", msg)
}
