package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/coursestore/storefront/internal/core/domain"
	"github.com/coursestore/storefront/internal/core/ports"
)

type stubSession struct {
	user *domain.User
}

func (s *stubSession) IsAuthenticated() bool     { return s.user != nil }
func (s *stubSession) CurrentUser() *domain.User { return s.user }

type stubAuthService struct {
	loginFn    func(ctx context.Context, in ports.LoginInput) error
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	logoutFn   func(ctx context.Context) error
}

func (s *stubAuthService) Login(ctx context.Context, in ports.LoginInput) error {
	return s.loginFn(ctx, in)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Logout(ctx context.Context) error {
	return s.logoutFn(ctx)
}

type stubCatalog struct {
	listFn func(ctx context.Context, filter ports.CourseFilter) ([]domain.Course, error)
	getFn  func(ctx context.Context, id int64) (*domain.Course, error)
}

func (s *stubCatalog) List(ctx context.Context, filter ports.CourseFilter) ([]domain.Course, error) {
	return s.listFn(ctx, filter)
}

func (s *stubCatalog) Get(ctx context.Context, id int64) (*domain.Course, error) {
	return s.getFn(ctx, id)
}

type stubCart struct {
	items    []domain.CartItem
	loadErr  error
	addFn    func(ctx context.Context, courseID int64) error
	removeFn func(ctx context.Context, cartItemID int64) error
	loads    int
}

func (s *stubCart) Load(ctx context.Context) ([]domain.CartItem, error) {
	s.loads++
	return s.items, s.loadErr
}

func (s *stubCart) AddItem(ctx context.Context, courseID int64) error {
	return s.addFn(ctx, courseID)
}

func (s *stubCart) RemoveItem(ctx context.Context, cartItemID int64) error {
	return s.removeFn(ctx, cartItemID)
}

func (s *stubCart) Items() []domain.CartItem { return s.items }
func (s *stubCart) Total() decimal.Decimal   { return domain.CartTotal(s.items) }

type stubCheckout struct {
	state    domain.CheckoutState
	submitFn func(ctx context.Context) (*ports.CheckoutResult, error)
}

func (s *stubCheckout) Submit(ctx context.Context) (*ports.CheckoutResult, error) {
	return s.submitFn(ctx)
}

func (s *stubCheckout) State() domain.CheckoutState { return s.state }

type stubOrders struct {
	orders []domain.Order
	err    error
}

func (s *stubOrders) List(ctx context.Context) ([]domain.Order, error) {
	return s.orders, s.err
}

func course(id int64, price string) domain.Course {
	return domain.Course{ID: id, Title: "Course", Price: decimal.RequireFromString(price), IsActive: true}
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

type screenResponse struct {
	Name          string          `json:"screen"`
	Authenticated bool            `json:"authenticated"`
	Notice        *domain.Notice  `json:"notice"`
	Redirect      string          `json:"redirect"`
	Data          json.RawMessage `json:"data"`
}

func decodeScreen(t *testing.T, rec *httptest.ResponseRecorder) screenResponse {
	t.Helper()
	var s screenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &s); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return s
}
