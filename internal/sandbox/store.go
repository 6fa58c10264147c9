// Package sandbox is an in-memory implementation of the course store API,
// used for local development and as the counterpart of the API client tests.
package sandbox

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/coursestore/storefront/internal/core/domain"
)

var (
	ErrEmailTaken        = errors.New("email already registered")
	ErrUserNotFound      = errors.New("user not found")
	ErrCourseNotFound    = errors.New("course not found")
	ErrAlreadyInCart     = errors.New("course already in cart")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrCourseUnavailable = errors.New("course is not available")
)

type account struct {
	user         domain.User
	passwordHash string
}

// Store holds every sandbox table behind one lock. Order creation reads and
// clears the cart inside that lock.
type Store struct {
	mu       sync.Mutex
	now      func() time.Time
	nextID   int64
	accounts map[string]*account // by lower-cased email
	courses  []domain.Course
	carts    map[int64][]domain.CartItem
	orders   map[int64][]domain.Order
}

func NewStore(courses []domain.Course) *Store {
	s := &Store{
		now:      func() time.Time { return time.Now().UTC() },
		accounts: make(map[string]*account),
		carts:    make(map[int64][]domain.CartItem),
		orders:   make(map[int64][]domain.Order),
	}
	for _, c := range courses {
		if c.ID > s.nextID {
			s.nextID = c.ID
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = s.now()
		}
		s.courses = append(s.courses, c)
	}
	sort.Slice(s.courses, func(i, j int) bool { return s.courses[i].ID < s.courses[j].ID })
	return s
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) CreateUser(name, email, passwordHash string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	if _, exists := s.accounts[key]; exists {
		return domain.User{}, ErrEmailTaken
	}
	acc := &account{
		user: domain.User{
			ID:        s.id(),
			Name:      name,
			Email:     email,
			IsActive:  true,
			CreatedAt: s.now(),
		},
		passwordHash: passwordHash,
	}
	s.accounts[key] = acc
	return acc.user, nil
}

func (s *Store) accountByEmail(email string) (account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[strings.ToLower(email)]
	if !ok {
		return account{}, ErrUserNotFound
	}
	return *acc, nil
}

// Courses returns active courses in id order, skipping the first skip and
// returning at most limit (limit <= 0 means all).
func (s *Store) Courses(skip, limit int) []domain.Course {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Course, 0, len(s.courses))
	for _, c := range s.courses {
		if c.IsActive {
			out = append(out, c)
		}
	}
	if skip >= len(out) {
		return []domain.Course{}
	}
	out = out[max(skip, 0):]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

func (s *Store) Course(id int64) (domain.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.course(id)
}

func (s *Store) course(id int64) (domain.Course, error) {
	for _, c := range s.courses {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Course{}, ErrCourseNotFound
}

func (s *Store) Cart(userID int64) []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CartItem{}, s.carts[userID]...)
}

// AddToCart snapshots the course into a new cart line. A course is allowed
// once per cart.
func (s *Store) AddToCart(userID, courseID int64) (domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	course, err := s.course(courseID)
	if err != nil {
		return domain.CartItem{}, err
	}
	if !course.IsActive {
		return domain.CartItem{}, ErrCourseUnavailable
	}
	for _, it := range s.carts[userID] {
		if it.Course.ID == courseID {
			return domain.CartItem{}, ErrAlreadyInCart
		}
	}

	item := domain.CartItem{ID: s.id(), Course: course, CreatedAt: s.now()}
	s.carts[userID] = append(s.carts[userID], item)
	return item, nil
}

func (s *Store) RemoveFromCart(userID, itemID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]
	for i, it := range items {
		if it.ID == itemID {
			s.carts[userID] = append(items[:i:i], items[i+1:]...)
			return nil
		}
	}
	return ErrCartItemNotFound
}

// CreateOrder converts the whole cart into a pending order and empties it.
func (s *Store) CreateOrder(userID int64) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]
	if len(items) == 0 {
		return domain.Order{}, ErrEmptyCart
	}

	order := domain.Order{
		ID:        s.id(),
		Status:    domain.OrderPending,
		Items:     make([]domain.OrderItem, 0, len(items)),
		CreatedAt: s.now(),
	}
	for _, it := range items {
		order.Items = append(order.Items, domain.OrderItem{
			ID:     s.id(),
			Price:  it.Course.Price,
			Course: it.Course,
		})
	}
	order.TotalAmount = order.ItemsTotal()

	s.orders[userID] = append(s.orders[userID], order)
	delete(s.carts, userID)
	return order, nil
}

// Orders returns the user's orders, newest first.
func (s *Store) Orders(userID int64) []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := s.orders[userID]
	out := make([]domain.Order, 0, len(orders))
	for i := len(orders) - 1; i >= 0; i-- {
		out = append(out, orders[i])
	}
	return out
}
