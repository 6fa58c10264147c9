package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/coursestore/storefront/internal/core/domain"
	"github.com/coursestore/storefront/internal/core/ports"
)

// alreadyInCart is the reason text the API uses to reject a duplicate add.
const alreadyInCart = "already in cart"

func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/login", "", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		// Login carries no token, so a 401 here is a credential rejection.
		if errors.Is(err, domain.ErrUnauthorized) {
			return "", fmt.Errorf("login: %w", domain.ErrInvalidCredentials)
		}
		if _, ok := apiErrorIs(err, http.StatusBadRequest); ok {
			return "", fmt.Errorf("login: %w: %w", domain.ErrInvalidCredentials, err)
		}
		return "", err
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("login: empty access token: %w", domain.ErrLoginFailed)
	}
	return resp.AccessToken, nil
}

func (c *Client) Register(ctx context.Context, in ports.Registration) (*domain.User, error) {
	var user userDTO
	req := registerRequest{Name: in.Name, Email: in.Email, Password: in.Password}
	if err := c.do(ctx, http.MethodPost, "/register", "", req, &user); err != nil {
		return nil, err
	}
	return user.toDomain(), nil
}

func (c *Client) Me(ctx context.Context, token string) (*domain.User, error) {
	var user userDTO
	if err := c.do(ctx, http.MethodGet, "/me", token, nil, &user); err != nil {
		return nil, err
	}
	return user.toDomain(), nil
}

func (c *Client) ListCourses(ctx context.Context, limit int) ([]domain.Course, error) {
	path := "/courses"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var dtos []courseDTO
	if err := c.do(ctx, http.MethodGet, path, "", nil, &dtos); err != nil {
		return nil, err
	}
	courses := make([]domain.Course, 0, len(dtos))
	for _, d := range dtos {
		courses = append(courses, d.toDomain())
	}
	return courses, nil
}

func (c *Client) GetCourse(ctx context.Context, id int64) (*domain.Course, error) {
	var dto courseDTO
	if err := c.do(ctx, http.MethodGet, "/courses/"+strconv.FormatInt(id, 10), "", nil, &dto); err != nil {
		if _, ok := apiErrorIs(err, http.StatusNotFound); ok {
			return nil, domain.ErrCourseNotFound
		}
		return nil, err
	}
	course := dto.toDomain()
	return &course, nil
}

func (c *Client) GetCart(ctx context.Context, token string) ([]domain.CartItem, error) {
	var dtos []cartItemDTO
	if err := c.do(ctx, http.MethodGet, "/cart", token, nil, &dtos); err != nil {
		return nil, err
	}
	items := make([]domain.CartItem, 0, len(dtos))
	for _, d := range dtos {
		items = append(items, d.toDomain())
	}
	return items, nil
}

// AddToCart returns nil and no error when the API only acknowledged the add.
func (c *Client) AddToCart(ctx context.Context, token string, courseID int64) (*domain.CartItem, error) {
	var dto cartItemDTO
	err := c.do(ctx, http.MethodPost, "/cart", token, addToCartRequest{CourseID: courseID}, &dto)
	if err != nil {
		if ae, ok := apiErrorIs(err, http.StatusBadRequest); ok &&
			strings.Contains(strings.ToLower(ae.Detail), alreadyInCart) {
			return nil, fmt.Errorf("add course %d: %w", courseID, domain.ErrAlreadyInCart)
		}
		return nil, err
	}
	if dto.ID == 0 {
		return nil, nil
	}
	item := dto.toDomain()
	return &item, nil
}

func (c *Client) RemoveFromCart(ctx context.Context, token string, cartItemID int64) error {
	return c.do(ctx, http.MethodDelete, "/cart/"+strconv.FormatInt(cartItemID, 10), token, nil, nil)
}

func (c *Client) CreateOrder(ctx context.Context, token string) (*domain.Order, error) {
	var dto orderDTO
	if err := c.do(ctx, http.MethodPost, "/orders", token, nil, &dto); err != nil {
		return nil, err
	}
	order := dto.toDomain()
	return &order, nil
}

func (c *Client) ListOrders(ctx context.Context, token string) ([]domain.Order, error) {
	var dtos []orderDTO
	if err := c.do(ctx, http.MethodGet, "/orders", token, nil, &dtos); err != nil {
		return nil, err
	}
	orders := make([]domain.Order, 0, len(dtos))
	for _, d := range dtos {
		orders = append(orders, d.toDomain())
	}
	return orders, nil
}
