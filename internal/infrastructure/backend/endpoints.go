package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/your-org/kbeauty-storefront/internal/domain/analytics"
	"github.com/your-org/kbeauty-storefront/internal/domain/order"
	"github.com/your-org/kbeauty-storefront/internal/domain/product"
	"github.com/your-org/kbeauty-storefront/internal/domain/search"
	"github.com/your-org/kbeauty-storefront/internal/domain/session"
)

// Auth

func (c *Client) Signup(ctx context.Context, req session.SignupRequest) (*session.AuthResponse, error) {
	var out session.AuthResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/auth/signup", body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, req session.LoginRequest) (*session.AuthResponse, error) {
	var out session.AuthResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/auth/login", body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile sends the changed fields both as query parameters and as a
// JSON body; the backend reads the former.
func (c *Client) UpdateProfile(ctx context.Context, credential string, update session.ProfileUpdate) error {
	q := url.Values{}
	if update.FirstName != nil {
		q.Set("first_name", *update.FirstName)
	}
	if update.LastName != nil {
		q.Set("last_name", *update.LastName)
	}
	if update.Phone != nil {
		q.Set("phone", *update.Phone)
	}
	return c.do(ctx, request{
		method:     http.MethodPut,
		path:       "/api/auth/me",
		query:      q,
		credential: credential,
		body:       update,
	}, nil)
}

// Me returns the account behind credential
func (c *Client) Me(ctx context.Context, credential string) (*session.User, error) {
	var out session.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/auth/me", credential: credential}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Search

func (c *Client) Suggestions(ctx context.Context, query string) (*search.Suggestions, error) {
	var out search.Suggestions
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/search/suggestions",
		query:  url.Values{"q": {query}},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DidYouMean(ctx context.Context, query string) ([]string, error) {
	var out struct {
		Suggestions []string `json:"suggestions"`
	}
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/search/did-you-mean",
		query:  url.Values{"q": {query}},
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Suggestions, nil
}

// Catalog

func (c *Client) Products(ctx context.Context, filter product.Filter) (*product.ProductList, error) {
	var out product.ProductList
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/products", query: filter.Values()}, &out); err != nil {
		return nil, err
	}
	if out.Products == nil {
		out.Products = []product.Product{}
	}
	return &out, nil
}

func (c *Client) Product(ctx context.Context, id string) (*product.Product, error) {
	var out product.Product
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/products/" + url.PathEscape(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Bestsellers(ctx context.Context, limit int) ([]product.Product, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	out := []product.Product{}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/products/bestsellers", query: q}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Brands(ctx context.Context) ([]product.Brand, error) {
	out := []product.Brand{}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/brands"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Categories(ctx context.Context) ([]product.Category, error) {
	out := []product.Category{}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/categories"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Orders

func (c *Client) CreateOrder(ctx context.Context, credential string, req order.CreateOrderRequest) (*order.Placed, error) {
	var out order.Placed
	err := c.do(ctx, request{
		method:     http.MethodPost,
		path:       "/api/orders/",
		credential: credential,
		body:       req,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MyOrders(ctx context.Context, credential string) ([]order.Summary, error) {
	out := []order.Summary{}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/orders/my-orders", credential: credential}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Order(ctx context.Context, credential, id string) (*order.Order, error) {
	var out order.Order
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/orders/" + url.PathEscape(id), credential: credential}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelOrder(ctx context.Context, credential, id string) error {
	return c.do(ctx, request{
		method:     http.MethodPut,
		path:       "/api/orders/" + url.PathEscape(id) + "/cancel",
		credential: credential,
	}, nil)
}

// Admin

func (c *Client) Dashboard(ctx context.Context, credential string) (*analytics.DashboardStats, error) {
	var out analytics.DashboardStats
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/admin/dashboard", credential: credential}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminOrders(ctx context.Context, credential string, status order.OrderStatus, limit int) ([]order.Order, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", string(status))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	out := []order.Order{}
	err := c.do(ctx, request{
		method:     http.MethodGet,
		path:       "/api/admin/orders",
		query:      q,
		credential: credential,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, credential, id string, status order.OrderStatus) error {
	return c.do(ctx, request{
		method:     http.MethodPut,
		path:       "/api/admin/orders/" + url.PathEscape(id) + "/status",
		credential: credential,
		body:       order.StatusUpdate{Status: status},
	}, nil)
}
