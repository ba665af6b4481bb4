package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/your-org/kbeauty-storefront/internal/domain/order"
	"github.com/your-org/kbeauty-storefront/internal/domain/product"
	"github.com/your-org/kbeauty-storefront/internal/domain/session"
	"github.com/your-org/kbeauty-storefront/internal/pkg/logger"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClientWithHTTP(srv.URL+"/", srv.Client(), logger.Discard())
}

func TestLogin_DecodesAuthResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var body session.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Email != "amira@example.com" {
			t.Errorf("unexpected body %+v", body)
		}
		_, _ = io.WriteString(w, `{"access_token":"tok","token_type":"bearer","user":{"id":"u1","role":"admin"}}`)
	})

	resp, err := c.Login(context.Background(), session.LoginRequest{Email: "amira@example.com", Password: "x"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken != "tok" || resp.User.Role != session.RoleAdmin {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestErrors_DetailShapes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"string detail", 401, `{"detail":"Email ou mot de passe incorrect"}`, "Email ou mot de passe incorrect"},
		{"validation list", 422, `{"detail":[{"loc":["body","email"],"msg":"value is not a valid email address"}]}`, "email: value is not a valid email address"},
		{"no detail", 500, `{}`, "HTTP error! status: 500"},
		{"not json", 502, `Bad Gateway`, "HTTP error! status: 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.Login(context.Background(), session.LoginRequest{})
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %v", err)
			}
			if apiErr.Status != tt.status || apiErr.Detail != tt.want {
				t.Fatalf("got %d %q", apiErr.Status, apiErr.Detail)
			}
			if StatusOf(err) != tt.status {
				t.Fatalf("StatusOf mismatch")
			}
		})
	}
}

func TestUpdateProfile_SendsQueryAndBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("missing bearer header")
		}
		if r.URL.Query().Get("phone") != "22333444" {
			t.Errorf("missing phone query param")
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["phone"] != "22333444" {
			t.Errorf("missing phone body field")
		}
		if _, ok := body["first_name"]; ok {
			t.Errorf("unset fields must be omitted")
		}
		_, _ = io.WriteString(w, `{"message":"Profil mis à jour"}`)
	})

	phone := "22333444"
	if err := c.UpdateProfile(context.Background(), "tok", session.ProfileUpdate{Phone: &phone}); err != nil {
		t.Fatalf("update: %v", err)
	}
}

func TestProducts_EncodesFilter(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("brand") != "COSRX" || q.Get("max_price") != "50" || q.Has("offset") {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = io.WriteString(w, `{"products":[{"id":"p1","name":"Essence","price":25,"price_tnd":24.5}],"total":1,"limit":20,"offset":0}`)
	})

	maxPrice := 50
	list, err := c.Products(context.Background(), product.Filter{Brand: "COSRX", MaxPrice: &maxPrice})
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	if list.Total != 1 || !list.Products[0].UnitPrice().Equal(decimal.RequireFromString("24.5")) {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestCreateOrder_SendsNumericPrices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		item := body["items"].([]interface{})[0].(map[string]interface{})
		if _, ok := item["unit_price_tnd"].(float64); !ok {
			t.Errorf("unit_price_tnd should be a JSON number, got %T", item["unit_price_tnd"])
		}
		_, _ = io.WriteString(w, `{"id":"o1","order_number":"ORD-20250107-AB12","status":"pending","total_tnd":47,"created_at":"2025-01-07T10:00:00Z"}`)
	})

	placed, err := c.CreateOrder(context.Background(), "tok", order.CreateOrderRequest{
		Items:         []order.OrderItem{{ProductID: "p1", Quantity: 2, UnitPriceTND: decimal.NewFromInt(20)}},
		PaymentMethod: order.PaymentCashOnDelivery,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if placed.OrderNumber != "ORD-20250107-AB12" || !placed.TotalTND.Equal(decimal.NewFromInt(47)) {
		t.Fatalf("unexpected placed %+v", placed)
	}
}

func TestMyOrders_EmptyIsNotNil(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})

	orders, err := c.MyOrders(context.Background(), "tok")
	if err != nil || orders == nil {
		t.Fatalf("expected empty slice, got %v %v", orders, err)
	}
}
