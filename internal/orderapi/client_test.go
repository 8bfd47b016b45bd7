package orderapi

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/domain"
	apperrors "github.com/ASAFDIGITAL/orderup-asaf-hub/pkg/errors"
)

func TestNormalizeBaseURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"orders.example.com", "https://orders.example.com"},
		{"https://orders.example.com/", "https://orders.example.com"},
		{"http://localhost:8080///", "http://localhost:8080"},
		{"  orders.example.com  ", "https://orders.example.com"},
	}
	for _, tc := range cases {
		if got := NormalizeBaseURL(tc.in); got != tc.want {
			t.Errorf("NormalizeBaseURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAuthenticate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/pos/auth" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("missing bearer token, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"device":{"name":"Kitchen Tablet"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", zap.NewNop())
	name, err := client.Authenticate(context.Background())
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if name != "Kitchen Tablet" {
		t.Errorf("device name = %q", name)
	}
}

func TestAuthenticateRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"invalid token"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad", zap.NewNop())
	_, err := client.Authenticate(context.Background())
	var authErr *apperrors.ErrAuthFailure
	if !stderrors.As(err, &authErr) {
		t.Fatalf("expected ErrAuthFailure, got %v", err)
	}
}

func TestListOrders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/pos/orders" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"orders":[
			{"id":101,"customer_name":"אבי","status":"new","total":60,
			 "items":[{"name":"פיצה","qty":2,"unit_price":25,"total":50}]}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", zap.NewNop())
	orders, err := client.ListOrders(context.Background())
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != 101 {
		t.Fatalf("unexpected orders: %+v", orders)
	}
	if orders[0].Status != domain.OrderStatusNew || len(orders[0].Items) != 1 {
		t.Errorf("order fields not decoded: %+v", orders[0])
	}
}

func TestListOrdersNonJSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>login page</html>"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", zap.NewNop())
	_, err := client.ListOrders(context.Background())
	var apiErr *apperrors.ErrAPIFailure
	if !stderrors.As(err, &apiErr) {
		t.Fatalf("expected ErrAPIFailure for a non-JSON body, got %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/pos/orders/101/status" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", zap.NewNop())
	if err := client.UpdateStatus(context.Background(), 101, domain.OrderStatusPreparing); err != nil {
		t.Fatalf("update status: %v", err)
	}
}

func TestNetworkFailure(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "secret", zap.NewNop())
	_, err := client.ListOrders(context.Background())
	var netErr *apperrors.ErrNetworkFailure
	if !stderrors.As(err, &netErr) {
		t.Fatalf("expected ErrNetworkFailure, got %v", err)
	}
}
