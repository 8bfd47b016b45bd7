package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/domain"
	apperrors "github.com/ASAFDIGITAL/orderup-asaf-hub/pkg/errors"
)

// Client talks to the remote order-management API on behalf of one POS
// device. All calls authenticate with the device bearer token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the API at baseURL. The URL is normalized:
// a missing scheme defaults to https and trailing slashes are dropped.
func NewClient(baseURL, token string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: NormalizeBaseURL(baseURL),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// NormalizeBaseURL trims whitespace and trailing slashes and defaults the
// scheme to https.
func NormalizeBaseURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s != "" && !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}
	return strings.TrimRight(s, "/")
}

// BaseURL returns the normalized API base URL.
func (c *Client) BaseURL() string { return c.baseURL }

type authRequest struct {
	Token string `json:"token"`
}

type authResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Device  struct {
		Name string `json:"name"`
	} `json:"device"`
}

// Authenticate validates the device token and returns the registered device
// name.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/pos/auth", authRequest{Token: c.token}, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", &apperrors.ErrAuthFailure{Status: http.StatusOK, Message: resp.Message}
	}
	name := resp.Device.Name
	if name == "" {
		name = "POS Device"
	}
	return name, nil
}

type ordersResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Orders  []domain.Order `json:"orders"`
}

// ListOrders fetches the current order list.
func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var resp ordersResponse
	if err := c.do(ctx, http.MethodGet, "/api/pos/orders", nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &apperrors.ErrAPIFailure{Status: http.StatusOK, Message: resp.Message}
	}
	return resp.Orders, nil
}

type statusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// UpdateStatus moves an order to a new status.
func (c *Client) UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	path := fmt.Sprintf("/api/pos/orders/%d/status", orderID)
	var resp statusResponse
	if err := c.do(ctx, http.MethodPut, path, statusRequest{Status: status}, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &apperrors.ErrAPIFailure{Status: http.StatusOK, Message: resp.Message}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &apperrors.ErrNetworkFailure{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apperrors.ErrNetworkFailure{Op: method + " " + path, Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return &apperrors.ErrAuthFailure{Status: resp.StatusCode, Message: snippet(raw)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Order API returned an error status",
			zap.String("path", path), zap.Int("status", resp.StatusCode))
		return &apperrors.ErrAPIFailure{Status: resp.StatusCode, Message: snippet(raw)}
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		// A proxy or login page answered instead of the API.
		return &apperrors.ErrAPIFailure{Status: resp.StatusCode, Message: "non-JSON response: " + snippet(raw)}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &apperrors.ErrAPIFailure{Status: resp.StatusCode, Message: "malformed JSON response"}
	}
	return nil
}

// snippet trims a response body to something loggable.
func snippet(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
