package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"admin-dashboard/internal/auth"
	"admin-dashboard/internal/models"
	"admin-dashboard/internal/normalize"
	"admin-dashboard/internal/util"

	"go.uber.org/zap"
)

const maxErrorBody = 512

// Options configures the backend client
type Options struct {
	BaseURL      string
	OrdersPath   string
	ProductsPath string
	Timeout      time.Duration
}

// StatusError is a non-2xx backend response
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend %s %s returned %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// Client talks to the remote REST backend that owns orders and products
type Client struct {
	http   *http.Client
	opts   Options
	tokens auth.TokenSource
	logger *zap.Logger
}

// NewClient creates a backend client; tokens may be nil for open backends
func NewClient(opts Options, tokens auth.TokenSource) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	return &Client{
		http:   &http.Client{Timeout: opts.Timeout},
		opts:   opts,
		tokens: tokens,
		logger: util.GetLogger(),
	}
}

// ListOrders fetches and normalizes every order
func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	ctx, span := util.StartSpan(ctx, "BackendClient.ListOrders")
	defer span.End()

	body, err := c.do(ctx, http.MethodGet, c.opts.OrdersPath, "list_orders", nil)
	if err != nil {
		return nil, err
	}
	return normalize.Orders(body)
}

// ListProducts fetches and normalizes every product
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "BackendClient.ListProducts")
	defer span.End()

	body, err := c.do(ctx, http.MethodGet, c.opts.ProductsPath, "list_products", nil)
	if err != nil {
		return nil, err
	}
	return normalize.Products(body)
}

// UpdateProduct sends a partial {stock, unit} patch
func (c *Client) UpdateProduct(ctx context.Context, productID string, patch models.ProductPatch) error {
	ctx, span := util.StartSpan(ctx, "BackendClient.UpdateProduct")
	defer span.End()

	payload, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("failed to marshal product patch: %w", err)
	}

	_, err = c.do(ctx, http.MethodPut, c.opts.ProductsPath+"/"+url.PathEscape(productID), "update_product", payload)
	return err
}

// DeleteOrder removes an order on the backend
func (c *Client) DeleteOrder(ctx context.Context, orderID string) error {
	ctx, span := util.StartSpan(ctx, "BackendClient.DeleteOrder")
	defer span.End()

	_, err := c.do(ctx, http.MethodDelete, c.opts.OrdersPath+"/"+url.PathEscape(orderID), "delete_order", nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path, endpoint string, payload []byte) ([]byte, error) {
	start := time.Now()
	status := "error"
	defer func() {
		util.BackendRequestDuration.WithLabelValues(endpoint, status).Observe(time.Since(start).Seconds())
	}()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.opts.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build backend request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to obtain backend token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	status = strconv.Itoa(resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read backend response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(body)
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		c.logger.Warn("Backend request rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return nil, &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: snippet}
	}

	return body, nil
}
