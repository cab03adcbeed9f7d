// Package client is a Go client for the Stockly HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rogerio-castellano/stockly/internal/analytics"
	"github.com/rogerio-castellano/stockly/internal/logx"
	"github.com/rogerio-castellano/stockly/internal/models"
)

const (
	Categories = "categories"
	Suppliers  = "suppliers"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("stockly api: status %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type ProductInput struct {
	Name     string  `json:"name"`
	SKU      string  `json:"sku"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Category string  `json:"category,omitempty"`
	Supplier string  `json:"supplier,omitempty"`
	Status   string  `json:"status,omitempty"`
}

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do sends body as JSON and decodes a JSON answer into out when out is not nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	logx.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}

	var single struct {
		Error string `json:"error"`
	}
	var list []struct {
		Field       string `json:"field"`
		Description string `json:"description"`
	}
	switch {
	case json.Unmarshal(data, &single) == nil && single.Error != "":
		apiErr.Message = single.Error
	case json.Unmarshal(data, &list) == nil && len(list) > 0:
		msgs := make([]string, len(list))
		for i, fe := range list {
			msgs[i] = fe.Description
		}
		apiErr.Message = strings.Join(msgs, "; ")
	}
	return apiErr
}

func (c *Client) Register(ctx context.Context, name, email, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"name": name, "email": email, "password": password,
	}, &out)
	if err != nil {
		return err
	}
	c.SetToken(out.Token)
	return nil
}

func (c *Client) Login(ctx context.Context, email, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email": email, "password": password,
	}, &out)
	if err != nil {
		return err
	}
	c.SetToken(out.Token)
	return nil
}

func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil); err != nil {
		return err
	}
	c.SetToken("")
	return nil
}

func (c *Client) Session(ctx context.Context) (models.Session, error) {
	var s models.Session
	err := c.do(ctx, http.MethodGet, "/api/auth/session", nil, &s)
	return s, err
}

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	err := c.do(ctx, http.MethodGet, "/api/products", nil, &out)
	return out, err
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (models.Product, error) {
	var out models.Product
	err := c.do(ctx, http.MethodPost, "/api/products", in, &out)
	return out, err
}

func (c *Client) UpdateProduct(ctx context.Context, id string, in ProductInput) (models.Product, error) {
	var out models.Product
	err := c.do(ctx, http.MethodPut, "/api/products/"+id, in, &out)
	return out, err
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/products/"+id, nil, nil)
}

func (c *Client) CopyProduct(ctx context.Context, id string) (models.Product, error) {
	var out models.Product
	err := c.do(ctx, http.MethodPost, "/api/products/"+id+"/copy", nil, &out)
	return out, err
}

func (c *Client) Analytics(ctx context.Context) (analytics.Insights, error) {
	var out analytics.Insights
	err := c.do(ctx, http.MethodGet, "/api/analytics", nil, &out)
	return out, err
}

// ListNamed lists categories or suppliers.
func (c *Client) ListNamed(ctx context.Context, resource string) ([]models.Named, error) {
	var out []models.Named
	err := c.do(ctx, http.MethodGet, "/api/"+resource, nil, &out)
	return out, err
}

func (c *Client) CreateNamed(ctx context.Context, resource, name string) (models.Named, error) {
	var out models.Named
	err := c.do(ctx, http.MethodPost, "/api/"+resource, map[string]string{"name": name}, &out)
	return out, err
}

func (c *Client) UpdateNamed(ctx context.Context, resource, id, name string) (models.Named, error) {
	var out models.Named
	err := c.do(ctx, http.MethodPut, "/api/"+resource, map[string]string{"id": id, "name": name}, &out)
	return out, err
}

func (c *Client) DeleteNamed(ctx context.Context, resource, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/"+resource, map[string]string{"id": id}, nil)
}
