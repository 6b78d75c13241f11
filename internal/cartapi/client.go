package cartapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/guttosm/storefront-cart/internal/domain/model"
	"github.com/guttosm/storefront-cart/internal/logger"
)

const (
	// HeaderUserID carries the id of the user whose cart is addressed.
	HeaderUserID = "X-User-ID"
	// HeaderAPIKey carries the service credential for the cart backend.
	HeaderAPIKey = "X-API-Key"
	// HeaderRequestID propagates the inbound request id.
	HeaderRequestID = "X-Request-ID"

	maxErrorBody = 64 << 10
)

// ClientConfig holds the HTTP client configuration.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client talks to a cart REST backend.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	validate   *validator.Validate
}

var _ CartAPI = (*Client)(nil)

// NewClient creates a cart backend client.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		validate:   newValidator(),
	}
}

// FetchCart retrieves the current cart of the user.
func (c *Client) FetchCart(ctx context.Context, userID string) (model.CartSnapshot, error) {
	var payload cartPayload
	if err := c.do(ctx, http.MethodGet, "/cart", userID, nil, &payload); err != nil {
		return model.CartSnapshot{}, err
	}
	return payload.toSnapshot(c.validate)
}

// AddItem adds an item to the cart of the user.
func (c *Client) AddItem(ctx context.Context, userID string, input AddItemInput) error {
	if err := c.validate.Struct(input); err != nil {
		return validationAPIError(err)
	}
	return c.do(ctx, http.MethodPost, "/cart/items", userID, input, nil)
}

// UpdateItemQuantity sets the quantity of a cart item.
func (c *Client) UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	if quantity < 1 {
		return NewAPIError(http.StatusBadRequest, "", FieldError{Field: "quantity", Message: "must be at least 1"})
	}
	body := struct {
		Quantity int `json:"quantity"`
	}{Quantity: quantity}
	return c.do(ctx, http.MethodPatch, "/cart/items/"+url.PathEscape(itemID), userID, body, nil)
}

// RemoveItem removes an item from the cart of the user.
func (c *Client) RemoveItem(ctx context.Context, userID, itemID string) error {
	return c.do(ctx, http.MethodDelete, "/cart/items/"+url.PathEscape(itemID), userID, nil, nil)
}

// ClearCart removes every item from the cart of the user.
func (c *Client) ClearCart(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodDelete, "/cart", userID, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, userID string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("cart api: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("cart api: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(HeaderUserID, userID)
	if c.apiKey != "" {
		req.Header.Set(HeaderAPIKey, c.apiKey)
	}
	if requestID := logger.RequestIDFromContext(ctx); requestID != "" {
		req.Header.Set(HeaderRequestID, requestID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cart api: %s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	logger.FromContext(ctx).Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("Cart API call")

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		var decodeErr *DecodeError
		if errors.As(err, &decodeErr) {
			return decodeErr
		}
		return &DecodeError{Reason: err.Error(), Err: err}
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload errorPayload
	if len(data) > 0 {
		// A non-JSON body still yields an error with the status text.
		_ = json.Unmarshal(data, &payload)
	}
	return NewAPIError(resp.StatusCode, payload.Message, payload.Errors...)
}

func validationAPIError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return NewAPIError(http.StatusBadRequest, err.Error())
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Message: validationMessage(fe)})
	}
	return NewAPIError(http.StatusBadRequest, "", fields...)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}
