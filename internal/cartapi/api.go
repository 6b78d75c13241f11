// Package cartapi defines the contract of the authoritative cart backend
// and an HTTP client for it.
package cartapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/guttosm/storefront-cart/internal/domain/model"
)

// CartAPI is the authoritative cart backend.
// Every call acts on the cart of the given user.
type CartAPI interface {
	FetchCart(ctx context.Context, userID string) (model.CartSnapshot, error)
	AddItem(ctx context.Context, userID string, input AddItemInput) error
	UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) error
	RemoveItem(ctx context.Context, userID, itemID string) error
	ClearCart(ctx context.Context, userID string) error
}

// AddItemInput describes an item to add to the cart.
type AddItemInput struct {
	RestaurantID string `json:"restaurant_id" validate:"required"`
	MenuID       string `json:"menu_id" validate:"required"`
	Quantity     int    `json:"quantity" validate:"min=1"`
	Note         string `json:"note,omitempty" validate:"max=500"`
}

// FieldError is a validation failure reported for one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is a structured rejection returned by the cart backend.
type APIError struct {
	StatusCode int
	Message    string
	Fields     []FieldError
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("cart api: %d %s", e.StatusCode, e.Message)
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("cart api: %d %s (%s)", e.StatusCode, e.Message, strings.Join(parts, "; "))
}

// NewAPIError creates an APIError, defaulting the message to the status text.
func NewAPIError(status int, message string, fields ...FieldError) *APIError {
	if message == "" {
		message = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Message: message, Fields: fields}
}

// DecodeError reports a cart payload that does not match the expected shape.
type DecodeError struct {
	Field  string
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return "cart api: malformed payload: " + e.Reason
	}
	return fmt.Sprintf("cart api: malformed payload at %s: %s", e.Field, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsClientError reports whether err is a rejection of the request itself
// (4xx) rather than a backend failure.
func IsClientError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode >= 400 && apiErr.StatusCode < 500
}

// IsBackendFailure reports whether err should count against the health of
// the backend. Client rejections and cancelled requests do not.
func IsBackendFailure(err error) bool {
	if err == nil || IsClientError(err) {
		return false
	}
	return !errors.Is(err, context.Canceled)
}
