package dto

import (
	"net/http"
	"time"

	"github.com/guttosm/storefront-cart/internal/domain/model"
)

const (
	// ErrCodeInvalidRequest indicates an invalid request.
	ErrCodeInvalidRequest = "invalid_request"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal = "internal_error"
	// ErrCodeUnauthorized indicates missing or invalid authentication.
	ErrCodeUnauthorized = "unauthorized"
	// ErrCodeForbidden indicates insufficient permissions.
	ErrCodeForbidden = "forbidden"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound = "not_found"
	// ErrCodeRateLimit indicates rate limit exceeded.
	ErrCodeRateLimit = "rate_limit_exceeded"
	// ErrCodeConflict indicates a conflict with current state.
	ErrCodeConflict = "conflict"
	// ErrCodeTimeout indicates a request timeout.
	ErrCodeTimeout = "timeout"
	// ErrCodeBadGateway indicates the cart backend failed.
	ErrCodeBadGateway = "bad_gateway"
	// ErrCodeServiceUnavailable indicates the cart backend is unavailable.
	ErrCodeServiceUnavailable = "service_unavailable"
)

// SuccessResponse wraps successful API responses with metadata.
// @Description Successful API response wrapper
type SuccessResponse struct {
	// Data contains the actual response data
	Data interface{} `json:"data" swaggertype:"object"`
	// RequestID is the unique request identifier
	RequestID string `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	// Timestamp is when the response was generated
	Timestamp time.Time `json:"timestamp" example:"2025-01-28T10:00:00Z"`
} // @name SuccessResponse

// ErrorResponse represents a standardized error response for the API.
// @Description Standardized error response
type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_request"`
	Message string `json:"message,omitempty" example:"Quantity must be at least 1"`
	// Details maps field names to validation messages (optional)
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time         `json:"timestamp" example:"2025-01-28T10:00:00Z"`
	TraceID   string            `json:"trace_id,omitempty" example:"trace-123"`
} // @name ErrorResponse

// CartResponse is the cart as shown to the storefront.
//
// @Description Cart with restaurant groups and totals
type CartResponse struct {
	Groups  []model.CartRestaurantGroup `json:"groups"`
	Summary model.CartSummary           `json:"summary"`
} // @name CartResponse

// MutationResponse is returned by every cart write.
//
// @Description Result of a cart write
type MutationResponse struct {
	// Cart is the cart after the write.
	Cart CartResponse `json:"cart"`
	// Settled is false when the cart could not be re-read after the write and may be out of date.
	Settled bool `json:"settled" example:"true"`
	// Message is a display-ready confirmation.
	Message string `json:"message" example:"Item added to cart"`
} // @name MutationResponse

// MessageResponse carries a display-ready message.
//
// @Description Display-ready message
type MessageResponse struct {
	Message string `json:"message" example:"Logged out"`
} // @name MessageResponse

// AuditEntryResponse is one entry of the cart history.
//
// @Description Settled cart mutation
type AuditEntryResponse struct {
	Operation  string    `json:"operation" example:"update_item_quantity"`
	ItemID     string    `json:"item_id,omitempty"`
	Outcome    string    `json:"outcome" example:"success"`
	RolledBack bool      `json:"rolled_back"`
	DurationMs int64     `json:"duration_ms" example:"42"`
	Timestamp  time.Time `json:"timestamp"`
} // @name AuditEntryResponse

// CartHistoryResponse is a page of the cart history.
//
// @Description Page of settled cart mutations, newest first
type CartHistoryResponse struct {
	Entries []AuditEntryResponse `json:"entries"`
	Total   int64                `json:"total" example:"12"`
	Limit   int                  `json:"limit" example:"20"`
	Skip    int                  `json:"skip" example:"0"`
} // @name CartHistoryResponse

// NewCartResponse converts a snapshot into its response form.
func NewCartResponse(snapshot model.CartSnapshot) CartResponse {
	groups := snapshot.Groups
	if groups == nil {
		groups = []model.CartRestaurantGroup{}
	}
	return CartResponse{Groups: groups, Summary: snapshot.Summary}
}

// NewAuditEntryResponse converts an audit entry into its response form.
func NewAuditEntryResponse(entry *model.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		Operation:  entry.Operation,
		ItemID:     entry.ItemID,
		Outcome:    entry.Outcome,
		RolledBack: entry.RolledBack,
		DurationMs: entry.Duration,
		Timestamp:  entry.Timestamp,
	}
}

// NewError creates a new ErrorResponse with the given code and message.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WithRequestID adds a request ID to the error response.
func (e ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	e.RequestID = requestID
	return e
}

// WithDetails adds field-level details to the error response.
func (e ErrorResponse) WithDetails(details map[string]string) ErrorResponse {
	e.Details = details
	return e
}

// ErrCodeFromStatus returns the appropriate error code for an HTTP status.
func ErrCodeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrCodeInvalidRequest
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusForbidden:
		return ErrCodeForbidden
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusConflict:
		return ErrCodeConflict
	case http.StatusTooManyRequests:
		return ErrCodeRateLimit
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return ErrCodeTimeout
	case http.StatusBadGateway:
		return ErrCodeBadGateway
	case http.StatusServiceUnavailable:
		return ErrCodeServiceUnavailable
	default:
		return ErrCodeInternal
	}
}
