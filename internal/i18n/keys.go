// Package i18n provides internationalization support for the cart service.
package i18n

// Error message translation keys.
const (
	// ErrKeyInvalidRequest indicates an invalid request.
	ErrKeyInvalidRequest = "error.invalid_request"
	// ErrKeyInvalidRequestBody indicates an invalid request body.
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	// ErrKeyInternalError indicates an internal server error.
	ErrKeyInternalError = "error.internal_error"
	// ErrKeyUnauthorized indicates missing or invalid authentication.
	ErrKeyUnauthorized = "error.unauthorized"
	// ErrKeyAPIKeyRequired indicates that an API key is required.
	ErrKeyAPIKeyRequired = "error.api_key_required"
	// ErrKeyInvalidAPIKey indicates an invalid API key.
	ErrKeyInvalidAPIKey = "error.invalid_api_key"
	// ErrKeyForbidden indicates insufficient permissions.
	ErrKeyForbidden = "error.forbidden"
	// ErrKeyNotFound indicates a resource was not found.
	ErrKeyNotFound = "error.not_found"
	// ErrKeyRateLimitExceeded indicates rate limit exceeded.
	ErrKeyRateLimitExceeded = "error.rate_limit_exceeded"
	// ErrKeyConflict indicates a conflict with current state.
	ErrKeyConflict = "error.conflict"
	// ErrKeyInvalidToken indicates an invalid or expired JWT token.
	ErrKeyInvalidToken = "error.invalid_token"
	// ErrKeyTokenRequired indicates that a JWT token is required.
	ErrKeyTokenRequired = "error.token_required"
	// ErrKeyUserRequired indicates the request carries no user identity.
	ErrKeyUserRequired = "error.user_required"
	// ErrKeyTimeout indicates a request timeout.
	ErrKeyTimeout = "error.timeout"
	// ErrKeyServiceUnavailable indicates the cart backend is temporarily unavailable.
	ErrKeyServiceUnavailable = "error.service_unavailable"
	// ErrKeyIdempotencyConflict indicates an idempotency key reused with another request.
	ErrKeyIdempotencyConflict = "error.idempotency_conflict"
	// ErrKeyValidationQuantity indicates an invalid quantity.
	ErrKeyValidationQuantity = "error.validation.quantity"
)

// Cart operation failure keys. These are the fallback messages shown when
// the cart backend does not provide one.
const (
	ErrKeyCartFetchFailed  = "error.cart.fetch_failed"
	ErrKeyCartAddFailed    = "error.cart.add_failed"
	ErrKeyCartUpdateFailed = "error.cart.update_failed"
	ErrKeyCartRemoveFailed = "error.cart.remove_failed"
	ErrKeyCartClearFailed  = "error.cart.clear_failed"
)

// Success message translation keys.
const (
	SuccessKeyItemAdded   = "success.item_added"
	SuccessKeyItemUpdated = "success.item_updated"
	SuccessKeyItemRemoved = "success.item_removed"
	SuccessKeyCartCleared = "success.cart_cleared"
	SuccessKeyLoggedOut   = "success.logged_out"
)
