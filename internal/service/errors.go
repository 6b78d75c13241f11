package service

import (
	"errors"
	"fmt"

	"github.com/guttosm/storefront-cart/internal/cartapi"
	"github.com/guttosm/storefront-cart/internal/i18n"
)

var (
	// ErrUserRequired is returned when a cart operation has no user identity.
	ErrUserRequired = errors.New("user id is required")
	// ErrInvalidQuantity is returned for quantities below 1.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrItemIDRequired is returned when an item operation has no item id.
	ErrItemIDRequired = errors.New("item id is required")
)

// FetchError reports that the cart could not be read and nothing was cached.
type FetchError struct {
	Cause error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch cart: %v", e.Cause)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// DisplayMessage returns a message suitable for showing to the user.
func (e *FetchError) DisplayMessage(locale string) string {
	return i18n.GetTranslator().Translate(i18n.ErrKeyCartFetchFailed, locale)
}

// MutationError reports a rejected cart write. The cache has already been
// restored to the value it held when the mutation started.
type MutationError struct {
	Op string
	// Message is the backend's own explanation for a client rejection.
	// Empty when the backend gave none or failed outright.
	Message string
	// MessageKey is the translated fallback used when Message is empty.
	MessageKey string
	Fields     []cartapi.FieldError
	RolledBack bool
	Cause      error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *MutationError) Unwrap() error {
	return e.Cause
}

// DisplayMessage returns a message suitable for showing to the user.
func (e *MutationError) DisplayMessage(locale string) string {
	if e.Message != "" {
		return e.Message
	}
	return i18n.GetTranslator().Translate(e.MessageKey, locale)
}

// newMutationError builds the error returned for a failed remote write.
func newMutationError(op, messageKey string, cause error, rolledBack bool) *MutationError {
	mutErr := &MutationError{
		Op:         op,
		MessageKey: messageKey,
		RolledBack: rolledBack,
		Cause:      cause,
	}

	var apiErr *cartapi.APIError
	if errors.As(cause, &apiErr) && cartapi.IsClientError(cause) {
		mutErr.Message = apiErr.Message
		mutErr.Fields = apiErr.Fields
	}
	return mutErr
}
