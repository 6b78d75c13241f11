// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs are used to decouple the HTTP layer from the domain model,
// providing validation and serialization for API communication.
package dto

import (
	"strings"
	"unicode/utf8"

	"github.com/guttosm/storefront-cart/internal/cartapi"
)

// MaxNoteLength is the longest note accepted on a cart item.
const MaxNoteLength = 500

// AddItemRequest represents the JSON request body for adding an item to the cart.
//
// @Description Request to add a menu item to the cart
// @Example {"restaurant_id": "rest-bangkok", "menu_id": "menu-pad-thai", "quantity": 2}
type AddItemRequest struct {
	// RestaurantID is the restaurant selling the menu item.
	RestaurantID string `json:"restaurant_id" example:"rest-bangkok"`
	// MenuID is the menu item to add.
	MenuID string `json:"menu_id" example:"menu-pad-thai"`
	// Quantity must be at least 1.
	Quantity int `json:"quantity" example:"2" minimum:"1"`
	// Note is an optional instruction for the kitchen.
	Note string `json:"note,omitempty" example:"no peanuts"`
} // @name AddItemRequest

// UpdateQuantityRequest represents the JSON request body for changing an item's quantity.
//
// @Description Request to change the quantity of a cart item
// @Example {"quantity": 3}
type UpdateQuantityRequest struct {
	// Quantity must be at least 1. Use DELETE to remove an item.
	Quantity int `json:"quantity" example:"3" minimum:"1"`
} // @name UpdateQuantityRequest

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

var (
	// ErrInvalidQuantity is returned when quantity is below 1.
	ErrInvalidQuantity = &ValidationError{
		Field:   "quantity",
		Message: "must be a positive integer",
	}
	// ErrNoteTooLong is returned when the note exceeds MaxNoteLength characters.
	ErrNoteTooLong = &ValidationError{
		Field:   "note",
		Message: "must be at most 500 characters",
	}
	// ErrRestaurantIDRequired is returned when restaurant_id is blank.
	ErrRestaurantIDRequired = &ValidationError{
		Field:   "restaurant_id",
		Message: "is required",
	}
	// ErrMenuIDRequired is returned when menu_id is blank.
	ErrMenuIDRequired = &ValidationError{
		Field:   "menu_id",
		Message: "is required",
	}
)

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate performs custom validation on the request.
func (r *AddItemRequest) Validate() error {
	if strings.TrimSpace(r.RestaurantID) == "" {
		return ErrRestaurantIDRequired
	}
	if strings.TrimSpace(r.MenuID) == "" {
		return ErrMenuIDRequired
	}
	if r.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if utf8.RuneCountInString(r.Note) > MaxNoteLength {
		return ErrNoteTooLong
	}
	return nil
}

// ToInput converts the request into the cart backend input.
func (r *AddItemRequest) ToInput() cartapi.AddItemInput {
	return cartapi.AddItemInput{
		RestaurantID: strings.TrimSpace(r.RestaurantID),
		MenuID:       strings.TrimSpace(r.MenuID),
		Quantity:     r.Quantity,
		Note:         r.Note,
	}
}

// Validate performs custom validation on the request.
func (r *UpdateQuantityRequest) Validate() error {
	if r.Quantity < 1 {
		return ErrInvalidQuantity
	}
	return nil
}
