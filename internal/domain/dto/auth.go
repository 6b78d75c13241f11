// Package dto defines Data Transfer Objects for authentication.
package dto

// Claims represents the identity carried by a validated access token.
type Claims struct {
	// UserID is the token subject; it selects the cart.
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
}
