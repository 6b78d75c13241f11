// Package middleware provides the user identity middleware that selects the cart.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/storefront-cart/internal/domain/dto"
	"github.com/guttosm/storefront-cart/internal/i18n"
)

const (
	// UserIDHeader carries the user identity from trusted callers.
	UserIDHeader = "X-User-ID"
	// UserIDKey is the gin context key holding the user id.
	UserIDKey = "user_id"
	// UserClaimsKey is the gin context key holding the token claims.
	UserClaimsKey = "user_claims"

	maxUserIDLength = 128
)

// SetUser stores the authenticated identity on the request.
func SetUser(c *gin.Context, claims *dto.Claims) {
	c.Set(UserIDKey, claims.UserID)
	c.Set(UserClaimsKey, claims)
}

// GetUserID returns the user id of the request, or "" when there is none.
func GetUserID(c *gin.Context) string {
	if id, exists := c.Get(UserIDKey); exists {
		if userID, ok := id.(string); ok {
			return userID
		}
	}
	return ""
}

// UserFromHeader returns a middleware that takes the user identity from the
// X-User-ID header. It is only safe behind a trusted caller: either with
// authentication disabled or after APIKeyAuth.
func UserFromHeader() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserID(c) == "" {
			userID := strings.TrimSpace(c.GetHeader(UserIDHeader))
			if userID != "" && len(userID) <= maxUserIDLength {
				SetUser(c, &dto.Claims{UserID: userID})
			}
		}
		c.Next()
	}
}

// RequireUser returns a middleware that rejects requests without a user identity.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserID(c) == "" {
			message := i18n.GetTranslator().Translate(i18n.ErrKeyUserRequired, i18n.GetLocale(c))
			errorResp := dto.NewError(dto.ErrCodeUnauthorized, message).
				WithRequestID(GetRequestID(c))
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResp)
			return
		}
		c.Next()
	}
}
