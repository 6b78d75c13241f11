package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/storefront-cart/internal/i18n"
)

const (
	// APIKeyHeader is the HTTP header name for API key authentication.
	APIKeyHeader = "X-API-Key"
)

// APIKeyAuth returns a middleware that validates API keys for trusted
// callers such as a storefront server. Those callers name the user with
// X-User-ID; pair this middleware with UserFromHeader.
// If validKeys is empty, authentication is disabled.
func APIKeyAuth(validKeys map[string]bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(validKeys) == 0 {
			c.Next()
			return
		}

		key := c.GetHeader(APIKeyHeader)
		if key == "" {
			abortUnauthorized(c, i18n.ErrKeyAPIKeyRequired)
			return
		}

		if !matchesAPIKey(validKeys, key) {
			abortUnauthorized(c, i18n.ErrKeyInvalidAPIKey)
			return
		}

		c.Next()
	}
}

func matchesAPIKey(validKeys map[string]bool, key string) bool {
	matched := false
	for valid := range validKeys {
		if subtle.ConstantTimeCompare([]byte(valid), []byte(key)) == 1 {
			matched = true
		}
	}
	return matched
}
