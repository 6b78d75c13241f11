package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/storefront-cart/internal/domain/dto"
	"github.com/guttosm/storefront-cart/internal/i18n"
)

const (
	// IdempotencyKeyHeader is the HTTP header name for idempotency key (RFC standard).
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marks a response served from the store.
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"
	// IdempotencyKeyTTL is how long a finished response can be replayed.
	IdempotencyKeyTTL = 5 * time.Minute

	defaultIdempotencyEntries = 10000
	maxIdempotencyKeyLength   = 255
	maxIdempotentBodyBytes    = 1 << 20
)

var errBodyTooLarge = errors.New("request body too large to fingerprint")

// Idempotency returns a middleware that makes cart writes safe to retry.
//
// A write carrying an Idempotency-Key runs once per user and key. A retry of
// the same request replays the stored 2xx response. Reusing the key for a
// different request is rejected with 422, and a retry racing the original
// gets 409. Failed writes release the key: their optimistic change was rolled
// back, so running them again is correct.
func Idempotency(store *IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil || !isWriteMethod(c.Request.Method) {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" || len(key) > maxIdempotencyKeyLength {
			c.Next()
			return
		}

		fingerprint, err := requestFingerprint(c.Request)
		if err != nil {
			c.Next()
			return
		}

		scope := idempotencyScope(c, key)
		state, stored := store.Reserve(scope, fingerprint)
		switch state {
		case replay:
			c.Header(IdempotencyReplayedHeader, "true")
			c.Data(stored.StatusCode, stored.ContentType, stored.Body)
			c.Abort()
			return
		case mismatch:
			abortIdempotency(c, http.StatusUnprocessableEntity, dto.ErrCodeInvalidRequest, i18n.ErrKeyIdempotencyConflict)
			return
		case inProgress:
			abortIdempotency(c, http.StatusConflict, dto.ErrCodeConflict, i18n.ErrKeyConflict)
			return
		}

		writer := &capturingWriter{ResponseWriter: c.Writer}
		c.Writer = writer

		defer func() {
			status := writer.Status()
			if status >= 200 && status < 300 {
				store.Complete(scope, &storedResponse{
					StatusCode:  status,
					ContentType: writer.Header().Get("Content-Type"),
					Body:        writer.body.Bytes(),
				})
				return
			}
			store.Release(scope)
		}()

		c.Next()
	}
}

func isWriteMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

// idempotencyScope keeps keys of different users apart.
func idempotencyScope(c *gin.Context, key string) string {
	owner := GetUserID(c)
	if owner == "" {
		owner = "ip:" + c.ClientIP()
	}
	return owner + "\x00" + key
}

// requestFingerprint hashes the method, path and body, restoring the body for the handler.
func requestFingerprint(req *http.Request) (string, error) {
	hasher := sha256.New()
	hasher.Write([]byte(req.Method))
	hasher.Write([]byte{0})
	hasher.Write([]byte(req.URL.Path))
	hasher.Write([]byte{0})

	if req.Body != nil {
		body, err := io.ReadAll(io.LimitReader(req.Body, maxIdempotentBodyBytes+1))
		req.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), req.Body))
		if err != nil {
			return "", err
		}
		if len(body) > maxIdempotentBodyBytes {
			return "", errBodyTooLarge
		}
		hasher.Write(body)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func abortIdempotency(c *gin.Context, status int, code, key string) {
	message := i18n.GetTranslator().Translate(key, i18n.GetLocale(c))
	errorResp := dto.NewError(code, message).WithRequestID(GetRequestID(c))
	c.AbortWithStatusJSON(status, errorResp)
}

// capturingWriter copies the response body while writing it.
type capturingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *capturingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
