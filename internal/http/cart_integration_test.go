//go:build integration

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/storefront-cart/internal/domain/dto"
	"github.com/guttosm/storefront-cart/internal/domain/model"
	"github.com/guttosm/storefront-cart/internal/middleware"
	"github.com/guttosm/storefront-cart/internal/querycache"
	"github.com/guttosm/storefront-cart/internal/repository"
	"github.com/guttosm/storefront-cart/internal/service"
)

func setupCartStack(t *testing.T) (*gin.Engine, *service.AuditServiceImpl) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	db, err := repository.NewMongoDB(getSharedContainerURI(), sanitizeDBNameForHTTP(t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Database.Drop(context.Background())
		_ = db.Close(context.Background())
	})

	menus := repository.NewMenuRepository(db)
	_, err = repository.SeedMenus(ctx, menus)
	require.NoError(t, err)

	cache := querycache.New[model.CartSnapshot](querycache.DefaultConfig())
	t.Cleanup(cache.Stop)

	cfg := service.DefaultAuditConfig()
	cfg.BatchSize = 1
	audit := service.NewAuditService(repository.NewAuditRepository(db), cfg)
	t.Cleanup(audit.Close)

	carts := service.NewCartService(repository.NewCartRepository(db, menus), cache, audit)
	router := NewRouter(NewCartHandler(carts, audit), NewHealthHandler(), DefaultRouterConfig())
	return router, audit
}

func sendJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.UserIDHeader, "integration-user")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func cartFrom(t *testing.T, w *httptest.ResponseRecorder) dto.CartResponse {
	t.Helper()
	var envelope struct {
		Data dto.CartResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

func mutationFrom(t *testing.T, w *httptest.ResponseRecorder) dto.MutationResponse {
	t.Helper()
	var envelope struct {
		Data dto.MutationResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestCartIntegration_FullFlow(t *testing.T) {
	router, _ := setupCartStack(t)

	w := sendJSON(router, http.MethodGet, "/api/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, cartFrom(t, w).Groups)

	w = sendJSON(router, http.MethodPost, "/api/cart/items",
		`{"restaurant_id": "rest-bangkok", "menu_id": "menu-pad-thai", "quantity": 2}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	added := mutationFrom(t, w)
	assert.True(t, added.Settled)
	require.Len(t, added.Cart.Groups, 1)
	itemID := added.Cart.Groups[0].Items[0].ID
	assert.Equal(t, int64(40000), added.Cart.Summary.TotalPrice)

	w = sendJSON(router, http.MethodPost, "/api/cart/items",
		`{"restaurant_id": "rest-napoli", "menu_id": "menu-margherita", "quantity": 1}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = sendJSON(router, http.MethodPatch, "/api/cart/items/"+itemID, `{"quantity": 3}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := mutationFrom(t, w)
	assert.Equal(t, int64(75000), updated.Cart.Summary.TotalPrice)
	assert.Equal(t, 4, updated.Cart.Summary.TotalItems)

	w = sendJSON(router, http.MethodDelete, "/api/cart/items/"+itemID, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	removed := mutationFrom(t, w)
	require.Len(t, removed.Cart.Groups, 1)
	assert.Equal(t, "rest-napoli", removed.Cart.Groups[0].Restaurant.ID)

	w = sendJSON(router, http.MethodDelete, "/api/cart", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, mutationFrom(t, w).Cart.Groups)
}

func TestCartIntegration_RejectedWritesKeepTheCart(t *testing.T) {
	router, _ := setupCartStack(t)

	w := sendJSON(router, http.MethodPost, "/api/cart/items",
		`{"restaurant_id": "rest-bangkok", "menu_id": "menu-green-curry", "quantity": 1}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = sendJSON(router, http.MethodPost, "/api/cart/items",
		`{"restaurant_id": "rest-bangkok", "menu_id": "menu-mango-rice", "quantity": 1}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "This dish is currently unavailable.")

	w = sendJSON(router, http.MethodPatch, "/api/cart/items/missing", `{"quantity": 2}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "This item is no longer in your cart.")

	w = sendJSON(router, http.MethodGet, "/api/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	cart := cartFrom(t, w)
	require.Len(t, cart.Groups, 1)
	assert.Equal(t, int64(18000), cart.Summary.TotalPrice)
}

func TestCartIntegration_History(t *testing.T) {
	router, audit := setupCartStack(t)

	w := sendJSON(router, http.MethodPost, "/api/cart/items",
		`{"restaurant_id": "rest-napoli", "menu_id": "menu-tiramisu", "quantity": 1}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = sendJSON(router, http.MethodPatch, "/api/cart/items/missing", `{"quantity": 2}`)
	require.Equal(t, http.StatusNotFound, w.Code)

	require.Eventually(t, func() bool {
		return audit.Stats().Written >= 2
	}, 5*time.Second, 50*time.Millisecond)

	w = sendJSON(router, http.MethodGet, "/api/cart/history", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope struct {
		Data dto.CartHistoryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, int64(2), envelope.Data.Total)
	require.Len(t, envelope.Data.Entries, 2)
	assert.Equal(t, model.OperationUpdateItemQuantity, envelope.Data.Entries[0].Operation)
	assert.Equal(t, model.OutcomeFailed, envelope.Data.Entries[0].Outcome)
}
