package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/storefront-cart/internal/cartapi"
	"github.com/guttosm/storefront-cart/internal/circuitbreaker"
	"github.com/guttosm/storefront-cart/internal/domain/dto"
	"github.com/guttosm/storefront-cart/internal/domain/model"
	"github.com/guttosm/storefront-cart/internal/i18n"
	"github.com/guttosm/storefront-cart/internal/middleware"
	"github.com/guttosm/storefront-cart/internal/service"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// CartHandler serves the cart of the signed-in user.
type CartHandler struct {
	carts service.CartService
	audit service.AuditService
}

// NewCartHandler creates a cart handler. audit may be nil, which disables the history endpoint.
func NewCartHandler(carts service.CartService, audit service.AuditService) *CartHandler {
	return &CartHandler{carts: carts, audit: audit}
}

// GetCart handles GET /api/cart.
//
// @Summary      Get cart
// @Description  Returns the cart of the signed-in user grouped by restaurant. A cached cart is served when the backend cannot be reached.
// @Tags         Cart
// @Produce      json
// @Param        Authorization header string false "Bearer token (required if JWT auth enabled)"
// @Param        X-User-ID header string false "User id (trusted callers and auth-disabled mode)"
// @Success      200 {object} dto.SuccessResponse{data=dto.CartResponse}
// @Failure      401 {object} dto.ErrorResponse
// @Failure      502 {object} dto.ErrorResponse "Cart could not be loaded"
// @Failure      503 {object} dto.ErrorResponse "Cart backend unavailable"
// @Failure      504 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	builder := NewResponseBuilder(c)

	snapshot, err := h.carts.GetCart(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		writeCartError(builder, err)
		return
	}

	builder.SuccessOK(dto.NewCartResponse(snapshot))
}

// AddItem handles POST /api/cart/items.
//
// @Summary      Add item
// @Description  Adds a menu item to the cart. Adding a menu already in the cart merges the quantities.
// @Tags         Cart
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key for safe retries"
// @Param        request body dto.AddItemRequest true "Item to add"
// @Success      201 {object} dto.SuccessResponse{data=dto.MutationResponse}
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse "Menu not found"
// @Failure      422 {object} dto.ErrorResponse
// @Failure      502 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequestAndValidate[dto.AddItemRequest](c)
	if err != nil {
		writeRequestError(builder, err)
		return
	}

	outcome, err := h.carts.AddItem(c.Request.Context(), middleware.GetUserID(c), req.ToInput())
	if err != nil {
		writeCartError(builder, err)
		return
	}

	builder.SuccessCreated(newMutationResponse(builder, outcome, i18n.SuccessKeyItemAdded))
}

// UpdateItemQuantity handles PATCH /api/cart/items/{itemId}.
//
// @Summary      Change item quantity
// @Description  Sets the quantity of a cart item. The cart shows the new quantity and totals immediately and is restored if the backend rejects the change.
// @Tags         Cart
// @Accept       json
// @Produce      json
// @Param        itemId path string true "Cart item id"
// @Param        Idempotency-Key header string false "Idempotency key for safe retries"
// @Param        request body dto.UpdateQuantityRequest true "New quantity"
// @Success      200 {object} dto.SuccessResponse{data=dto.MutationResponse}
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse "Item not found"
// @Failure      502 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/cart/items/{itemId} [patch]
func (h *CartHandler) UpdateItemQuantity(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequestAndValidate[dto.UpdateQuantityRequest](c)
	if err != nil {
		writeRequestError(builder, err)
		return
	}

	outcome, err := h.carts.UpdateItemQuantity(c.Request.Context(), middleware.GetUserID(c), c.Param("itemId"), req.Quantity)
	if err != nil {
		writeCartError(builder, err)
		return
	}

	builder.SuccessOK(newMutationResponse(builder, outcome, i18n.SuccessKeyItemUpdated))
}

// RemoveItem handles DELETE /api/cart/items/{itemId}.
//
// @Summary      Remove item
// @Description  Removes an item from the cart; a restaurant without items disappears from the cart.
// @Tags         Cart
// @Produce      json
// @Param        itemId path string true "Cart item id"
// @Param        Idempotency-Key header string false "Idempotency key for safe retries"
// @Success      200 {object} dto.SuccessResponse{data=dto.MutationResponse}
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse "Item not found"
// @Failure      502 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/cart/items/{itemId} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	builder := NewResponseBuilder(c)

	outcome, err := h.carts.RemoveItem(c.Request.Context(), middleware.GetUserID(c), c.Param("itemId"))
	if err != nil {
		writeCartError(builder, err)
		return
	}

	builder.SuccessOK(newMutationResponse(builder, outcome, i18n.SuccessKeyItemRemoved))
}

// ClearCart handles DELETE /api/cart.
//
// @Summary      Clear cart
// @Description  Removes every item from the cart.
// @Tags         Cart
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key for safe retries"
// @Success      200 {object} dto.SuccessResponse{data=dto.MutationResponse}
// @Failure      401 {object} dto.ErrorResponse
// @Failure      502 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/cart [delete]
func (h *CartHandler) ClearCart(c *gin.Context) {
	builder := NewResponseBuilder(c)

	outcome, err := h.carts.ClearCart(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		writeCartError(builder, err)
		return
	}

	builder.SuccessOK(newMutationResponse(builder, outcome, i18n.SuccessKeyCartCleared))
}

// Logout handles POST /api/session/logout.
//
// @Summary      End cart session
// @Description  Forgets the cached cart of the user. The stored cart is kept.
// @Tags         Session
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=dto.MessageResponse}
// @Failure      401 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/session/logout [post]
func (h *CartHandler) Logout(c *gin.Context) {
	builder := NewResponseBuilder(c)

	h.carts.Discard(middleware.GetUserID(c))
	builder.SuccessOK(dto.MessageResponse{Message: builder.Translate(i18n.SuccessKeyLoggedOut)})
}

// History handles GET /api/cart/history.
//
// @Summary      Cart history
// @Description  Lists the settled cart writes of the user, newest first.
// @Tags         Cart
// @Produce      json
// @Param        limit query int false "Page size (max 100)" default(20)
// @Param        skip query int false "Entries to skip" default(0)
// @Success      200 {object} dto.SuccessResponse{data=dto.CartHistoryResponse}
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse "Audit storage disabled"
// @Security     BearerAuth
// @Router       /api/cart/history [get]
func (h *CartHandler) History(c *gin.Context) {
	builder := NewResponseBuilder(c)

	if h.audit == nil {
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyServiceUnavailable, nil)
		return
	}

	limit, err := queryInt(c, "limit", defaultHistoryLimit)
	if err != nil || limit < 1 {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	skip, err := queryInt(c, "skip", 0)
	if err != nil || skip < 0 {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}

	ctx := c.Request.Context()
	opts := model.AuditQueryOptions{UserID: middleware.GetUserID(c), Limit: limit, Skip: skip}

	entries, err := h.audit.Query(ctx, opts)
	if err != nil {
		writeCartError(builder, err)
		return
	}
	total, err := h.audit.Count(ctx, opts)
	if err != nil {
		writeCartError(builder, err)
		return
	}

	resp := dto.CartHistoryResponse{
		Entries: make([]dto.AuditEntryResponse, 0, len(entries)),
		Total:   total,
		Limit:   limit,
		Skip:    skip,
	}
	for _, entry := range entries {
		resp.Entries = append(resp.Entries, dto.NewAuditEntryResponse(entry))
	}
	builder.SuccessOK(resp)
}

func newMutationResponse(builder *ResponseBuilder, outcome service.MutationOutcome, messageKey string) dto.MutationResponse {
	return dto.MutationResponse{
		Cart:    dto.NewCartResponse(outcome.Cart),
		Settled: outcome.Settled,
		Message: builder.Translate(messageKey),
	}
}

func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

// writeRequestError answers a body that could not be bound or validated.
func writeRequestError(builder *ResponseBuilder, err error) {
	var validationErr *dto.ValidationError
	if !errors.As(err, &validationErr) {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	key := i18n.ErrKeyInvalidRequest
	if validationErr.Field == "quantity" {
		key = i18n.ErrKeyValidationQuantity
	}
	builder.ErrorWithDetails(http.StatusBadRequest, builder.Translate(key),
		map[string]string{validationErr.Field: validationErr.Message}, err)
}

// writeCartError maps a cart service error to its HTTP response.
//
// A client rejection from the backend keeps its status and message.
// A request that ran out of time is 504 and an open circuit 503; any
// other backend failure is 502.
func writeCartError(builder *ResponseBuilder, err error) {
	var (
		mutationErr *service.MutationError
		fetchErr    *service.FetchError
	)

	switch {
	case errors.Is(err, service.ErrUserRequired):
		builder.Error(http.StatusUnauthorized, i18n.ErrKeyUserRequired, err)
	case errors.Is(err, service.ErrInvalidQuantity):
		builder.Error(http.StatusBadRequest, i18n.ErrKeyValidationQuantity, err)
	case errors.Is(err, service.ErrItemIDRequired):
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
	case errors.Is(err, context.DeadlineExceeded):
		builder.Error(http.StatusGatewayTimeout, i18n.ErrKeyTimeout, err)
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyServiceUnavailable, err)
	case errors.As(err, &mutationErr):
		status := http.StatusBadGateway
		var apiErr *cartapi.APIError
		if cartapi.IsClientError(err) && errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
		builder.ErrorWithDetails(status, mutationErr.DisplayMessage(builder.Locale()), fieldDetails(mutationErr.Fields), err)
	case errors.As(err, &fetchErr):
		builder.ErrorWithMessage(http.StatusBadGateway, fetchErr.DisplayMessage(builder.Locale()), err)
	default:
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
	}
}

func fieldDetails(fields []cartapi.FieldError) map[string]string {
	if len(fields) == 0 {
		return nil
	}
	details := make(map[string]string, len(fields))
	for _, f := range fields {
		details[f.Field] = f.Message
	}
	return details
}
