package cartapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/guttosm/storefront-cart/internal/domain/model"
	"github.com/guttosm/storefront-cart/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCartBody = `{
  "groups": [
    {
      "restaurant": {"id": "rest-a", "name": "Restaurant A"},
      "items": [
        {"id": "1", "menu": {"id": "m1", "name": "Pad Thai", "price": 20000}, "quantity": 2, "item_total": 40000},
        {"id": "2", "menu": {"id": "m2", "name": "Spring Rolls", "price": 5000}, "quantity": 1, "item_total": 5000}
      ],
      "subtotal": 1
    }
  ],
  "summary": {"total_items": 999}
}`

type recordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   string
}

type requestRecorder struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (r *requestRecorder) add(req recordedRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
}

func (r *requestRecorder) all() []recordedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedRequest(nil), r.requests...)
}

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *requestRecorder) {
	t.Helper()
	recorder := &requestRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		recorder.add(recordedRequest{
			Method: r.Method,
			Path:   r.URL.EscapedPath(),
			Header: r.Header.Clone(),
			Body:   string(data),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, recorder
}

func TestClient_FetchCart(t *testing.T) {
	srv, requests := newTestServer(t, http.StatusOK, validCartBody)
	client := NewClient(ClientConfig{BaseURL: srv.URL + "/", APIKey: "secret"})
	ctx := logger.WithRequestID(context.Background(), "req-1")

	snapshot, err := client.FetchCart(ctx, "user-1")

	require.NoError(t, err)
	require.Len(t, snapshot.Groups, 1)
	assert.Equal(t, int64(45000), snapshot.Groups[0].Subtotal)
	assert.Equal(t, model.CartSummary{TotalItems: 3, TotalPrice: 45000, RestaurantCount: 1}, snapshot.Summary)

	recorded := requests.all()
	require.Len(t, recorded, 1)
	req := recorded[0]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/cart", req.Path)
	assert.Equal(t, "user-1", req.Header.Get(HeaderUserID))
	assert.Equal(t, "secret", req.Header.Get(HeaderAPIKey))
	assert.Equal(t, "req-1", req.Header.Get(HeaderRequestID))
}

func TestClient_FetchCart_EmptyCart(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty groups", body: `{"groups": []}`},
		{name: "empty groups with summary", body: `{"groups": [], "summary": {"total_items": 0}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, http.StatusOK, tt.body)
			client := NewClient(ClientConfig{BaseURL: srv.URL})

			snapshot, err := client.FetchCart(context.Background(), "user-1")

			require.NoError(t, err)
			assert.Equal(t, model.EmptySnapshot(), snapshot)
		})
	}
}

func TestClient_FetchCart_MalformedPayload(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		expectedField string
	}{
		{
			name:          "not json",
			body:          `<html>`,
			expectedField: "",
		},
		{
			name:          "empty object",
			body:          `{}`,
			expectedField: "groups",
		},
		{
			name:          "null document",
			body:          `null`,
			expectedField: "groups",
		},
		{
			name:          "null groups",
			body:          `{"groups":null}`,
			expectedField: "groups",
		},
		{
			name:          "items at the top level",
			body:          `{"items":[{"id":"1"}]}`,
			expectedField: "groups",
		},
		{
			name:          "unknown top-level field",
			body:          `{"groups":[],"cart_items":[]}`,
			expectedField: "cart_items",
		},
		{
			name:          "groups of the wrong type",
			body:          `{"groups":{"id":"r"}}`,
			expectedField: "",
		},
		{
			name:          "missing item id",
			body:          `{"groups":[{"restaurant":{"id":"r","name":"R"},"items":[{"menu":{"id":"m","name":"M","price":1},"quantity":1,"item_total":1}]}]}`,
			expectedField: "groups[0].items[0].id",
		},
		{
			name:          "zero quantity",
			body:          `{"groups":[{"restaurant":{"id":"r","name":"R"},"items":[{"id":"1","menu":{"id":"m","name":"M","price":1},"quantity":0,"item_total":0}]}]}`,
			expectedField: "groups[0].items[0].quantity",
		},
		{
			name:          "missing price",
			body:          `{"groups":[{"restaurant":{"id":"r","name":"R"},"items":[{"id":"1","menu":{"id":"m","name":"M"},"quantity":1,"item_total":1}]}]}`,
			expectedField: "groups[0].items[0].menu.price",
		},
		{
			name:          "empty group",
			body:          `{"groups":[{"restaurant":{"id":"r","name":"R"},"items":[]}]}`,
			expectedField: "groups[0].items",
		},
		{
			name:          "missing restaurant",
			body:          `{"groups":[{"items":[{"id":"1","menu":{"id":"m","name":"M","price":1},"quantity":1,"item_total":1}]}]}`,
			expectedField: "groups[0].restaurant.id",
		},
		{
			name:          "inconsistent item total",
			body:          `{"groups":[{"restaurant":{"id":"r","name":"R"},"items":[{"id":"1","menu":{"id":"m","name":"M","price":100},"quantity":2,"item_total":150}]}]}`,
			expectedField: "groups[0].items[0].item_total",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, http.StatusOK, tt.body)
			client := NewClient(ClientConfig{BaseURL: srv.URL})

			_, err := client.FetchCart(context.Background(), "user-1")

			var decodeErr *DecodeError
			require.ErrorAs(t, err, &decodeErr)
			assert.Equal(t, tt.expectedField, decodeErr.Field)
		})
	}
}

func TestClient_Mutations(t *testing.T) {
	tests := []struct {
		name           string
		call           func(*Client) error
		expectedMethod string
		expectedPath   string
		expectedBody   map[string]interface{}
	}{
		{
			name: "add item",
			call: func(c *Client) error {
				return c.AddItem(context.Background(), "user-1", AddItemInput{RestaurantID: "r1", MenuID: "m1", Quantity: 2, Note: "no onions"})
			},
			expectedMethod: http.MethodPost,
			expectedPath:   "/cart/items",
			expectedBody:   map[string]interface{}{"restaurant_id": "r1", "menu_id": "m1", "quantity": float64(2), "note": "no onions"},
		},
		{
			name: "update quantity",
			call: func(c *Client) error {
				return c.UpdateItemQuantity(context.Background(), "user-1", "item 1", 3)
			},
			expectedMethod: http.MethodPatch,
			expectedPath:   "/cart/items/item%201",
			expectedBody:   map[string]interface{}{"quantity": float64(3)},
		},
		{
			name: "remove item",
			call: func(c *Client) error {
				return c.RemoveItem(context.Background(), "user-1", "item-1")
			},
			expectedMethod: http.MethodDelete,
			expectedPath:   "/cart/items/item-1",
		},
		{
			name: "clear cart",
			call: func(c *Client) error {
				return c.ClearCart(context.Background(), "user-1")
			},
			expectedMethod: http.MethodDelete,
			expectedPath:   "/cart",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, requests := newTestServer(t, http.StatusNoContent, "")
			client := NewClient(ClientConfig{BaseURL: srv.URL})

			err := tt.call(client)

			require.NoError(t, err)
			recorded := requests.all()
			require.Len(t, recorded, 1)
			req := recorded[0]
			assert.Equal(t, tt.expectedMethod, req.Method)
			assert.Equal(t, tt.expectedPath, req.Path)
			assert.Equal(t, "user-1", req.Header.Get(HeaderUserID))
			assert.Empty(t, req.Header.Get(HeaderAPIKey))
			if tt.expectedBody == nil {
				assert.Empty(t, req.Body)
				return
			}
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(req.Body), &body))
			assert.Equal(t, tt.expectedBody, body)
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
		})
	}
}

func TestClient_RejectedRequest(t *testing.T) {
	tests := []struct {
		name            string
		status          int
		body            string
		expectedMessage string
		expectedFields  []FieldError
	}{
		{
			name:            "structured error",
			status:          http.StatusUnprocessableEntity,
			body:            `{"message":"Item is sold out","errors":[{"field":"menu_id","message":"not available"}]}`,
			expectedMessage: "Item is sold out",
			expectedFields:  []FieldError{{Field: "menu_id", Message: "not available"}},
		},
		{
			name:            "plain text error",
			status:          http.StatusInternalServerError,
			body:            `upstream exploded`,
			expectedMessage: "Internal Server Error",
		},
		{
			name:            "empty body",
			status:          http.StatusNotFound,
			body:            ``,
			expectedMessage: "Not Found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tt.status, tt.body)
			client := NewClient(ClientConfig{BaseURL: srv.URL})

			err := client.RemoveItem(context.Background(), "user-1", "item-1")

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.expectedMessage, apiErr.Message)
			assert.Equal(t, tt.expectedFields, apiErr.Fields)
		})
	}
}

func TestClient_LocalValidation(t *testing.T) {
	srv, requests := newTestServer(t, http.StatusNoContent, "")
	client := NewClient(ClientConfig{BaseURL: srv.URL})

	err := client.AddItem(context.Background(), "user-1", AddItemInput{Quantity: 0})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Len(t, apiErr.Fields, 3)

	err = client.UpdateItemQuantity(context.Background(), "user-1", "item-1", 0)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, []FieldError{{Field: "quantity", Message: "must be at least 1"}}, apiErr.Fields)

	assert.Empty(t, requests.all())
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()
	client := NewClient(ClientConfig{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})

	err := client.ClearCart(context.Background(), "user-1")

	require.Error(t, err)
	assert.False(t, IsClientError(err))
	assert.True(t, IsBackendFailure(err))
}

func TestIsBackendFailure(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil", err: nil, expected: false},
		{name: "not found", err: NewAPIError(http.StatusNotFound, ""), expected: false},
		{name: "bad gateway", err: NewAPIError(http.StatusBadGateway, ""), expected: true},
		{name: "cancelled", err: context.Canceled, expected: false},
		{name: "deadline", err: context.DeadlineExceeded, expected: true},
		{name: "decode", err: &DecodeError{Reason: "bad"}, expected: true},
		{name: "wrapped rejection", err: errors.Join(errors.New("ctx"), NewAPIError(http.StatusConflict, "")), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsBackendFailure(tt.err))
		})
	}
}

func TestAPIError_Error(t *testing.T) {
	err := NewAPIError(http.StatusBadRequest, "Invalid input",
		FieldError{Field: "quantity", Message: "must be at least 1"},
		FieldError{Field: "menu_id", Message: "is required"})

	assert.Equal(t, "cart api: 400 Invalid input (quantity: must be at least 1; menu_id: is required)", err.Error())
	assert.Equal(t, "cart api: 404 Not Found", NewAPIError(http.StatusNotFound, "").Error())
}
