package clients_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easyshop/storefront-go/internal/clients"
)

type capturedRequest struct {
	method string
	path   string
	auth   string
	cid    string
	body   map[string]any
}

func newBackend(t *testing.T, status int, response string) (*httptest.Server, *[]capturedRequest) {
	t.Helper()
	var captured []capturedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := capturedRequest{
			method: r.Method,
			path:   r.URL.Path,
			auth:   r.Header.Get("Authorization"),
			cid:    r.Header.Get(clients.HeaderCorrelationID),
		}
		_ = json.NewDecoder(r.Body).Decode(&req.body)
		captured = append(captured, req)

		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func storeFor(srv *httptest.Server, token string) *clients.StoreClient {
	base := clients.NewClient("storefront-api", srv.URL, srv.Client())
	return clients.NewStoreClient(base, func() string { return token })
}

func TestRequestDecoration(t *testing.T) {
	srv, captured := newBackend(t, http.StatusOK, `{"items":[]}`)
	store := storeFor(srv, "tok-123")

	_, err := store.GetCart(context.Background())
	require.NoError(t, err)

	require.Len(t, *captured, 1)
	req := (*captured)[0]
	assert.Equal(t, http.MethodGet, req.method)
	assert.Equal(t, "/cart", req.path)
	assert.Equal(t, "Bearer tok-123", req.auth)
	assert.NotEmpty(t, req.cid, "every request carries a correlation id")
}

func TestSetCartQuantityBody(t *testing.T) {
	srv, captured := newBackend(t, http.StatusOK, `{}`)
	store := storeFor(srv, "tok")

	require.NoError(t, store.SetCartQuantity(context.Background(), "17", 3))

	require.Len(t, *captured, 1)
	req := (*captured)[0]
	assert.Equal(t, http.MethodPut, req.method)
	assert.Equal(t, "/cart/products/17", req.path)
	assert.Equal(t, float64(3), req.body["quantity"])
}

func TestNoContentMapsToNilBody(t *testing.T) {
	srv, _ := newBackend(t, http.StatusNoContent, "")
	store := storeFor(srv, "tok")

	body, err := store.GetCart(context.Background())
	require.NoError(t, err)
	assert.Nil(t, body)
}

func TestStatusErrorCarriesServerMessage(t *testing.T) {
	srv, _ := newBackend(t, http.StatusNotFound, `{"message":"That item isn't in your cart yet."}`)
	store := storeFor(srv, "tok")

	err := store.SetCartQuantity(context.Background(), "ghost", 1)
	require.Error(t, err)
	assert.True(t, clients.IsStatus(err, http.StatusNotFound))
	assert.Equal(t, "That item isn't in your cart yet.", clients.ServerMessage(err))
}

func TestStatusErrorAcceptsErrorField(t *testing.T) {
	srv, _ := newBackend(t, http.StatusBadGateway, `{"error":"upstream down"}`)
	store := storeFor(srv, "tok")

	_, err := store.CreateOrder(context.Background())
	require.Error(t, err)
	assert.False(t, clients.IsStatus(err, http.StatusNotFound))
	assert.Equal(t, "upstream down", clients.ServerMessage(err))
}

func TestTransportErrorIsNotStatusError(t *testing.T) {
	srv, _ := newBackend(t, http.StatusOK, `{}`)
	store := storeFor(srv, "tok")
	srv.Close()

	_, err := store.GetCart(context.Background())
	require.Error(t, err)
	assert.Empty(t, clients.ServerMessage(err))
}
