package clients

import (
	"context"
	"net/http"
)

// StoreClient wraps the storefront API endpoints the cart engine consumes.
// All calls carry the session's bearer token; the engine is responsible for
// never calling them without an authenticated session.
type StoreClient struct {
	c      *Client
	tokens TokenSource
}

func NewStoreClient(c *Client, tokens TokenSource) *StoreClient {
	return &StoreClient{c: c, tokens: tokens}
}

// GetCart fetches the authoritative cart. A 204 or empty body comes back as
// nil bytes, which the payload boundary maps to an empty mirror.
func (sc *StoreClient) GetCart(ctx context.Context) ([]byte, error) {
	body, _, err := sc.c.Do(ctx, http.MethodGet, "/cart", sc.tokens(), nil)
	return body, err
}

// AddCartProduct creates a line for the product; quantity defaults to 1
// server-side.
func (sc *StoreClient) AddCartProduct(ctx context.Context, productID string) error {
	_, _, err := sc.c.Do(ctx, http.MethodPost, "/cart/products/"+productID, sc.tokens(), struct{}{})
	return err
}

// SetCartQuantity sets the absolute quantity of an existing line. A 404
// surfaces as *StatusError{404}: the line is not in the server's cart.
func (sc *StoreClient) SetCartQuantity(ctx context.Context, productID string, quantity int) error {
	payload := struct {
		Quantity int `json:"quantity"`
	}{Quantity: quantity}
	_, _, err := sc.c.Do(ctx, http.MethodPut, "/cart/products/"+productID, sc.tokens(), payload)
	return err
}

func (sc *StoreClient) ClearCart(ctx context.Context) error {
	_, _, err := sc.c.Do(ctx, http.MethodDelete, "/cart", sc.tokens(), nil)
	return err
}

func (sc *StoreClient) GetProfile(ctx context.Context) ([]byte, error) {
	body, _, err := sc.c.Do(ctx, http.MethodGet, "/profile", sc.tokens(), nil)
	return body, err
}

func (sc *StoreClient) CreateOrder(ctx context.Context) ([]byte, error) {
	body, _, err := sc.c.Do(ctx, http.MethodPost, "/orders", sc.tokens(), struct{}{})
	return body, err
}
