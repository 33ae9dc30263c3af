package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCartEmptyOrMissingItems(t *testing.T) {
	for name, raw := range map[string][]byte{
		"nil body":      nil,
		"empty body":    []byte(""),
		"empty object":  []byte(`{}`),
		"null items":    []byte(`{"items":null,"total":12}`),
		"not even json": []byte(`<html>backend error page</html>`),
	} {
		t.Run(name, func(t *testing.T) {
			m := ParseCart(raw)
			assert.Empty(t, m.Items)
			assert.Zero(t, m.Total)
		})
	}
}

func TestParseCartItemsAsObject(t *testing.T) {
	raw := []byte(`{
		"items": {
			"17": {"product":{"productId":"17","name":"Widget","price":9.99,"stock":5},"quantity":2},
			"42": {"product":{"productId":"42","name":"Gadget","price":4.5,"stock":1},"quantity":1,"lineTotal":4.5}
		},
		"total": 24.48
	}`)

	m := ParseCart(raw)
	require.Len(t, m.Items, 2)
	assert.Equal(t, 24.48, m.Total)

	// Keys are discarded; only the values survive.
	widget, ok := m.Find("17")
	require.True(t, ok)
	assert.Equal(t, "Widget", widget.Product.Name)
	assert.Equal(t, 2, widget.Quantity)
	assert.Nil(t, widget.LineTotal)

	gadget, ok := m.Find("42")
	require.True(t, ok)
	require.NotNil(t, gadget.LineTotal)
	assert.Equal(t, 4.5, *gadget.LineTotal)
}

func TestParseCartItemsAsArray(t *testing.T) {
	raw := []byte(`{
		"items": [
			{"product":{"productId":"a","name":"First","price":1,"stock":3},"quantity":1},
			{"product":{"productId":"b","name":"Second","price":2,"stock":3},"quantity":1}
		]
	}`)

	m := ParseCart(raw)
	require.Len(t, m.Items, 2)
	assert.Equal(t, "First", m.Items[0].Product.Name)
	assert.Equal(t, "Second", m.Items[1].Product.Name)
	assert.Zero(t, m.Total, "missing total defaults to 0")
}

func TestParseCartCoercesJunkFields(t *testing.T) {
	raw := []byte(`{
		"items": [
			{"product":{"productId":7,"name":"Numeric id","price":"9.99","stock":"oops"},"quantity":"2","lineTotal":"not a number"}
		],
		"total": "garbage"
	}`)

	m := ParseCart(raw)
	require.Len(t, m.Items, 1)

	ln := m.Items[0]
	assert.Equal(t, "7", ln.Product.ID, "numeric ids stringify")
	assert.Equal(t, 9.99, ln.Product.Price, "numeric strings parse")
	assert.Equal(t, 0, ln.Product.Stock, "junk stock coerces to out of stock")
	assert.Equal(t, 2, ln.Quantity)
	assert.Nil(t, ln.LineTotal, "non-numeric server line total is discarded")
	assert.Zero(t, m.Total)
}

func TestParseCartNullLineTotalFallsBackToComputed(t *testing.T) {
	raw := []byte(`{
		"items": [
			{"product":{"productId":"17","name":"Widget","price":9.99,"stock":5},"quantity":2,"lineTotal":null}
		],
		"total": 19.98
	}`)

	m := ParseCart(raw)
	require.Len(t, m.Items, 1)

	ln := m.Items[0]
	require.Nil(t, ln.LineTotal, "an explicit null is absent, not a server total of 0")
	assert.Equal(t, 19.98, LineTotal(ln.Product.Price, ln.Quantity, ln.LineTotal))
}

func TestProfileMissingCheckoutFields(t *testing.T) {
	full := ParseProfile([]byte(`{
		"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com",
		"phone":"555-0100","address":"1 Main St","city":"Springfield",
		"state":"IL","zip":"62704"
	}`))
	assert.Empty(t, full.MissingCheckoutFields())

	noZip := ParseProfile([]byte(`{
		"email":"ada@example.com","phone":"555-0100","address":"1 Main St",
		"city":"Springfield","state":"IL"
	}`))
	assert.Equal(t, []string{"zip"}, noZip.MissingCheckoutFields())

	blank := ParseProfile([]byte(`{"email":"  "}`))
	assert.Len(t, blank.MissingCheckoutFields(), 6)
}

func TestParseOrderIDFallbacks(t *testing.T) {
	tests := map[string]struct {
		raw  string
		want string
	}{
		"orderId":      {raw: `{"orderId":"A-1"}`, want: "A-1"},
		"id":           {raw: `{"id":"B-2"}`, want: "B-2"},
		"order_id":     {raw: `{"order_id":"C-3"}`, want: "C-3"},
		"numeric id":   {raw: `{"id":1234}`, want: "1234"},
		"first wins":   {raw: `{"orderId":"A","id":"B"}`, want: "A"},
		"none present": {raw: `{}`, want: ""},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseOrder([]byte(tc.raw)).OrderID)
		})
	}
}

func TestParseOrderLineItems(t *testing.T) {
	order := ParseOrder([]byte(`{
		"orderId":"A-1",
		"lineItems":[
			{"productId":"17","quantity":2,"salesPrice":8.5,"product":{"name":"Widget"}},
			{"productId":"42","quantity":1,"price":4.5}
		],
		"shippingAmount": 5,
		"orderTotal": 26.5
	}`))

	require.Len(t, order.LineItems, 2)
	assert.Equal(t, OrderLine{Name: "Widget", Quantity: 2, UnitPrice: 8.5}, order.LineItems[0])
	assert.Equal(t, OrderLine{Name: "Product 42", Quantity: 1, UnitPrice: 4.5}, order.LineItems[1])
	assert.Equal(t, 5.0, order.ShippingAmount)
	require.NotNil(t, order.OrderTotal)
	assert.Equal(t, 26.5, *order.OrderTotal)
}

func TestParseOrderNonNumericTotal(t *testing.T) {
	order := ParseOrder([]byte(`{"orderId":"A-1","orderTotal":"pending"}`))
	assert.Nil(t, order.OrderTotal)
	assert.Zero(t, order.ShippingAmount)

	order = ParseOrder([]byte(`{"orderId":"A-1","orderTotal":null}`))
	assert.Nil(t, order.OrderTotal, "null order total is absent")
}

func TestParseOrderLineNullSalesPriceFallsBackToPrice(t *testing.T) {
	order := ParseOrder([]byte(`{
		"orderId":"A-1",
		"lineItems":[{"productId":"17","quantity":1,"salesPrice":null,"price":9.99}]
	}`))

	require.Len(t, order.LineItems, 1)
	assert.Equal(t, 9.99, order.LineItems[0].UnitPrice)
}
