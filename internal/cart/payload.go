package cart

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Payload parsing is the typed boundary between the engine and server
// responses the client does not fully control. Every field decodes with a
// fallback instead of failing: robustness over strictness, because a junk
// field from the backend must never take the page down.

func numOr(raw json.RawMessage, fallback float64) float64 {
	// A JSON null unmarshals into a float64 as a silent no-op, so it has to
	// be treated as absent explicitly.
	if len(raw) == 0 || string(raw) == "null" {
		return fallback
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fallback
		}
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
	}
	return fallback
}

func intOr(raw json.RawMessage, fallback int) int {
	f := numOr(raw, math.NaN())
	if math.IsNaN(f) {
		return fallback
	}
	return int(f)
}

func strOr(raw json.RawMessage, fallback string) string {
	if len(raw) == 0 || string(raw) == "null" {
		return fallback
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fallback
}

// numPtr returns the value only when it is a finite number; nil otherwise.
func numPtr(raw json.RawMessage) *float64 {
	f := numOr(raw, math.NaN())
	if math.IsNaN(f) {
		return nil
	}
	return &f
}

// ParseCart maps a raw cart response onto a Mirror. A body without an items
// collection resets to the empty mirror. The server sends items either as
// an array or as an object keyed by product id; keys are discarded. Line
// contents are not validated here — that is the rule evaluator's job at the
// point of mutation.
func ParseCart(raw []byte) Mirror {
	out := EmptyMirror()
	if len(raw) == 0 {
		return out
	}

	var payload struct {
		Items json.RawMessage `json:"items"`
		Total json.RawMessage `json:"total"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return out
	}
	if len(payload.Items) == 0 || string(payload.Items) == "null" {
		return out
	}

	out.Total = numOr(payload.Total, 0)

	var asList []json.RawMessage
	if err := json.Unmarshal(payload.Items, &asList); err == nil {
		for _, entry := range asList {
			out.Items = append(out.Items, parseLine(entry))
		}
		return out
	}

	var asMap map[string]json.RawMessage
	if err := json.Unmarshal(payload.Items, &asMap); err == nil {
		// Key order is not meaningful (the spec leaves item order unstable
		// across reloads); sort for deterministic behavior in-process.
		keys := make([]string, 0, len(asMap))
		for k := range asMap {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out.Items = append(out.Items, parseLine(asMap[k]))
		}
	}
	return out
}

func parseLine(raw json.RawMessage) Line {
	var payload struct {
		Product   json.RawMessage `json:"product"`
		Quantity  json.RawMessage `json:"quantity"`
		LineTotal json.RawMessage `json:"lineTotal"`
	}
	_ = json.Unmarshal(raw, &payload)

	return Line{
		Product:   parseProduct(payload.Product),
		Quantity:  intOr(payload.Quantity, 0),
		LineTotal: numPtr(payload.LineTotal),
	}
}

func parseProduct(raw json.RawMessage) Product {
	var payload struct {
		ProductID   json.RawMessage `json:"productId"`
		Name        json.RawMessage `json:"name"`
		Price       json.RawMessage `json:"price"`
		Stock       json.RawMessage `json:"stock"`
		ImageURL    json.RawMessage `json:"imageUrl"`
		Description json.RawMessage `json:"description"`
	}
	_ = json.Unmarshal(raw, &payload)

	return Product{
		ID:          strOr(payload.ProductID, ""),
		Name:        strOr(payload.Name, ""),
		Price:       numOr(payload.Price, 0),
		Stock:       intOr(payload.Stock, 0),
		ImageURL:    strOr(payload.ImageURL, ""),
		Description: strOr(payload.Description, ""),
	}
}

// Profile is the checkout-relevant slice of the user profile.
type Profile struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
	City      string
	State     string
	Zip       string
}

// MissingCheckoutFields lists the fields checkout requires but the profile
// does not have. Order creation is blocked while any are missing.
func (p Profile) MissingCheckoutFields() []string {
	var missing []string
	for _, f := range []struct {
		name, value string
	}{
		{"email", p.Email},
		{"phone", p.Phone},
		{"address", p.Address},
		{"city", p.City},
		{"state", p.State},
		{"zip", p.Zip},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

func ParseProfile(raw []byte) Profile {
	var payload struct {
		FirstName json.RawMessage `json:"firstName"`
		LastName  json.RawMessage `json:"lastName"`
		Email     json.RawMessage `json:"email"`
		Phone     json.RawMessage `json:"phone"`
		Address   json.RawMessage `json:"address"`
		City      json.RawMessage `json:"city"`
		State     json.RawMessage `json:"state"`
		Zip       json.RawMessage `json:"zip"`
	}
	_ = json.Unmarshal(raw, &payload)

	return Profile{
		FirstName: strOr(payload.FirstName, ""),
		LastName:  strOr(payload.LastName, ""),
		Email:     strOr(payload.Email, ""),
		Phone:     strOr(payload.Phone, ""),
		Address:   strOr(payload.Address, ""),
		City:      strOr(payload.City, ""),
		State:     strOr(payload.State, ""),
		Zip:       strOr(payload.Zip, ""),
	}
}

// OrderLine is a line item as reported in an order response.
type OrderLine struct {
	Name      string
	Quantity  int
	UnitPrice float64
}

// OrderPayload is the parsed create-order response. OrderID is "" when no
// recognized id field was present; OrderTotal is nil unless the server sent
// a numeric order total.
type OrderPayload struct {
	OrderID        string
	LineItems      []OrderLine
	ShippingAmount float64
	OrderTotal     *float64
}

func ParseOrder(raw []byte) OrderPayload {
	var payload struct {
		OrderID        json.RawMessage   `json:"orderId"`
		ID             json.RawMessage   `json:"id"`
		OrderIDSnake   json.RawMessage   `json:"order_id"`
		LineItems      []json.RawMessage `json:"lineItems"`
		ShippingAmount json.RawMessage   `json:"shippingAmount"`
		OrderTotal     json.RawMessage   `json:"orderTotal"`
	}
	_ = json.Unmarshal(raw, &payload)

	out := OrderPayload{
		ShippingAmount: numOr(payload.ShippingAmount, 0),
		OrderTotal:     numPtr(payload.OrderTotal),
	}

	// Backends disagree on the id field name; first recognized one wins.
	for _, candidate := range []json.RawMessage{payload.OrderID, payload.ID, payload.OrderIDSnake} {
		if id := strOr(candidate, ""); id != "" {
			out.OrderID = id
			break
		}
	}

	for _, entry := range payload.LineItems {
		out.LineItems = append(out.LineItems, parseOrderLine(entry))
	}
	return out
}

func parseOrderLine(raw json.RawMessage) OrderLine {
	var payload struct {
		ProductID  json.RawMessage `json:"productId"`
		Quantity   json.RawMessage `json:"quantity"`
		SalesPrice json.RawMessage `json:"salesPrice"`
		Price      json.RawMessage `json:"price"`
		Product    struct {
			Name json.RawMessage `json:"name"`
		} `json:"product"`
	}
	_ = json.Unmarshal(raw, &payload)

	name := strOr(payload.Product.Name, "")
	if name == "" {
		name = "Product " + strOr(payload.ProductID, "?")
	}

	unit := numOr(payload.Price, 0)
	if sales := numPtr(payload.SalesPrice); sales != nil {
		unit = *sales
	}

	return OrderLine{
		Name:      name,
		Quantity:  intOr(payload.Quantity, 0),
		UnitPrice: unit,
	}
}
