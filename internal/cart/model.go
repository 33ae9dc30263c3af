package cart

// Product is the catalog data a cart line carries around.
type Product struct {
	ID          string  `json:"productId"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"imageUrl"`
	Description string  `json:"description"`
}

// Line is one product in the cart. LineTotal is nil unless the server
// supplied one; display code falls back to Price * Quantity.
type Line struct {
	Product   Product  `json:"product"`
	Quantity  int      `json:"quantity"`
	LineTotal *float64 `json:"lineTotal,omitempty"`
}

// Mirror is the client's copy of the server-authoritative cart. Items and
// Total are always replaced together; nothing mutates a mirror in place.
type Mirror struct {
	Items []Line  `json:"items"`
	Total float64 `json:"total"`
}

func EmptyMirror() Mirror {
	return Mirror{Items: []Line{}}
}

func (m Mirror) IsEmpty() bool {
	return len(m.Items) == 0
}

// Find returns the line for productID, or false if the mirror has none.
func (m Mirror) Find(productID string) (Line, bool) {
	for _, ln := range m.Items {
		if ln.Product.ID == productID {
			return ln, true
		}
	}
	return Line{}, false
}

// Clone deep-copies the mirror, for snapshots handed outside the engine.
func (m Mirror) Clone() Mirror {
	out := Mirror{Items: make([]Line, len(m.Items)), Total: m.Total}
	for i, ln := range m.Items {
		out.Items[i] = ln
		if ln.LineTotal != nil {
			lt := *ln.LineTotal
			out.Items[i].LineTotal = &lt
		}
	}
	return out
}
