package cart

// PerCustomerLimit is the fixed cap on how many of one product a customer
// may hold, before stock is considered.
const PerCustomerLimit = 3

// MaxAllowed is the effective cap for a line: the lesser of the
// per-customer limit and live stock. Negative stock means out of stock.
// Stock is not owned by the client, so callers must recompute this from the
// current stock on every mutation.
func MaxAllowed(stock int) int {
	if stock < 0 {
		return 0
	}
	if stock > PerCustomerLimit {
		return PerCustomerLimit
	}
	return stock
}

// TargetQuantity is the quantity an additive mutation should reach:
// existing plus the requested delta, clamped to maxAllowed.
func TargetQuantity(existing, delta, maxAllowed int) int {
	target := existing + delta
	if target > maxAllowed {
		return maxAllowed
	}
	return target
}

// ClampQuantity clamps an absolute requested quantity into
// [1, maxAllowed]. Used by explicit set-quantity operations, which do not
// add to the existing quantity.
func ClampQuantity(requested, maxAllowed int) int {
	if requested < 1 {
		requested = 1
	}
	if requested > maxAllowed {
		return maxAllowed
	}
	return requested
}

// LineTotal prefers the server-supplied line total when present, otherwise
// unit price times quantity.
func LineTotal(unitPrice float64, quantity int, serverTotal *float64) float64 {
	if serverTotal != nil {
		return *serverTotal
	}
	return unitPrice * float64(quantity)
}
