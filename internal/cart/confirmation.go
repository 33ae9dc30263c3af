package cart

import "strings"

// UnknownOrderID is the placeholder shown when the order response carried
// no recognizable order id under any of the accepted field names.
const UnknownOrderID = "(unknown)"

// ConfirmationLine is one row of the order summary.
type ConfirmationLine struct {
	Name      string
	UnitPrice float64
	Quantity  int
	LineTotal float64
}

// Confirmation is the reconciled post-checkout view. It is derived once per
// successful checkout and never persisted.
type Confirmation struct {
	OrderID string

	ShipName    string
	ShipAddress string
	ShipCity    string
	ShipState   string
	ShipZip     string

	Email string
	Phone string

	Items    []ConfirmationLine
	Subtotal float64
	Shipping float64
	Total    float64
}

// ComposeConfirmation derives the confirmation view from the order
// response, the profile, and the pre-checkout cart snapshot. Server data is
// preferred at every step, with the snapshot as fallback, so a partial
// order response still yields a coherent confirmation:
//
//	order id:   orderId | id | order_id | "(unknown)"
//	ship name:  profile first+last | authenticated display name
//	items:      server line items | snapshot lines
//	total:      server order total | snapshot total | subtotal + shipping
func ComposeConfirmation(order OrderPayload, profile Profile, snapshot Mirror, displayName string) Confirmation {
	conf := Confirmation{
		OrderID:     order.OrderID,
		ShipAddress: profile.Address,
		ShipCity:    profile.City,
		ShipState:   profile.State,
		ShipZip:     profile.Zip,
		Email:       profile.Email,
		Phone:       profile.Phone,
		Shipping:    order.ShippingAmount,
	}
	if conf.OrderID == "" {
		conf.OrderID = UnknownOrderID
	}

	conf.ShipName = strings.TrimSpace(profile.FirstName + " " + profile.LastName)
	if conf.ShipName == "" {
		conf.ShipName = displayName
	}

	if len(order.LineItems) > 0 {
		for _, li := range order.LineItems {
			conf.Items = append(conf.Items, ConfirmationLine{
				Name:      li.Name,
				UnitPrice: li.UnitPrice,
				Quantity:  li.Quantity,
				LineTotal: li.UnitPrice * float64(li.Quantity),
			})
		}
	} else {
		for _, ln := range snapshot.Items {
			name := ln.Product.Name
			if name == "" {
				name = "Item"
			}
			conf.Items = append(conf.Items, ConfirmationLine{
				Name:      name,
				UnitPrice: ln.Product.Price,
				Quantity:  ln.Quantity,
				LineTotal: ln.Product.Price * float64(ln.Quantity),
			})
		}
	}

	for _, it := range conf.Items {
		conf.Subtotal += it.LineTotal
	}

	switch {
	case order.OrderTotal != nil:
		conf.Total = *order.OrderTotal
	case snapshot.Total > 0:
		conf.Total = snapshot.Total
	default:
		conf.Total = conf.Subtotal + conf.Shipping
	}

	return conf
}
