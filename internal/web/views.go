package web

import (
	"embed"
	"html/template"

	"github.com/easyshop/storefront-go/internal/cart"
	"github.com/easyshop/storefront-go/internal/notify"
)

//go:embed templates/*.html
var templateFS embed.FS

func parseTemplates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

type cartLineView struct {
	ProductID   string
	Name        string
	Description string
	ImageURL    string
	Stock       int
	Unit        float64
	Quantity    int
	LineTotal   float64
	MaxQty      int
	InputQty    int
}

type cartPageData struct {
	LoggedIn  bool
	BadgeItem int
	Total     float64
	Lines     []cartLineView
	Notices   []notify.Notice
}

func buildCartPage(m cart.Mirror, loggedIn bool, notices []notify.Notice) cartPageData {
	data := cartPageData{
		LoggedIn:  loggedIn,
		BadgeItem: len(m.Items),
		Total:     m.Total,
		Notices:   notices,
	}

	for _, ln := range m.Items {
		maxQty := cart.MaxAllowed(ln.Product.Stock)
		if maxQty < 1 {
			maxQty = 1
		}
		inputQty := ln.Quantity
		if inputQty > maxQty {
			inputQty = maxQty
		}
		if inputQty < 1 {
			inputQty = 1
		}

		data.Lines = append(data.Lines, cartLineView{
			ProductID:   ln.Product.ID,
			Name:        ln.Product.Name,
			Description: ln.Product.Description,
			ImageURL:    "/images/products/" + ln.Product.ImageURL,
			Stock:       ln.Product.Stock,
			Unit:        ln.Product.Price,
			Quantity:    ln.Quantity,
			LineTotal:   cart.LineTotal(ln.Product.Price, ln.Quantity, ln.LineTotal),
			MaxQty:      maxQty,
			InputQty:    inputQty,
		})
	}
	return data
}

type confirmationPageData struct {
	cart.Confirmation
	BadgeItem int
	Notices   []notify.Notice
}
