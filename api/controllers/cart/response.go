package cart

import (
	"github.com/google/uuid"

	cartsvc "github.com/arlomendez/techstore-backend/internal/cart"
	"github.com/arlomendez/techstore-backend/internal/orders"
)

// LineView is one cart line as returned to the storefront.
type LineView struct {
	ProductID      uuid.UUID `json:"productId"`
	Color          string    `json:"color"`
	Storage        string    `json:"storage"`
	Name           string    `json:"name"`
	Image          string    `json:"image"`
	UnitPriceCents int       `json:"unitPriceCents"`
	Quantity       int       `json:"quantity"`
	SubtotalCents  int       `json:"subtotalCents"`
}

// View is the full cart payload.
type View struct {
	Items        []LineView `json:"items"`
	ItemCount    int        `json:"itemCount"`
	TotalCents   int        `json:"totalCents"`
	TotalDisplay string     `json:"totalDisplay"`
}

func newView(store *cartsvc.Store) View {
	lines := store.Lines()
	items := make([]LineView, 0, len(lines))
	for _, line := range lines {
		items = append(items, LineView{
			ProductID:      line.ProductID,
			Color:          line.Color,
			Storage:        line.Storage,
			Name:           line.Name,
			Image:          line.Image,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
			SubtotalCents:  line.SubtotalCents(),
		})
	}
	total := store.Total()
	return View{
		Items:        items,
		ItemCount:    store.ItemCount(),
		TotalCents:   total,
		TotalDisplay: orders.DisplayTotal(total),
	}
}
