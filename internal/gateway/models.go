package gateway

import (
	"time"

	"github.com/dinithim/storefront-checkout/internal/entities"
	"github.com/shopspring/decimal"
)

// Wire models for the collaborators. The order-creation contract carries the
// price as a decimal string and an explicit variant object.

type variantJSON struct {
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

type productJSON struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	Description string          `json:"description,omitempty"`
	Variants    []variantJSON   `json:"variants,omitempty"`
}

type categoryJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type orderProductJSON struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Price       string      `json:"price"`
	Image       string      `json:"image,omitempty"`
	Description string      `json:"description"`
	Variant     variantJSON `json:"variant"`
}

type orderItemJSON struct {
	Product  orderProductJSON `json:"product"`
	Quantity int              `json:"quantity"`
}

type addressJSON struct {
	Line1      string `json:"line_1"`
	Line2      string `json:"line_2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"zip_code"`
	Phone      string `json:"phone"`
}

type createOrderJSON struct {
	Items           []orderItemJSON `json:"items"`
	ShippingAddress addressJSON     `json:"shippingAddress"`
}

type orderJSON struct {
	ID              string          `json:"id"`
	Items           []orderItemJSON `json:"items"`
	ShippingAddress addressJSON     `json:"shippingAddress"`
	PaymentStatus   string          `json:"paymentStatus"`
	OrderStatus     string          `json:"orderStatus,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type confirmPaymentJSON struct {
	OrderID string `json:"orderId"`
	Outcome string `json:"outcome"`
}

func productToEntity(p productJSON) entities.Product {
	variants := make([]entities.Variant, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, entities.Variant{Name: v.Name, Stock: v.Stock})
	}
	return entities.Product{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Image:       p.Image,
		Description: p.Description,
		Variants:    variants,
	}
}

func draftToJSON(draft entities.OrderDraft) createOrderJSON {
	items := make([]orderItemJSON, 0, len(draft.Lines))
	for _, l := range draft.Lines {
		desc := l.Product.Description
		if desc == "" {
			desc = "No description available"
		}
		items = append(items, orderItemJSON{
			Product: orderProductJSON{
				ID:          l.Product.ID,
				Name:        l.Product.Name,
				Price:       l.Product.Price.String(),
				Image:       l.Product.Image,
				Description: desc,
				Variant:     variantJSON{Name: l.Variant.Name, Stock: l.Variant.Stock},
			},
			Quantity: l.Quantity,
		})
	}
	return createOrderJSON{
		Items:           items,
		ShippingAddress: addressToJSON(draft.ShippingAddress),
	}
}

func addressToJSON(a entities.Address) addressJSON {
	return addressJSON{
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Phone:      a.Phone,
	}
}

func addressToEntity(a addressJSON) entities.Address {
	return entities.Address{
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Phone:      a.Phone,
	}
}

func orderToEntity(o orderJSON) entities.Order {
	items := make([]entities.OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		price, err := decimal.NewFromString(it.Product.Price)
		if err != nil {
			price = decimal.Zero
		}
		items = append(items, entities.OrderItem{
			Product: entities.Product{
				ID:          it.Product.ID,
				Name:        it.Product.Name,
				Price:       price,
				Image:       it.Product.Image,
				Description: it.Product.Description,
			},
			Variant:  entities.Variant{Name: it.Product.Variant.Name, Stock: it.Product.Variant.Stock},
			Quantity: it.Quantity,
		})
	}
	return entities.Order{
		ID:              o.ID,
		Items:           items,
		ShippingAddress: addressToEntity(o.ShippingAddress),
		PaymentStatus:   entities.PaymentStatus(o.PaymentStatus),
		OrderStatus:     o.OrderStatus,
		CreatedAt:       o.CreatedAt,
	}
}
