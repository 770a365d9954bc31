package entities

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Variant is a purchasable variation of a product with its own stock count.
type Variant struct {
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	Description string          `json:"description,omitempty"`
	Variants    []Variant       `json:"variants,omitempty"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrNoVariantAvailable = errors.New("no variant available")
)

// Variant returns the variant with the given name.
func (p Product) Variant(name string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return Variant{}, false
}

// ResolveVariant picks the variant a shopper means: the explicitly named one,
// else the one named "default", else the first. A product without variants
// cannot be added to a cart.
func (p Product) ResolveVariant(name string) (Variant, error) {
	if len(p.Variants) == 0 {
		return Variant{}, ErrNoVariantAvailable
	}
	if name != "" {
		v, ok := p.Variant(name)
		if !ok {
			return Variant{}, ErrNoVariantAvailable
		}
		return v, nil
	}
	if v, ok := p.Variant("default"); ok {
		return v, nil
	}
	return p.Variants[0], nil
}
