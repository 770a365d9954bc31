package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// SnapshotLine is one cart line with its product and variant data resolved
// at the moment the snapshot was taken.
type SnapshotLine struct {
	Product  Product `json:"product"`
	Variant  Variant `json:"variant"`
	Quantity int     `json:"quantity"`
}

func (l SnapshotLine) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartSnapshot is an immutable copy of the cart taken when checkout begins.
// The live cart may keep changing; the snapshot does not.
type CartSnapshot struct {
	Lines   []SnapshotLine  `json:"lines"`
	Total   decimal.Decimal `json:"total"`
	TakenAt time.Time       `json:"taken_at"`
}

func (s CartSnapshot) Empty() bool {
	return len(s.Lines) == 0
}

func NewCartSnapshot(lines []SnapshotLine) CartSnapshot {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return CartSnapshot{Lines: lines, Total: total, TakenAt: time.Now()}
}
