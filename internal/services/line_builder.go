package services

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"comanda/internal/apperr"
	"comanda/internal/domain"
)

// LineRequest is one product-and-quantity entry a caller wants on a sale.
type LineRequest struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

// BuildLine prices a requested quantity of a product. The unit price is
// snapshotted from the product as it is now, so later menu price edits
// never change historical sales.
func BuildLine(p domain.Product, qty int) (domain.SaleLine, error) {
	if qty < 1 {
		return domain.SaleLine{}, apperr.Invalidf("quantity must be at least 1, got %d", qty)
	}
	return domain.SaleLine{
		ID:        uuid.NewString(),
		ProductID: p.ID,
		Qty:       qty,
		UnitPrice: p.Price,
		Subtotal:  p.Price.Mul(decimal.NewFromInt(int64(qty))),
	}, nil
}

// sumSubtotals recomputes a sale total from its persisted lines; totals
// are never carried forward from a possibly stale in-memory value.
func sumSubtotals(lines []domain.SaleLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal)
	}
	return total
}
