package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"comanda/internal/apperr"
	"comanda/internal/domain"
	"comanda/internal/services"
)

func TestBuildLine(t *testing.T) {
	p := domain.Product{ID: "prod-p", Price: decimal.RequireFromString("4.50")}

	l, err := services.BuildLine(p, 3)
	require.NoError(t, err)
	require.NotEmpty(t, l.ID)
	require.Equal(t, "prod-p", l.ProductID)
	require.Equal(t, 3, l.Qty)
	require.True(t, l.UnitPrice.Equal(decimal.RequireFromString("4.50")))
	require.True(t, l.Subtotal.Equal(decimal.RequireFromString("13.50")))
}

func TestBuildLine_QtyBelowOne(t *testing.T) {
	p := domain.Product{ID: "prod-p", Price: decimal.New(1, 0)}

	for _, qty := range []int{0, -1, -10} {
		_, err := services.BuildLine(p, qty)
		require.True(t, apperr.IsInvalid(err), "qty=%d", qty)
	}
}

// A later price edit on the product must not leak into an already
// built line.
func TestBuildLine_PriceSnapshot(t *testing.T) {
	p := domain.Product{ID: "prod-p", Price: decimal.RequireFromString("10.00")}

	l, err := services.BuildLine(p, 1)
	require.NoError(t, err)

	p.Price = decimal.RequireFromString("99.00")
	require.True(t, l.UnitPrice.Equal(decimal.RequireFromString("10.00")))
	require.True(t, l.Subtotal.Equal(decimal.RequireFromString("10.00")))
}
