package services_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"comanda/internal/notify"
	"comanda/internal/services"
)

func TestStatistics(t *testing.T) {
	e := newEnv(t)
	e.mkTable(t, "tab-1")
	e.mkTable(t, "tab-2")

	// completed today: bruschetta (STARTER 6.50) x2 + espresso (DRINK 1.80) x1
	sale, err := e.sales.Create(waiter, services.CreateSaleInput{
		TableID: "tab-1",
		Lines: []services.LineRequest{
			{ProductID: "p-bruschetta", Qty: 2},
			{ProductID: "p-espresso", Qty: 1},
		},
	})
	require.NoError(t, err)
	_, err = e.sales.Complete(sale.ID)
	require.NoError(t, err)

	// still pending: must not count anywhere
	_, err = e.sales.Create(waiter, services.CreateSaleInput{
		TableID: "tab-2",
		Lines:   []services.LineRequest{{ProductID: "p-carbonara", Qty: 1}},
	})
	require.NoError(t, err)

	dash := services.NewDashboardService(e.saleRepo, e.prods, notify.NewHub(), 10)
	stats, err := dash.Statistics()
	require.NoError(t, err)

	want := dec("14.80") // 2*6.50 + 1.80
	require.True(t, stats.DailySales.Equal(want), "daily = %s", stats.DailySales)
	require.True(t, stats.WeeklySales.Equal(want))
	require.True(t, stats.MonthlySales.Equal(want))

	require.True(t, stats.SalesByCategory["STARTER"].Equal(dec("13.00")))
	require.True(t, stats.SalesByCategory["DRINK"].Equal(dec("1.80")))
	_, hasMain := stats.SalesByCategory["MAIN_COURSE"]
	require.False(t, hasMain)

	require.Len(t, stats.BestSellers, 2)
	require.Equal(t, "Bruschetta", stats.BestSellers[0].Name)
	require.Equal(t, 2, stats.BestSellers[0].UnitsSold)
	require.True(t, stats.BestSellers[0].TotalIncome.Equal(dec("13.00")))

	require.Equal(t, 6, stats.TotalProducts)
	// seeded menu has no product under the default threshold of 10
	require.Zero(t, stats.LowStockCount)
}

func TestStatistics_DiscountFlowsThroughTotals(t *testing.T) {
	e := newEnv(t)
	e.mkTable(t, "tab-1")

	sale, err := e.sales.Create(waiter, services.CreateSaleInput{
		TableID: "tab-1",
		Lines:   []services.LineRequest{{ProductID: "p-margherita", Qty: 2}},
	})
	require.NoError(t, err)
	d := decimal.RequireFromString("3.00")
	_, err = e.sales.UpdateDiscountAndNote(sale.ID, &d, "")
	require.NoError(t, err)
	_, err = e.sales.Complete(sale.ID)
	require.NoError(t, err)

	dash := services.NewDashboardService(e.saleRepo, e.prods, notify.NewHub(), 10)
	stats, err := dash.Statistics()
	require.NoError(t, err)

	// revenue windows use the discounted total, category split the raw subtotals
	require.True(t, stats.DailySales.Equal(dec("17.00")))
	require.True(t, stats.SalesByCategory["MAIN_COURSE"].Equal(dec("20.00")))
}

func TestStatistics_CountsLowStock(t *testing.T) {
	e := newEnv(t)
	e.mkProduct(t, "prod-short", "3.00", 1)

	dash := services.NewDashboardService(e.saleRepo, e.prods, notify.NewHub(), 10)
	stats, err := dash.Statistics()
	require.NoError(t, err)
	require.Equal(t, 1, stats.LowStockCount)
	require.Equal(t, 7, stats.TotalProducts)
}

func TestSweepLowStock_PublishesAlerts(t *testing.T) {
	e := newEnv(t)
	e.mkProduct(t, "prod-short", "3.00", 2)

	hub := notify.NewHub()
	ch := hub.Subscribe()
	t.Cleanup(func() { hub.Unsubscribe(ch) })

	dash := services.NewDashboardService(e.saleRepo, e.prods, hub, 10)
	require.NoError(t, dash.SweepLowStock())

	select {
	case ev := <-ch:
		require.Equal(t, "ALERT", ev.Type)
		require.True(t, strings.Contains(ev.Message, "2 units"), ev.Message)
	default:
		t.Fatal("expected a low-stock event")
	}
}
