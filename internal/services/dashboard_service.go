package services

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"comanda/internal/domain"
	"comanda/internal/notify"
	"comanda/internal/repos"
)

// DashboardService aggregates completed-sale revenue for the live
// dashboard. Read-only; all money math stays in decimals.
type DashboardService struct {
	Sales             *repos.SaleRepo
	Products          *repos.ProductRepo
	Notifier          *notify.Hub
	LowStockThreshold int
}

func NewDashboardService(sales *repos.SaleRepo, products *repos.ProductRepo, hub *notify.Hub, lowStock int) *DashboardService {
	return &DashboardService{Sales: sales, Products: products, Notifier: hub, LowStockThreshold: lowStock}
}

type BestSeller struct {
	Name        string          `json:"name"`
	UnitsSold   int             `json:"unitsSold"`
	TotalIncome decimal.Decimal `json:"totalIncome"`
}

type Stats struct {
	DailySales      decimal.Decimal            `json:"dailySales"`
	WeeklySales     decimal.Decimal            `json:"weeklySales"`
	MonthlySales    decimal.Decimal            `json:"monthlySales"`
	TotalProducts   int                        `json:"totalProducts"`
	LowStockCount   int                        `json:"lowStockCount"`
	BestSellers     []BestSeller               `json:"bestSellers"`
	SalesByCategory map[string]decimal.Decimal `json:"salesByCategory"`
}

func (s *DashboardService) Statistics() (*Stats, error) {
	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	sales, err := s.Sales.ListAllWithLines()
	if err != nil {
		return nil, err
	}
	products, err := s.Products.List()
	if err != nil {
		return nil, err
	}
	productByID := make(map[string]domain.Product, len(products))
	lowStock := 0
	for _, p := range products {
		productByID[p.ID] = p
		if p.Stock < s.LowStockThreshold {
			lowStock++
		}
	}

	stats := Stats{
		DailySales:      decimal.Zero,
		WeeklySales:     decimal.Zero,
		MonthlySales:    decimal.Zero,
		TotalProducts:   len(products),
		LowStockCount:   lowStock,
		SalesByCategory: map[string]decimal.Decimal{},
	}

	type sellerAgg struct {
		units  int
		income decimal.Decimal
	}
	sellers := map[string]*sellerAgg{}

	for _, sale := range sales {
		if sale.Status != domain.SaleCompleted {
			continue
		}
		at, err := domain.ParseTimestamp(sale.CreatedAt)
		if err != nil {
			continue
		}
		if !at.Before(startOfDay) {
			stats.DailySales = stats.DailySales.Add(sale.Total)
		}
		if !at.Before(now.AddDate(0, 0, -7)) {
			stats.WeeklySales = stats.WeeklySales.Add(sale.Total)
		}
		if !at.Before(now.AddDate(0, -1, 0)) {
			stats.MonthlySales = stats.MonthlySales.Add(sale.Total)
		}

		for _, l := range sale.Lines {
			p, ok := productByID[l.ProductID]
			if !ok {
				continue
			}
			cat := string(p.Category)
			if cur, ok := stats.SalesByCategory[cat]; ok {
				stats.SalesByCategory[cat] = cur.Add(l.Subtotal)
			} else {
				stats.SalesByCategory[cat] = l.Subtotal
			}
			agg, ok := sellers[p.Name]
			if !ok {
				agg = &sellerAgg{income: decimal.Zero}
				sellers[p.Name] = agg
			}
			agg.units += l.Qty
			agg.income = agg.income.Add(l.Subtotal)
		}
	}

	for name, agg := range sellers {
		stats.BestSellers = append(stats.BestSellers, BestSeller{Name: name, UnitsSold: agg.units, TotalIncome: agg.income})
	}
	sort.Slice(stats.BestSellers, func(i, j int) bool {
		return stats.BestSellers[i].TotalIncome.GreaterThan(stats.BestSellers[j].TotalIncome)
	})
	if len(stats.BestSellers) > 10 {
		stats.BestSellers = stats.BestSellers[:10]
	}

	return &stats, nil
}

// SweepLowStock pushes a low-stock alert per product under the
// threshold; the scheduler calls this periodically.
func (s *DashboardService) SweepLowStock() error {
	prods, err := s.Products.ListBelowStock(s.LowStockThreshold)
	if err != nil {
		return err
	}
	if s.Notifier == nil {
		return nil
	}
	for _, p := range prods {
		s.Notifier.Publish(notify.LowStockEvent(p.Name, p.Stock))
	}
	return nil
}
