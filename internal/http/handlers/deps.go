package handlers

import (
	"github.com/jmoiron/sqlx"

	"comanda/internal/config"
	"comanda/internal/notify"
	"comanda/internal/repos"
	"comanda/internal/services"
)

type Deps struct {
	AuthHandler      *AuthHandler
	ProductHandler   *ProductHandler
	TableHandler     *TableHandler
	SaleHandler      *SaleHandler
	DashboardHandler *DashboardHandler

	Auth      *services.AuthService
	Sales     *services.SaleService
	Dashboard *services.DashboardService
}

func NewDeps(db *sqlx.DB, cfg config.Config, hub *notify.Hub) *Deps {
	userRepo := repos.NewUserRepo(db)
	prodRepo := repos.NewProductRepo(db)
	tableRepo := repos.NewTableRepo(db)
	saleRepo := repos.NewSaleRepo(db)

	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret)
	prodSvc := services.NewProductService(prodRepo, cfg.LowStockThreshold)
	tableSvc := services.NewTableService(tableRepo)
	saleSvc := services.NewSaleService(saleRepo, tableRepo, prodRepo, hub, cfg.LowStockThreshold)
	dashSvc := services.NewDashboardService(saleRepo, prodRepo, hub, cfg.LowStockThreshold)

	return &Deps{
		AuthHandler:      &AuthHandler{Auth: authSvc},
		ProductHandler:   &ProductHandler{Products: prodSvc},
		TableHandler:     &TableHandler{Tables: tableSvc},
		SaleHandler:      &SaleHandler{Sales: saleSvc},
		DashboardHandler: &DashboardHandler{Dashboard: dashSvc, Notifier: hub},

		Auth:      authSvc,
		Sales:     saleSvc,
		Dashboard: dashSvc,
	}
}
