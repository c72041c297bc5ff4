package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"comanda/internal/apperr"
	"comanda/internal/domain"
	"comanda/internal/repos"
)

// ProductService owns the menu: product CRUD and the low-stock report.
// Stock movements caused by sales never go through here; those belong
// to the sale coordinator.
type ProductService struct {
	Products          *repos.ProductRepo
	LowStockThreshold int
}

func NewProductService(products *repos.ProductRepo, lowStock int) *ProductService {
	return &ProductService{Products: products, LowStockThreshold: lowStock}
}

type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"imageUrl"`
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Invalidf("product name is required")
	}
	if in.Price.IsNegative() {
		return apperr.Invalidf("price must not be negative")
	}
	if in.Stock < 0 {
		return apperr.Invalidf("stock must not be negative")
	}
	if !domain.ProductCategory(in.Category).Valid() {
		return apperr.Invalidf("unknown category %q", in.Category)
	}
	return nil
}

func (s *ProductService) Create(in ProductInput) (*domain.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	exists, err := s.Products.ExistsByName(in.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflictf("product %q already exists", in.Name)
	}

	p := domain.Product{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Category:    domain.ProductCategory(in.Category),
		ImageURL:    in.ImageURL,
		CreatedAt:   domain.Timestamp(time.Now()),
	}
	if err := s.Products.Insert(p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductService) Update(id string, in ProductInput) (*domain.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p, err := s.Products.Get(id)
	if err != nil {
		return nil, err
	}

	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Price = in.Price
	p.Stock = in.Stock
	p.Category = domain.ProductCategory(in.Category)
	if in.ImageURL != "" {
		p.ImageURL = in.ImageURL
	}
	p.UpdatedAt = domain.Timestamp(time.Now())

	if err := s.Products.Update(p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductService) Delete(id string) error {
	return s.Products.Delete(id)
}

func (s *ProductService) List() ([]domain.Product, error) {
	return s.Products.List()
}

func (s *ProductService) ListByCategory(cat string) ([]domain.Product, error) {
	c := domain.ProductCategory(cat)
	if !c.Valid() {
		return nil, apperr.Invalidf("unknown category %q", cat)
	}
	return s.Products.ListByCategory(c)
}

type StockAlert struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	Threshold int    `json:"threshold"`
}

func (s *ProductService) LowStock() ([]StockAlert, error) {
	prods, err := s.Products.ListBelowStock(s.LowStockThreshold)
	if err != nil {
		return nil, err
	}
	out := make([]StockAlert, 0, len(prods))
	for _, p := range prods {
		out = append(out, StockAlert{ProductID: p.ID, Name: p.Name, Stock: p.Stock, Threshold: s.LowStockThreshold})
	}
	return out, nil
}
