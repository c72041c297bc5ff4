package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductCategory string

const (
	CategoryStarter    ProductCategory = "STARTER"
	CategoryMainCourse ProductCategory = "MAIN_COURSE"
	CategoryDrink      ProductCategory = "DRINK"
	CategoryDessert    ProductCategory = "DESSERT"
)

func (c ProductCategory) Valid() bool {
	switch c {
	case CategoryStarter, CategoryMainCourse, CategoryDrink, CategoryDessert:
		return true
	}
	return false
}

type TableStatus string

const (
	TableFree     TableStatus = "FREE"
	TableOccupied TableStatus = "OCCUPIED"
)

type SaleStatus string

const (
	SalePending   SaleStatus = "PENDING"
	SaleCompleted SaleStatus = "COMPLETED"
)

type Product struct {
	ID          string          `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Stock       int             `db:"stock" json:"stock"`
	Category    ProductCategory `db:"category" json:"category"`
	ImageURL    string          `db:"image_url" json:"imageUrl"`
	CreatedAt   string          `db:"created_at" json:"createdAt"`
	UpdatedAt   string          `db:"updated_at" json:"updatedAt"`
}

type Table struct {
	ID     string      `db:"id" json:"id"`
	Label  string      `db:"label" json:"label"`
	Status TableStatus `db:"status" json:"status"`
}

// Sale is a customer's tab for one table visit. Lines are exclusively
// owned by the sale and are removed with it; total is always derived as
// sum(line subtotals) minus discount and may go negative.
type Sale struct {
	ID        string          `db:"id" json:"id"`
	UserID    string          `db:"user_id" json:"userId"`
	TableID   string          `db:"table_id" json:"tableId"`
	CreatedAt string          `db:"created_at" json:"createdAt"`
	Status    SaleStatus      `db:"status" json:"status"`
	Discount  decimal.Decimal `db:"discount" json:"discount"`
	Note      string          `db:"note" json:"note"`
	Total     decimal.Decimal `db:"total" json:"total"`
	Lines     []SaleLine      `json:"lines"`
}

type SaleLine struct {
	ID        string          `db:"id" json:"id"`
	SaleID    string          `db:"sale_id" json:"saleId"`
	ProductID string          `db:"product_id" json:"productId"`
	Qty       int             `db:"qty" json:"qty"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unitPrice"`
	Subtotal  decimal.Decimal `db:"subtotal" json:"subtotal"`
}

// tsLayout is fixed-width so stored timestamps order lexicographically,
// which the date-range queries and the purge cutoff rely on.
const tsLayout = "2006-01-02T15:04:05.000Z"

func Timestamp(t time.Time) string {
	return t.UTC().Format(tsLayout)
}

func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(tsLayout, s)
}
