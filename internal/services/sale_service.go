package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"comanda/internal/apperr"
	"comanda/internal/domain"
	"comanda/internal/notify"
	"comanda/internal/repos"
)

// SaleService coordinates the sale lifecycle: it keeps sales, tables
// and product stock consistent by running every mutation as a single
// transaction. Stock moves only at completion; table occupancy moves
// only at creation and completion.
type SaleService struct {
	Sales    *repos.SaleRepo
	Tables   *repos.TableRepo
	Products *repos.ProductRepo

	Notifier          *notify.Hub
	LowStockThreshold int
}

func NewSaleService(sales *repos.SaleRepo, tables *repos.TableRepo, products *repos.ProductRepo, hub *notify.Hub, lowStock int) *SaleService {
	return &SaleService{Sales: sales, Tables: tables, Products: products, Notifier: hub, LowStockThreshold: lowStock}
}

type CreateSaleInput struct {
	TableID  string           `json:"tableId"`
	Lines    []LineRequest    `json:"lines"`
	Discount *decimal.Decimal `json:"discount"`
	Note     string           `json:"note"`
}

func (s *SaleService) Create(userID string, in CreateSaleInput) (*domain.Sale, error) {
	if len(in.Lines) == 0 {
		return nil, apperr.Invalidf("sale needs at least one line")
	}
	discount := decimal.Zero
	if in.Discount != nil {
		discount = *in.Discount
	}
	if discount.IsNegative() {
		return nil, apperr.Invalidf("discount must not be negative")
	}

	tx, err := s.Sales.Begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	// Claiming the table first makes the FREE check and the flip one
	// atomic statement; a raced second creator gets Conflict here.
	if err := s.Tables.SetStatus(tx, in.TableID, domain.TableFree, domain.TableOccupied); err != nil {
		return nil, err
	}

	sale := domain.Sale{
		ID:        uuid.NewString(),
		UserID:    userID,
		TableID:   in.TableID,
		CreatedAt: domain.Timestamp(time.Now()),
		Status:    domain.SalePending,
		Discount:  discount,
		Note:      in.Note,
	}

	lines := make([]domain.SaleLine, 0, len(in.Lines))
	for _, req := range in.Lines {
		p, err := s.Products.GetTx(tx, req.ProductID)
		if err != nil {
			return nil, err
		}
		line, err := BuildLine(p, req.Qty)
		if err != nil {
			return nil, err
		}
		line.SaleID = sale.ID
		lines = append(lines, line)
	}

	sale.Total = sumSubtotals(lines).Sub(discount)
	if err := s.Sales.Insert(tx, sale); err != nil {
		return nil, err
	}
	for _, l := range lines {
		if err := s.Sales.InsertLine(tx, l); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	sale.Lines = lines
	return &sale, nil
}

// AddProducts appends new lines to a pending sale. Same-product lines
// are never merged; each call creates fresh entries with the product's
// current price.
func (s *SaleService) AddProducts(saleID string, reqs []LineRequest) (*domain.Sale, error) {
	if len(reqs) == 0 {
		return nil, apperr.Invalidf("no lines to add")
	}

	tx, err := s.Sales.Begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	sale, err := s.pendingSale(tx, saleID)
	if err != nil {
		return nil, err
	}

	for _, req := range reqs {
		p, err := s.Products.GetTx(tx, req.ProductID)
		if err != nil {
			return nil, err
		}
		line, err := BuildLine(p, req.Qty)
		if err != nil {
			return nil, err
		}
		line.SaleID = sale.ID
		if err := s.Sales.InsertLine(tx, line); err != nil {
			return nil, err
		}
	}

	if err := s.recomputeTotal(tx, &sale); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &sale, nil
}

// RemoveProductUnit takes one unit of a product off a pending sale,
// dropping the whole line when its quantity reaches zero.
func (s *SaleService) RemoveProductUnit(saleID, productID string) (*domain.Sale, error) {
	tx, err := s.Sales.Begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	sale, err := s.pendingSale(tx, saleID)
	if err != nil {
		return nil, err
	}

	line, err := s.Sales.LineByProduct(tx, saleID, productID)
	if err != nil {
		return nil, err
	}
	if line.Qty > 1 {
		line.Qty--
		line.Subtotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Qty)))
		if err := s.Sales.UpdateLine(tx, line); err != nil {
			return nil, err
		}
	} else {
		if err := s.Sales.DeleteLine(tx, line.ID); err != nil {
			return nil, err
		}
	}

	if err := s.recomputeTotal(tx, &sale); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &sale, nil
}

// UpdateDiscountAndNote replaces the discount (nil means zero) and note
// of a pending sale. The discount is deliberately not bounded by the
// line subtotal, so the recomputed total may be negative.
func (s *SaleService) UpdateDiscountAndNote(saleID string, discount *decimal.Decimal, note string) (*domain.Sale, error) {
	d := decimal.Zero
	if discount != nil {
		d = *discount
	}
	if d.IsNegative() {
		return nil, apperr.Invalidf("discount must not be negative")
	}

	tx, err := s.Sales.Begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	sale, err := s.pendingSale(tx, saleID)
	if err != nil {
		return nil, err
	}

	sale.Discount = d
	sale.Note = note
	if err := s.Sales.SetDiscountNote(tx, saleID, d, note); err != nil {
		return nil, err
	}
	if err := s.recomputeTotal(tx, &sale); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &sale, nil
}

// Complete finalizes a sale: it is the only operation that touches
// inventory. The PENDING->COMPLETED flip runs first as the
// serialization point, then every line decrements stock, then the
// table is released; any shortfall rolls the whole transaction back so
// no partial stock movement is ever visible.
func (s *SaleService) Complete(saleID string) (*domain.Sale, error) {
	tx, err := s.Sales.Begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.Sales.SetStatus(tx, saleID, domain.SalePending, domain.SaleCompleted); err != nil {
		return nil, err
	}

	sale, err := s.Sales.Get(tx, saleID)
	if err != nil {
		return nil, err
	}
	lines, err := s.Sales.Lines(tx, saleID)
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		if err := s.Products.AdjustStock(tx, l.ProductID, -l.Qty); err != nil {
			return nil, err
		}
	}

	if err := s.Tables.Release(tx, sale.TableID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	sale.Lines = lines

	s.notifyLowStock(lines)
	return &sale, nil
}

// PurgeBefore deletes all sales created strictly before cutoff,
// regardless of status. Invoked by the scheduler, not the request path.
func (s *SaleService) PurgeBefore(cutoff time.Time) (int64, error) {
	tx, err := s.Sales.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	n, err := s.Sales.DeleteBefore(tx, domain.Timestamp(cutoff))
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

func (s *SaleService) ListByDateRange(start, end time.Time) ([]domain.Sale, error) {
	return s.Sales.ListByDateRange(domain.Timestamp(start), domain.Timestamp(end))
}

func (s *SaleService) ListByUserAndDateRange(userID string, start, end time.Time) ([]domain.Sale, error) {
	return s.Sales.ListByUserAndDateRange(userID, domain.Timestamp(start), domain.Timestamp(end))
}

func (s *SaleService) Get(saleID string) (*domain.Sale, error) {
	sale, err := s.Sales.Get(s.Sales.DB(), saleID)
	if err != nil {
		return nil, err
	}
	lines, err := s.Sales.Lines(s.Sales.DB(), saleID)
	if err != nil {
		return nil, err
	}
	sale.Lines = lines
	return &sale, nil
}

// pendingSale loads a sale inside tx and rejects mutation of completed ones.
func (s *SaleService) pendingSale(tx *sqlx.Tx, saleID string) (domain.Sale, error) {
	sale, err := s.Sales.Get(tx, saleID)
	if err != nil {
		return domain.Sale{}, err
	}
	if sale.Status != domain.SalePending {
		return domain.Sale{}, apperr.Conflictf("sale %s is not pending", saleID)
	}
	return sale, nil
}

// recomputeTotal rereads the persisted lines and writes the derived
// total back, so concurrent line edits can never leave a drifted total.
func (s *SaleService) recomputeTotal(tx *sqlx.Tx, sale *domain.Sale) error {
	lines, err := s.Sales.Lines(tx, sale.ID)
	if err != nil {
		return err
	}
	sale.Lines = lines
	sale.Total = sumSubtotals(lines).Sub(sale.Discount)
	return s.Sales.SetTotal(tx, sale.ID, sale.Total)
}

func (s *SaleService) notifyLowStock(lines []domain.SaleLine) {
	if s.Notifier == nil {
		return
	}
	for _, l := range lines {
		p, err := s.Products.Get(l.ProductID)
		if err != nil {
			continue
		}
		if p.Stock < s.LowStockThreshold {
			s.Notifier.Publish(notify.LowStockEvent(p.Name, p.Stock))
		}
	}
}
