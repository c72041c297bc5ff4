package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"comanda/internal/apperr"
	"comanda/internal/domain"
)

type SaleRepo struct{ db *sqlx.DB }

func NewSaleRepo(db *sqlx.DB) *SaleRepo { return &SaleRepo{db: db} }

func (r *SaleRepo) Begin() (*sqlx.Tx, error) { return r.db.Beginx() }

func (r *SaleRepo) DB() *sqlx.DB { return r.db }

const saleCols = `id, user_id, table_id, created_at, status, discount, COALESCE(note,'') AS note, total`
const lineCols = `id, sale_id, product_id, qty, unit_price, subtotal`

func (r *SaleRepo) Get(q sqlx.Queryer, id string) (domain.Sale, error) {
	var s domain.Sale
	err := sqlx.Get(q, &s, `SELECT `+saleCols+` FROM sales WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Sale{}, apperr.NotFoundf("sale %s not found", id)
	}
	return s, err
}

func (r *SaleRepo) Lines(q sqlx.Queryer, saleID string) ([]domain.SaleLine, error) {
	var out []domain.SaleLine
	err := sqlx.Select(q, &out, `SELECT `+lineCols+` FROM sale_lines WHERE sale_id = ? ORDER BY rowid`, saleID)
	return out, err
}

func (r *SaleRepo) Insert(e sqlx.Ext, s domain.Sale) error {
	_, err := e.Exec(`
	  INSERT INTO sales(id, user_id, table_id, created_at, status, discount, note, total)
	  VALUES(?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.UserID, s.TableID, s.CreatedAt, s.Status, s.Discount, s.Note, s.Total)
	return err
}

func (r *SaleRepo) InsertLine(e sqlx.Ext, l domain.SaleLine) error {
	_, err := e.Exec(`
	  INSERT INTO sale_lines(id, sale_id, product_id, qty, unit_price, subtotal)
	  VALUES(?, ?, ?, ?, ?, ?)
	`, l.ID, l.SaleID, l.ProductID, l.Qty, l.UnitPrice, l.Subtotal)
	return err
}

// LineByProduct finds the line for a product within a sale. Line items
// are appended rather than merged, so a product can appear more than
// once; rowid order pins the oldest line as the one to decrement.
func (r *SaleRepo) LineByProduct(q sqlx.Queryer, saleID, productID string) (domain.SaleLine, error) {
	var l domain.SaleLine
	err := sqlx.Get(q, &l, `
	  SELECT `+lineCols+` FROM sale_lines
	  WHERE sale_id = ? AND product_id = ?
	  ORDER BY rowid
	  LIMIT 1
	`, saleID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SaleLine{}, apperr.NotFoundf("product %s not in sale %s", productID, saleID)
	}
	return l, err
}

func (r *SaleRepo) UpdateLine(e sqlx.Ext, l domain.SaleLine) error {
	_, err := e.Exec(`UPDATE sale_lines SET qty = ?, subtotal = ? WHERE id = ?`, l.Qty, l.Subtotal, l.ID)
	return err
}

func (r *SaleRepo) DeleteLine(e sqlx.Ext, lineID string) error {
	_, err := e.Exec(`DELETE FROM sale_lines WHERE id = ?`, lineID)
	return err
}

// SetStatus is the compare-and-set that serializes sale completion: a
// concurrent second caller matches zero rows and surfaces Conflict.
func (r *SaleRepo) SetStatus(e sqlx.Ext, id string, from, to domain.SaleStatus) error {
	res, err := e.Exec(`UPDATE sales SET status = ? WHERE id = ? AND status = ?`, to, id, from)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		var exists int
		if err := sqlx.Get(e, &exists, `SELECT COUNT(*) FROM sales WHERE id = ?`, id); err != nil {
			return err
		}
		if exists == 0 {
			return apperr.NotFoundf("sale %s not found", id)
		}
		return apperr.Conflictf("sale %s is not %s", id, from)
	}
	return nil
}

func (r *SaleRepo) SetDiscountNote(e sqlx.Ext, id string, discount decimal.Decimal, note string) error {
	_, err := e.Exec(`UPDATE sales SET discount = ?, note = ? WHERE id = ?`, discount, note, id)
	return err
}

func (r *SaleRepo) SetTotal(e sqlx.Ext, id string, total decimal.Decimal) error {
	_, err := e.Exec(`UPDATE sales SET total = ? WHERE id = ?`, total, id)
	return err
}

// DeleteBefore removes all sales created strictly before cutoff, any
// status. Lines go first in the same statement batch so the cascade is
// explicit and does not depend on per-connection foreign_keys pragmas.
func (r *SaleRepo) DeleteBefore(e sqlx.Ext, cutoff string) (int64, error) {
	if _, err := e.Exec(`
	  DELETE FROM sale_lines
	  WHERE sale_id IN (SELECT id FROM sales WHERE created_at < ?)
	`, cutoff); err != nil {
		return 0, err
	}
	res, err := e.Exec(`DELETE FROM sales WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *SaleRepo) ListByDateRange(start, end string) ([]domain.Sale, error) {
	var out []domain.Sale
	err := r.db.Select(&out, `
	  SELECT `+saleCols+` FROM sales
	  WHERE created_at >= ? AND created_at <= ?
	`, start, end)
	if err != nil {
		return nil, err
	}
	return r.attachLines(out)
}

func (r *SaleRepo) ListByUserAndDateRange(userID, start, end string) ([]domain.Sale, error) {
	var out []domain.Sale
	err := r.db.Select(&out, `
	  SELECT `+saleCols+` FROM sales
	  WHERE user_id = ? AND created_at >= ? AND created_at <= ?
	`, userID, start, end)
	if err != nil {
		return nil, err
	}
	return r.attachLines(out)
}

// ListAllWithLines powers the dashboard aggregations.
func (r *SaleRepo) ListAllWithLines() ([]domain.Sale, error) {
	var out []domain.Sale
	if err := r.db.Select(&out, `SELECT `+saleCols+` FROM sales`); err != nil {
		return nil, err
	}
	return r.attachLines(out)
}

func (r *SaleRepo) attachLines(sales []domain.Sale) ([]domain.Sale, error) {
	for i := range sales {
		lines, err := r.Lines(r.db, sales[i].ID)
		if err != nil {
			return nil, err
		}
		sales[i].Lines = lines
	}
	return sales, nil
}
