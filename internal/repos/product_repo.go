package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"comanda/internal/apperr"
	"comanda/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `id, name, COALESCE(description,'') AS description, price, stock,
  category, COALESCE(image_url,'') AS image_url, created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	return r.get(r.db, id)
}

// GetTx reads a product inside a coordinator transaction.
func (r *ProductRepo) GetTx(q sqlx.Queryer, id string) (domain.Product, error) {
	return r.get(q, id)
}

func (r *ProductRepo) get(q sqlx.Queryer, id string) (domain.Product, error) {
	var p domain.Product
	err := sqlx.Get(q, &p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, apperr.NotFoundf("product %s not found", id)
	}
	return p, err
}

func (r *ProductRepo) List() ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `SELECT `+productCols+` FROM products ORDER BY name`)
	return out, err
}

func (r *ProductRepo) ListByCategory(cat domain.ProductCategory) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `SELECT `+productCols+` FROM products WHERE category = ? ORDER BY name`, cat)
	return out, err
}

// ListBelowStock returns products whose stock dropped under the threshold.
func (r *ProductRepo) ListBelowStock(threshold int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `SELECT `+productCols+` FROM products WHERE stock < ? ORDER BY stock`, threshold)
	return out, err
}

func (r *ProductRepo) ExistsByName(name string) (bool, error) {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM products WHERE LOWER(name) = LOWER(?)`, name); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ProductRepo) Insert(p domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id, name, description, price, stock, category, image_url, created_at)
	  VALUES(?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Description, p.Price, p.Stock, p.Category, p.ImageURL, p.CreatedAt)
	return err
}

func (r *ProductRepo) Update(p domain.Product) error {
	res, err := r.db.Exec(`
	  UPDATE products
	  SET name = ?, description = ?, price = ?, stock = ?, category = ?, image_url = ?, updated_at = ?
	  WHERE id = ?
	`, p.Name, p.Description, p.Price, p.Stock, p.Category, p.ImageURL, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFoundf("product %s not found", p.ID)
	}
	return nil
}

func (r *ProductRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFoundf("product %s not found", id)
	}
	return nil
}

// AdjustStock applies delta to a product's stock, rejecting atomically
// if the result would be negative. The conditional UPDATE leaves no
// side effects when it does not match, so a failed adjustment inside a
// transaction costs nothing to roll back.
func (r *ProductRepo) AdjustStock(e sqlx.Ext, productID string, delta int) error {
	res, err := e.Exec(`
		UPDATE products
		SET stock = stock + ?
		WHERE id = ? AND stock + ? >= 0
	`, delta, productID, delta)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		var exists int
		if err := sqlx.Get(e, &exists, `SELECT COUNT(*) FROM products WHERE id = ?`, productID); err != nil {
			return err
		}
		if exists == 0 {
			return apperr.NotFoundf("product %s not found", productID)
		}
		return apperr.Conflictf("insufficient stock for product %s", productID)
	}
	return nil
}
