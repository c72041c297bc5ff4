package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"comanda/internal/apperr"
	"comanda/internal/domain"
)

type TableRepo struct{ db *sqlx.DB }

func NewTableRepo(db *sqlx.DB) *TableRepo { return &TableRepo{db: db} }

func (r *TableRepo) Get(id string) (domain.Table, error) {
	return r.get(r.db, id)
}

func (r *TableRepo) GetTx(q sqlx.Queryer, id string) (domain.Table, error) {
	return r.get(q, id)
}

func (r *TableRepo) get(q sqlx.Queryer, id string) (domain.Table, error) {
	var t domain.Table
	err := sqlx.Get(q, &t, `SELECT id, label, status FROM tables WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Table{}, apperr.NotFoundf("table %s not found", id)
	}
	return t, err
}

func (r *TableRepo) List() ([]domain.Table, error) {
	var out []domain.Table
	err := r.db.Select(&out, `SELECT id, label, status FROM tables ORDER BY label`)
	return out, err
}

func (r *TableRepo) ListByStatus(status domain.TableStatus) ([]domain.Table, error) {
	var out []domain.Table
	err := r.db.Select(&out, `SELECT id, label, status FROM tables WHERE status = ? ORDER BY label`, status)
	return out, err
}

func (r *TableRepo) ExistsByLabel(label string) (bool, error) {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM tables WHERE LOWER(label) = LOWER(?)`, label); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *TableRepo) Insert(t domain.Table) error {
	_, err := r.db.Exec(`INSERT INTO tables(id, label, status) VALUES(?, ?, ?)`, t.ID, t.Label, t.Status)
	return err
}

func (r *TableRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM tables WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFoundf("table %s not found", id)
	}
	return nil
}

// SetStatus transitions a table only if it is currently in the expected
// state. A raced caller matches zero rows and gets Conflict, which is
// what keeps two sales off the same table.
func (r *TableRepo) SetStatus(e sqlx.Ext, id string, from, to domain.TableStatus) error {
	res, err := e.Exec(`UPDATE tables SET status = ? WHERE id = ? AND status = ?`, to, id, from)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		var exists int
		if err := sqlx.Get(e, &exists, `SELECT COUNT(*) FROM tables WHERE id = ?`, id); err != nil {
			return err
		}
		if exists == 0 {
			return apperr.NotFoundf("table %s not found", id)
		}
		return apperr.Conflictf("table %s is not %s", id, from)
	}
	return nil
}

// Release frees a table regardless of its current state; used when a
// sale completes (the table may already have been freed by an
// administrative override).
func (r *TableRepo) Release(e sqlx.Ext, id string) error {
	_, err := e.Exec(`UPDATE tables SET status = ? WHERE id = ?`, domain.TableFree, id)
	return err
}

// ForceStatus is the administrative override path.
func (r *TableRepo) ForceStatus(id string, status domain.TableStatus) error {
	res, err := r.db.Exec(`UPDATE tables SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFoundf("table %s not found", id)
	}
	return nil
}
