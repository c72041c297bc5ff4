package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"comanda/internal/apperr"
	"comanda/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) ByUsername(username string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT id,username,name,password_hash,role FROM users WHERE LOWER(username)=LOWER(?)`, username)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT id,username,name,password_hash,role FROM users WHERE id=?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("user %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) List() ([]domain.User, error) {
	var out []domain.User
	err := r.DB.Select(&out, `SELECT id,username,name,password_hash,role FROM users ORDER BY username`)
	return out, err
}

func (r *UserRepo) Insert(u domain.User) error {
	_, err := r.DB.Exec(`INSERT INTO users(id,username,name,password_hash,role) VALUES(?,?,?,?,?)`,
		u.ID, u.Username, u.Name, u.Hash, u.Role)
	return err
}

func (r *UserRepo) Update(u domain.User) error {
	res, err := r.DB.Exec(`UPDATE users SET password_hash=?, role=? WHERE id=?`, u.Hash, u.Role, u.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFoundf("user %s not found", u.ID)
	}
	return nil
}

func (r *UserRepo) Delete(id string) error {
	res, err := r.DB.Exec(`DELETE FROM users WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFoundf("user %s not found", id)
	}
	return nil
}
