package repos

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"velora/internal/domain"
)

type AdminRepo struct{ db *sqlx.DB }

func NewAdminRepo(db *sqlx.DB) *AdminRepo { return &AdminRepo{db: db} }

const adminCols = `id, name, email, password_hash, is_active, last_login, created_at`

func (r *AdminRepo) GetByEmail(email string) (*domain.Admin, error) {
	var a domain.Admin
	if err := r.db.Get(&a, `SELECT `+adminCols+` FROM admins WHERE LOWER(email) = LOWER(?)`, email); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepo) GetByID(id string) (*domain.Admin, error) {
	var a domain.Admin
	if err := r.db.Get(&a, `SELECT `+adminCols+` FROM admins WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepo) TouchLogin(id string) error {
	_, err := r.db.Exec(`UPDATE admins SET last_login=? WHERE id=?`,
		time.Now().UTC().Format(time.RFC3339), id)
	return err
}

// SeedAdmin ensures one admin account exists (idempotent; safe every start).
func (r *AdminRepo) SeedAdmin(name, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`
	  INSERT INTO admins(id,name,email,password_hash) VALUES(?,?,?,?)
	  ON CONFLICT(email) DO NOTHING
	`, uuid.NewString(), name, email, string(hash))
	return err
}
