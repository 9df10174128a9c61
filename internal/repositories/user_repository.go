package repositories

import (
	"database/sql"
	"errors"
	"strings"

	intconfig "backoffice/internal/config"
	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
)

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// FindByEmail loads an admin user plus their password hash for credential
// checks. Roles are stored comma-separated.
func (r UserRepository) FindByEmail(email string) (models.AdminUser, string, error) {
	var (
		u     models.AdminUser
		hash  string
		roles string
	)
	err := r.db().QueryRow(`
		SELECT id, COALESCE(name,''), email, password_hash, COALESCE(roles,'')
		FROM users
		WHERE email = ? AND status = 'active'
		LIMIT 1
	`, email).Scan(&u.ID, &u.Name, &u.Email, &hash, &roles)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.AdminUser{}, "", domain.NotFoundError{Resource: "user"}
		}
		return models.AdminUser{}, "", err
	}
	u.Roles = splitRoles(roles)
	return u, hash, nil
}

// EmailExists reports whether an account already uses the address.
func (r UserRepository) EmailExists(email string) (bool, error) {
	var count int
	if err := r.db().QueryRow(`SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new active account and returns its id.
func (r UserRepository) Create(name, email, passwordHash string, roles []string) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO users (name, email, password_hash, roles, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, 'active', NOW(), NOW())
	`, name, email, passwordHash, strings.Join(roles, ","))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func splitRoles(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
