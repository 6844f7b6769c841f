package repositories

import (
	"database/sql"
	"errors"

	intconfig "onnrides/internal/config"
	"onnrides/internal/domain"
	"onnrides/internal/domain/models"
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

// GetByLogin looks a staff account up by email or username.
func (r UserRepository) GetByLogin(login string) (models.User, error) {
	db := r.db()
	if db == nil {
		return models.User{}, domain.InternalError{Msg: "db not available"}
	}

	var u models.User
	err := db.QueryRow(`
		SELECT id, COALESCE(name,''), COALESCE(username,''), COALESCE(email,''),
		       COALESCE(phone,''), COALESCE(password_hash,''), COALESCE(role,'staff'),
		       COALESCE(status,'active')
		FROM users
		WHERE email=? OR username=?
		LIMIT 1`, login, login,
	).Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "user", Err: err}
	}
	if err != nil {
		return models.User{}, domain.InternalError{Err: err}
	}
	return u, nil
}

func (r UserRepository) Create(u models.User) (int64, error) {
	db := r.db()
	if db == nil {
		return 0, domain.InternalError{Msg: "db not available"}
	}

	res, err := db.Exec(`
		INSERT INTO users (name, username, email, phone, password_hash, role, status)
		VALUES (?,?,?,?,?,?,?)`,
		u.Name, u.Username, u.Email, u.Phone, u.PasswordHash, u.Role, u.Status,
	)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	return res.LastInsertId()
}
