// Package accounts manages administrator and pharmacist logins.
package accounts

import (
	"context"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"pms/m/domain"
	"pms/m/internal/apperr"
	"pms/m/internal/auth"
	"pms/m/internal/database"
)

// ErrInvalidCredentials is returned by Login for any username, password or role mismatch.
var ErrInvalidCredentials = errors.New("Invalid credentials or role")

type Service struct {
	db *sqlx.DB
}

func NewService(db *sqlx.DB) *Service {
	return &Service{db: db}
}

// Login checks the credentials for the given role.
func (s *Service) Login(ctx context.Context, role, username, password string) (domain.User, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if role != domain.RoleAdmin && role != domain.RolePharmacist {
		return domain.User{}, ErrInvalidCredentials
	}

	var users []domain.User
	err := s.db.SelectContext(ctx, &users,
		s.db.Rebind(`SELECT serial_no, username, password, role FROM users WHERE username = ? AND role = ?`), username, role)
	if err != nil {
		return domain.User{}, apperr.Store("load user", err)
	}
	if len(users) == 0 || !auth.VerifyPassword(users[0].Password, password) {
		logrus.WithFields(logrus.Fields{"username": username, "role": role}).Info("login rejected")
		return domain.User{}, ErrInvalidCredentials
	}
	user := users[0]
	user.Password = ""
	return user, nil
}

func (s *Service) AddAdmin(ctx context.Context, username, password string) error {
	return s.create(ctx, username, password, domain.RoleAdmin)
}

// AddPharmacist inserts the users row and the pharmacists row in one transaction.
func (s *Service) AddPharmacist(ctx context.Context, username, password string) error {
	return s.create(ctx, username, password, domain.RolePharmacist)
}

func (s *Service) create(ctx context.Context, username, password, role string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return apperr.Validation("Username and password are required")
	}
	if len(password) > auth.MaxPasswordBytes {
		return apperr.Validation("Password must be at most %d bytes", auth.MaxPasswordBytes)
	}
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return apperr.Store("hash password", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.Store("begin add user", err)
	}
	defer tx.Rollback()

	var existing int
	if err := tx.GetContext(ctx, &existing, tx.Rebind(`SELECT COUNT(*) FROM users WHERE username = ?`), username); err != nil {
		return apperr.Store("check username", err)
	}
	if existing > 0 {
		return apperr.Conflict("Username already exists")
	}

	if _, err := database.InsertID(ctx, tx, `INSERT INTO users (username, password, role) VALUES (?, ?, ?)`, "serial_no", username, hashed, role); err != nil {
		return apperr.Store("insert user", err)
	}
	if role == domain.RolePharmacist {
		if _, err := database.InsertID(ctx, tx, `INSERT INTO pharmacists (username) VALUES (?)`, "serial_no", username); err != nil {
			return apperr.Store("insert pharmacist", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return apperr.Store("commit add user", err)
	}

	logrus.WithFields(logrus.Fields{"username": username, "role": role}).Info("user added")
	return nil
}

// DeleteUser removes the pharmacists row (if any) and then the users row.
func (s *Service) DeleteUser(ctx context.Context, username string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.Store("begin delete user", err)
	}
	defer tx.Rollback()

	if _, err := database.Exec(ctx, tx, `DELETE FROM pharmacists WHERE username = ?`, username); err != nil {
		return apperr.Store("delete pharmacist", err)
	}
	n, err := database.Exec(ctx, tx, `DELETE FROM users WHERE username = ?`, username)
	if err != nil {
		return apperr.Store("delete user", err)
	}
	if n == 0 {
		return apperr.NotFound("User not found")
	}
	if err := tx.Commit(); err != nil {
		return apperr.Store("commit delete user", err)
	}
	logrus.WithField("username", username).Info("user deleted")
	return nil
}

// ListByRole returns full user rows, password column included, for the role.
func (s *Service) ListByRole(ctx context.Context, role string) ([]domain.User, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return nil, apperr.Validation("Role is required")
	}
	users := []domain.User{}
	if err := s.db.SelectContext(ctx, &users,
		s.db.Rebind(`SELECT serial_no, username, password, role FROM users WHERE role = ? ORDER BY serial_no`), role); err != nil {
		return nil, apperr.Store("list users", err)
	}
	return users, nil
}

func (s *Service) ListPharmacists(ctx context.Context) ([]domain.Pharmacist, error) {
	pharmacists := []domain.Pharmacist{}
	if err := s.db.SelectContext(ctx, &pharmacists, `SELECT serial_no, username FROM pharmacists ORDER BY serial_no`); err != nil {
		return nil, apperr.Store("list pharmacists", err)
	}
	return pharmacists, nil
}

func (s *Service) CountPharmacists(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM pharmacists`); err != nil {
		return 0, apperr.Store("count pharmacists", err)
	}
	return total, nil
}
