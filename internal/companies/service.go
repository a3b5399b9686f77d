// Package companies keeps the register of medical suppliers.
package companies

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"pms/m/domain"
	"pms/m/internal/apperr"
	"pms/m/internal/database"
)

type Service struct {
	db *sqlx.DB
}

func NewService(db *sqlx.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Add(ctx context.Context, name string) (domain.MedicalCompany, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.MedicalCompany{}, apperr.Validation("Company name is required")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.MedicalCompany{}, apperr.Store("begin add company", err)
	}
	defer tx.Rollback()

	var existing int
	if err := tx.GetContext(ctx, &existing, tx.Rebind(`SELECT COUNT(*) FROM medical_companies WHERE name = ?`), name); err != nil {
		return domain.MedicalCompany{}, apperr.Store("check company", err)
	}
	if existing > 0 {
		return domain.MedicalCompany{}, apperr.Conflict("Company already exists")
	}
	id, err := database.InsertID(ctx, tx, `INSERT INTO medical_companies (name) VALUES (?)`, "serial_no", name)
	if err != nil {
		return domain.MedicalCompany{}, apperr.Store("insert company", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.MedicalCompany{}, apperr.Store("commit add company", err)
	}

	logrus.WithFields(logrus.Fields{"serial_no": id, "name": name}).Info("company added")
	return domain.MedicalCompany{SerialNo: id, Name: name}, nil
}

func (s *Service) Delete(ctx context.Context, serialNo int64) error {
	n, err := database.Exec(ctx, s.db, `DELETE FROM medical_companies WHERE serial_no = ?`, serialNo)
	if err != nil {
		return apperr.Store("delete company", err)
	}
	if n == 0 {
		return apperr.NotFound("Company not found")
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]domain.MedicalCompany, error) {
	out := []domain.MedicalCompany{}
	if err := s.db.SelectContext(ctx, &out, `SELECT serial_no, name FROM medical_companies ORDER BY serial_no`); err != nil {
		return nil, apperr.Store("list companies", err)
	}
	return out, nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM medical_companies`); err != nil {
		return 0, apperr.Store("count companies", err)
	}
	return total, nil
}
