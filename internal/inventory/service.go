// Package inventory manages the central medicines table.
package inventory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"pms/m/domain"
	"pms/m/internal/apperr"
	"pms/m/internal/cache"
	"pms/m/internal/database"
	"pms/m/internal/money"
)

type Service struct {
	db    *sqlx.DB
	cache cache.Cache
}

func NewService(db *sqlx.DB, c cache.Cache) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	return &Service{db: db, cache: c}
}

// Filter narrows List. Text filters are case-insensitive substrings; bounds are inclusive.
type Filter struct {
	Symptom  string
	Brand    string
	MaxPrice *float64
	MaxStock *int64
}

func (s *Service) List(ctx context.Context, f Filter) ([]domain.Medicine, error) {
	query := `SELECT serial_no, name, symptom, brand, stock, price FROM medicines WHERE 1=1`
	var args []any
	if v := strings.TrimSpace(f.Symptom); v != "" {
		query += " AND LOWER(symptom) LIKE ?"
		args = append(args, "%"+strings.ToLower(v)+"%")
	}
	if v := strings.TrimSpace(f.Brand); v != "" {
		query += " AND LOWER(brand) LIKE ?"
		args = append(args, "%"+strings.ToLower(v)+"%")
	}
	if f.MaxPrice != nil {
		query += " AND price <= ?"
		args = append(args, *f.MaxPrice)
	}
	if f.MaxStock != nil {
		query += " AND stock <= ?"
		args = append(args, *f.MaxStock)
	}
	query += " ORDER BY serial_no"

	medicines := []domain.Medicine{}
	if err := s.db.SelectContext(ctx, &medicines, s.db.Rebind(query), args...); err != nil {
		return nil, apperr.Store("list medicines", err)
	}
	return medicines, nil
}

// NewMedicine is the add-medicine payload. Stock and price accept numbers or numeric strings.
type NewMedicine struct {
	Name    string      `json:"name"`
	Stock   json.Number `json:"stock"`
	Symptom string      `json:"symptom"`
	Brand   string      `json:"brand"`
	Price   json.Number `json:"price"`
}

type AddResult struct {
	SerialNo int64 `json:"serial_no"`
	Merged   bool  `json:"merged"`
}

// Add inserts a medicine, or adds stock to the existing row with the same
// (name, brand). A merge keeps the stored price.
func (s *Service) Add(ctx context.Context, in NewMedicine) (AddResult, error) {
	name := strings.TrimSpace(in.Name)
	symptom := strings.TrimSpace(in.Symptom)
	brand := strings.TrimSpace(in.Brand)

	stock, hasStock, stockErr := money.ParseQuantity(in.Stock)
	price, hasPrice, priceErr := money.ParsePrice(in.Price)
	if name == "" || symptom == "" || brand == "" || !hasStock || !hasPrice {
		return AddResult{}, apperr.Validation("All fields are required")
	}
	if stockErr != nil || stock < 0 {
		return AddResult{}, apperr.Validation("Stock must be a non-negative number")
	}
	if priceErr != nil || price.IsNegative() {
		return AddResult{}, apperr.Validation("Price must be a non-negative number")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return AddResult{}, apperr.Store("begin add medicine", err)
	}
	defer tx.Rollback()

	var existing domain.Medicine
	err = tx.GetContext(ctx, &existing, tx.Rebind(`SELECT serial_no, stock, price FROM medicines WHERE name = ? AND brand = ?`), name, brand)
	var result AddResult
	switch {
	case err == nil:
		if _, err := database.Exec(ctx, tx, `UPDATE medicines SET stock = stock + ? WHERE serial_no = ?`, stock, existing.SerialNo); err != nil {
			return AddResult{}, apperr.Store("merge medicine stock", err)
		}
		result = AddResult{SerialNo: existing.SerialNo, Merged: true}
	case errors.Is(err, sql.ErrNoRows):
		id, err := database.InsertID(ctx, tx,
			`INSERT INTO medicines (name, stock, symptom, brand, price) VALUES (?, ?, ?, ?, ?)`, "serial_no",
			name, stock, symptom, brand, price.InexactFloat64())
		if err != nil {
			return AddResult{}, apperr.Store("insert medicine", err)
		}
		result = AddResult{SerialNo: id}
	default:
		return AddResult{}, apperr.Store("load medicine", err)
	}

	if err := tx.Commit(); err != nil {
		return AddResult{}, apperr.Store("commit add medicine", err)
	}
	s.invalidate(ctx)

	logrus.WithFields(logrus.Fields{
		"serial_no": result.SerialNo,
		"name":      name,
		"brand":     brand,
		"stock":     stock,
		"merged":    result.Merged,
	}).Info("medicine added")
	return result, nil
}

func (s *Service) Delete(ctx context.Context, serialNo int64) error {
	n, err := database.Exec(ctx, s.db, `DELETE FROM medicines WHERE serial_no = ?`, serialNo)
	if err != nil {
		return apperr.Store("delete medicine", err)
	}
	if n == 0 {
		return apperr.NotFound("Medicine not found")
	}
	s.invalidate(ctx)
	return nil
}

// UpdateStock overwrites the stock level of one medicine.
func (s *Service) UpdateStock(ctx context.Context, serialNo int64, raw json.Number) error {
	stock, ok, err := money.ParseQuantity(raw)
	if !ok || err != nil || stock < 0 {
		return apperr.Validation("Stock must be a non-negative number")
	}
	n, err := database.Exec(ctx, s.db, `UPDATE medicines SET stock = ? WHERE serial_no = ?`, stock, serialNo)
	if err != nil {
		return apperr.Store("update stock", err)
	}
	if n == 0 {
		return apperr.NotFound("Medicine not found")
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM medicines`); err != nil {
		return 0, apperr.Store("count medicines", err)
	}
	return total, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := cache.InvalidateReports(ctx, s.cache); err != nil {
		logrus.WithError(err).Warn("report cache invalidation failed")
	}
}
