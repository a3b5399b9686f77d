// Package reports serves read-only aggregates over purchases, sales and stock.
// Sales statistics and the low-stock list are read through the report cache.
package reports

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"pms/m/domain"
	"pms/m/internal/apperr"
	"pms/m/internal/cache"
	"pms/m/internal/money"
)

type Service struct {
	db    *sqlx.DB
	cache cache.Cache
	ttl   time.Duration
	now   func() time.Time
}

func NewService(db *sqlx.DB, c cache.Cache, ttl time.Duration) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	return &Service{db: db, cache: c, ttl: ttl, now: time.Now}
}

type SalesStats struct {
	Today         float64 `json:"today"`
	Yesterday     float64 `json:"yesterday"`
	LastSevenDays float64 `json:"lastSevenDays"`
	Lifetime      float64 `json:"lifetime"`
}

// SalesStats sums purchase line totals in UTC day buckets. The seven day
// window ends at the start of today.
func (s *Service) SalesStats(ctx context.Context) (SalesStats, error) {
	var stats SalesStats
	if s.cached(ctx, cache.KeySalesStats, &stats) {
		return stats, nil
	}
	stats = SalesStats{}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)
	yesterday := today.AddDate(0, 0, -1)
	weekAgo := today.AddDate(0, 0, -7)

	var err error
	if stats.Today, err = s.sumPurchases(ctx, today, tomorrow); err != nil {
		return SalesStats{}, err
	}
	if stats.Yesterday, err = s.sumPurchases(ctx, yesterday, today); err != nil {
		return SalesStats{}, err
	}
	if stats.LastSevenDays, err = s.sumPurchases(ctx, weekAgo, today); err != nil {
		return SalesStats{}, err
	}
	if err := s.db.GetContext(ctx, &stats.Lifetime, `SELECT COALESCE(SUM(total_amount), 0) FROM pharma_purchases`); err != nil {
		return SalesStats{}, apperr.Store("sum lifetime purchases", err)
	}
	stats.Lifetime = money.Round2(stats.Lifetime)

	// Day buckets roll over at UTC midnight.
	ttl := tomorrow.Sub(now)
	if s.ttl > 0 && s.ttl < ttl {
		ttl = s.ttl
	}
	s.store(ctx, cache.KeySalesStats, stats, ttl)
	return stats, nil
}

func (s *Service) sumPurchases(ctx context.Context, from, to time.Time) (float64, error) {
	var total float64
	err := s.db.GetContext(ctx, &total,
		s.db.Rebind(`SELECT COALESCE(SUM(total_amount), 0) FROM pharma_purchases WHERE purchase_date >= ? AND purchase_date < ?`), from, to)
	if err != nil {
		return 0, apperr.Store("sum purchases", err)
	}
	return money.Round2(total), nil
}

type OrderLine struct {
	Name     string  `json:"name"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
	Total    string  `json:"total"`
}

type Order struct {
	PurchaseID    int64       `json:"purchase_id"`
	InvoiceNumber string      `json:"invoice_number"`
	PurchaseDate  time.Time   `json:"purchase_date"`
	TotalAmount   float64     `json:"total_amount"`
	Medicines     []OrderLine `json:"medicines"`
}

// Orders lists a pharmacist's purchases with their lines, oldest first.
func (s *Service) Orders(ctx context.Context, pharmacist string) ([]Order, error) {
	pharmacist, err := requirePharmacist(pharmacist)
	if err != nil {
		return nil, err
	}

	var headers []domain.PurchaseOrder
	if err := s.db.SelectContext(ctx, &headers, s.db.Rebind(
		`SELECT purchase_id, invoice_number, pharmacist_username, total_amount, purchase_date
		 FROM purchase_orders WHERE pharmacist_username = ? ORDER BY purchase_id`), pharmacist); err != nil {
		return nil, apperr.Store("list purchase orders", err)
	}
	lines, err := s.Purchases(ctx, pharmacist)
	if err != nil {
		return nil, err
	}
	byPurchase := lo.GroupBy(lines, func(p domain.PharmaPurchase) int64 { return p.PurchaseID })

	return lo.Map(headers, func(h domain.PurchaseOrder, _ int) Order {
		return Order{
			PurchaseID:    h.PurchaseID,
			InvoiceNumber: h.InvoiceNumber,
			PurchaseDate:  h.PurchaseDate,
			TotalAmount:   money.Round2(h.TotalAmount),
			Medicines: lo.Map(byPurchase[h.PurchaseID], func(p domain.PharmaPurchase, _ int) OrderLine {
				return OrderLine{
					Name:     p.MedicineName,
					Quantity: p.Quantity,
					Price:    p.Price,
					Total:    money.Fixed(money.FromFloat(p.TotalAmount)),
				}
			}),
		}
	}), nil
}

func (s *Service) Purchases(ctx context.Context, pharmacist string) ([]domain.PharmaPurchase, error) {
	pharmacist, err := requirePharmacist(pharmacist)
	if err != nil {
		return nil, err
	}
	out := []domain.PharmaPurchase{}
	if err := s.db.SelectContext(ctx, &out, s.db.Rebind(
		`SELECT purchase_id, pharmacist_username, medicine_name, quantity, price, total_amount, purchase_date
		 FROM pharma_purchases WHERE pharmacist_username = ? ORDER BY purchase_id, id`), pharmacist); err != nil {
		return nil, apperr.Store("list purchases", err)
	}
	return out, nil
}

// SaleRecord is one sold line attributed to the selling pharmacist.
type SaleRecord struct {
	domain.PharmaSale
	PharmacistUsername string `db:"pharmacist_username" json:"pharmacist_username"`
}

func (s *Service) Sales(ctx context.Context, pharmacist string) ([]SaleRecord, error) {
	pharmacist, err := requirePharmacist(pharmacist)
	if err != nil {
		return nil, err
	}
	out := []SaleRecord{}
	if err := s.db.SelectContext(ctx, &out, s.db.Rebind(
		`SELECT s.serial_no, s.sale_date, s.amount, s.pharmacist_serial_no, s.invoice_number,
		        s.medicine_name, s.quantity, s.price, s.total_amount, p.username AS pharmacist_username
		 FROM pharma_sales s JOIN pharmacists p ON s.pharmacist_serial_no = p.serial_no
		 WHERE p.username = ? ORDER BY s.serial_no, s.id`), pharmacist); err != nil {
		return nil, apperr.Store("list sales", err)
	}
	return out, nil
}

// InvoiceRow is a sale invoice header with the issuing pharmacist's username.
type InvoiceRow struct {
	domain.SaleInvoice
	PharmacistName string `db:"pharmacist_name" json:"pharmacist_name"`
}

// Invoices lists the sale invoices issued on a UTC calendar day given as YYYY-MM-DD.
func (s *Service) Invoices(ctx context.Context, date string) ([]InvoiceRow, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return nil, apperr.Validation("Date is required")
	}
	day, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return nil, apperr.Validation("Date must be in YYYY-MM-DD format")
	}

	out := []InvoiceRow{}
	if err := s.db.SelectContext(ctx, &out, s.db.Rebind(
		`SELECT i.serial_no, i.invoice_number, i.pharmacist_serial_no, i.amount, i.sale_date, p.username AS pharmacist_name
		 FROM sale_invoices i JOIN pharmacists p ON i.pharmacist_serial_no = p.serial_no
		 WHERE i.sale_date >= ? AND i.sale_date < ? ORDER BY i.serial_no`), day, day.AddDate(0, 0, 1)); err != nil {
		return nil, apperr.Store("list invoices", err)
	}
	return out, nil
}

type LowStockItem struct {
	Name  string `db:"name" json:"name"`
	Stock int64  `db:"stock" json:"stock"`
}

// LowStock lists medicines whose stock is below domain.LowStockThreshold.
func (s *Service) LowStock(ctx context.Context) ([]LowStockItem, error) {
	out := []LowStockItem{}
	if s.cached(ctx, cache.KeyLowStock, &out) {
		return out, nil
	}
	out = []LowStockItem{}
	if err := s.db.SelectContext(ctx, &out, s.db.Rebind(
		`SELECT name, stock FROM medicines WHERE stock < ? ORDER BY stock, serial_no`), domain.LowStockThreshold); err != nil {
		return nil, apperr.Store("list low stock", err)
	}
	s.store(ctx, cache.KeyLowStock, out, s.ttl)
	return out, nil
}

func requirePharmacist(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", apperr.Validation("Pharmacist username is required")
	}
	return username, nil
}

// cached reports a hit; cache failures are logged and treated as misses.
func (s *Service) cached(ctx context.Context, key string, dest any) bool {
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("report cache read failed")
		return false
	}
	return hit
}

func (s *Service) store(ctx context.Context, key string, value any, ttl time.Duration) {
	if err := s.cache.Set(ctx, key, value, ttl); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("report cache write failed")
	}
}
