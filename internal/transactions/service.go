// Package transactions moves stock out of the central inventory, either to a
// pharmacist (purchase) or to a customer against a prescription (sale).
package transactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"pms/m/domain"
	"pms/m/internal/apperr"
	"pms/m/internal/cache"
	"pms/m/internal/database"
	"pms/m/internal/money"
)

const dateLayout = "2006-01-02 15:04:05"

type Service struct {
	db    *sqlx.DB
	cache cache.Cache
	now   func() time.Time
}

func NewService(db *sqlx.DB, c cache.Cache) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	return &Service{db: db, cache: c, now: time.Now}
}

func invoiceNumber(at time.Time, id int64) string {
	return fmt.Sprintf("INV-%s-%d", at.Format("20060102"), id)
}

// Purchase transfers every line to the pharmacist or nothing at all.
func (s *Service) Purchase(ctx context.Context, req PurchaseRequest) (Invoice, error) {
	username := strings.TrimSpace(req.PharmacistUsername)
	if username == "" || len(req.Medicines) == 0 {
		return Invoice{}, apperr.Validation("Pharmacist username and medicines array are required")
	}
	now := s.now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return Invoice{}, apperr.Store("begin purchase", err)
	}
	defer tx.Rollback()

	if _, err := pharmacistSerial(ctx, tx, username); err != nil {
		return Invoice{}, err
	}

	purchaseID, err := database.InsertID(ctx, tx,
		`INSERT INTO purchase_orders (invoice_number, pharmacist_username, total_amount, purchase_date) VALUES (?, ?, ?, ?)`,
		"purchase_id", "", username, 0, now)
	if err != nil {
		return Invoice{}, apperr.Store("insert purchase order", err)
	}
	number := invoiceNumber(now, purchaseID)

	total := decimal.Zero
	for _, line := range req.Medicines {
		qty, qtyOK, qtyErr := money.ParseQuantity(line.Quantity)
		price, priceOK, priceErr := money.ParsePrice(line.Price)
		if strings.TrimSpace(line.Name) == "" || !qtyOK || qtyErr != nil || qty <= 0 || !priceOK || priceErr != nil || price.IsNegative() {
			return Invoice{}, apperr.Validation("Invalid medicine details for %s", line.Name)
		}

		med, err := lookupMedicine(ctx, tx, line.Name)
		if errors.Is(err, sql.ErrNoRows) {
			return Invoice{}, apperr.NotFound("Medicine %s not found in admin inventory", line.Name)
		}
		if err != nil {
			return Invoice{}, apperr.Store("load medicine", err)
		}
		if err := takeStock(ctx, tx, med, qty); err != nil {
			return Invoice{}, err
		}

		lineTotal := money.LineTotal(qty, price)
		total = total.Add(lineTotal)
		_, err = database.InsertID(ctx, tx,
			`INSERT INTO pharma_purchases (purchase_id, pharmacist_username, medicine_name, quantity, price, total_amount, purchase_date) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			"id", purchaseID, username, med.Name, qty, price.InexactFloat64(), lineTotal.InexactFloat64(), now)
		if err != nil {
			return Invoice{}, apperr.Store("insert purchase line", err)
		}
	}

	if _, err := database.Exec(ctx, tx, `UPDATE purchase_orders SET invoice_number = ?, total_amount = ? WHERE purchase_id = ?`,
		number, total.InexactFloat64(), purchaseID); err != nil {
		return Invoice{}, apperr.Store("finalise purchase order", err)
	}
	if err := tx.Commit(); err != nil {
		return Invoice{}, apperr.Store("commit purchase", err)
	}
	s.invalidate(ctx)

	logrus.WithFields(logrus.Fields{
		"invoice":    number,
		"pharmacist": username,
		"lines":      len(req.Medicines),
		"total":      money.Fixed(total),
	}).Info("purchase committed")

	return Invoice{
		InvoiceNumber: number,
		Date:          now.Format(dateLayout),
		Pharmacist:    username,
		Medicines:     req.Medicines,
		TotalAmount:   total.InexactFloat64(),
	}, nil
}

// Sell bills a prescription at inventory prices, all lines or none.
func (s *Service) Sell(ctx context.Context, req SaleRequest) (Bill, error) {
	username := strings.TrimSpace(req.PharmacistUsername)
	if username == "" || len(req.Medicines) == 0 {
		return Bill{}, apperr.Validation("Pharmacist username and medicines array are required")
	}
	now := s.now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return Bill{}, apperr.Store("begin sale", err)
	}
	defer tx.Rollback()

	pharmacistNo, err := pharmacistSerial(ctx, tx, username)
	if err != nil {
		return Bill{}, err
	}

	serialNo, err := database.InsertID(ctx, tx,
		`INSERT INTO sale_invoices (invoice_number, pharmacist_serial_no, amount, sale_date) VALUES (?, ?, ?, ?)`,
		"serial_no", "", pharmacistNo, 0, now)
	if err != nil {
		return Bill{}, apperr.Store("insert sale invoice", err)
	}
	number := invoiceNumber(now, serialNo)

	total := decimal.Zero
	items := make([]BillItem, 0, len(req.Medicines))
	for _, line := range req.Medicines {
		qty, ok, err := money.ParseQuantity(line.Quantity)
		if strings.TrimSpace(line.Name) == "" || !ok || err != nil || qty <= 0 {
			return Bill{}, apperr.Validation("Invalid details for %s", line.Name)
		}

		med, err := lookupMedicine(ctx, tx, line.Name)
		if errors.Is(err, sql.ErrNoRows) {
			return Bill{}, apperr.NotFound("Medicine %s not found", line.Name)
		}
		if err != nil {
			return Bill{}, apperr.Store("load medicine", err)
		}
		if err := takeStock(ctx, tx, med, qty); err != nil {
			return Bill{}, err
		}

		price := decimal.NewFromFloat(med.Price)
		lineTotal := money.LineTotal(qty, price)
		total = total.Add(lineTotal)
		items = append(items, BillItem{
			Name:     med.Name,
			Quantity: qty,
			Price:    med.Price,
			Total:    money.Fixed(lineTotal),
		})

		_, err = database.InsertID(ctx, tx,
			`INSERT INTO pharma_sales (serial_no, sale_date, amount, pharmacist_serial_no, invoice_number, medicine_name, quantity, price, total_amount) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			"id", serialNo, now, lineTotal.InexactFloat64(), pharmacistNo, number, med.Name, qty, med.Price, lineTotal.InexactFloat64())
		if err != nil {
			return Bill{}, apperr.Store("insert sale line", err)
		}
	}

	if _, err := database.Exec(ctx, tx, `UPDATE sale_invoices SET invoice_number = ?, amount = ? WHERE serial_no = ?`,
		number, total.InexactFloat64(), serialNo); err != nil {
		return Bill{}, apperr.Store("finalise sale invoice", err)
	}
	if err := tx.Commit(); err != nil {
		return Bill{}, apperr.Store("commit sale", err)
	}
	s.invalidate(ctx)

	logrus.WithFields(logrus.Fields{
		"invoice":    number,
		"pharmacist": username,
		"lines":      len(items),
		"total":      money.Fixed(total),
	}).Info("prescription billed")

	return Bill{
		InvoiceNumber: number,
		Date:          now.Format(dateLayout),
		Pharmacist:    username,
		Items:         items,
		TotalAmount:   money.Fixed(total),
	}, nil
}

// CheckAvailability reports, per requested line, whether the inventory holds
// enough stock. Unknown medicines report zero stock.
func (s *Service) CheckAvailability(ctx context.Context, lines []Line) ([]Availability, error) {
	out := make([]Availability, 0, len(lines))
	if len(lines) == 0 {
		return out, nil
	}

	names := lo.Uniq(lo.Map(lines, func(l Line, _ int) string { return medicineKey(l.Name) }))
	query, args, err := sqlx.In(`SELECT serial_no, name, stock FROM medicines WHERE LOWER(name) IN (?) ORDER BY serial_no`, names)
	if err != nil {
		return nil, apperr.Store("build availability query", err)
	}
	var rows []domain.Medicine
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, apperr.Store("check availability", err)
	}
	// First row per name wins, matching lookupMedicine.
	stock := lo.Associate(lo.Reverse(rows), func(m domain.Medicine) (string, int64) { return medicineKey(m.Name), m.Stock })

	for _, line := range lines {
		available, known := stock[medicineKey(line.Name)]
		qty, ok, err := money.ParseQuantity(line.Quantity)
		out = append(out, Availability{
			Name:      line.Name,
			Available: known && ok && err == nil && available >= qty,
			Stock:     available,
		})
	}
	return out, nil
}

func pharmacistSerial(ctx context.Context, tx *sqlx.Tx, username string) (int64, error) {
	var serialNo int64
	err := tx.GetContext(ctx, &serialNo, tx.Rebind(`SELECT serial_no FROM pharmacists WHERE username = ?`), username)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperr.NotFound("Pharmacist not found")
	}
	if err != nil {
		return 0, apperr.Store("load pharmacist", err)
	}
	return serialNo, nil
}

// medicineKey is the case-folded form names are matched on.
func medicineKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// lookupMedicine resolves a name, ignoring case, to the oldest matching inventory row.
func lookupMedicine(ctx context.Context, tx *sqlx.Tx, name string) (domain.Medicine, error) {
	var med domain.Medicine
	err := tx.GetContext(ctx, &med,
		tx.Rebind(`SELECT serial_no, name, stock, price FROM medicines WHERE LOWER(name) = ? ORDER BY serial_no LIMIT 1`), medicineKey(name))
	return med, err
}

func takeStock(ctx context.Context, tx *sqlx.Tx, med domain.Medicine, qty int64) error {
	if med.Stock < qty {
		return apperr.InsufficientStock(med.Name, med.Stock, qty)
	}
	n, err := database.Exec(ctx, tx, `UPDATE medicines SET stock = stock - ? WHERE serial_no = ? AND stock >= ?`, qty, med.SerialNo, qty)
	if err != nil {
		return apperr.Store("decrement stock", err)
	}
	if n == 0 {
		return apperr.InsufficientStock(med.Name, med.Stock, qty)
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := cache.InvalidateReports(ctx, s.cache); err != nil {
		logrus.WithError(err).Warn("report cache invalidation failed")
	}
}
