package reports

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pms/m/internal/apperr"
	"pms/m/internal/cache"
	"pms/m/internal/database/dbtest"
)

var now = time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)

func newService(t *testing.T, c cache.Cache) (*sqlx.DB, *Service) {
	t.Helper()
	db := dbtest.Open(t)
	svc := NewService(db, c, time.Minute)
	svc.now = func() time.Time { return now }
	return db, svc
}

func purchaseLine(t *testing.T, db *sqlx.DB, purchaseID int64, user, name string, qty int64, price float64, at time.Time) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO pharma_purchases (purchase_id, pharmacist_username, medicine_name, quantity, price, total_amount, purchase_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, purchaseID, user, name, qty, price, float64(qty)*price, at)
	require.NoError(t, err)
}

func TestSalesStats(t *testing.T) {
	db, svc := newService(t, nil)
	ctx := context.Background()

	empty, err := svc.SalesStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, SalesStats{}, empty)

	purchaseLine(t, db, 1, "alice", "A", 10, 10, now.Add(-time.Hour))
	purchaseLine(t, db, 1, "alice", "B", 2, 25, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC))
	purchaseLine(t, db, 2, "alice", "A", 3, 25, now.AddDate(0, 0, -1))
	purchaseLine(t, db, 3, "alice", "A", 1, 40, now.AddDate(0, 0, -6))
	purchaseLine(t, db, 4, "alice", "A", 1, 1000, now.AddDate(0, 0, -30))
	purchaseLine(t, db, 5, "alice", "A", 1, 7, now.AddDate(0, 0, 1))

	stats, err := svc.SalesStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, SalesStats{Today: 150, Yesterday: 75, LastSevenDays: 115, Lifetime: 1272}, stats)
}

func TestSalesStatsReadsThroughCache(t *testing.T) {
	c := cache.NewMemory()
	db, svc := newService(t, c)
	ctx := context.Background()

	purchaseLine(t, db, 1, "alice", "A", 1, 12.5, now)
	first, err := svc.SalesStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12.5, first.Today)

	purchaseLine(t, db, 2, "alice", "A", 1, 10, now)
	cached, err := svc.SalesStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	require.NoError(t, cache.InvalidateReports(ctx, c))
	fresh, err := svc.SalesStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 22.5, fresh.Today)
}

type ttlRecorder struct {
	cache.Cache
	ttls map[string]time.Duration
}

func (r *ttlRecorder) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	r.ttls[key] = ttl
	return r.Cache.Set(ctx, key, value, ttl)
}

func TestSalesStatsExpireAtMidnight(t *testing.T) {
	rec := &ttlRecorder{Cache: cache.NewMemory(), ttls: map[string]time.Duration{}}
	_, svc := newService(t, rec)
	ctx := context.Background()

	svc.now = func() time.Time { return time.Date(2025, 3, 14, 23, 59, 30, 0, time.UTC) }
	_, err := svc.SalesStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, rec.ttls[cache.KeySalesStats])

	require.NoError(t, cache.InvalidateReports(ctx, rec))
	svc.now = func() time.Time { return now }
	_, err = svc.SalesStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, rec.ttls[cache.KeySalesStats])

	_, err = svc.LowStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, rec.ttls[cache.KeyLowStock])
}

func TestOrdersGroupLines(t *testing.T) {
	db, svc := newService(t, nil)
	ctx := context.Background()

	db.MustExec(`INSERT INTO purchase_orders (invoice_number, pharmacist_username, total_amount, purchase_date) VALUES (?, ?, ?, ?)`,
		"INV-20250314-1", "alice", 13.4, now)
	db.MustExec(`INSERT INTO purchase_orders (invoice_number, pharmacist_username, total_amount, purchase_date) VALUES (?, ?, ?, ?)`,
		"INV-20250314-2", "bob", 1, now)
	purchaseLine(t, db, 1, "alice", "Paracetamol", 4, 2.1, now)
	purchaseLine(t, db, 1, "alice", "Cetirizine", 2, 2.5, now)
	purchaseLine(t, db, 2, "bob", "Paracetamol", 1, 1, now)

	orders, err := svc.Orders(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "INV-20250314-1", orders[0].InvoiceNumber)
	assert.True(t, now.Equal(orders[0].PurchaseDate))
	assert.Equal(t, []OrderLine{
		{Name: "Paracetamol", Quantity: 4, Price: 2.1, Total: "8.40"},
		{Name: "Cetirizine", Quantity: 2, Price: 2.5, Total: "5.00"},
	}, orders[0].Medicines)

	_, err = svc.Orders(ctx, " ")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestSalesJoinPharmacist(t *testing.T) {
	db, svc := newService(t, nil)
	ctx := context.Background()

	db.MustExec(`INSERT INTO pharmacists (username) VALUES ('alice')`)
	db.MustExec(`INSERT INTO pharmacists (username) VALUES ('bob')`)
	db.MustExec(`INSERT INTO sale_invoices (invoice_number, pharmacist_serial_no, amount, sale_date) VALUES (?, 1, 10, ?)`, "INV-20250314-1", now)
	db.MustExec(`INSERT INTO sale_invoices (invoice_number, pharmacist_serial_no, amount, sale_date) VALUES (?, 2, 3, ?)`, "INV-20250313-2", now.AddDate(0, 0, -1))
	db.MustExec(`INSERT INTO pharma_sales (serial_no, sale_date, amount, pharmacist_serial_no, invoice_number, medicine_name, quantity, price, total_amount)
		VALUES (1, ?, 10, 1, 'INV-20250314-1', 'Paracetamol', 4, 2.5, 10)`, now)
	db.MustExec(`INSERT INTO pharma_sales (serial_no, sale_date, amount, pharmacist_serial_no, invoice_number, medicine_name, quantity, price, total_amount)
		VALUES (2, ?, 3, 2, 'INV-20250313-2', 'Zinc', 1, 3, 3)`, now.AddDate(0, 0, -1))

	sales, err := svc.Sales(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "alice", sales[0].PharmacistUsername)
	assert.Equal(t, "Paracetamol", sales[0].MedicineName)
	assert.EqualValues(t, 1, sales[0].PharmacistSerialNo)
	assert.Equal(t, 10.0, sales[0].Amount)
	assert.EqualValues(t, 4, sales[0].Quantity)
	assert.True(t, now.Equal(sales[0].SaleDate))

	invoices, err := svc.Invoices(ctx, "2025-03-13")
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, "bob", invoices[0].PharmacistName)
	assert.Equal(t, "INV-20250313-2", invoices[0].InvoiceNumber)
	assert.EqualValues(t, 2, invoices[0].PharmacistSerialNo)
	assert.Equal(t, 3.0, invoices[0].Amount)

	none, err := svc.Invoices(ctx, "2024-01-01")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = svc.Invoices(ctx, "14/03/2025")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = svc.Invoices(ctx, "")
	assert.Equal(t, "Date is required", apperr.PublicMessage(err))
}

func TestLowStock(t *testing.T) {
	c := cache.NewMemory()
	db, svc := newService(t, c)
	ctx := context.Background()

	db.MustExec(`INSERT INTO medicines (name, stock, symptom, brand, price) VALUES ('A', 9, 's', 'b', 1), ('B', 10, 's', 'b', 1), ('C', 0, 's', 'b', 1)`)

	items, err := svc.LowStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, []LowStockItem{{Name: "C", Stock: 0}, {Name: "A", Stock: 9}}, items)

	var cached []LowStockItem
	hit, err := c.Get(ctx, cache.KeyLowStock, &cached)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, items, cached)
}
