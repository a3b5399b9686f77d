package migrations

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"pms/m/internal/database"
)

// column type fragments that differ between engines
type dialect struct {
	serial    string
	text      string
	money     string
	timestamp string
}

var dialects = map[string]dialect{
	database.DriverSQLite: {
		serial:    "INTEGER PRIMARY KEY AUTOINCREMENT",
		text:      "TEXT",
		money:     "REAL",
		timestamp: "DATETIME",
	},
	database.DriverPostgres: {
		serial:    "BIGSERIAL PRIMARY KEY",
		text:      "TEXT",
		money:     "DOUBLE PRECISION",
		timestamp: "TIMESTAMPTZ",
	},
	database.DriverMySQL: {
		serial:    "BIGINT AUTO_INCREMENT PRIMARY KEY",
		text:      "VARCHAR(255)",
		money:     "DOUBLE",
		timestamp: "DATETIME(6)",
	},
}

// schema uses {serial}, {text}, {money} and {timestamp} placeholders filled per dialect.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
            serial_no {serial},
            username {text} NOT NULL UNIQUE,
            password {text} NOT NULL,
            role {text} NOT NULL
        )`,
	`CREATE TABLE IF NOT EXISTS pharmacists (
            serial_no {serial},
            username {text} NOT NULL UNIQUE
        )`,
	`CREATE TABLE IF NOT EXISTS medicines (
            serial_no {serial},
            name {text} NOT NULL,
            stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
            symptom {text} NOT NULL,
            brand {text} NOT NULL,
            price {money} NOT NULL CHECK (price >= 0),
            UNIQUE (name, brand)
        )`,
	`CREATE TABLE IF NOT EXISTS medical_companies (
            serial_no {serial},
            name {text} NOT NULL UNIQUE
        )`,
	`CREATE TABLE IF NOT EXISTS purchase_orders (
            purchase_id {serial},
            invoice_number {text} NOT NULL,
            pharmacist_username {text} NOT NULL,
            total_amount {money} NOT NULL DEFAULT 0,
            purchase_date {timestamp} NOT NULL
        )`,
	`CREATE TABLE IF NOT EXISTS pharma_purchases (
            id {serial},
            purchase_id BIGINT NOT NULL,
            pharmacist_username {text} NOT NULL,
            medicine_name {text} NOT NULL,
            quantity INTEGER NOT NULL,
            price {money} NOT NULL,
            total_amount {money} NOT NULL,
            purchase_date {timestamp} NOT NULL
        )`,
	`CREATE TABLE IF NOT EXISTS sale_invoices (
            serial_no {serial},
            invoice_number {text} NOT NULL,
            pharmacist_serial_no BIGINT NOT NULL,
            amount {money} NOT NULL DEFAULT 0,
            sale_date {timestamp} NOT NULL
        )`,
	`CREATE TABLE IF NOT EXISTS pharma_sales (
            id {serial},
            serial_no BIGINT NOT NULL,
            sale_date {timestamp} NOT NULL,
            amount {money} NOT NULL,
            pharmacist_serial_no BIGINT NOT NULL,
            invoice_number {text} NOT NULL,
            medicine_name {text} NOT NULL,
            quantity INTEGER NOT NULL,
            price {money} NOT NULL,
            total_amount {money} NOT NULL
        )`,
}

// Statements returns the schema rendered for the given driver.
func Statements(driver string) ([]string, error) {
	d, ok := dialects[database.NormalizeDriver(driver)]
	if !ok {
		return nil, fmt.Errorf("no schema for driver %q", driver)
	}
	r := strings.NewReplacer("{serial}", d.serial, "{text}", d.text, "{money}", d.money, "{timestamp}", d.timestamp)
	out := make([]string, len(schema))
	for i, stmt := range schema {
		out[i] = r.Replace(stmt)
	}
	return out, nil
}

// Run creates the database schema required for the pharmacy backend.
func Run(ctx context.Context, db *sqlx.DB) error {
	stmts, err := Statements(db.DriverName())
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	logrus.WithField("driver", db.DriverName()).Debug("schema up to date")
	return nil
}
