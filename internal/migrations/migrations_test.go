package migrations_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pms/m/internal/database/dbtest"
	"pms/m/internal/migrations"
)

func TestStatementsPerDialect(t *testing.T) {
	for driver, serial := range map[string]string{
		"sqlite":   "AUTOINCREMENT",
		"postgres": "BIGSERIAL",
		"mysql":    "AUTO_INCREMENT",
	} {
		stmts, err := migrations.Statements(driver)
		require.NoError(t, err, driver)
		require.NotEmpty(t, stmts)
		for _, stmt := range stmts {
			assert.NotContains(t, stmt, "{", driver)
			assert.True(t, strings.Contains(stmt, serial), "%s: %s", driver, stmt)
		}
	}

	_, err := migrations.Statements("oracle")
	assert.Error(t, err)
}

func TestRunIsIdempotent(t *testing.T) {
	db := dbtest.Open(t)
	require.NoError(t, migrations.Run(context.Background(), db))

	var tables []string
	require.NoError(t, db.Select(&tables, `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`))
	assert.Equal(t, []string{
		"medical_companies", "medicines", "pharma_purchases", "pharma_sales",
		"pharmacists", "purchase_orders", "sale_invoices", "users",
	}, tables)
}
