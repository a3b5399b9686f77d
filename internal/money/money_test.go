package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineTotalAndFixed(t *testing.T) {
	total := LineTotal(4, decimal.RequireFromString("2.50"))
	assert.Equal(t, "10.00", Fixed(total))

	// 3 × 0.1 must not drift the way float64 does.
	assert.Equal(t, "0.30", Fixed(LineTotal(3, decimal.RequireFromString("0.1"))))
	assert.Equal(t, "0.01", Fixed(decimal.RequireFromString("0.005")))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 0.3, Round2(0.1+0.2))
	assert.Equal(t, 150.0, Round2(150))
}

func TestParsers(t *testing.T) {
	d, ok, err := ParsePrice(json.Number("12.75"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, d.Equal(decimal.RequireFromString("12.75")))

	_, ok, err = ParsePrice(json.Number(""))
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = ParsePrice(json.Number("abc"))
	assert.Error(t, err)

	n, ok, err := ParseQuantity(json.Number(" 7 "))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 7, n)

	_, _, err = ParseQuantity(json.Number("2.5"))
	assert.Error(t, err)
}
