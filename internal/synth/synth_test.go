package synth

import (
	"testing"
	"time"

	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xchange/internal/models"
)

func TestGenerateBatchInvariants(t *testing.T) {
	s, err := NewDefault(42)
	require.NoError(t, err)

	batch, err := s.GenerateBatch(Params{OrderCount: 50, MaxRowsPerOrder: 5})
	require.NoError(t, err)
	require.Len(t, batch.Orders, 50)

	minPrice := decimal.MustParse("0.10")
	maxPrice := decimal.MustParse("99.99")

	rowsByOrder := make(map[string][]models.OrderRow)
	for _, row := range batch.Rows {
		rowsByOrder[row.OrderID] = append(rowsByOrder[row.OrderID], row)

		assert.GreaterOrEqual(t, row.Quantity, int64(1))
		assert.LessOrEqual(t, row.Quantity, int64(10))
		assert.GreaterOrEqual(t, row.PricePerUnit.Cmp(minPrice), 0)
		assert.LessOrEqual(t, row.PricePerUnit.Cmp(maxPrice), 0)
		assert.NotEmpty(t, row.ProductName)

		qty, err := decimal.New(row.Quantity, 0)
		require.NoError(t, err)
		want, err := row.PricePerUnit.Mul(qty)
		require.NoError(t, err)
		assert.Zero(t, row.TotalPrice.Cmp(want.Round(2)),
			"line total %s != %s * %d", row.TotalPrice, row.PricePerUnit, row.Quantity)
	}

	seen := make(map[string]bool)
	earliest := time.Now().UTC().AddDate(-10, 0, -1)
	for _, order := range batch.Orders {
		assert.Len(t, order.ID, 10)
		assert.False(t, seen[order.ID], "duplicate order id %s", order.ID)
		seen[order.ID] = true

		assert.NotEmpty(t, order.CustomerName)
		assert.Len(t, order.Country, 2)
		assert.Len(t, order.Currency, 3)
		assert.NotEmpty(t, order.City)
		assert.True(t, order.OrderDate.After(earliest))
		assert.False(t, order.OrderDate.After(time.Now().UTC()))

		rows := rowsByOrder[order.ID]
		require.NotEmpty(t, rows, "order %s has no rows", order.ID)
		assert.LessOrEqual(t, len(rows), 5)

		sum := decimal.MustNew(0, 2)
		for _, row := range rows {
			sum, err = sum.Add(row.TotalPrice)
			require.NoError(t, err)
		}
		assert.Zero(t, order.Price.Cmp(sum.Round(2)),
			"order %s price %s != row sum %s", order.ID, order.Price, sum)
	}
}

func TestGenerateBatchRejectsBadParams(t *testing.T) {
	s, err := NewDefault(1)
	require.NoError(t, err)

	_, err = s.GenerateBatch(Params{OrderCount: 0, MaxRowsPerOrder: 5})
	assert.Error(t, err)

	_, err = s.GenerateBatch(Params{OrderCount: 5, MaxRowsPerOrder: 0})
	assert.Error(t, err)
}

func TestLoadGeoRef(t *testing.T) {
	geo, err := LoadGeoRef()
	require.NoError(t, err)
	assert.NotEmpty(t, geo.Cities)
	assert.NotEmpty(t, geo.Countries)

	for _, city := range geo.Cities {
		country, ok := geo.CountryOf(city)
		require.True(t, ok, "city %s has no country", city.Name)
		assert.Len(t, country.ISO, 2)
		assert.Len(t, country.Currency, 3)
		assert.NotEmpty(t, country.Languages)
	}
}
