package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectNearestTier(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		monthly float64
		want    int
	}{
		{monthly: 0, want: 0},
		{monthly: 5000, want: 0},
		{monthly: 7500, want: 0}, // midpoint keeps the earlier tier
		{monthly: 7501, want: 1},
		{monthly: 12500, want: 1},
		{monthly: 17500, want: 2},
		{monthly: 20000, want: 3},
		{monthly: 90000, want: 3},
	}

	for _, tt := range tests {
		got, ok := table.Select(tt.monthly)
		require.True(t, ok)
		assert.Equal(t, tt.want, got, "Select(%v)", tt.monthly)
	}
}

func TestSelectEmptyTable(t *testing.T) {
	_, ok := Table{}.Select(100)
	assert.False(t, ok)
}

func TestParseTable(t *testing.T) {
	table, err := ParseTable("Basic:100:1; Pro:200.5:2")
	require.NoError(t, err)
	assert.Equal(t, Table{
		{Name: "Basic", MonthlyPrice: 100, MonthlyHours: 1},
		{Name: "Pro", MonthlyPrice: 200.5, MonthlyHours: 2},
	}, table)

	_, err = ParseTable("Basic:abc:1")
	assert.Error(t, err)
	_, err = ParseTable("Basic:1")
	assert.Error(t, err)
	_, err = ParseTable("")
	assert.Error(t, err)
}

func TestIsTierPriced(t *testing.T) {
	assert.True(t, IsTierPriced("Contrato de Software", "", nil))
	assert.True(t, IsTierPriced("Contrato", "Desenvolvimento de SOFTWARE sob demanda", nil))
	assert.False(t, IsTierPriced("Contrato de consultoria", "horas avulsas", nil))
	assert.True(t, IsTierPriced("Manutenção mensal", "", []string{"manutencao"}))
	assert.True(t, IsTierPriced("Plano de manutencao", "", []string{"Manutenção"}))
	assert.False(t, IsTierPriced("Software", "", []string{"hospedagem"}))
}
