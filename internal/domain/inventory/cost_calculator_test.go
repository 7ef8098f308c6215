package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-distribucion/internal/domain/inventory"
)

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	got := inventory.CostCalculator(
		decimal.NewFromInt(10), decimal.NewFromInt(100),
		decimal.NewFromInt(10), decimal.NewFromInt(200),
	)
	assert.True(t, got.Equal(decimal.NewFromInt(150)), "esperado 150, obtenido %s", got)
}

func TestCostCalculator_SinStockDevuelveCero(t *testing.T) {
	got := inventory.CostCalculator(decimal.Zero, decimal.Zero, decimal.Zero, decimal.NewFromInt(50))
	assert.True(t, got.IsZero())
}

func TestAverageCost_AcumulaEntradas(t *testing.T) {
	var avg inventory.AverageCost
	avg.Receive(3, decimal.NewFromInt(1000))
	avg.Receive(1, decimal.NewFromInt(2000))

	assert.Equal(t, "1250", avg.Cost().String())
	assert.Equal(t, "2500", avg.Value(2).String())
}
