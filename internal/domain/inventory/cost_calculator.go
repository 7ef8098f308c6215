package inventory

import "github.com/shopspring/decimal"

// CostCalculator aplica costo promedio ponderado:
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum)
}

// AverageCost acumula entradas de un producto y expone su costo promedio ponderado.
// Los traslados no alteran el costo; solo las entradas de proveedor.
type AverageCost struct {
	qty  decimal.Decimal
	cost decimal.Decimal
}

// Receive registra una entrada de qty unidades a unitCost.
func (a *AverageCost) Receive(qty int, unitCost decimal.Decimal) {
	in := decimal.NewFromInt(int64(qty))
	a.cost = CostCalculator(a.qty, a.cost, in, unitCost)
	a.qty = a.qty.Add(in)
}

// Cost devuelve el costo unitario promedio actual (redondeado a 2 decimales).
func (a *AverageCost) Cost() decimal.Decimal { return a.cost.Round(2) }

// Value devuelve el valor de qty unidades al costo promedio.
func (a *AverageCost) Value(qty int) decimal.Decimal {
	return a.cost.Mul(decimal.NewFromInt(int64(qty))).Round(2)
}
