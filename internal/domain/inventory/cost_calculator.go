package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost implementa la lógica de costo promedio ponderado
// (servicio de dominio). Solo se recalcula en entradas de stock:
//
//	NuevoCosto = ((DispActual * CostoActual) + (CantEntrada * CostoEntrada)) / (DispActual + CantEntrada)
//
// Con DispActual = 0 la fórmula degenera exactamente al costo de entrada.
func WeightedAverageCost(currentQty int64, currentCost decimal.Decimal, incomingQty int64, incomingCost decimal.Decimal) decimal.Decimal {
	sum := currentQty + incomingQty
	if sum <= 0 {
		return decimal.Zero
	}
	num := decimal.NewFromInt(currentQty).Mul(currentCost).
		Add(decimal.NewFromInt(incomingQty).Mul(incomingCost))
	return num.Div(decimal.NewFromInt(sum))
}
