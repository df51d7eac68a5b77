package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/invorya/stock-engine/internal/domain"
	"github.com/invorya/stock-engine/internal/domain/entity"
)

// StockMutator recibe el registro actual (o uno en cero si no existe) y
// devuelve el registro resultante. Es el único mecanismo de escritura sobre un
// StockRecord: el repositorio lo aplica bajo CAS por registro, y el mutator
// rechaza estados inválidos en lugar de recortarlos en silencio.
type StockMutator func(entity.StockRecord) (entity.StockRecord, error)

// ReceiptMutator suma quantity unidades disponibles y recalcula el costo
// promedio ponderado con unitCost. Sirve tanto para compras como para la
// pierna de destino de un traslado (el costo llega del snapshot de origen,
// no del precio local desactualizado). Nunca falla con entradas válidas.
func ReceiptMutator(quantity int64, unitCost decimal.Decimal) StockMutator {
	return func(rec entity.StockRecord) (entity.StockRecord, error) {
		if quantity <= 0 || unitCost.IsNegative() {
			return rec, domain.ErrInvalidInput
		}
		rec.AverageUnitCost = WeightedAverageCost(rec.Available, rec.AverageUnitCost, quantity, unitCost)
		rec.Available += quantity
		return rec, nil
	}
}

// SaleMutator descuenta quantity unidades disponibles. El costo promedio no
// cambia: la base de costo solo se mueve con entradas. También es la pierna
// de origen de un traslado.
func SaleMutator(quantity int64) StockMutator {
	return func(rec entity.StockRecord) (entity.StockRecord, error) {
		if quantity <= 0 {
			return rec, domain.ErrInvalidInput
		}
		if rec.Available < quantity {
			return rec, domain.ErrInsufficientStock
		}
		rec.Available -= quantity
		return rec, nil
	}
}

// AdjustmentMutator aplica un delta con signo (reconciliación: faltantes o
// sobrantes). Falla si el resultado sería negativo.
func AdjustmentMutator(delta int64) StockMutator {
	return func(rec entity.StockRecord) (entity.StockRecord, error) {
		if delta == 0 {
			return rec, domain.ErrInvalidInput
		}
		if rec.Available+delta < 0 {
			return rec, domain.ErrInvalidAdjustment
		}
		rec.Available += delta
		return rec, nil
	}
}

// ReserveMutator mueve quantity unidades de disponible a reservado. El total
// no cambia.
func ReserveMutator(quantity int64) StockMutator {
	return func(rec entity.StockRecord) (entity.StockRecord, error) {
		if quantity <= 0 {
			return rec, domain.ErrInvalidInput
		}
		if rec.Available < quantity {
			return rec, domain.ErrInsufficientStock
		}
		rec.Available -= quantity
		rec.Reserved += quantity
		return rec, nil
	}
}

// ReleaseMutator devuelve quantity unidades reservadas a disponible.
func ReleaseMutator(quantity int64) StockMutator {
	return func(rec entity.StockRecord) (entity.StockRecord, error) {
		if quantity <= 0 {
			return rec, domain.ErrInvalidInput
		}
		if rec.Reserved < quantity {
			return rec, domain.ErrInvalidAdjustment
		}
		rec.Reserved -= quantity
		rec.Available += quantity
		return rec, nil
	}
}
