package stock

import (
	"context"

	"github.com/invorya/stock-engine/internal/domain"
	"github.com/invorya/stock-engine/internal/domain/inventory"
	"github.com/invorya/stock-engine/internal/domain/repository"
)

// AllocationUseCase decide qué ubicaciones cubren una cantidad requerida.
// Es solo lectura: no reserva ni muta nada, y el plan se produce fresco en
// cada llamada porque el stock puede cambiar entre llamadas.
type AllocationUseCase struct {
	records repository.StockRecordRepository
}

// NewAllocationUseCase construye el caso de uso.
func NewAllocationUseCase(records repository.StockRecordRepository) *AllocationUseCase {
	return &AllocationUseCase{records: records}
}

// Allocate arma el plan para requiredQuantity unidades del producto,
// priorizando preferredLocationID si tiene stock. Un plan no satisfecho
// igual se devuelve: el caller decide si acepta parcial o rechaza.
func (uc *AllocationUseCase) Allocate(ctx context.Context, productID string, requiredQuantity int64, preferredLocationID string) (inventory.AllocationPlan, error) {
	if productID == "" || requiredQuantity <= 0 {
		return inventory.AllocationPlan{}, domain.ErrInvalidInput
	}
	records, err := uc.records.ListByProduct(ctx, productID)
	if err != nil {
		return inventory.AllocationPlan{}, err
	}
	return inventory.BuildPlan(productID, requiredQuantity, preferredLocationID, records), nil
}
