package stock

import (
	"context"

	"github.com/invorya/stock-engine/internal/domain/entity"
	"github.com/invorya/stock-engine/internal/domain/repository"
)

// QueryUseCase lecturas del libro de stock y su diario.
type QueryUseCase struct {
	records repository.StockRecordRepository
	journal repository.StockMovementRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(records repository.StockRecordRepository, journal repository.StockMovementRepository) *QueryUseCase {
	return &QueryUseCase{records: records, journal: journal}
}

// Get devuelve el registro de un producto en una ubicación, o ErrNotFound.
func (uc *QueryUseCase) Get(ctx context.Context, productID, locationID string) (*entity.StockRecord, error) {
	return uc.records.Get(ctx, productID, locationID)
}

// ListByProduct devuelve el stock del producto en todas sus ubicaciones.
func (uc *QueryUseCase) ListByProduct(ctx context.Context, productID string) ([]entity.StockRecord, error) {
	return uc.records.ListByProduct(ctx, productID)
}

// ListByLocation devuelve el stock de todos los productos de una ubicación.
func (uc *QueryUseCase) ListByLocation(ctx context.Context, locationID string) ([]entity.StockRecord, error) {
	return uc.records.ListByLocation(ctx, locationID)
}

// Movements devuelve el diario de un producto.
func (uc *QueryUseCase) Movements(ctx context.Context, productID string, limit, offset int) ([]entity.StockMovement, error) {
	return uc.journal.ListByProduct(ctx, productID, limit, offset)
}
