package repository

import (
	"context"

	"github.com/invorya/stock-engine/internal/domain/entity"
)

// StockMovementRepository define el puerto del diario de movimientos (DIP).
// Solo se agrega y se consulta; nunca se edita una fila existente.
type StockMovementRepository interface {
	Append(ctx context.Context, movement *entity.StockMovement) error
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]entity.StockMovement, error)
	ListByReference(ctx context.Context, reference string) ([]entity.StockMovement, error)
}
