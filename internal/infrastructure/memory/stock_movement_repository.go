package memory

import (
	"context"
	"sync"

	"github.com/invorya/stock-engine/internal/domain/entity"
	"github.com/invorya/stock-engine/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo diario de movimientos en memoria (solo append).
type StockMovementRepo struct {
	mu        sync.RWMutex
	movements []entity.StockMovement
}

// NewStockMovementRepository construye el adaptador en memoria.
func NewStockMovementRepository() *StockMovementRepo {
	return &StockMovementRepo{}
}

// Append agrega una fila al diario.
func (r *StockMovementRepo) Append(_ context.Context, movement *entity.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, *movement)
	return nil
}

// ListByProduct devuelve movimientos del producto, más recientes al final.
func (r *StockMovementRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]entity.StockMovement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return page(out, limit, offset), nil
}

// ListByReference devuelve movimientos ligados a una referencia (p. ej. un
// número de traslado).
func (r *StockMovementRepo) ListByReference(_ context.Context, reference string) ([]entity.StockMovement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.StockMovement
	for _, m := range r.movements {
		if m.Reference == reference {
			out = append(out, m)
		}
	}
	return out, nil
}
