package repository

import (
	"context"

	"github.com/invorya/stock-engine/internal/domain/entity"
	"github.com/invorya/stock-engine/internal/domain/inventory"
)

// StockRecordRepository define el puerto de persistencia del libro de stock
// (DIP). UpsertAtomic es la única vía de escritura: aplica el mutator bajo
// CAS por registro, de modo que escritores concurrentes sobre el mismo
// (producto, ubicación) se serializan y registros distintos avanzan en
// paralelo. Tras agotar los reintentos devuelve ErrConcurrencyConflict.
type StockRecordRepository interface {
	// Get devuelve el registro o ErrNotFound.
	Get(ctx context.Context, productID string, locationID string) (*entity.StockRecord, error)

	// ListByProduct devuelve todos los registros del producto (todas las
	// ubicaciones que lo tienen o lo tuvieron).
	ListByProduct(ctx context.Context, productID string) ([]entity.StockRecord, error)

	// ListByLocation devuelve todos los registros de una ubicación.
	ListByLocation(ctx context.Context, locationID string) ([]entity.StockRecord, error)

	// UpsertAtomic lee el registro (o uno en cero si no existe, creación
	// perezosa), aplica fn y escribe el resultado si nadie más escribió en
	// medio. El error de fn se propaga sin reintentar: un estado rechazado
	// no es contención.
	UpsertAtomic(ctx context.Context, productID string, loc entity.LocationRef, fn inventory.StockMutator) (*entity.StockRecord, error)
}
