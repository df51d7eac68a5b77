package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/invorya/stock-engine/internal/domain/entity"
)

// TransferOrderFilter filtros opcionales para listados de órdenes.
type TransferOrderFilter struct {
	Status     string // vacío = todos
	LocationID string // coincide contra origen o destino
	Limit      int
	Offset     int
}

// TransferStatusSummary agregado por estado para el tablero de traslados.
type TransferStatusSummary struct {
	Status           string
	Orders           int64
	UnitsRequested   int64
	UnitsTransferred int64
	SnapshotValue    decimal.Decimal
}

// TransferOrderRepository define el puerto de persistencia de órdenes de
// traslado (DIP). Una orden se guarda completa (cabecera + líneas) bajo su
// TransferNumber. Update usa control optimista por versión: si otro escritor
// ganó, devuelve ErrConcurrencyConflict y el caller decide si reintenta.
type TransferOrderRepository interface {
	Create(ctx context.Context, order *entity.TransferOrder) error
	GetByNumber(ctx context.Context, transferNumber string) (*entity.TransferOrder, error)
	// Update persiste estado, aprobador, fechas y progreso de líneas
	// comparando la versión leída; incrementa Version al éxito.
	Update(ctx context.Context, order *entity.TransferOrder) error
	// Delete elimina físicamente; solo el caso de uso la permite en Pending.
	Delete(ctx context.Context, transferNumber string) error
	List(ctx context.Context, filter TransferOrderFilter) ([]entity.TransferOrder, error)
	Summary(ctx context.Context) ([]TransferStatusSummary, error)
}
