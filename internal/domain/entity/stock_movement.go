package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del diario de stock.
const (
	MovementTypePurchase    = "PURCHASE"
	MovementTypeSale        = "SALE"
	MovementTypeAdjustment  = "ADJUSTMENT"
	MovementTypeTransferOut = "TRANSFER_OUT"
	MovementTypeTransferIn  = "TRANSFER_IN"
	MovementTypeReserve     = "RESERVE"
	MovementTypeRelease     = "RELEASE"
)

// StockMovement es una entrada del diario de auditoría: cada mutación exitosa
// sobre un StockRecord deja una fila con el delta y su motivo. El diario no es
// la fuente de verdad (esa es el StockRecord), es evidencia.
type StockMovement struct {
	ID        string
	ProductID string
	Location  LocationRef
	Type      string
	Quantity  int64 // con signo: negativo para salidas
	UnitCost  decimal.Decimal
	Reference string // número de traslado, id de venta, etc.
	Reason    string // obligatorio en ajustes
	CreatedAt time.Time
	CreatedBy string
}
