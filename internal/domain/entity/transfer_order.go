package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/invorya/stock-engine/internal/domain"
)

// Estados de una orden de traslado.
const (
	TransferStatusPending    = "PENDING"
	TransferStatusInProgress = "IN_PROGRESS"
	TransferStatusCompleted  = "COMPLETED"
	TransferStatusCancelled  = "CANCELLED"
)

// TransferOrderItem es una línea de la orden. Quantity es inmutable después
// de la creación; TransferredQuantity solo crece (0 <= Transferred <= Quantity).
type TransferOrderItem struct {
	ProductID           string
	ProductName         string
	SKU                 string
	Quantity            int64
	UnitCost            decimal.Decimal // snapshot del costo promedio en origen al crear
	TransferredQuantity int64
}

// Remaining devuelve la cantidad pendiente de mover.
func (i TransferOrderItem) Remaining() int64 {
	return i.Quantity - i.TransferredQuantity
}

// IsFullyTransferred indica si la línea quedó completa.
func (i TransferOrderItem) IsFullyTransferred() bool {
	return i.TransferredQuantity >= i.Quantity
}

// TransferOrder representa un movimiento multi-ítem de stock entre dos
// ubicaciones. Las transiciones de estado son las únicas mutaciones válidas;
// los métodos de esta entidad las validan, el caso de uso las persiste y
// ejecuta los movimientos de stock asociados.
type TransferOrder struct {
	TransferNumber string
	From           LocationRef
	To             LocationRef
	Items          []TransferOrderItem
	Status         string
	RequestedBy    string
	ApprovedBy     string     // vacío hasta aprobar
	ApprovedDate   *time.Time // nil hasta aprobar
	RequestDate    time.Time
	CompletedDate  *time.Time
	Version        int64 // control optimista sobre la orden
}

// Approve pasa la orden de Pending a InProgress. Idempotente si el mismo
// aprobador repite la llamada sobre una orden ya en curso.
func (o *TransferOrder) Approve(approvedBy string, now time.Time) error {
	if o.Status == TransferStatusInProgress && o.ApprovedBy == approvedBy {
		return nil
	}
	if o.Status != TransferStatusPending {
		return domain.ErrInvalidStateTransition
	}
	if approvedBy == "" {
		return domain.ErrInvalidInput
	}
	o.Status = TransferStatusInProgress
	o.ApprovedBy = approvedBy
	o.ApprovedDate = &now
	return nil
}

// ItemFor devuelve el índice de la línea del producto, o -1.
func (o *TransferOrder) ItemFor(productID string) int {
	for i := range o.Items {
		if o.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// RecordTransfer registra qty unidades ya movidas para un producto. Solo es
// válido con la orden InProgress y qty dentro del remanente de la línea.
func (o *TransferOrder) RecordTransfer(productID string, qty int64) error {
	if o.Status != TransferStatusInProgress {
		return domain.ErrInvalidStateTransition
	}
	if qty <= 0 {
		return domain.ErrInvalidInput
	}
	idx := o.ItemFor(productID)
	if idx < 0 {
		return domain.ErrNotFound
	}
	if qty > o.Items[idx].Remaining() {
		return domain.ErrInvalidInput
	}
	o.Items[idx].TransferredQuantity += qty
	return nil
}

// Complete cierra la orden; exige todas las líneas completas. Idempotente
// sobre una orden ya completada.
func (o *TransferOrder) Complete(now time.Time) error {
	if o.Status == TransferStatusCompleted {
		return nil
	}
	if o.Status != TransferStatusInProgress {
		return domain.ErrInvalidStateTransition
	}
	for i := range o.Items {
		if !o.Items[i].IsFullyTransferred() {
			return domain.ErrInvalidStateTransition
		}
	}
	o.Status = TransferStatusCompleted
	o.CompletedDate = &now
	return nil
}

// Cancel cierra la orden sin mover más stock. Desde Pending nada se movió;
// desde InProgress las cantidades ya trasladadas quedan como traslado parcial
// permanente y auditado (no hay reversa automática).
func (o *TransferOrder) Cancel() error {
	if o.Status == TransferStatusCancelled {
		return nil
	}
	if o.Status != TransferStatusPending && o.Status != TransferStatusInProgress {
		return domain.ErrInvalidStateTransition
	}
	o.Status = TransferStatusCancelled
	return nil
}

// Deletable indica si la orden puede borrarse físicamente (solo Pending:
// ningún stock se ha movido todavía).
func (o *TransferOrder) Deletable() bool {
	return o.Status == TransferStatusPending
}

// TotalRequested suma las cantidades solicitadas de todas las líneas.
func (o *TransferOrder) TotalRequested() int64 {
	var total int64
	for i := range o.Items {
		total += o.Items[i].Quantity
	}
	return total
}

// TotalTransferred suma las cantidades ya movidas.
func (o *TransferOrder) TotalTransferred() int64 {
	var total int64
	for i := range o.Items {
		total += o.Items[i].TransferredQuantity
	}
	return total
}

// SnapshotValue valora la orden a los costos capturados al crearla.
func (o *TransferOrder) SnapshotValue() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].UnitCost.Mul(decimal.NewFromInt(o.Items[i].Quantity)))
	}
	return total
}
