package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/invorya/stock-engine/internal/domain/entity"
	"github.com/invorya/stock-engine/internal/domain/inventory"
)

// LocationDTO referencia a una ubicación en requests/responses.
type LocationDTO struct {
	Kind string `json:"kind"` // WAREHOUSE | SHOP
	ID   string `json:"id"`
}

// Ref convierte el DTO al sum type del dominio.
func (l LocationDTO) Ref() entity.LocationRef {
	return entity.LocationRef{Kind: entity.LocationKind(l.Kind), ID: l.ID}
}

// NewLocationDTO convierte desde el dominio.
func NewLocationDTO(ref entity.LocationRef) LocationDTO {
	return LocationDTO{Kind: string(ref.Kind), ID: ref.ID}
}

// ReceivePurchaseRequest body para POST /api/stock/purchases.
type ReceivePurchaseRequest struct {
	ProductID string          `json:"product_id"`
	Location  LocationDTO     `json:"location"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Reference string          `json:"reference,omitempty"`
}

// CommitSaleRequest body para POST /api/stock/sales. La ubicación preferida es
// opcional: sin ella el plan se arma solo con el orden greedy.
type CommitSaleRequest struct {
	ProductID           string `json:"product_id"`
	Quantity            int64  `json:"quantity"`
	PreferredLocationID string `json:"preferred_location_id,omitempty"`
	Reference           string `json:"reference,omitempty"`
}

// AdjustQuantityRequest body para POST /api/stock/adjustments.
type AdjustQuantityRequest struct {
	ProductID string      `json:"product_id"`
	Location  LocationDTO `json:"location"`
	Delta     int64       `json:"delta"`
	Reason    string      `json:"reason"`
}

// ReservationRequest body para POST/DELETE /api/stock/reservations.
type ReservationRequest struct {
	ProductID string      `json:"product_id"`
	Location  LocationDTO `json:"location"`
	Quantity  int64       `json:"quantity"`
	Reference string      `json:"reference,omitempty"`
}

// AllocateRequest body para POST /api/stock/allocate (simulación, solo lectura).
type AllocateRequest struct {
	ProductID           string `json:"product_id"`
	Quantity            int64  `json:"quantity"`
	PreferredLocationID string `json:"preferred_location_id,omitempty"`
}

// AllocationDTO una asignación dentro del plan.
type AllocationDTO struct {
	Location LocationDTO `json:"location"`
	Quantity int64       `json:"quantity"`
}

// AllocationPlanResponse plan de asignación devuelto al caller.
type AllocationPlanResponse struct {
	ProductID   string          `json:"product_id"`
	Required    int64           `json:"required"`
	Allocations []AllocationDTO `json:"allocations"`
	Allocated   int64           `json:"allocated"`
	Satisfied   bool            `json:"satisfied"`
}

// NewAllocationPlanResponse convierte el plan del dominio.
func NewAllocationPlanResponse(plan inventory.AllocationPlan) AllocationPlanResponse {
	out := AllocationPlanResponse{
		ProductID:   plan.ProductID,
		Required:    plan.Required,
		Allocated:   plan.Allocated(),
		Satisfied:   plan.Satisfied,
		Allocations: make([]AllocationDTO, 0, len(plan.Allocations)),
	}
	for _, a := range plan.Allocations {
		out.Allocations = append(out.Allocations, AllocationDTO{
			Location: NewLocationDTO(a.Location),
			Quantity: a.Quantity,
		})
	}
	return out
}

// StockRecordResponse vista de un registro del libro de stock.
type StockRecordResponse struct {
	ProductID       string          `json:"product_id"`
	Location        LocationDTO     `json:"location"`
	Available       int64           `json:"available"`
	Reserved        int64           `json:"reserved"`
	Total           int64           `json:"total"`
	AverageUnitCost decimal.Decimal `json:"average_unit_cost"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewStockRecordResponse convierte desde el dominio.
func NewStockRecordResponse(rec entity.StockRecord) StockRecordResponse {
	return StockRecordResponse{
		ProductID:       rec.ProductID,
		Location:        NewLocationDTO(rec.Location),
		Available:       rec.Available,
		Reserved:        rec.Reserved,
		Total:           rec.Total(),
		AverageUnitCost: rec.AverageUnitCost,
		UpdatedAt:       rec.UpdatedAt,
	}
}

// NewStockRecordResponses convierte una lista.
func NewStockRecordResponses(recs []entity.StockRecord) []StockRecordResponse {
	out := make([]StockRecordResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, NewStockRecordResponse(r))
	}
	return out
}

// StockMovementResponse fila del diario de movimientos.
type StockMovementResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Location  LocationDTO     `json:"location"`
	Type      string          `json:"type"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Reference string          `json:"reference,omitempty"`
	Reason    string          `json:"reason,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	CreatedBy string          `json:"created_by,omitempty"`
}

// NewStockMovementResponses convierte el diario del dominio.
func NewStockMovementResponses(movs []entity.StockMovement) []StockMovementResponse {
	out := make([]StockMovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, StockMovementResponse{
			ID:        m.ID,
			ProductID: m.ProductID,
			Location:  NewLocationDTO(m.Location),
			Type:      m.Type,
			Quantity:  m.Quantity,
			UnitCost:  m.UnitCost,
			Reference: m.Reference,
			Reason:    m.Reason,
			CreatedAt: m.CreatedAt,
			CreatedBy: m.CreatedBy,
		})
	}
	return out
}

// CommittedLegDTO salida ya aplicada de una venta que terminó parcial.
type CommittedLegDTO struct {
	LocationID string `json:"location_id"`
	Quantity   int64  `json:"quantity"`
}

// PartialSaleResponse cuerpo del 409 PARTIAL_SALE: el caller debe compensar
// las ubicaciones ya confirmadas.
type PartialSaleResponse struct {
	Code             string            `json:"code"`
	Message          string            `json:"message"`
	ProductID        string            `json:"product_id"`
	FailedLocationID string            `json:"failed_location_id"`
	Committed        []CommittedLegDTO `json:"committed"`
}
