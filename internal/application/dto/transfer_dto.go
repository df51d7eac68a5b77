package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/invorya/stock-engine/internal/domain/entity"
	"github.com/invorya/stock-engine/internal/domain/repository"
)

// CreateTransferItemRequest una línea de la orden a crear.
type CreateTransferItemRequest struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	SKU         string `json:"sku,omitempty"`
	Quantity    int64  `json:"quantity"`
}

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	From  LocationDTO                 `json:"from"`
	To    LocationDTO                 `json:"to"`
	Items []CreateTransferItemRequest `json:"items"`
}

// TransferItemActionRequest body para POST /api/transfers/:number/items.
type TransferItemActionRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// TransferItemResponse vista de una línea de la orden.
type TransferItemResponse struct {
	ProductID           string          `json:"product_id"`
	ProductName         string          `json:"product_name,omitempty"`
	SKU                 string          `json:"sku,omitempty"`
	Quantity            int64           `json:"quantity"`
	UnitCost            decimal.Decimal `json:"unit_cost"`
	TransferredQuantity int64           `json:"transferred_quantity"`
	RemainingQuantity   int64           `json:"remaining_quantity"`
	FullyTransferred    bool            `json:"fully_transferred"`
}

// TransferOrderResponse vista de una orden de traslado.
type TransferOrderResponse struct {
	TransferNumber string                 `json:"transfer_number"`
	From           LocationDTO            `json:"from"`
	To             LocationDTO            `json:"to"`
	Items          []TransferItemResponse `json:"items"`
	Status         string                 `json:"status"`
	RequestedBy    string                 `json:"requested_by"`
	ApprovedBy     string                 `json:"approved_by,omitempty"`
	ApprovedDate   *time.Time             `json:"approved_date,omitempty"`
	RequestDate    time.Time              `json:"request_date"`
	CompletedDate  *time.Time             `json:"completed_date,omitempty"`
}

// NewTransferOrderResponse convierte desde el dominio.
func NewTransferOrderResponse(o *entity.TransferOrder) TransferOrderResponse {
	resp := TransferOrderResponse{
		TransferNumber: o.TransferNumber,
		From:           NewLocationDTO(o.From),
		To:             NewLocationDTO(o.To),
		Status:         o.Status,
		RequestedBy:    o.RequestedBy,
		ApprovedBy:     o.ApprovedBy,
		ApprovedDate:   o.ApprovedDate,
		RequestDate:    o.RequestDate,
		CompletedDate:  o.CompletedDate,
		Items:          make([]TransferItemResponse, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, TransferItemResponse{
			ProductID:           it.ProductID,
			ProductName:         it.ProductName,
			SKU:                 it.SKU,
			Quantity:            it.Quantity,
			UnitCost:            it.UnitCost,
			TransferredQuantity: it.TransferredQuantity,
			RemainingQuantity:   it.Remaining(),
			FullyTransferred:    it.IsFullyTransferred(),
		})
	}
	return resp
}

// NewTransferOrderResponses convierte una lista.
func NewTransferOrderResponses(orders []entity.TransferOrder) []TransferOrderResponse {
	out := make([]TransferOrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, NewTransferOrderResponse(&orders[i]))
	}
	return out
}

// OutstandingItemResponse línea con remanente en una orden en curso (pasada de
// reconciliación del operador).
type OutstandingItemResponse struct {
	ProductID         string `json:"product_id"`
	ProductName       string `json:"product_name,omitempty"`
	RemainingQuantity int64  `json:"remaining_quantity"`
}

// TransferSummaryRow agregado por estado.
type TransferSummaryRow struct {
	Status           string          `json:"status"`
	Orders           int64           `json:"orders"`
	UnitsRequested   int64           `json:"units_requested"`
	UnitsTransferred int64           `json:"units_transferred"`
	SnapshotValue    decimal.Decimal `json:"snapshot_value"`
}

// NewTransferSummary convierte el agregado del repositorio.
func NewTransferSummary(rows []repository.TransferStatusSummary) []TransferSummaryRow {
	out := make([]TransferSummaryRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, TransferSummaryRow(r))
	}
	return out
}
