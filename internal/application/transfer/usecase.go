// Package transfer orquesta el ciclo de vida de las órdenes de traslado:
// Pending → InProgress → Completed/Cancelled, moviendo stock pierna a pierna.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/invorya/stock-engine/internal/application/stock"
	"github.com/invorya/stock-engine/internal/domain"
	"github.com/invorya/stock-engine/internal/domain/entity"
	"github.com/invorya/stock-engine/internal/domain/repository"
	"github.com/invorya/stock-engine/pkg/logger"
)

// CreateItemInput una línea solicitada al crear la orden.
type CreateItemInput struct {
	ProductID   string
	ProductName string
	SKU         string
	Quantity    int64
}

// CreateInput parámetros de creación de una orden.
type CreateInput struct {
	From  entity.LocationRef
	To    entity.LocationRef
	Items []CreateItemInput
}

// OutstandingItem línea con remanente pendiente en una orden en curso.
type OutstandingItem struct {
	ProductID         string
	ProductName       string
	RemainingQuantity int64
}

// UseCase implementa la máquina de estados de órdenes de traslado. Una pierna
// de traslado son dos UpsertAtomic independientes (origen y destino); el
// progreso de la línea (TransferredQuantity) se persiste solo después de que
// ambas piernas aplican, así un corte a mitad de pierna queda detectable y se
// compensa re-ejecutando la pierna por el delta pendiente, nunca con rollback
// automático.
type UseCase struct {
	orders    repository.TransferOrderRepository
	records   repository.StockRecordRepository
	mutations *stock.MutationUseCase
	log       *logger.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(orders repository.TransferOrderRepository, records repository.StockRecordRepository, mutations *stock.MutationUseCase, log *logger.Logger) *UseCase {
	return &UseCase{
		orders:    orders,
		records:   records,
		mutations: mutations,
		log:       log,
		now:       time.Now,
	}
}

// newTransferNumber genera un número único legible, p. ej. TRF-20260901-3FA2B1C4.
func newTransferNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("TRF-%s-%s", now.Format("20060102"), suffix)
}

// Create valida y registra una orden en Pending. El costo unitario de cada
// línea se captura del promedio vigente en el origen; la disponibilidad en
// origen se verifica como chequeo consultivo (la garantía real es el CAS de
// la pierna de origen al trasladar).
func (uc *UseCase) Create(ctx context.Context, requestedBy string, input CreateInput) (*entity.TransferOrder, error) {
	if requestedBy == "" || !input.From.Valid() || !input.To.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if input.From.ID == input.To.ID {
		return nil, domain.ErrInvalidInput
	}
	if len(input.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	seen := make(map[string]bool, len(input.Items))
	for _, it := range input.Items {
		if it.ProductID == "" || it.Quantity <= 0 || seen[it.ProductID] {
			return nil, domain.ErrInvalidInput
		}
		seen[it.ProductID] = true
	}

	now := uc.now()
	order := &entity.TransferOrder{
		TransferNumber: newTransferNumber(now),
		From:           input.From,
		To:             input.To,
		Status:         entity.TransferStatusPending,
		RequestedBy:    requestedBy,
		RequestDate:    now,
		Items:          make([]entity.TransferOrderItem, 0, len(input.Items)),
	}
	for _, it := range input.Items {
		rec, err := uc.records.Get(ctx, it.ProductID, input.From.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrInsufficientStock
			}
			return nil, err
		}
		if rec.Available < it.Quantity {
			return nil, domain.ErrInsufficientStock
		}
		order.Items = append(order.Items, entity.TransferOrderItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			SKU:         it.SKU,
			Quantity:    it.Quantity,
			UnitCost:    rec.AverageUnitCost,
		})
	}

	if err := uc.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("transfer_number", order.TransferNumber).
		Str("from", order.From.ID).
		Str("to", order.To.ID).
		Int("items", len(order.Items)).
		Msg("orden de traslado creada")
	return order, nil
}

// Approve pasa la orden a InProgress. No mueve stock.
func (uc *UseCase) Approve(ctx context.Context, approvedBy, transferNumber string) (*entity.TransferOrder, error) {
	order, err := uc.orders.GetByNumber(ctx, transferNumber)
	if err != nil {
		return nil, err
	}
	prev := order.Status
	if err := order.Approve(approvedBy, uc.now()); err != nil {
		return nil, err
	}
	if prev == order.Status {
		// Reaprobación idempotente: nada que persistir.
		return order, nil
	}
	if err := uc.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// TransferItem mueve qty unidades de una línea: pierna de origen, pierna de
// destino y recién entonces el avance del progreso. Si la pierna de origen
// falla (stock insuficiente, conflicto), la orden queda intacta.
func (uc *UseCase) TransferItem(ctx context.Context, actor, transferNumber, productID string, qty int64) (*entity.TransferOrder, error) {
	order, err := uc.orders.GetByNumber(ctx, transferNumber)
	if err != nil {
		return nil, err
	}
	if order.Status != entity.TransferStatusInProgress {
		return nil, domain.ErrInvalidStateTransition
	}
	idx := order.ItemFor(productID)
	if idx < 0 {
		return nil, domain.ErrNotFound
	}
	item := order.Items[idx]
	if qty <= 0 || qty > item.Remaining() {
		return nil, domain.ErrInvalidInput
	}

	if _, err := uc.mutations.TransferOut(ctx, actor, productID, order.From, qty, transferNumber); err != nil {
		return nil, err
	}
	if _, err := uc.mutations.TransferIn(ctx, actor, productID, order.To, qty, item.UnitCost, transferNumber); err != nil {
		// Origen descontado, destino sin acreditar: estado detectable vía el
		// remanente de la línea; la pasada de reconciliación re-ejecuta la
		// pierna por el delta pendiente.
		uc.log.Error().Err(err).
			Str("transfer_number", transferNumber).
			Str("product_id", productID).
			Int64("quantity", qty).
			Msg("pierna de destino falló con el origen ya descontado")
		return nil, err
	}

	if err := order.RecordTransfer(productID, qty); err != nil {
		return nil, err
	}
	if err := uc.orders.Update(ctx, order); err != nil {
		uc.log.Error().Err(err).
			Str("transfer_number", transferNumber).
			Str("product_id", productID).
			Msg("stock movido pero el progreso de la orden no se persistió")
		return nil, err
	}
	return order, nil
}

// Complete cierra la orden; exige todas las líneas completas.
func (uc *UseCase) Complete(ctx context.Context, transferNumber string) (*entity.TransferOrder, error) {
	order, err := uc.orders.GetByNumber(ctx, transferNumber)
	if err != nil {
		return nil, err
	}
	if order.Status == entity.TransferStatusCompleted {
		return order, nil
	}
	if err := order.Complete(uc.now()); err != nil {
		return nil, err
	}
	if err := uc.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	uc.log.Info().Str("transfer_number", transferNumber).Msg("orden de traslado completada")
	return order, nil
}

// Cancel cierra la orden sin mover más stock. Desde InProgress, lo ya movido
// queda como traslado parcial permanente; no hay reversa automática.
func (uc *UseCase) Cancel(ctx context.Context, transferNumber string) (*entity.TransferOrder, error) {
	order, err := uc.orders.GetByNumber(ctx, transferNumber)
	if err != nil {
		return nil, err
	}
	if order.Status == entity.TransferStatusCancelled {
		return order, nil
	}
	moved := order.TotalTransferred()
	if err := order.Cancel(); err != nil {
		return nil, err
	}
	if err := uc.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	if moved > 0 {
		uc.log.Warn().
			Str("transfer_number", transferNumber).
			Int64("units_moved", moved).
			Msg("orden cancelada con traslado parcial; las unidades movidas permanecen en destino")
	}
	return order, nil
}

// Delete borra físicamente una orden Pending (nada se movió). Cualquier otro
// estado se rechaza.
func (uc *UseCase) Delete(ctx context.Context, transferNumber string) error {
	order, err := uc.orders.GetByNumber(ctx, transferNumber)
	if err != nil {
		return err
	}
	if !order.Deletable() {
		return domain.ErrInvalidStateTransition
	}
	return uc.orders.Delete(ctx, transferNumber)
}

// Get devuelve la orden por número.
func (uc *UseCase) Get(ctx context.Context, transferNumber string) (*entity.TransferOrder, error) {
	return uc.orders.GetByNumber(ctx, transferNumber)
}

// List devuelve órdenes filtradas.
func (uc *UseCase) List(ctx context.Context, filter repository.TransferOrderFilter) ([]entity.TransferOrder, error) {
	return uc.orders.List(ctx, filter)
}

// Summary agrega conteos y valores por estado.
func (uc *UseCase) Summary(ctx context.Context) ([]repository.TransferStatusSummary, error) {
	return uc.orders.Summary(ctx)
}

// Outstanding lista las líneas con remanente de una orden en curso: es la
// vista del operador para la pasada de reconciliación tras un corte.
func (uc *UseCase) Outstanding(ctx context.Context, transferNumber string) ([]OutstandingItem, error) {
	order, err := uc.orders.GetByNumber(ctx, transferNumber)
	if err != nil {
		return nil, err
	}
	var out []OutstandingItem
	for _, it := range order.Items {
		if it.Remaining() > 0 {
			out = append(out, OutstandingItem{
				ProductID:         it.ProductID,
				ProductName:       it.ProductName,
				RemainingQuantity: it.Remaining(),
			})
		}
	}
	return out, nil
}
