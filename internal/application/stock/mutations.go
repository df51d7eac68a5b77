// Package stock contiene los casos de uso del libro de stock: mutaciones,
// asignación y el flujo de venta.
package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invorya/stock-engine/internal/domain"
	"github.com/invorya/stock-engine/internal/domain/entity"
	"github.com/invorya/stock-engine/internal/domain/inventory"
	"github.com/invorya/stock-engine/internal/domain/repository"
	"github.com/invorya/stock-engine/pkg/logger"
)

// MutationUseCase aplica las operaciones de mutación sobre StockRecords.
// Cada operación es una sola llamada a UpsertAtomic más una fila en el diario
// de movimientos; no hay transacciones que crucen registros.
type MutationUseCase struct {
	records repository.StockRecordRepository
	journal repository.StockMovementRepository
	log     *logger.Logger
}

// NewMutationUseCase construye el caso de uso.
func NewMutationUseCase(records repository.StockRecordRepository, journal repository.StockMovementRepository, log *logger.Logger) *MutationUseCase {
	return &MutationUseCase{records: records, journal: journal, log: log}
}

// ReceivePurchase suma unidades compradas y recalcula el costo promedio
// ponderado. Crea el registro si es la primera entrada en esa ubicación.
func (uc *MutationUseCase) ReceivePurchase(ctx context.Context, actor, productID string, loc entity.LocationRef, quantity int64, unitCost decimal.Decimal, reference string) (*entity.StockRecord, error) {
	rec, err := uc.records.UpsertAtomic(ctx, productID, loc, inventory.ReceiptMutator(quantity, unitCost))
	if err != nil {
		return nil, err
	}
	return rec, uc.journalEntry(ctx, rec, entity.MovementTypePurchase, quantity, unitCost, reference, "", actor)
}

// CommitSale descuenta unidades vendidas de una ubicación. Falla con
// ErrInsufficientStock si no alcanza; nunca recorta a cero en silencio.
// El registro devuelto es no-nil siempre que el descuento quedó aplicado,
// incluso si después falla el asiento en el diario: los callers lo usan para
// saber si la pierna debe compensarse.
func (uc *MutationUseCase) CommitSale(ctx context.Context, actor, productID string, loc entity.LocationRef, quantity int64, reference string) (*entity.StockRecord, error) {
	rec, err := uc.records.UpsertAtomic(ctx, productID, loc, inventory.SaleMutator(quantity))
	if err != nil {
		return nil, err
	}
	return rec, uc.journalEntry(ctx, rec, entity.MovementTypeSale, -quantity, rec.AverageUnitCost, reference, "", actor)
}

// TransferOut es la pierna de origen de un traslado: se comporta como una
// venta (descuenta, falla si no alcanza).
func (uc *MutationUseCase) TransferOut(ctx context.Context, actor, productID string, from entity.LocationRef, quantity int64, reference string) (*entity.StockRecord, error) {
	rec, err := uc.records.UpsertAtomic(ctx, productID, from, inventory.SaleMutator(quantity))
	if err != nil {
		return nil, err
	}
	return rec, uc.journalEntry(ctx, rec, entity.MovementTypeTransferOut, -quantity, rec.AverageUnitCost, reference, "", actor)
}

// TransferIn es la pierna de destino: entra con el costo capturado en el
// origen, para que el promedio del destino refleje el costo real que llega y
// no su precio local desactualizado.
func (uc *MutationUseCase) TransferIn(ctx context.Context, actor, productID string, to entity.LocationRef, quantity int64, sourceCost decimal.Decimal, reference string) (*entity.StockRecord, error) {
	rec, err := uc.records.UpsertAtomic(ctx, productID, to, inventory.ReceiptMutator(quantity, sourceCost))
	if err != nil {
		return nil, err
	}
	return rec, uc.journalEntry(ctx, rec, entity.MovementTypeTransferIn, quantity, sourceCost, reference, "", actor)
}

// AdjustQuantity aplica un delta de reconciliación (faltante o sobrante).
// El motivo es obligatorio: queda en el diario y en el log estructurado.
func (uc *MutationUseCase) AdjustQuantity(ctx context.Context, actor, productID string, loc entity.LocationRef, delta int64, reason string) (*entity.StockRecord, error) {
	if reason == "" {
		return nil, domain.ErrInvalidInput
	}
	rec, err := uc.records.UpsertAtomic(ctx, productID, loc, inventory.AdjustmentMutator(delta))
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("product_id", productID).
		Str("location_id", loc.ID).
		Int64("delta", delta).
		Str("reason", reason).
		Str("actor", actor).
		Msg("ajuste de stock aplicado")
	return rec, uc.journalEntry(ctx, rec, entity.MovementTypeAdjustment, delta, rec.AverageUnitCost, "", reason, actor)
}

// Reserve mueve unidades de disponible a reservado; el total no cambia.
func (uc *MutationUseCase) Reserve(ctx context.Context, actor, productID string, loc entity.LocationRef, quantity int64, reference string) (*entity.StockRecord, error) {
	rec, err := uc.records.UpsertAtomic(ctx, productID, loc, inventory.ReserveMutator(quantity))
	if err != nil {
		return nil, err
	}
	return rec, uc.journalEntry(ctx, rec, entity.MovementTypeReserve, quantity, rec.AverageUnitCost, reference, "", actor)
}

// Release devuelve unidades reservadas a disponible.
func (uc *MutationUseCase) Release(ctx context.Context, actor, productID string, loc entity.LocationRef, quantity int64, reference string) (*entity.StockRecord, error) {
	rec, err := uc.records.UpsertAtomic(ctx, productID, loc, inventory.ReleaseMutator(quantity))
	if err != nil {
		return nil, err
	}
	return rec, uc.journalEntry(ctx, rec, entity.MovementTypeRelease, quantity, rec.AverageUnitCost, reference, "", actor)
}

// journalEntry agrega la fila de auditoría. Un fallo aquí no compensa la
// mutación ya aplicada (el registro es la fuente de verdad, el diario es
// evidencia): se loguea y se devuelve el error para que el caller lo vea.
func (uc *MutationUseCase) journalEntry(ctx context.Context, rec *entity.StockRecord, movType string, quantity int64, unitCost decimal.Decimal, reference, reason, actor string) error {
	mov := &entity.StockMovement{
		ID:        uuid.NewString(),
		ProductID: rec.ProductID,
		Location:  rec.Location,
		Type:      movType,
		Quantity:  quantity,
		UnitCost:  unitCost,
		Reference: reference,
		Reason:    reason,
		CreatedAt: time.Now(),
		CreatedBy: actor,
	}
	if err := uc.journal.Append(ctx, mov); err != nil {
		uc.log.Error().Err(err).
			Str("product_id", rec.ProductID).
			Str("location_id", rec.Location.ID).
			Str("type", movType).
			Msg("fallo al registrar movimiento en el diario")
		return fmt.Errorf("registrar movimiento %s: %w", movType, err)
	}
	return nil
}
