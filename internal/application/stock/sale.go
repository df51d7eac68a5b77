package stock

import (
	"context"
	"errors"

	"github.com/invorya/stock-engine/internal/domain"
	"github.com/invorya/stock-engine/internal/domain/inventory"
	"github.com/invorya/stock-engine/pkg/logger"
)

// SaleUseCase es el flujo de venta: planear con el motor de asignación y
// confirmar contra cada ubicación del plan. La validación del plan completo
// antes de confirmar evita ventas parciales en el caso sin carreras; si una
// confirmación posterior igual falla (el plan envejeció), las ubicaciones ya
// confirmadas NO se revierten y el fallo se reporta como PartialSaleError
// para que el caller compense explícitamente.
type SaleUseCase struct {
	allocator *AllocationUseCase
	mutations *MutationUseCase
	log       *logger.Logger
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(allocator *AllocationUseCase, mutations *MutationUseCase, log *logger.Logger) *SaleUseCase {
	return &SaleUseCase{allocator: allocator, mutations: mutations, log: log}
}

// CommitSale planea y confirma una venta. Devuelve el plan ejecutado.
// Errores: ErrInsufficientStock si el plan no se satisface (nada se confirma),
// PartialSaleError si una ubicación posterior falló tras confirmar otras.
func (uc *SaleUseCase) CommitSale(ctx context.Context, actor, productID string, quantity int64, preferredLocationID, reference string) (inventory.AllocationPlan, error) {
	plan, err := uc.allocator.Allocate(ctx, productID, quantity, preferredLocationID)
	if err != nil {
		return plan, err
	}
	if !plan.Satisfied {
		return plan, domain.ErrInsufficientStock
	}

	var committed []domain.CommittedLeg
	for _, alloc := range plan.Allocations {
		rec, err := uc.mutations.CommitSale(ctx, actor, productID, alloc.Location, alloc.Quantity, reference)
		if rec != nil {
			// El descuento de stock quedó aplicado aunque luego falle el
			// diario: la pierna cuenta como confirmada para compensar.
			committed = append(committed, domain.CommittedLeg{LocationID: alloc.Location.ID, Quantity: alloc.Quantity})
		}
		if err != nil {
			if len(committed) == 0 {
				// Nada confirmado todavía: fallo limpio, el caller puede
				// reintentar con otro plan.
				return plan, err
			}
			uc.log.Error().Err(err).
				Str("product_id", productID).
				Str("failed_location_id", alloc.Location.ID).
				Int("committed_legs", len(committed)).
				Msg("venta multi-ubicación falló a mitad de camino")
			return plan, &domain.PartialSaleError{
				ProductID:        productID,
				FailedLocationID: alloc.Location.ID,
				Committed:        committed,
				Cause:            err,
			}
		}
	}
	return plan, nil
}

// IsPartialSale ayuda a los callers a distinguir el fallo que exige compensar.
func IsPartialSale(err error) bool {
	return errors.Is(err, domain.ErrPartialSaleFailure)
}
