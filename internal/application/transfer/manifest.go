package transfer

import (
	"context"

	"github.com/invorya/stock-engine/internal/domain/entity"
	"github.com/invorya/stock-engine/internal/domain/repository"
)

// ManifestGenerator puerto de render del manifiesto de traslado (documento de
// picking). La implementación vive en infraestructura (maroto).
type ManifestGenerator interface {
	GenerateManifest(ctx context.Context, order *entity.TransferOrder) ([]byte, error)
}

// ManifestUseCase produce el PDF del manifiesto de una orden.
type ManifestUseCase struct {
	orders    repository.TransferOrderRepository
	generator ManifestGenerator
}

// NewManifestUseCase construye el caso de uso.
func NewManifestUseCase(orders repository.TransferOrderRepository, generator ManifestGenerator) *ManifestUseCase {
	return &ManifestUseCase{orders: orders, generator: generator}
}

// Generate devuelve los bytes del PDF del manifiesto.
func (uc *ManifestUseCase) Generate(ctx context.Context, transferNumber string) ([]byte, error) {
	order, err := uc.orders.GetByNumber(ctx, transferNumber)
	if err != nil {
		return nil, err
	}
	return uc.generator.GenerateManifest(ctx, order)
}
