package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/stock-engine/internal/domain"
	"github.com/invorya/stock-engine/internal/domain/entity"
	"github.com/invorya/stock-engine/internal/domain/repository"
	"github.com/invorya/stock-engine/internal/infrastructure/memory"
)

func newOrder(number string, requestDate time.Time) *entity.TransferOrder {
	return &entity.TransferOrder{
		TransferNumber: number,
		From:           entity.WarehouseRef("W1"),
		To:             entity.ShopRef("S1"),
		Status:         entity.TransferStatusPending,
		RequestedBy:    "user-1",
		RequestDate:    requestDate,
		Items: []entity.TransferOrderItem{
			{ProductID: "P1", Quantity: 50, UnitCost: decimal.RequireFromString("10.00")},
		},
	}
}

func TestTransferOrderRepo_CreateRechazaNumeroDuplicado(t *testing.T) {
	repo := memory.NewTransferOrderRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newOrder("TRF-1", time.Now())))
	assert.ErrorIs(t, repo.Create(ctx, newOrder("TRF-1", time.Now())), domain.ErrInvalidInput)
}

func TestTransferOrderRepo_UpdateConVersionVieja(t *testing.T) {
	repo := memory.NewTransferOrderRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newOrder("TRF-1", time.Now())))

	// Dos lectores toman la misma versión; solo el primero en escribir gana.
	a, err := repo.GetByNumber(ctx, "TRF-1")
	require.NoError(t, err)
	b, err := repo.GetByNumber(ctx, "TRF-1")
	require.NoError(t, err)

	require.NoError(t, a.Approve("admin-1", time.Now()))
	require.NoError(t, repo.Update(ctx, a))

	require.NoError(t, b.Cancel())
	assert.ErrorIs(t, repo.Update(ctx, b), domain.ErrConcurrencyConflict,
		"la segunda escritura sobre la versión vieja debe perder")

	cur, err := repo.GetByNumber(ctx, "TRF-1")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusInProgress, cur.Status)
	assert.Equal(t, int64(2), cur.Version)
}

func TestTransferOrderRepo_GetDevuelveCopia(t *testing.T) {
	repo := memory.NewTransferOrderRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newOrder("TRF-1", time.Now())))

	a, err := repo.GetByNumber(ctx, "TRF-1")
	require.NoError(t, err)
	a.Items[0].TransferredQuantity = 99 // mutación local, no persistida

	cur, err := repo.GetByNumber(ctx, "TRF-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), cur.Items[0].TransferredQuantity,
		"mutar la copia leída no toca el estado guardado")
}

func TestTransferOrderRepo_ListFiltraYOrdena(t *testing.T) {
	repo := memory.NewTransferOrderRepository()
	ctx := context.Background()
	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	older := newOrder("TRF-OLD", base.Add(-time.Hour))
	newer := newOrder("TRF-NEW", base)
	cancelled := newOrder("TRF-CAN", base.Add(-2*time.Hour))
	cancelled.Status = entity.TransferStatusCancelled
	cancelled.To = entity.ShopRef("S2")

	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))
	require.NoError(t, repo.Create(ctx, cancelled))

	all, err := repo.List(ctx, repository.TransferOrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "TRF-NEW", all[0].TransferNumber, "más recientes primero")

	pending, err := repo.List(ctx, repository.TransferOrderFilter{Status: entity.TransferStatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	byLoc, err := repo.List(ctx, repository.TransferOrderFilter{LocationID: "S2"})
	require.NoError(t, err)
	require.Len(t, byLoc, 1)
	assert.Equal(t, "TRF-CAN", byLoc[0].TransferNumber)

	paged, err := repo.List(ctx, repository.TransferOrderFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "TRF-OLD", paged[0].TransferNumber)
}

func TestTransferOrderRepo_SummaryAgregaPorEstado(t *testing.T) {
	repo := memory.NewTransferOrderRepository()
	ctx := context.Background()
	base := time.Now()

	a := newOrder("TRF-A", base) // Pending: 50 uds @ 10.00
	b := newOrder("TRF-B", base) // Pending: 50 uds @ 10.00
	c := newOrder("TRF-C", base) // InProgress con 20 movidas
	c.Status = entity.TransferStatusInProgress
	c.Items[0].TransferredQuantity = 20

	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))
	require.NoError(t, repo.Create(ctx, c))

	summary, err := repo.Summary(ctx)
	require.NoError(t, err)
	require.Len(t, summary, 2)

	// Ordenado por estado: IN_PROGRESS < PENDING
	assert.Equal(t, entity.TransferStatusInProgress, summary[0].Status)
	assert.Equal(t, int64(1), summary[0].Orders)
	assert.Equal(t, int64(20), summary[0].UnitsTransferred)

	assert.Equal(t, entity.TransferStatusPending, summary[1].Status)
	assert.Equal(t, int64(2), summary[1].Orders)
	assert.Equal(t, int64(100), summary[1].UnitsRequested)
	assert.True(t, summary[1].SnapshotValue.Equal(decimal.RequireFromString("1000.00")),
		"valor snapshot de las pendientes, fue %s", summary[1].SnapshotValue)
}

func TestTransferOrderRepo_Delete(t *testing.T) {
	repo := memory.NewTransferOrderRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newOrder("TRF-1", time.Now())))

	require.NoError(t, repo.Delete(ctx, "TRF-1"))
	_, err := repo.GetByNumber(ctx, "TRF-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "TRF-1"), domain.ErrNotFound)
}
