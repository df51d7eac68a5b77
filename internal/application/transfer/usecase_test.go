package transfer_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appstock "github.com/invorya/stock-engine/internal/application/stock"
	"github.com/invorya/stock-engine/internal/application/transfer"
	"github.com/invorya/stock-engine/internal/domain"
	"github.com/invorya/stock-engine/internal/domain/entity"
	"github.com/invorya/stock-engine/internal/domain/repository"
	"github.com/invorya/stock-engine/internal/infrastructure/memory"
	"github.com/invorya/stock-engine/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: el ciclo completo de traslados sobre los adaptadores en memoria,
// con el diario de movimientos conectado para verificar la auditoría.
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	records   *memory.StockRecordRepo
	journal   *memory.StockMovementRepo
	mutations *appstock.MutationUseCase
	uc        *transfer.UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	records := memory.NewStockRecordRepository()
	journal := memory.NewStockMovementRepository()
	mutations := appstock.NewMutationUseCase(records, journal, log)
	return &fixture{
		records:   records,
		journal:   journal,
		mutations: mutations,
		uc:        transfer.NewUseCase(memory.NewTransferOrderRepository(), records, mutations, log),
	}
}

var cost10 = decimal.RequireFromString("10.00")

func (f *fixture) seed(t *testing.T, productID string, loc entity.LocationRef, qty int64, cost decimal.Decimal) {
	t.Helper()
	_, err := f.mutations.ReceivePurchase(context.Background(), "seed", productID, loc, qty, cost, "PO-SEED")
	require.NoError(t, err)
}

func singleItem(productID string, qty int64) transfer.CreateInput {
	return transfer.CreateInput{
		From: entity.WarehouseRef("W1"),
		To:   entity.ShopRef("S1"),
		Items: []transfer.CreateItemInput{
			{ProductID: productID, ProductName: "Tornillo 3mm", SKU: "TOR-3", Quantity: qty},
		},
	}
}

// ── Ciclo de vida completo ────────────────────────────────────────────────────

func TestTransfer_CicloCompletoEnDosPiernas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "P1", entity.WarehouseRef("W1"), 100, cost10)

	order, err := f.uc.Create(ctx, "user-1", singleItem("P1", 50))
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusPending, order.Status)
	assert.Regexp(t, `^TRF-\d{8}-[0-9A-F]{8}$`, order.TransferNumber)
	assert.True(t, order.Items[0].UnitCost.Equal(cost10),
		"el costo unitario se captura del promedio del origen al crear")

	order, err = f.uc.Approve(ctx, "admin-1", order.TransferNumber)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusInProgress, order.Status)

	// Primer movimiento parcial: 20 de 50.
	order, err = f.uc.TransferItem(ctx, "bodeguero-1", order.TransferNumber, "P1", 20)
	require.NoError(t, err)
	assert.Equal(t, int64(20), order.Items[0].TransferredQuantity)
	assert.Equal(t, int64(30), order.Items[0].Remaining())

	w1, err := f.records.Get(ctx, "P1", "W1")
	require.NoError(t, err)
	assert.Equal(t, int64(80), w1.Available)
	s1, err := f.records.Get(ctx, "P1", "S1")
	require.NoError(t, err)
	assert.Equal(t, int64(20), s1.Available)
	assert.True(t, s1.AverageUnitCost.Equal(cost10), "el destino hereda el costo del origen")

	// Cerrar con remanente pendiente es inválido.
	_, err = f.uc.Complete(ctx, order.TransferNumber)
	require.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	outstanding, err := f.uc.Outstanding(ctx, order.TransferNumber)
	require.NoError(t, err)
	require.Len(t, outstanding, 1)
	assert.Equal(t, int64(30), outstanding[0].RemainingQuantity)

	// Remanente y cierre.
	order, err = f.uc.TransferItem(ctx, "bodeguero-1", order.TransferNumber, "P1", 30)
	require.NoError(t, err)
	assert.True(t, order.Items[0].IsFullyTransferred())

	order, err = f.uc.Complete(ctx, order.TransferNumber)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCompleted, order.Status)
	require.NotNil(t, order.CompletedDate)

	// Auditoría: dos piernas por cada movimiento, ligadas al número de orden.
	movs, err := f.journal.ListByReference(ctx, order.TransferNumber)
	require.NoError(t, err)
	require.Len(t, movs, 4)
	assert.Equal(t, entity.MovementTypeTransferOut, movs[0].Type)
	assert.Equal(t, int64(-20), movs[0].Quantity)
	assert.Equal(t, entity.MovementTypeTransferIn, movs[1].Type)
	assert.Equal(t, int64(20), movs[1].Quantity)
}

// ── Creación ──────────────────────────────────────────────────────────────────

func TestTransfer_CreateValidaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "P1", entity.WarehouseRef("W1"), 100, cost10)

	// Mismo origen y destino.
	input := singleItem("P1", 10)
	input.To = entity.ShopRef("W1")
	_, err := f.uc.Create(ctx, "user-1", input)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Sin líneas.
	input = singleItem("P1", 10)
	input.Items = nil
	_, err = f.uc.Create(ctx, "user-1", input)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Cantidad no positiva.
	_, err = f.uc.Create(ctx, "user-1", singleItem("P1", 0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Producto duplicado.
	input = singleItem("P1", 10)
	input.Items = append(input.Items, input.Items[0])
	_, err = f.uc.Create(ctx, "user-1", input)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Sin solicitante.
	_, err = f.uc.Create(ctx, "", singleItem("P1", 10))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransfer_CreateExigeDisponibilidadEnOrigen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "P1", entity.WarehouseRef("W1"), 30, cost10)

	_, err := f.uc.Create(ctx, "user-1", singleItem("P1", 50))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"pedir más de lo disponible en origen se rechaza al crear")

	_, err = f.uc.Create(ctx, "user-1", singleItem("P9", 1))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"un producto sin registro en el origen no tiene nada que trasladar")
}

// ── Movimiento de líneas ──────────────────────────────────────────────────────

func TestTransfer_TransferItemSoloEnInProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "P1", entity.WarehouseRef("W1"), 100, cost10)

	order, err := f.uc.Create(ctx, "user-1", singleItem("P1", 50))
	require.NoError(t, err)

	_, err = f.uc.TransferItem(ctx, "bodeguero-1", order.TransferNumber, "P1", 10)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition, "sin aprobar no se mueve stock")
}

func TestTransfer_TransferItemAcotadoAlRemanente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "P1", entity.WarehouseRef("W1"), 100, cost10)

	order, err := f.uc.Create(ctx, "user-1", singleItem("P1", 50))
	require.NoError(t, err)
	_, err = f.uc.Approve(ctx, "admin-1", order.TransferNumber)
	require.NoError(t, err)

	_, err = f.uc.TransferItem(ctx, "b", order.TransferNumber, "P1", 51)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.TransferItem(ctx, "b", order.TransferNumber, "P9", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransfer_OrigenSinStockDejaLaOrdenIntacta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "P1", entity.WarehouseRef("W1"), 50, cost10)

	order, err := f.uc.Create(ctx, "user-1", singleItem("P1", 50))
	require.NoError(t, err)
	_, err = f.uc.Approve(ctx, "admin-1", order.TransferNumber)
	require.NoError(t, err)

	// Una venta concurrente vació el origen después de crear la orden.
	_, err = f.mutations.CommitSale(ctx, "vendedor-1", "P1", entity.WarehouseRef("W1"), 40, "INV-9")
	require.NoError(t, err)

	_, err = f.uc.TransferItem(ctx, "b", order.TransferNumber, "P1", 20)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	cur, err := f.uc.Get(ctx, order.TransferNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(0), cur.TotalTransferred(),
		"si la pierna de origen falla no se registra progreso")
}

// ── Cancelación y borrado ─────────────────────────────────────────────────────

func TestTransfer_CancelNoRevierteLoMovido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "P1", entity.WarehouseRef("W1"), 100, cost10)

	order, err := f.uc.Create(ctx, "user-1", singleItem("P1", 50))
	require.NoError(t, err)
	_, err = f.uc.Approve(ctx, "admin-1", order.TransferNumber)
	require.NoError(t, err)
	_, err = f.uc.TransferItem(ctx, "b", order.TransferNumber, "P1", 20)
	require.NoError(t, err)

	order, err = f.uc.Cancel(ctx, order.TransferNumber)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCancelled, order.Status)

	// Lo movido permanece en destino: traslado parcial permanente y auditado.
	s1, err := f.records.Get(ctx, "P1", "S1")
	require.NoError(t, err)
	assert.Equal(t, int64(20), s1.Available)
	w1, err := f.records.Get(ctx, "P1", "W1")
	require.NoError(t, err)
	assert.Equal(t, int64(80), w1.Available)

	_, err = f.uc.TransferItem(ctx, "b", order.TransferNumber, "P1", 10)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition, "una orden cancelada no mueve más stock")
}

func TestTransfer_DeleteSoloPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "P1", entity.WarehouseRef("W1"), 100, cost10)

	order, err := f.uc.Create(ctx, "user-1", singleItem("P1", 50))
	require.NoError(t, err)

	require.NoError(t, f.uc.Delete(ctx, order.TransferNumber))
	_, err = f.uc.Get(ctx, order.TransferNumber)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Una orden aprobada ya no puede borrarse.
	order, err = f.uc.Create(ctx, "user-1", singleItem("P1", 50))
	require.NoError(t, err)
	_, err = f.uc.Approve(ctx, "admin-1", order.TransferNumber)
	require.NoError(t, err)
	assert.ErrorIs(t, f.uc.Delete(ctx, order.TransferNumber), domain.ErrInvalidStateTransition)
}

// ── Idempotencia ──────────────────────────────────────────────────────────────

func TestTransfer_ApproveYCompleteIdempotentes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "P1", entity.WarehouseRef("W1"), 100, cost10)

	order, err := f.uc.Create(ctx, "user-1", singleItem("P1", 50))
	require.NoError(t, err)

	first, err := f.uc.Approve(ctx, "admin-1", order.TransferNumber)
	require.NoError(t, err)
	again, err := f.uc.Approve(ctx, "admin-1", order.TransferNumber)
	require.NoError(t, err)
	assert.Equal(t, first.Version, again.Version, "la reaprobación no persiste nada")

	_, err = f.uc.TransferItem(ctx, "b", order.TransferNumber, "P1", 50)
	require.NoError(t, err)
	_, err = f.uc.Complete(ctx, order.TransferNumber)
	require.NoError(t, err)
	done, err := f.uc.Complete(ctx, order.TransferNumber)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCompleted, done.Status)
}

// ── Listados y resumen ────────────────────────────────────────────────────────

func TestTransfer_ListYSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "P1", entity.WarehouseRef("W1"), 200, cost10)

	a, err := f.uc.Create(ctx, "user-1", singleItem("P1", 50))
	require.NoError(t, err)
	_, err = f.uc.Create(ctx, "user-1", singleItem("P1", 30))
	require.NoError(t, err)
	_, err = f.uc.Approve(ctx, "admin-1", a.TransferNumber)
	require.NoError(t, err)

	pending, err := f.uc.List(ctx, repository.TransferOrderFilter{Status: entity.TransferStatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	byLoc, err := f.uc.List(ctx, repository.TransferOrderFilter{LocationID: "S1"})
	require.NoError(t, err)
	assert.Len(t, byLoc, 2)

	summary, err := f.uc.Summary(ctx)
	require.NoError(t, err)
	require.Len(t, summary, 2)

	var totalOrders int64
	for _, s := range summary {
		totalOrders += s.Orders
	}
	assert.Equal(t, int64(2), totalOrders)
}
