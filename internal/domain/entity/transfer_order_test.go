package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/stock-engine/internal/domain"
	"github.com/invorya/stock-engine/internal/domain/entity"
)

func pendingOrder() *entity.TransferOrder {
	return &entity.TransferOrder{
		TransferNumber: "TRF-20260901-AAAA1111",
		From:           entity.WarehouseRef("W1"),
		To:             entity.ShopRef("S1"),
		Status:         entity.TransferStatusPending,
		RequestedBy:    "user-1",
		RequestDate:    time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		Items: []entity.TransferOrderItem{
			{ProductID: "P1", ProductName: "Tornillo 3mm", Quantity: 50, UnitCost: decimal.RequireFromString("10.00")},
		},
	}
}

// ── Máquina de estados ────────────────────────────────────────────────────────

func TestTransferOrder_ApprovePasaAInProgress(t *testing.T) {
	order := pendingOrder()
	approvedAt := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	require.NoError(t, order.Approve("admin-1", approvedAt))

	assert.Equal(t, entity.TransferStatusInProgress, order.Status)
	assert.Equal(t, "admin-1", order.ApprovedBy)
	require.NotNil(t, order.ApprovedDate, "aprobar registra la fecha de aprobación")
	assert.True(t, order.ApprovedDate.Equal(approvedAt))
}

func TestTransferOrder_ApproveEsIdempotenteParaElMismoAprobador(t *testing.T) {
	order := pendingOrder()
	firstApproval := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	require.NoError(t, order.Approve("admin-1", firstApproval))

	assert.NoError(t, order.Approve("admin-1", firstApproval.Add(time.Hour)),
		"reaprobar con el mismo usuario no es error")
	assert.True(t, order.ApprovedDate.Equal(firstApproval),
		"la reaprobación idempotente conserva la fecha original")
	assert.ErrorIs(t, order.Approve("admin-2", time.Now()), domain.ErrInvalidStateTransition,
		"otro aprobador sobre una orden en curso sí es transición inválida")
}

func TestTransferOrder_ApproveRequiereAprobador(t *testing.T) {
	order := pendingOrder()
	assert.ErrorIs(t, order.Approve("", time.Now()), domain.ErrInvalidInput)
}

func TestTransferOrder_CompleteExigeLineasCompletas(t *testing.T) {
	order := pendingOrder()
	require.NoError(t, order.Approve("admin-1", time.Now()))
	require.NoError(t, order.RecordTransfer("P1", 20))

	assert.ErrorIs(t, order.Complete(time.Now()), domain.ErrInvalidStateTransition,
		"con remanente pendiente la orden no puede cerrarse")

	require.NoError(t, order.RecordTransfer("P1", 30))
	require.NoError(t, order.Complete(time.Now()))
	assert.Equal(t, entity.TransferStatusCompleted, order.Status)
	require.NotNil(t, order.CompletedDate)
}

func TestTransferOrder_CompleteEsIdempotente(t *testing.T) {
	order := pendingOrder()
	require.NoError(t, order.Approve("admin-1", time.Now()))
	require.NoError(t, order.RecordTransfer("P1", 50))
	require.NoError(t, order.Complete(time.Now()))

	assert.NoError(t, order.Complete(time.Now()))
}

func TestTransferOrder_CompleteDesdePendingEsInvalido(t *testing.T) {
	order := pendingOrder()
	assert.ErrorIs(t, order.Complete(time.Now()), domain.ErrInvalidStateTransition)
}

func TestTransferOrder_CancelDesdeCualquierEstadoAbierto(t *testing.T) {
	// Pending → Cancelled
	order := pendingOrder()
	require.NoError(t, order.Cancel())
	assert.Equal(t, entity.TransferStatusCancelled, order.Status)
	assert.NoError(t, order.Cancel(), "recancelar es idempotente")

	// InProgress con traslado parcial → Cancelled; el progreso queda como
	// evidencia del traslado parcial permanente.
	order = pendingOrder()
	require.NoError(t, order.Approve("admin-1", time.Now()))
	require.NoError(t, order.RecordTransfer("P1", 20))
	require.NoError(t, order.Cancel())
	assert.Equal(t, int64(20), order.TotalTransferred())
}

func TestTransferOrder_CancelDeCompletadaEsInvalido(t *testing.T) {
	order := pendingOrder()
	require.NoError(t, order.Approve("admin-1", time.Now()))
	require.NoError(t, order.RecordTransfer("P1", 50))
	require.NoError(t, order.Complete(time.Now()))

	assert.ErrorIs(t, order.Cancel(), domain.ErrInvalidStateTransition)
}

func TestTransferOrder_DeletableSoloEnPending(t *testing.T) {
	order := pendingOrder()
	assert.True(t, order.Deletable())

	require.NoError(t, order.Approve("admin-1", time.Now()))
	assert.False(t, order.Deletable(), "una orden en curso ya pudo mover stock")
}

// ── Progreso de líneas ────────────────────────────────────────────────────────

func TestTransferOrder_RecordTransferAcotadoAlRemanente(t *testing.T) {
	order := pendingOrder()
	require.NoError(t, order.Approve("admin-1", time.Now()))

	require.NoError(t, order.RecordTransfer("P1", 20))
	assert.Equal(t, int64(30), order.Items[0].Remaining())

	assert.ErrorIs(t, order.RecordTransfer("P1", 31), domain.ErrInvalidInput,
		"mover más que el remanente es inválido")
	assert.ErrorIs(t, order.RecordTransfer("P1", 0), domain.ErrInvalidInput)
	assert.ErrorIs(t, order.RecordTransfer("P9", 1), domain.ErrNotFound)
}

func TestTransferOrder_RecordTransferSoloEnInProgress(t *testing.T) {
	order := pendingOrder()
	assert.ErrorIs(t, order.RecordTransfer("P1", 10), domain.ErrInvalidStateTransition,
		"una orden sin aprobar no mueve stock")
}

// ── Agregados ─────────────────────────────────────────────────────────────────

func TestTransferOrder_Totales(t *testing.T) {
	order := pendingOrder()
	order.Items = append(order.Items, entity.TransferOrderItem{
		ProductID: "P2", Quantity: 10, UnitCost: decimal.RequireFromString("2.50"),
	})
	require.NoError(t, order.Approve("admin-1", time.Now()))
	require.NoError(t, order.RecordTransfer("P1", 20))

	assert.Equal(t, int64(60), order.TotalRequested())
	assert.Equal(t, int64(20), order.TotalTransferred())
	// 50*10.00 + 10*2.50 = 525.00, valorado al costo capturado al crear
	assert.True(t, order.SnapshotValue().Equal(decimal.RequireFromString("525.00")),
		"valor de la orden a costos snapshot, fue %s", order.SnapshotValue())
}
