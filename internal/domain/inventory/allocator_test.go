package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/stock-engine/internal/domain/entity"
	"github.com/invorya/stock-engine/internal/domain/inventory"
)

func stockAt(locationID string, available int64) entity.StockRecord {
	return entity.StockRecord{
		ProductID: "P1",
		Location:  entity.WarehouseRef(locationID),
		Available: available,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// BuildPlan: preferida primero, luego mayor disponible, desempate por id de
// ubicación. El plan es una decisión sobre una foto; nunca reserva nada.
// ──────────────────────────────────────────────────────────────────────────────

func TestBuildPlan_PreferidaPrimeroYCompletaConLaSiguiente(t *testing.T) {
	// W1 (preferida) tiene 30, W2 tiene 40; se necesitan 50.
	records := []entity.StockRecord{stockAt("W1", 30), stockAt("W2", 40)}

	plan := inventory.BuildPlan("P1", 50, "W1", records)

	require.True(t, plan.Satisfied)
	require.Len(t, plan.Allocations, 2)
	assert.Equal(t, "W1", plan.Allocations[0].Location.ID, "la preferida aporta primero")
	assert.Equal(t, int64(30), plan.Allocations[0].Quantity)
	assert.Equal(t, "W2", plan.Allocations[1].Location.ID)
	assert.Equal(t, int64(20), plan.Allocations[1].Quantity)
	assert.Equal(t, int64(50), plan.Allocated())
}

func TestBuildPlan_SinPreferidaTomaMayorDisponible(t *testing.T) {
	records := []entity.StockRecord{stockAt("W1", 10), stockAt("W2", 90), stockAt("W3", 40)}

	plan := inventory.BuildPlan("P1", 100, "", records)

	require.True(t, plan.Satisfied)
	require.Len(t, plan.Allocations, 2)
	assert.Equal(t, "W2", plan.Allocations[0].Location.ID, "mayor disponible primero")
	assert.Equal(t, int64(90), plan.Allocations[0].Quantity)
	assert.Equal(t, "W3", plan.Allocations[1].Location.ID)
	assert.Equal(t, int64(10), plan.Allocations[1].Quantity)
}

func TestBuildPlan_DesempatePorIdDeUbicacion(t *testing.T) {
	// Mismo disponible: gana el id menor, así el plan es determinista para la
	// misma foto sin importar el orden de entrada.
	records := []entity.StockRecord{stockAt("W9", 50), stockAt("W2", 50), stockAt("W5", 50)}

	plan := inventory.BuildPlan("P1", 60, "", records)

	require.True(t, plan.Satisfied)
	require.Len(t, plan.Allocations, 2)
	assert.Equal(t, "W2", plan.Allocations[0].Location.ID)
	assert.Equal(t, "W5", plan.Allocations[1].Location.ID)
	assert.Equal(t, int64(10), plan.Allocations[1].Quantity)
}

func TestBuildPlan_NoSatisfechoIgualDevuelveElPlan(t *testing.T) {
	records := []entity.StockRecord{stockAt("W1", 30), stockAt("W2", 15)}

	plan := inventory.BuildPlan("P1", 100, "", records)

	assert.False(t, plan.Satisfied)
	assert.Equal(t, int64(45), plan.Allocated(),
		"el plan parcial se devuelve igual; el caller decide si lo acepta")
}

func TestBuildPlan_IgnoraUbicacionesSinDisponible(t *testing.T) {
	records := []entity.StockRecord{stockAt("W1", 0), stockAt("W2", 40)}

	plan := inventory.BuildPlan("P1", 40, "W1", records)

	require.True(t, plan.Satisfied)
	require.Len(t, plan.Allocations, 1)
	assert.Equal(t, "W2", plan.Allocations[0].Location.ID,
		"una preferida sin stock no aparece en el plan")
}

func TestBuildPlan_IgnoraOtrosProductos(t *testing.T) {
	other := stockAt("W1", 500)
	other.ProductID = "P2"
	records := []entity.StockRecord{other, stockAt("W2", 10)}

	plan := inventory.BuildPlan("P1", 20, "", records)

	assert.False(t, plan.Satisfied)
	assert.Equal(t, int64(10), plan.Allocated())
}

func TestBuildPlan_CantidadNoPositivaDevuelvePlanVacio(t *testing.T) {
	plan := inventory.BuildPlan("P1", 0, "", []entity.StockRecord{stockAt("W1", 10)})

	assert.False(t, plan.Satisfied)
	assert.Empty(t, plan.Allocations)
}

func TestBuildPlan_EsDeterministaParaLaMismaFoto(t *testing.T) {
	records := []entity.StockRecord{stockAt("W3", 25), stockAt("W1", 25), stockAt("W2", 40)}

	first := inventory.BuildPlan("P1", 80, "W3", records)
	second := inventory.BuildPlan("P1", 80, "W3", records)

	assert.Equal(t, first, second)
}
