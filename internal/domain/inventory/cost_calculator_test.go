package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/invorya/stock-engine/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// WeightedAverageCost es la única fórmula de valoración del motor: cualquier
// cambio accidental en ella corrompe silenciosamente el costo de todo el
// inventario. Estos tests fijan la aritmética con vectores exactos.
// ──────────────────────────────────────────────────────────────────────────────

func TestWeightedAverageCost_RegistroVacioDegeneraAlCostoEntrante(t *testing.T) {
	// Con disponible actual = 0 la fórmula degenera exactamente al costo de
	// entrada, sin error de redondeo.
	got := inventory.WeightedAverageCost(0, decimal.Zero, 100, decimal.RequireFromString("10.00"))
	assert.True(t, got.Equal(decimal.RequireFromString("10.00")),
		"con stock en cero el promedio debe ser exactamente el costo entrante, fue %s", got)
}

func TestWeightedAverageCost_MezclaPonderada(t *testing.T) {
	// 100 uds @ 10.00 + 50 uds @ 16.00 => (1000 + 800) / 150 = 12.00
	current := decimal.RequireFromString("10.00")
	incoming := decimal.RequireFromString("16.00")

	got := inventory.WeightedAverageCost(100, current, 50, incoming)
	assert.True(t, got.Equal(decimal.RequireFromString("12.00")),
		"promedio ponderado esperado 12.00, fue %s", got)
}

func TestWeightedAverageCost_EntradaMasCaraSubeElPromedio(t *testing.T) {
	current := decimal.RequireFromString("10.00")
	got := inventory.WeightedAverageCost(10, current, 10, decimal.RequireFromString("20.00"))

	assert.True(t, got.GreaterThan(current), "una entrada más cara debe subir el promedio")
	assert.True(t, got.Equal(decimal.RequireFromString("15.00")), "mitad y mitad promedia exacto, fue %s", got)
}

func TestWeightedAverageCost_SumaNoPositivaDevuelveCero(t *testing.T) {
	got := inventory.WeightedAverageCost(0, decimal.Zero, 0, decimal.RequireFromString("99.00"))
	assert.True(t, got.IsZero(), "sin cantidades no hay base de costo")
}

func TestWeightedAverageCost_PreservaDecimalesSinFlotantes(t *testing.T) {
	// 3 uds @ 0.10 + 1 ud @ 0.20 => 0.50 / 4 = 0.125; con float64 este caso
	// acumula error, con decimal es exacto.
	got := inventory.WeightedAverageCost(3, decimal.RequireFromString("0.10"), 1, decimal.RequireFromString("0.20"))
	assert.True(t, got.Equal(decimal.RequireFromString("0.125")), "esperado 0.125 exacto, fue %s", got)
}
