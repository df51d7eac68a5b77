// Package pdf implementa la generación del Manifiesto de Traslado: el
// documento de picking que acompaña el movimiento físico de stock entre dos
// ubicaciones.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Manifiesto + N° Traslado + Fecha + Estado          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ORIGEN: tipo + id   |   DESTINO: tipo + id                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Solicitado | Movido | Pendiente    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: unidades + valor al costo capturado               │
//	│  FOOTER: QR con el número + firmas de entrega/recepción     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	apptransfer "github.com/invorya/stock-engine/internal/application/transfer"
	"github.com/invorya/stock-engine/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ apptransfer.ManifestGenerator = (*MarotoManifestGenerator)(nil)

// MarotoManifestGenerator implementa transfer.ManifestGenerator usando Maroto v2.
type MarotoManifestGenerator struct{}

// NewMarotoManifestGenerator construye el generador.
func NewMarotoManifestGenerator() *MarotoManifestGenerator { return &MarotoManifestGenerator{} }

// GenerateManifest genera el PDF y devuelve sus bytes.
func (g *MarotoManifestGenerator) GenerateManifest(_ context.Context, order *entity.TransferOrder) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Manifiesto de Traslado "+order.TransferNumber, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(locationsRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(order.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(order))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range footerRows(order) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar manifiesto: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título y número (izq), fecha y estado (der).
func headerRow(order *entity.TransferOrder) core.Row {
	fecha := order.RequestDate.Format("02/01/2006")
	return row.New(18).Add(
		col.New(7).Add(
			text.New("MANIFIESTO DE TRASLADO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(order.TransferNumber, props.Text{
				Style: fontstyle.Bold, Size: 11, Top: 9,
			}),
		),
		col.New(5).Add(
			text.New("Fecha solicitud: "+fecha, props.Text{
				Size: 9, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Estado: "+statusLabel(order.Status), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 8, Color: colorPrimary,
			}),
			text.New("Solicitado por: "+order.RequestedBy, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// locationsRow: origen y destino lado a lado.
func locationsRow(order *entity.TransferOrder) core.Row {
	return row.New(14).Add(
		col.New(6).Add(
			text.New("ORIGEN", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(locationLabel(order.From), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
		),
		col.New(6).Add(
			text.New("DESTINO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(locationLabel(order.To), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Solicitado", 2, align.Right),
		h("Movido", 2, align.Right),
		h("Pendiente", 2, align.Right),
	)
}

// tableItemRows: una fila por línea de la orden.
func tableItemRows(items []entity.TransferOrderItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		name := it.ProductName
		if name == "" {
			name = it.ProductID
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				nonEmpty(it.SKU, "—"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(4).Add(text.New(
				name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				fmt.Sprintf("%d", it.Quantity),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				fmt.Sprintf("%d", it.TransferredQuantity),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				fmt.Sprintf("%d", it.Remaining()),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: unidades y valor al costo capturado al crear la orden.
func totalsRow(order *entity.TransferOrder) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(20).Add(
		col.New(4),
		col.New(4).Add(
			label("Unidades solicitadas:"),
			label("Unidades movidas:"),
			label("Valor al costo:"),
		),
		col.New(4).Add(
			value(fmt.Sprintf("%d", order.TotalRequested())),
			value(fmt.Sprintf("%d", order.TotalTransferred())),
			value("$"+order.SnapshotValue().StringFixed(2)),
		),
	)
}

// footerRows: QR con el número de traslado + espacios de firma.
func footerRows(order *entity.TransferOrder) []core.Row {
	return []core.Row{
		row.New(40).Add(
			col.New(4).Add(code.NewQr(order.TransferNumber, props.Rect{
				Percent: 90,
				Center:  true,
			})),
			col.New(4).Add(
				text.New("Entregado por:", props.Text{Size: 8, Top: 6, Color: colorGray}),
				text.New("_______________________", props.Text{Size: 9, Top: 22}),
			),
			col.New(4).Add(
				text.New("Recibido por:", props.Text{Size: 8, Top: 6, Color: colorGray}),
				text.New("_______________________", props.Text{Size: 9, Top: 22}),
			),
		),
		row.New(8).Add(col.New(12).Add(
			text.New(
				"Las cantidades movidas se confirman pierna a pierna en el sistema; "+
					"este documento acompaña el movimiento físico y no constituye soporte contable.",
				props.Text{Size: 6.5, Color: colorGray, Top: 2},
			),
		)),
	}
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func statusLabel(status string) string {
	switch status {
	case entity.TransferStatusPending:
		return "PENDIENTE"
	case entity.TransferStatusInProgress:
		return "EN CURSO"
	case entity.TransferStatusCompleted:
		return "COMPLETADO"
	case entity.TransferStatusCancelled:
		return "CANCELADO"
	}
	return status
}

func locationLabel(loc entity.LocationRef) string {
	kind := "Bodega"
	if loc.Kind == entity.LocationKindShop {
		kind = "Tienda"
	}
	return fmt.Sprintf("%s %s", kind, loc.ID)
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
