// Package pdf genera la remisión de traslado entre bodegas.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa              │  N° Traslado + Fecha         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ORIGEN: bodega + dirección   │  DESTINO: bodega + dirección │
//	│  PRODUCTO: nombre, SKU, categoría, cantidad, modo            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | ID ítem | Serial | MAC | Garantía                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR del traslado + firmas                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

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

	"github.com/jhoicas/inventario-distribucion/internal/application/report"
	"github.com/jhoicas/inventario-distribucion/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var _ report.SlipRenderer = (*MarotoSlipRenderer)(nil)

// MarotoSlipRenderer implementa report.SlipRenderer usando Maroto v2.
type MarotoSlipRenderer struct {
	company string
}

// NewMarotoSlipRenderer construye el generador con el nombre que encabeza la remisión.
func NewMarotoSlipRenderer(company string) *MarotoSlipRenderer {
	return &MarotoSlipRenderer{company: company}
}

// RenderTransferSlip genera el PDF y devuelve sus bytes.
func (g *MarotoSlipRenderer) RenderTransferSlip(_ context.Context, s report.SlipData) ([]byte, error) {
	if s.Transfer == nil || s.Product == nil {
		return nil, fmt.Errorf("pdf: traslado o producto vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Remisión de traslado "+s.Transfer.ID, true).
		WithAuthor(g.company, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(g.headerRow(s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(warehousesRow(s.From, s.To))
	m.AddRows(productRow(s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	if len(s.Items) > 0 {
		m.AddRows(itemsHeaderRow())
		m.AddRows(itemRows(s.Items)...)
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(s))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *MarotoSlipRenderer) headerRow(s report.SlipData) core.Row {
	fecha := s.Transfer.CreatedAt.Format("02/01/2006 15:04")
	if s.Transfer.CommittedAt != nil {
		fecha = s.Transfer.CommittedAt.Format("02/01/2006 15:04")
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.company, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Estado: "+strings.ToUpper(s.Transfer.Status), props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("REMISIÓN DE TRASLADO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(shortID(s.Transfer.ID), props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7}),
			text.New("Fecha: "+fecha, props.Text{Size: 8, Align: align.Right, Top: 14, Color: colorGray}),
		),
	)
}

func warehousesRow(from, to *entity.Warehouse) core.Row {
	block := func(title string, w *entity.Warehouse) core.Col {
		name, addr := "-", "-"
		if w != nil {
			name = w.Name
			addr = nonEmpty(w.Address, "-")
		}
		return col.New(6).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(addr, props.Text{Size: 8, Top: 12, Color: colorGray}),
		)
	}
	return row.New(18).Add(block("BODEGA ORIGEN", from), block("BODEGA DESTINO", to))
}

func productRow(s report.SlipData) core.Row {
	p := s.Product
	category := nonEmpty(strings.Join(s.CategoryPath, " / "), "Sin categoría")
	return row.New(18).Add(
		col.New(8).Add(
			text.New("PRODUCTO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(p.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("SKU: %s   |   Categoría: %s", nonEmpty(p.SKU, "-"), category),
				props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("CANTIDAD", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("%d %s", s.Transfer.Quantity, p.Unit), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Selección: "+s.Transfer.SelectionMode, props.Text{Size: 8, Align: align.Right, Top: 13, Color: colorGray}),
		),
	)
}

func itemsHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("#", 1, align.Center),
		h("ID ítem", 3, align.Left),
		h("Serial", 3, align.Left),
		h("MAC", 3, align.Left),
		h("Garantía", 2, align.Left),
	)
}

func itemRows(items []entity.StockItem) []core.Row {
	out := make([]core.Row, 0, len(items))
	cell := func(s string, size int) core.Col {
		return col.New(size).Add(text.New(nonEmpty(s, "-"), props.Text{Size: 8, Top: 1, Left: 1}))
	}
	for i, it := range items {
		out = append(out, row.New(6).Add(
			col.New(1).Add(text.New(strconv.Itoa(i+1), props.Text{Size: 8, Align: align.Center, Top: 1})),
			cell(shortID(it.ID), 3),
			cell(it.SerialNo, 3),
			cell(it.MacAddress, 3),
			cell(it.Warranty, 2),
		))
	}
	return out
}

func footerRow(s report.SlipData) core.Row {
	qr := fmt.Sprintf("traslado:%s|producto:%s|cantidad:%d|origen:%s|destino:%s",
		s.Transfer.ID, s.Transfer.ProductID, s.Transfer.Quantity, s.Transfer.FromWarehouse, s.Transfer.ToWarehouse)
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(qr, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Entrega: ____________________________", props.Text{Size: 9, Top: 8, Left: 4}),
			text.New("Recibe:  ____________________________", props.Text{Size: 9, Top: 20, Left: 4}),
			text.New("Emitido por: "+nonEmpty(s.IssuedBy, "-"), props.Text{Size: 7, Top: 32, Left: 4, Color: colorGray}),
		),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// shortID recorta un uuid a sus primeros 8 caracteres para impresión.
func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}
