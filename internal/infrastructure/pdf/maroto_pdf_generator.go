// Package pdf implementa la representación imprimible de un corte de
// contratista usando Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Contratista + rubro  │  CORTE N° + Fecha           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA RENGLONES: Descripción | Und | Cant | P.Unit | %      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA DESCUENTOS: Material | Cant | P.Unit | Fecha | Total  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Valor ejecutado / Descuentos / NETO A PAGAR        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-obra/internal/application/extract"
	"github.com/jhoicas/almacen-obra/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ extract.PDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa extract.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// ExtractPDF genera el PDF del corte y devuelve sus bytes.
func (g *MarotoPDFGenerator) ExtractPDF(e *entity.Extract, contractor *entity.Contractor) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Corte N° %d - %s", e.Number, contractor.Name), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(e, contractor))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	// Renglones de trabajo
	m.AddRows(sectionTitleRow("RENGLONES DE TRABAJO"))
	m.AddRows(workItemsHeaderRow())
	for _, r := range workItemRows(e.WorkItems) {
		m.AddRows(r)
	}

	// Descuentos de materiales
	if len(e.Deductions) > 0 {
		m.AddRows(line.NewRow(2))
		m.AddRows(sectionTitleRow("DESCUENTOS DE MATERIALES"))
		m.AddRows(deductionsHeaderRow())
		for _, r := range deductionRows(e.Deductions) {
			m.AddRows(r)
		}
	}

	// Totales
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(e))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: contratista + rubro (izq) y N° de corte + fecha (der).
func headerRow(e *entity.Extract, contractor *entity.Contractor) core.Row {
	fecha := e.Date.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(contractor.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Rubro: "+nonEmpty(contractor.WorkItem, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("CORTE DE OBRA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("N° %d", e.Number), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func sectionTitleRow(title string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
		}),
	))
}

func workItemsHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Descripción", 5, align.Left),
		h("Und", 1, align.Center),
		h("Cant.", 2, align.Right),
		h("P.Unit", 2, align.Right),
		h("% Avance", 2, align.Right),
	)
}

// workItemRows: una fila por renglón; los separadores van como banda gris a lo ancho.
func workItemRows(items []entity.WorkItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, wi := range items {
		if wi.IsSeparator {
			result = append(result, row.New(6).Add(col.New(12).Add(
				text.New(wi.Description, props.Text{
					Style: fontstyle.Bold, Size: 8, Color: colorGray, Top: 1, Left: 1,
				}),
			)))
			continue
		}
		result = append(result, row.New(6).Add(
			col.New(5).Add(text.New(wi.Description, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(wi.Unit, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(wi.Quantity.String(), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New("$"+formatMoney(wi.UnitPrice.StringFixed(0)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(wi.TotalPercent.StringFixed(1)+"%", props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func deductionsHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Material", 4, align.Left),
		h("Cant.", 2, align.Right),
		h("P.Unit", 2, align.Right),
		h("Fecha", 2, align.Center),
		h("Total", 2, align.Right),
	)
}

func deductionRows(deductions []entity.DeductionRow) []core.Row {
	result := make([]core.Row, 0, len(deductions))
	for _, d := range deductions {
		total := d.Quantity.Mul(d.UnitPrice)
		result = append(result, row.New(6).Add(
			col.New(4).Add(text.New(d.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(d.Quantity.String(), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New("$"+formatMoney(d.UnitPrice.StringFixed(0)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(d.Date.Format("02/01/2006"), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New("$"+formatMoney(total.StringFixed(0)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRow: valor ejecutado, descuentos acumulados y neto a pagar.
func totalsRow(e *entity.Extract) core.Row {
	executed := decimal.Zero
	for _, wi := range e.WorkItems {
		if wi.IsSeparator {
			continue
		}
		executed = executed.Add(
			wi.Quantity.Mul(wi.UnitPrice).Mul(wi.TotalPercent).Div(decimal.NewFromInt(100)),
		)
	}
	deducted := decimal.Zero
	for _, d := range e.Deductions {
		deducted = deducted.Add(d.Quantity.Mul(d.UnitPrice))
	}
	net := executed.Sub(deducted)

	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(26).Add(
		col.New(3),
		col.New(3).Add(
			label("Valor ejecutado:"),
			label("Descuentos:"),
			grandLabel("NETO A PAGAR:"),
		),
		col.New(3).Add(
			value("$"+formatMoney(executed.StringFixed(0))),
			value("$"+formatMoney(deducted.StringFixed(0))),
			grandValue("$"+formatMoney(net.StringFixed(0))),
		),
		col.New(3),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	n := len(s)
	if n <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	if neg {
		return "-" + string(buf)
	}
	return string(buf)
}
