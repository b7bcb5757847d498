package report

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/crm-motorenting/internal/application/customers"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 240, Green: 244, Blue: 248}
)

var _ customers.ReportEncoder = PDFEncoder{}

// PDFEncoder genera una tabla A4 horizontal con Maroto v2. Now fija la fecha impresa (nil = time.Now).
type PDFEncoder struct {
	Now func() time.Time
}

func (PDFEncoder) Format() string      { return "pdf" }
func (PDFEncoder) ContentType() string { return "application/pdf" }

// Encode las columnas se reparten la grilla en proporción a su ancho.
func (e PDFEncoder) Encode(r customers.Report) ([]byte, error) {
	sizes, grid := gridSizes(r.Columns)
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithMaxGridSize(grid).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 7}).
		WithTitle(r.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(titleRow(r.Title, len(r.Rows), now(), grid))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow(r.Columns, sizes))
	for i, data := range r.Rows {
		m.AddRows(tableRow(r.Columns, sizes, data, i%2 == 1))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// titleRow: título (izq) y fecha de generación + total (der).
func titleRow(title string, total int, at time.Time, grid int) core.Row {
	left := grid * 2 / 3
	return row.New(14).Add(
		col.New(left).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(grid-left).Add(
			text.New("Generado: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New(fmt.Sprintf("Total: %d", total), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 7,
			}),
		),
	)
}

// tableHeaderRow: cabecera con fondo azul.
func tableHeaderRow(cols []customers.Column, sizes []int) core.Row {
	cells := make([]core.Col, len(cols))
	for i, c := range cols {
		cells[i] = col.New(sizes[i]).Add(text.New(c.Header, props.Text{
			Style: fontstyle.Bold, Size: 7, Align: align.Left,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(cells...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableRow: una fila por registro, con bandas alternas.
func tableRow(cols []customers.Column, sizes []int, data map[string]string, striped bool) core.Row {
	cells := make([]core.Col, len(cols))
	for i, c := range cols {
		cells[i] = col.New(sizes[i]).Add(text.New(nonEmpty(data[c.Key], "—"), props.Text{
			Size: 7, Align: align.Left, Top: 1.5, Left: 1, Right: 1,
		}))
	}
	r := row.New(7).Add(cells...)
	if striped {
		r = r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
	}
	return r
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// gridSizes tamaño entero de cada columna y el total de la grilla.
func gridSizes(cols []customers.Column) ([]int, int) {
	sizes := make([]int, len(cols))
	grid := 0
	for i, c := range cols {
		s := int(c.Width + 0.5)
		if s < 1 {
			s = 10
		}
		sizes[i] = s
		grid += s
	}
	if grid == 0 {
		grid = 12
	}
	return sizes, grid
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
