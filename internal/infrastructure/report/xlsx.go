// Package report codifica reportes tabulares (columnas + filas) en XLSX y PDF.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/crm-motorenting/internal/application/customers"
)

var _ customers.ReportEncoder = XLSXEncoder{}

// XLSXEncoder genera un libro de una hoja con cabecera fija y autofiltro.
type XLSXEncoder struct{}

func (XLSXEncoder) Format() string { return "xlsx" }

func (XLSXEncoder) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Encode escribe la cabecera en la fila 1 y una fila por registro.
func (XLSXEncoder) Encode(r customers.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := sheetName(r.Title)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("xlsx: hoja: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"00467F"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	header := make([]any, len(r.Columns))
	for i, c := range r.Columns {
		header[i] = c.Header
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if c.Width > 0 {
			if err := f.SetColWidth(sheet, name, name, c.Width); err != nil {
				return nil, fmt.Errorf("xlsx: ancho de columna: %w", err)
			}
		}
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("xlsx: cabecera: %w", err)
	}
	if len(r.Columns) == 0 {
		return writeBuffer(f)
	}
	last, err := excelize.CoordinatesToCellName(len(r.Columns), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("xlsx: estilo cabecera: %w", err)
	}

	for i, row := range r.Rows {
		values := make([]any, len(r.Columns))
		for j, c := range r.Columns {
			values[j] = row[c.Key]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", i+1, err)
		}
	}

	if err := f.AutoFilter(sheet, "A1:"+last, nil); err != nil {
		return nil, fmt.Errorf("xlsx: autofiltro: %w", err)
	}
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, fmt.Errorf("xlsx: panel fijo: %w", err)
	}
	return writeBuffer(f)
}

func writeBuffer(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetName Excel limita el nombre de hoja a 31 caracteres.
func sheetName(title string) string {
	if title == "" {
		return "Reporte"
	}
	r := []rune(title)
	if len(r) > 31 {
		r = r[:31]
	}
	return string(r)
}
