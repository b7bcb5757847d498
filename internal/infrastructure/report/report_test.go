package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/crm-motorenting/internal/application/customers"
)

func sampleReport() customers.Report {
	return customers.Report{
		Title:   "Clientes entregados",
		Columns: customers.DeliveredColumns,
		Rows: []map[string]string{
			{"name": "Gloria", "phone": "300", "plateNumber": "XYZ98A", "deliveryDate": "2025-02-10"},
			{"name": "Hugo", "phone": "301", "advisor": "Asesor"},
		},
	}
}

func TestXLSXEncoder(t *testing.T) {
	data, err := XLSXEncoder{}.Encode(sampleReport())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Clientes entregados"}, f.GetSheetList())
	rows, err := f.GetRows("Clientes entregados")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Nombre", rows[0][0])
	assert.Equal(t, "Fecha de entrega", rows[0][9])
	assert.Equal(t, "Gloria", rows[1][0])
	assert.Equal(t, "XYZ98A", rows[1][8])
	assert.Equal(t, "Asesor", rows[2][6])

	width, err := f.GetColWidth("Clientes entregados", "A")
	require.NoError(t, err)
	assert.InDelta(t, 30, width, 0.01)
}

func TestXLSXEncoder_SinFilas(t *testing.T) {
	r := sampleReport()
	r.Rows = nil
	data, err := XLSXEncoder{}.Encode(r)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestPDFEncoder(t *testing.T) {
	enc := PDFEncoder{Now: func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }}
	data, err := enc.Encode(sampleReport())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	assert.Equal(t, "application/pdf", enc.ContentType())
}

func TestGridSizes(t *testing.T) {
	sizes, grid := gridSizes([]customers.Column{{Width: 30}, {Width: 15.6}, {}})
	assert.Equal(t, []int{30, 16, 10}, sizes)
	assert.Equal(t, 56, grid)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Reporte", sheetName(""))
	assert.Len(t, []rune(sheetName("Un título de reporte muy largo para una hoja")), 31)
}
