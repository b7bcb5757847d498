package customers

import (
	"context"

	"github.com/jhoicas/crm-motorenting/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repositorios atados a ella.
type TxRunner interface {
	RunCustomers(ctx context.Context, fn func(
		customers repository.CustomerRepository,
		comments repository.CommentRepository,
	) error) error
}

// Row fila importada: cabecera original -> valor de la celda (string, número o fecha).
type Row map[string]any

// RowDecoder convierte un archivo (xlsx, csv) en filas.
type RowDecoder interface {
	Decode(filename string, data []byte) ([]Row, error)
}

// Column columna del reporte de exportación.
type Column struct {
	Key    string
	Header string
	Width  float64
}

// Report tabla a codificar: columnas y filas ya formateadas (clave de columna -> texto).
type Report struct {
	Title   string
	Columns []Column
	Rows    []map[string]string
}

// ReportEncoder genera el binario del reporte (xlsx, pdf).
type ReportEncoder interface {
	Format() string
	ContentType() string
	Encode(report Report) ([]byte, error)
}
