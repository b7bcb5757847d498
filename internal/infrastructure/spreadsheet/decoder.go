// Package spreadsheet lee archivos de clientes (xlsx o csv) como filas cabecera -> valor.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/crm-motorenting/internal/application/customers"
)

var _ customers.RowDecoder = Decoder{}

// ErrUnsupportedFormat el archivo no es xlsx ni csv.
var ErrUnsupportedFormat = errors.New("formato no soportado (use .xlsx o .csv)")

var zipMagic = []byte("PK\x03\x04")

// Decoder elige el lector por extensión; sin extensión conocida, por contenido.
type Decoder struct{}

// Decode la primera fila no vacía es la cabecera; las filas vacías se descartan.
// En xlsx se lee la primera hoja con valores crudos: las fechas llegan como serial de Excel.
func (Decoder) Decode(filename string, data []byte) ([]customers.Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return decodeXLSX(data)
	case ".csv", ".txt":
		return decodeCSV(data)
	case ".xls":
		return nil, ErrUnsupportedFormat
	}
	if bytes.HasPrefix(data, zipMagic) {
		return decodeXLSX(data)
	}
	return decodeCSV(data)
}

func decodeXLSX(data []byte) ([]customers.Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("xlsx: el libro no tiene hojas")
	}
	records, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	return toRows(records), nil
}

func decodeCSV(data []byte) ([]customers.Row, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	var src io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		// Excel en Windows exporta CSV en Windows-1252.
		src = transform.NewReader(src, charmap.Windows1252.NewDecoder())
	}

	r := csv.NewReader(src)
	r.Comma = sniffDelimiter(data)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	return toRows(records), nil
}

// sniffDelimiter ';' si la primera línea tiene más ';' que ',' (Excel en configuración regional es-CO).
func sniffDelimiter(data []byte) rune {
	first := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		first = data[:i]
	}
	if bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		return ';'
	}
	return ','
}

func toRows(records [][]string) []customers.Row {
	var header []string
	rows := make([]customers.Row, 0, len(records))
	for _, rec := range records {
		if blank(rec) {
			continue
		}
		if header == nil {
			header = make([]string, len(rec))
			for i, h := range rec {
				header[i] = strings.TrimSpace(h)
			}
			continue
		}
		row := make(customers.Row, len(header))
		for i, h := range header {
			if h == "" || i >= len(rec) {
				continue
			}
			if v := strings.TrimSpace(rec[i]); v != "" {
				row[h] = v
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
