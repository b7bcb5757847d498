package customers

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/crm-motorenting/internal/application/dto"
	"github.com/jhoicas/crm-motorenting/internal/domain"
	"github.com/jhoicas/crm-motorenting/internal/domain/access"
	"github.com/jhoicas/crm-motorenting/internal/domain/entity"
	"github.com/jhoicas/crm-motorenting/internal/domain/pipeline"
	"github.com/jhoicas/crm-motorenting/internal/domain/repository"
)

// Campos reconocidos en una fila importada.
const (
	fieldName          = "name"
	fieldEmail         = "email"
	fieldPhone         = "phone"
	fieldAddress       = "address"
	fieldCity          = "city"
	fieldDepartment    = "department"
	fieldDocument      = "document"
	fieldBirthdate     = "birthdate"
	fieldPlateNumber   = "plateNumber"
	fieldDeliveryDate  = "deliveryDate"
	fieldDeliveryState = "deliveryState"
)

// headerAliases cabecera normalizada -> campo.
var headerAliases = map[string]string{
	"name": fieldName, "nombre": fieldName, "nombres": fieldName, "nombrecompleto": fieldName, "cliente": fieldName,
	"email": fieldEmail, "correo": fieldEmail, "correoelectronico": fieldEmail, "mail": fieldEmail,
	"phone": fieldPhone, "telefono": fieldPhone, "celular": fieldPhone, "movil": fieldPhone, "tel": fieldPhone,
	"address": fieldAddress, "direccion": fieldAddress,
	"city": fieldCity, "ciudad": fieldCity, "municipio": fieldCity,
	"department": fieldDepartment, "departamento": fieldDepartment,
	"document": fieldDocument, "documento": fieldDocument, "cedula": fieldDocument, "identificacion": fieldDocument, "cc": fieldDocument,
	"birthdate": fieldBirthdate, "fechanacimiento": fieldBirthdate, "fechadenacimiento": fieldBirthdate, "nacimiento": fieldBirthdate,
	"platenumber": fieldPlateNumber, "placa": fieldPlateNumber, "plate": fieldPlateNumber,
	"deliverydate": fieldDeliveryDate, "fechaentrega": fieldDeliveryDate, "fechadeentrega": fieldDeliveryDate,
	"deliverystate": fieldDeliveryState, "estadoentrega": fieldDeliveryState, "estadodeentrega": fieldDeliveryState,
}

// NormalizeHeader minúsculas, sin tildes y sin separadores: "Teléfono " -> "telefono", "plate_number" -> "platenumber".
func NormalizeHeader(h string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, h)
	if err != nil {
		s = h
	}
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ImportFile decodifica el archivo (xlsx o csv) e importa sus filas.
func (uc *UseCase) ImportFile(ctx context.Context, pr access.Principal, filename string, data []byte) (*dto.ImportResult, error) {
	if err := uc.policy.Require(access.OpImportCustomers, pr, "No tienes permiso para importar clientes"); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, domain.InvalidInput("El archivo está vacío o mal formateado")
	}
	rows, err := uc.decoder.Decode(filename, data)
	if err != nil {
		return nil, domain.InvalidInput(fmt.Sprintf("No se pudo leer el archivo: %v", err))
	}
	if len(rows) == 0 {
		return nil, domain.InvalidInput("El archivo está vacío o mal formateado")
	}
	return uc.ImportRows(ctx, pr, rows)
}

// ImportRows importa filas tolerando defectos: una fila sin nombre o teléfono se descarta con su motivo,
// una fecha ilegible se deja vacía. Los emails ya registrados se omiten sin error.
func (uc *UseCase) ImportRows(ctx context.Context, pr access.Principal, rows []Row) (*dto.ImportResult, error) {
	if err := uc.policy.Require(access.OpImportCustomers, pr, "No tienes permiso para importar clientes"); err != nil {
		return nil, err
	}

	now := uc.now()
	result := &dto.ImportResult{AcceptedRows: []dto.AcceptedRow{}, Skipped: []dto.SkippedRow{}}
	accepted := make([]*entity.Customer, 0, len(rows))
	seenEmails := make(map[string]int)

	for i, raw := range rows {
		idx := i + 1
		r := normalizeRow(raw)

		name := cellString(r[fieldName])
		phone := cellString(r[fieldPhone])
		switch {
		case name == "":
			result.Skipped = append(result.Skipped, dto.SkippedRow{Index: idx, Reason: "falta el nombre"})
			continue
		case phone == "":
			result.Skipped = append(result.Skipped, dto.SkippedRow{Index: idx, Reason: "falta el teléfono"})
			continue
		}

		stateID := uc.catalog.DefaultStateID
		ch := pipeline.Changes{Name: &name, Phone: &phone, StateID: &stateID}
		if email := normalizeEmail(optional(r, fieldEmail)); email != nil {
			if first, dup := seenEmails[*email]; dup {
				result.Skipped = append(result.Skipped, dto.SkippedRow{
					Index:  idx,
					Reason: fmt.Sprintf("email repetido en la fila %d", first),
				})
				continue
			}
			seenEmails[*email] = idx
			ch.Email = email
		}
		ch.Address = optional(r, fieldAddress)
		ch.City = optional(r, fieldCity)
		ch.Department = optional(r, fieldDepartment)
		ch.Document = optional(r, fieldDocument)
		ch.PlateNumber = optional(r, fieldPlateNumber)
		ch.DeliveryState = optional(r, fieldDeliveryState)
		if t, ok := cellDate(r[fieldBirthdate]); ok {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			ch.Birthdate = &d
		}
		if t, ok := cellDate(r[fieldDeliveryDate]); ok {
			ch.DeliveryDate = &t
		}

		c := uc.catalog.ApplyChanges(entity.Customer{CreatedAt: now}, ch, now)
		accepted = append(accepted, &c)
		result.AcceptedRows = append(result.AcceptedRows, dto.AcceptedRow{Index: idx, Name: c.Name, Phone: c.Phone, Email: c.Email})
	}

	if len(accepted) == 0 {
		return nil, domain.InvalidInput("No hay filas válidas para importar")
	}

	var inserted int64
	err := uc.tx.RunCustomers(ctx, func(customers repository.CustomerRepository, _ repository.CommentRepository) error {
		n, err := customers.CreateMany(ctx, accepted)
		inserted = n
		return err
	})
	if err != nil {
		return nil, err
	}

	result.Accepted = len(accepted)
	result.Inserted = inserted
	uc.log.Info().
		Int("rows", len(rows)).
		Int("accepted", result.Accepted).
		Int64("inserted", inserted).
		Int("skipped", len(result.Skipped)).
		Int64("by", pr.ID).
		Msg("importación de clientes")
	return result, nil
}

// normalizeRow traduce las cabeceras a campos conocidos; las columnas desconocidas se ignoran.
func normalizeRow(raw Row) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		field, ok := headerAliases[NormalizeHeader(k)]
		if !ok {
			continue
		}
		if _, taken := out[field]; taken && cellString(v) == "" {
			continue
		}
		out[field] = v
	}
	return out
}

func optional(r map[string]any, field string) *string {
	s := cellString(r[field])
	if s == "" {
		return nil
	}
	return &s
}

// cellString texto recortado de una celda de cualquier tipo.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case time.Time:
		return x.Format(dto.DateLayout)
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

var dateLayouts = []string{
	dto.DateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
}

// cellDate interpreta ISO, RFC3339, DD/MM/YYYY o un número de serie de Excel. ok=false si no se puede.
func cellDate(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, !x.IsZero()
	case float64:
		return excelSerialDate(x)
	case int:
		return excelSerialDate(float64(x))
	case int64:
		return excelSerialDate(float64(x))
	}
	s := cellString(v)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return excelSerialDate(f)
	}
	return time.Time{}, false
}

// excelEpoch día 0 del sistema de fechas 1900 de Excel (compensa el 29/02/1900 inexistente).
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// minExcelSerial 1927-05-18; por debajo un número suelto ("1990", "15") es un año o un día, no una fecha.
const minExcelSerial = 10000

// excelSerialDate solo se aceptan seriales entre minExcelSerial y 9999-12-31.
func excelSerialDate(serial float64) (time.Time, bool) {
	if serial < minExcelSerial || serial >= 2958466 || math.IsNaN(serial) {
		return time.Time{}, false
	}
	days := math.Floor(serial)
	secs := math.Round((serial - days) * 86400)
	return excelEpoch.AddDate(0, 0, int(days)).Add(time.Duration(secs) * time.Second), true
}
