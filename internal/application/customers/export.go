package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/crm-motorenting/internal/application/dto"
	"github.com/jhoicas/crm-motorenting/internal/domain"
	"github.com/jhoicas/crm-motorenting/internal/domain/access"
	"github.com/jhoicas/crm-motorenting/internal/domain/entity"
)

// DeliveredColumns plantilla del reporte de clientes entregados.
var DeliveredColumns = []Column{
	{Key: "name", Header: "Nombre", Width: 30},
	{Key: "document", Header: "Documento", Width: 16},
	{Key: "phone", Header: "Teléfono", Width: 16},
	{Key: "email", Header: "Email", Width: 30},
	{Key: "city", Header: "Ciudad", Width: 18},
	{Key: "department", Header: "Departamento", Width: 18},
	{Key: "advisor", Header: "Asesor", Width: 24},
	{Key: "state", Header: "Estado", Width: 16},
	{Key: "plateNumber", Header: "Placa", Width: 12},
	{Key: "deliveryDate", Header: "Fecha de entrega", Width: 16},
}

// ExportDelivered genera el reporte de clientes entregados en el formato pedido (xlsx por defecto).
func (uc *UseCase) ExportDelivered(ctx context.Context, pr access.Principal, format string) (*dto.ExportFile, error) {
	if err := uc.policy.Require(access.OpExportCustomers, pr, "No tienes permiso para exportar clientes"); err != nil {
		return nil, err
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "xlsx"
	}
	enc, ok := uc.encoders[format]
	if !ok {
		return nil, domain.InvalidInput(fmt.Sprintf("Formato de exportación no soportado: %s", format))
	}

	list, err := uc.listDelivered(ctx, pr)
	if err != nil {
		return nil, err
	}
	rows := make([]map[string]string, 0, len(list))
	for _, d := range list {
		rows = append(rows, deliveredRow(d))
	}

	content, err := enc.Encode(Report{Title: "Clientes entregados", Columns: DeliveredColumns, Rows: rows})
	if err != nil {
		return nil, fmt.Errorf("generar reporte %s: %w", format, err)
	}
	uc.log.Info().Str("format", format).Int("rows", len(rows)).Int64("by", pr.ID).Msg("exportación de entregados")
	return &dto.ExportFile{
		Filename:    fmt.Sprintf("clientes_entregados_%s.%s", uc.now().Format("20060102"), format),
		ContentType: enc.ContentType(),
		Content:     content,
	}, nil
}

func deliveredRow(d *entity.CustomerDetail) map[string]string {
	row := map[string]string{
		"name":       d.Name,
		"document":   d.Document,
		"phone":      d.Phone,
		"city":       d.City,
		"department": d.Department,
	}
	if d.Email != nil {
		row["email"] = *d.Email
	}
	if d.Advisor != nil {
		row["advisor"] = d.Advisor.Name
		if row["advisor"] == "" {
			row["advisor"] = d.Advisor.Email
		}
	}
	if d.State != nil {
		row["state"] = d.State.Name
	}
	if d.PlateNumber != nil {
		row["plateNumber"] = *d.PlateNumber
	}
	if d.DeliveryDate != nil {
		row["deliveryDate"] = d.DeliveryDate.Format(dto.DateLayout)
	}
	return row
}
