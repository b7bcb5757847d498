package http

import (
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-motorenting/internal/application/customers"
	"github.com/jhoicas/crm-motorenting/internal/application/dto"
	"github.com/jhoicas/crm-motorenting/internal/domain"
)

// CustomerHandler maneja clientes, comentarios, reasignaciones, importación y exportación.
type CustomerHandler struct {
	uc      *customers.UseCase
	metrics *Metrics
}

// NewCustomerHandler construye el handler de clientes. metrics puede ser nil.
func NewCustomerHandler(uc *customers.UseCase, metrics *Metrics) *CustomerHandler {
	return &CustomerHandler{uc: uc, metrics: metrics}
}

// List godoc
// @Summary      Listar clientes activos (según rol)
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.APIResponse
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "Clientes obtenidos", list)
}

// ListDelivered godoc
// @Summary      Listar clientes entregados
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.APIResponse
// @Router       /api/customers/delivered [get]
func (h *CustomerHandler) ListDelivered(c *fiber.Ctx) error {
	list, err := h.uc.ListDelivered(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "Clientes entregados obtenidos", list)
}

// ExportDelivered godoc
// @Summary      Exportar clientes entregados
// @Tags         customers
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        format  query  string  false  "xlsx (por defecto) o pdf"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/customers/delivered/export [get]
func (h *CustomerHandler) ExportDelivered(c *fiber.Ctx) error {
	file, err := h.uc.ExportDelivered(c.UserContext(), GetPrincipal(c), c.Query("format", "xlsx"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	return c.Status(fiber.StatusOK).Send(file.Content)
}

// GetByID godoc
// @Summary      Obtener cliente con asesor, estado y comentarios
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "ID del cliente"
// @Success      200  {object}  dto.APIResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.GetByID(c.UserContext(), GetPrincipal(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "Cliente obtenido", out)
}

// Create godoc
// @Summary      Crear cliente
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateCustomerRequest  true  "cliente"
// @Success      201   {object}  dto.APIResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCustomerRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, "Cliente creado", out)
}

// Update godoc
// @Summary      Actualizar cliente (parcial)
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int                        true  "ID del cliente"
// @Param        body  body  dto.UpdateCustomerRequest  true  "cambios"
// @Success      200   {object}  dto.APIResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [put]
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in dto.UpdateCustomerRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetPrincipal(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "Cliente actualizado", out)
}

// Delete godoc
// @Summary      Eliminar cliente
// @Tags         customers
// @Security     BearerAuth
// @Param        id   path  int  true  "ID del cliente"
// @Success      200  {object}  dto.APIResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [delete]
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.uc.Delete(c.UserContext(), GetPrincipal(c), id); err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "Cliente eliminado", nil)
}

// AddComment godoc
// @Summary      Agregar comentario a un cliente
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int                    true  "ID del cliente"
// @Param        body  body  dto.AddCommentRequest  true  "comentario"
// @Success      201   {object}  dto.APIResponse
// @Router       /api/customers/{id}/comments [post]
func (h *CustomerHandler) AddComment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in dto.AddCommentRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.AddComment(c.UserContext(), GetPrincipal(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, "Comentario agregado", out)
}

// Assign godoc
// @Summary      Reasignar un cliente a un asesor
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id         path  int  true  "ID del cliente"
// @Param        advisorId  path  int  true  "ID del asesor"
// @Success      200  {object}  dto.APIResponse
// @Router       /api/customers/{id}/assign/{advisorId} [post]
func (h *CustomerHandler) Assign(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	advisorID, err := paramID(c, "advisorId")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.AssignOne(c.UserContext(), GetPrincipal(c), id, advisorID)
	if err != nil {
		return respondError(c, err)
	}
	h.metrics.ObserveReassigned(1)
	return respond(c, fiber.StatusOK, "Cliente reasignado", out)
}

// AssignMultiple godoc
// @Summary      Reasignar varios clientes a un asesor
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.AssignMultipleRequest  true  "clientes y asesor"
// @Success      200   {object}  dto.APIResponse
// @Router       /api/customers/assign-multiple [post]
func (h *CustomerHandler) AssignMultiple(c *fiber.Ctx) error {
	var in dto.AssignMultipleRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.AssignMany(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return respondError(c, err)
	}
	h.metrics.ObserveReassigned(out.Count)
	return respond(c, fiber.StatusOK, fmt.Sprintf("%d clientes reasignados", out.Count), out)
}

// Import godoc
// @Summary      Importar clientes desde xlsx o csv
// @Tags         customers
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "archivo .xlsx o .csv"
// @Success      201   {object}  dto.APIResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/customers/import [post]
func (h *CustomerHandler) Import(c *fiber.Ctx) error {
	filename, data, err := formFile(c, "file")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ImportFile(c.UserContext(), GetPrincipal(c), filename, data)
	if err != nil {
		return respondError(c, err)
	}
	h.metrics.ObserveImport(out.Inserted, out.Accepted, len(out.Skipped))
	msg := fmt.Sprintf("%d clientes importados", out.Inserted)
	if len(out.Skipped) > 0 {
		msg += fmt.Sprintf(", %d filas omitidas", len(out.Skipped))
	}
	return respond(c, fiber.StatusCreated, msg, out)
}

// formFile lee completo el archivo multipart del campo name.
func formFile(c *fiber.Ctx, name string) (string, []byte, error) {
	fh, err := c.FormFile(name)
	if err != nil {
		return "", nil, domain.InvalidInput(fmt.Sprintf("Debe adjuntar un archivo en el campo %q", name))
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, fmt.Errorf("abrir archivo subido: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, fmt.Errorf("leer archivo subido: %w", err)
	}
	return strings.TrimSpace(fh.Filename), data, nil
}
