package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-motorenting/internal/application/dto"
	"github.com/jhoicas/crm-motorenting/internal/application/usecase"
)

// StateHandler consulta de estados del embudo.
type StateHandler struct {
	uc *usecase.StateUseCase
}

func NewStateHandler(uc *usecase.StateUseCase) *StateHandler {
	return &StateHandler{uc: uc}
}

// List godoc
// @Summary      Listar estados del embudo
// @Tags         states
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.APIResponse
// @Router       /api/states [get]
func (h *StateHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "Estados obtenidos", list)
}

// GetByID godoc
// @Summary      Obtener estado
// @Tags         states
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "ID del estado"
// @Success      200  {object}  dto.APIResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/states/{id} [get]
func (h *StateHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "Estado obtenido", out)
}

// MotivationHandler mensaje motivacional del tablero.
type MotivationHandler struct {
	uc *usecase.MotivationUseCase
}

func NewMotivationHandler(uc *usecase.MotivationUseCase) *MotivationHandler {
	return &MotivationHandler{uc: uc}
}

// Latest godoc
// @Summary      Último mensaje motivacional
// @Tags         motivation
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.APIResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/motivation [get]
func (h *MotivationHandler) Latest(c *fiber.Ctx) error {
	out, err := h.uc.Latest(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "Mensaje obtenido", out)
}

// Create godoc
// @Summary      Crear mensaje motivacional
// @Tags         motivation
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.MotivationRequest  true  "mensaje"
// @Success      201   {object}  dto.APIResponse
// @Router       /api/motivation [post]
func (h *MotivationHandler) Create(c *fiber.Ctx) error {
	var in dto.MotivationRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, "Mensaje creado", out)
}

// Update godoc
// @Summary      Reemplazar mensaje motivacional
// @Tags         motivation
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int                    true  "ID del mensaje"
// @Param        body  body  dto.MotivationRequest  true  "mensaje"
// @Success      200   {object}  dto.APIResponse
// @Router       /api/motivation/{id} [put]
func (h *MotivationHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in dto.MotivationRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetPrincipal(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "Mensaje actualizado", out)
}

// Delete godoc
// @Summary      Eliminar mensaje motivacional
// @Tags         motivation
// @Security     BearerAuth
// @Param        id   path  int  true  "ID del mensaje"
// @Success      200  {object}  dto.APIResponse
// @Router       /api/motivation/{id} [delete]
func (h *MotivationHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.uc.Delete(c.UserContext(), GetPrincipal(c), id); err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "Mensaje eliminado", nil)
}
