package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-obra/internal/application/dto"
	"github.com/jhoicas/almacen-obra/internal/application/extract"
)

// ExtractHandler maneja las peticiones HTTP de cortes de contratista (protegido).
type ExtractHandler struct {
	uc *extract.UseCase
}

// NewExtractHandler construye el handler.
func NewExtractHandler(uc *extract.UseCase) *ExtractHandler {
	return &ExtractHandler{uc: uc}
}

// Create godoc
// @Summary      Guardar un corte
// @Description  Asigna el número siguiente del contratista, persiste renglones y
//
//	descuentos, y concilia cada fila de descuento contra los materiales
//	del contratista (nombre normalizado + fecha). Todo en una transacción.
//
// @Tags         extracts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateExtractRequest  true  "contractor_id, date, work_items, deductions"
// @Success      201   {object}  dto.ReconcileResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/extracts [post]
func (h *ExtractHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateExtractRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ReconcileResult{
		Extract:              dto.ToExtractResponse(result.Extract),
		UpdatedMaterialCount: result.UpdatedMaterialCount,
	})
}

// List godoc
// @Summary      Listar cortes
// @Tags         extracts
// @Security     Bearer
// @Produce      json
// @Param        contractor_id  query  string  false  "filtrar por contratista"
// @Param        limit          query  int     false  "máximo de filas (default 50)"
// @Param        offset         query  int     false  "desplazamiento"
// @Success      200  {array}  dto.ExtractResponse
// @Router       /api/extracts [get]
func (h *ExtractHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	extracts, err := h.uc.List(c.Query("contractor_id"), page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.ExtractResponse, 0, len(extracts))
	for _, e := range extracts {
		out = append(out, dto.ToExtractResponse(e))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener un corte completo
// @Tags         extracts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del corte"
// @Success      200  {object}  dto.ExtractResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/extracts/{id} [get]
func (h *ExtractHandler) GetByID(c *fiber.Ctx) error {
	ext, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToExtractResponse(ext))
}

// Delete godoc
// @Summary      Eliminar el corte más reciente de un contratista
// @Description  Solo el corte de número más alto puede eliminarse; los demás
//
//	devuelven 409 OUT_OF_ORDER.
//
// @Tags         extracts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del corte"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/extracts/{id} [delete]
func (h *ExtractHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "corte eliminado"})
}

// UpdateWorkItem godoc
// @Summary      Editar un renglón de trabajo
// @Description  Dirigido por ID del renglón. Un renglón bloqueado o separador no
//
//	se modifica y se devuelve tal cual está.
//
// @Tags         extracts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string             true  "ID del corte"
// @Param        itemId  path  string             true  "ID del renglón"
// @Param        body    body  dto.WorkItemPatch  true  "campos a modificar"
// @Success      200   {object}  dto.WorkItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/extracts/{id}/work-items/{itemId} [patch]
func (h *ExtractHandler) UpdateWorkItem(c *fiber.Ctx) error {
	var patch dto.WorkItemPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.UpdateWorkItem(c.Context(), c.Params("id"), c.Params("itemId"), patch)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToWorkItemResponse(item))
}

// DeleteWorkItem godoc
// @Summary      Eliminar un renglón de trabajo
// @Tags         extracts
// @Security     Bearer
// @Produce      json
// @Param        id      path  string  true  "ID del corte"
// @Param        itemId  path  string  true  "ID del renglón"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/extracts/{id}/work-items/{itemId} [delete]
func (h *ExtractHandler) DeleteWorkItem(c *fiber.Ctx) error {
	if err := h.uc.DeleteWorkItem(c.Context(), c.Params("id"), c.Params("itemId")); err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "renglón eliminado"})
}

// RenderPDF godoc
// @Summary      Descargar el PDF del corte
// @Tags         extracts
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del corte"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/extracts/{id}/pdf [get]
func (h *ExtractHandler) RenderPDF(c *fiber.Ctx) error {
	ext, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	data, err := h.uc.RenderPDF(ext.ID)
	if err != nil {
		return respondDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="corte-%d.pdf"`, ext.Number))
	return c.Send(data)
}
