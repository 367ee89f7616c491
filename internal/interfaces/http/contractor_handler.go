package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-obra/internal/application/contractor"
	"github.com/jhoicas/almacen-obra/internal/application/dto"
)

// ContractorHandler maneja las peticiones HTTP de contratistas y de su cuenta
// de materiales (protegido).
type ContractorHandler struct {
	uc        *contractor.UseCase
	materials *contractor.MaterialsUseCase
}

// NewContractorHandler construye el handler.
func NewContractorHandler(uc *contractor.UseCase, materials *contractor.MaterialsUseCase) *ContractorHandler {
	return &ContractorHandler{uc: uc, materials: materials}
}

// Create godoc
// @Summary      Registrar contratista
// @Tags         contractors
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ContractorRequest  true  "name, work_item, phone, notes"
// @Success      201   {object}  dto.ContractorResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/contractors [post]
func (h *ContractorHandler) Create(c *fiber.Ctx) error {
	var in dto.ContractorRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	created, err := h.uc.Create(in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToContractorResponse(created))
}

// List godoc
// @Summary      Listar contratistas
// @Tags         contractors
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo de filas (default 50)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.ContractorResponse
// @Router       /api/contractors [get]
func (h *ContractorHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	contractors, err := h.uc.List(page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.ContractorResponse, 0, len(contractors))
	for _, ct := range contractors {
		out = append(out, dto.ToContractorResponse(ct))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener contratista
// @Tags         contractors
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del contratista"
// @Success      200  {object}  dto.ContractorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/contractors/{id} [get]
func (h *ContractorHandler) GetByID(c *fiber.Ctx) error {
	ct, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToContractorResponse(ct))
}

// Update godoc
// @Summary      Actualizar contratista
// @Tags         contractors
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del contratista"
// @Param        body  body  dto.ContractorRequest  true  "name, work_item, phone, notes"
// @Success      200   {object}  dto.ContractorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/contractors/{id} [put]
func (h *ContractorHandler) Update(c *fiber.Ctx) error {
	var in dto.ContractorRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	ct, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToContractorResponse(ct))
}

// Delete godoc
// @Summary      Eliminar contratista
// @Tags         contractors
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del contratista"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/contractors/{id} [delete]
func (h *ContractorHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "contratista eliminado"})
}

// Issues godoc
// @Summary      Despachos registrados al contratista
// @Tags         contractors
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del contratista"
// @Param        limit   query  int     false  "máximo de filas (default 50)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}  entity.ContractorIssue
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/contractors/{id}/issues [get]
func (h *ContractorHandler) Issues(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	issues, err := h.uc.Issues(c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(issues)
}

// Deductions godoc
// @Summary      Historial de descuentos aplicados en cortes
// @Tags         contractors
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del contratista"
// @Success      200  {array}  dto.DeductionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/contractors/{id}/deductions [get]
func (h *ContractorHandler) Deductions(c *fiber.Ctx) error {
	deductions, err := h.uc.Deductions(c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.DeductionResponse, 0, len(deductions))
	for _, d := range deductions {
		out = append(out, dto.ToDeductionResponse(d))
	}
	return c.JSON(out)
}

// ListMaterials godoc
// @Summary      Materiales entregados al contratista
// @Tags         contractors
// @Security     Bearer
// @Produce      json
// @Param        id          path   string  true   "ID del contratista"
// @Param        undeducted  query  bool    false  "solo pendientes de descuento"
// @Success      200  {array}  dto.MaterialResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/contractors/{id}/materials [get]
func (h *ContractorHandler) ListMaterials(c *fiber.Ctx) error {
	onlyUndeducted := c.QueryBool("undeducted")
	materials, err := h.materials.List(c.Params("id"), onlyUndeducted)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.MaterialResponse, 0, len(materials))
	for _, m := range materials {
		out = append(out, dto.ToMaterialResponse(m))
	}
	return c.JSON(out)
}

// RestoreMaterial godoc
// @Summary      Reponer a mano un material en la cuenta del contratista
// @Tags         contractors
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del contratista"
// @Param        body  body  dto.RestoreMaterialRequest  true  "name, quantity, unit_price, date"
// @Success      201   {object}  dto.MaterialResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/contractors/{id}/materials [post]
func (h *ContractorHandler) RestoreMaterial(c *fiber.Ctx) error {
	var in dto.RestoreMaterialRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	date, err := dto.ParseDate(in.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida (formato 2006-01-02)"})
	}
	m, err := h.materials.Restore(c.Params("id"), in, date)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMaterialResponse(m))
}

// RemoveMaterial godoc
// @Summary      Eliminar un material de la cuenta del contratista
// @Tags         contractors
// @Security     Bearer
// @Produce      json
// @Param        id          path  string  true  "ID del contratista"
// @Param        materialId  path  string  true  "ID del material"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/contractors/{id}/materials/{materialId} [delete]
func (h *ContractorHandler) RemoveMaterial(c *fiber.Ctx) error {
	if err := h.materials.Remove(c.Params("id"), c.Params("materialId")); err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "material eliminado"})
}

// DeductMaterial godoc
// @Summary      Descuento directo de un material
// @Description  Marca como descontado el primer material sin descontar que
//
//	coincida por nombre normalizado.
//
// @Tags         contractors
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del contratista"
// @Param        body  body  dto.DeductMaterialRequest  true  "name, extract_number, deducted_date"
// @Success      200   {object}  dto.MaterialResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/contractors/{id}/materials/deduct [post]
func (h *ContractorHandler) DeductMaterial(c *fiber.Ctx) error {
	var in dto.DeductMaterialRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	var deductedDate time.Time
	if in.DeductedDate != "" {
		var err error
		deductedDate, err = dto.ParseDate(in.DeductedDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "deducted_date inválida (formato 2006-01-02)"})
		}
	}
	m, err := h.materials.Deduct(c.Params("id"), in, deductedDate)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToMaterialResponse(m))
}
