package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-obra/internal/application/dto"
	"github.com/jhoicas/almacen-obra/internal/application/store"
	"github.com/jhoicas/almacen-obra/internal/domain/entity"
)

// StoreHandler maneja las peticiones HTTP del almacén: entradas, despachos,
// devoluciones, libro y resumen (protegido).
type StoreHandler struct {
	intake  *store.IntakeUseCase
	issue   *store.IssueUseCase
	summary *store.SummaryUseCase
}

// NewStoreHandler construye el handler.
func NewStoreHandler(intake *store.IntakeUseCase, issue *store.IssueUseCase, summary *store.SummaryUseCase) *StoreHandler {
	return &StoreHandler{intake: intake, issue: issue, summary: summary}
}

// RegisterSupply godoc
// @Summary      Registrar suministro de proveedor
// @Tags         store
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterLotRequest  true  "item, origin_name, quantity, unit_price, date"
// @Success      201   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/store/supplies [post]
func (h *StoreHandler) RegisterSupply(c *fiber.Ctx) error {
	return h.registerLot(c, h.intake.RegisterSupply)
}

// RegisterPurchase godoc
// @Summary      Registrar compra directa
// @Tags         store
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterLotRequest  true  "item, origin_name (tienda), quantity, unit_price, date"
// @Success      201   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/store/purchases [post]
func (h *StoreHandler) RegisterPurchase(c *fiber.Ctx) error {
	return h.registerLot(c, h.intake.RegisterPurchase)
}

func (h *StoreHandler) registerLot(c *fiber.Ctx, register func(ctx context.Context, in store.LotInput) (*entity.Lot, error)) error {
	var in dto.RegisterLotRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	date, err := dto.ParseDate(in.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida (formato 2006-01-02)"})
	}
	lot, err := register(c.Context(), store.LotInput{
		Item:       in.Item,
		OriginName: in.OriginName,
		Quantity:   in.Quantity,
		UnitPrice:  in.UnitPrice,
		Date:       date,
		Notes:      in.Notes,
		UserName:   in.UserName,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToLotResponse(lot))
}

// ListSupplies godoc
// @Summary      Listar suministros
// @Tags         store
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo de filas (default 50)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.LotResponse
// @Router       /api/store/supplies [get]
func (h *StoreHandler) ListSupplies(c *fiber.Ctx) error {
	return h.listBySource(c, entity.LotSourceSupply)
}

// ListPurchases godoc
// @Summary      Listar compras
// @Tags         store
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo de filas (default 50)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.LotResponse
// @Router       /api/store/purchases [get]
func (h *StoreHandler) ListPurchases(c *fiber.Ctx) error {
	return h.listBySource(c, entity.LotSourcePurchase)
}

func (h *StoreHandler) listBySource(c *fiber.Ctx, source string) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	lots, err := h.intake.ListBySource(source, page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.LotResponse, 0, len(lots))
	for _, l := range lots {
		out = append(out, dto.ToLotResponse(l))
	}
	return c.JSON(out)
}

// RegisterReturn godoc
// @Summary      Devolver parte de una compra al proveedor
// @Tags         store
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PurchaseReturnRequest  true  "lot_id, quantity, date, reason"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/store/returns [post]
func (h *StoreHandler) RegisterReturn(c *fiber.Ctx) error {
	var in dto.PurchaseReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	date, err := dto.ParseDate(in.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida (formato 2006-01-02)"})
	}
	err = h.intake.RegisterReturn(c.Context(), store.ReturnInput{
		LotID:    in.LotID,
		Quantity: in.Quantity,
		Date:     date,
		Reason:   in.Reason,
		UserName: in.UserName,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "devolución registrada"})
}

// DeleteLot godoc
// @Summary      Eliminar un lote sin despachos
// @Tags         store
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del lote"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/store/lots/{id} [delete]
func (h *StoreHandler) DeleteLot(c *fiber.Ctx) error {
	if err := h.intake.DeleteLot(c.Context(), c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "lote eliminado"})
}

// Issue godoc
// @Summary      Despachar material del almacén
// @Description  Reparte la cantidad entre los lotes en orden FIFO y confirma todo
//
//	o nada. Con contractor_id el despacho queda en la cuenta del contratista.
//
// @Tags         store
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IssueRequest  true  "item, quantity, date, contractor_id (opcional), unit_price (opcional)"
// @Success      201   {object}  dto.IssueResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/store/issues [post]
func (h *StoreHandler) Issue(c *fiber.Ctx) error {
	var in dto.IssueRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	date, err := dto.ParseDate(in.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida (formato 2006-01-02)"})
	}
	result, err := h.issue.Issue(c.Context(), store.IssueInput{
		Item:         in.Item,
		Quantity:     in.Quantity,
		Date:         date,
		ContractorID: in.ContractorID,
		UnitPrice:    in.UnitPrice,
		Notes:        in.Notes,
		UserName:     in.UserName,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.IssueResponse{
		LedgerEntryID:     result.LedgerEntryID,
		ContractorIssueID: result.ContractorIssueID,
		MaterialEntryID:   result.MaterialEntryID,
	})
}

// Availability godoc
// @Summary      Disponibilidad total de un material
// @Tags         store
// @Security     Bearer
// @Produce      json
// @Param        item  query  string  true  "nombre del material"
// @Success      200  {object}  map[string]string
// @Router       /api/store/availability [get]
func (h *StoreHandler) Availability(c *fiber.Ctx) error {
	item := c.Query("item")
	if item == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "item requerido"})
	}
	available, err := h.issue.AvailableQuantity(item)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"item": item, "available": available})
}

// PlanIssue godoc
// @Summary      Estimar el reparto FIFO de un despacho sin ejecutarlo
// @Tags         store
// @Security     Bearer
// @Produce      json
// @Param        item      query  string  true  "nombre del material"
// @Param        quantity  query  string  true  "cantidad a despachar"
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/store/issues/plan [get]
func (h *StoreHandler) PlanIssue(c *fiber.Ctx) error {
	item := c.Query("item")
	qty, err := decimal.NewFromString(c.Query("quantity"))
	if item == "" || err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "item y quantity son requeridos"})
	}
	alloc, err := h.issue.PlanIssue(item, qty)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"item":       alloc.Item,
		"requested":  alloc.Requested,
		"portions":   alloc.Portions,
		"unit_price": alloc.WeightedUnitPrice(),
	})
}

// Ledger godoc
// @Summary      Listar el libro de movimientos del almacén
// @Tags         store
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "fecha inicial (2006-01-02)"
// @Param        to      query  string  false  "fecha final (2006-01-02)"
// @Param        limit   query  int     false  "máximo de filas (default 50)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}  dto.LedgerEntryResponse
// @Router       /api/store/ledger [get]
func (h *StoreHandler) Ledger(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := dto.ParseDate(s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido"})
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := dto.ParseDate(s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido"})
		}
		to = &t
	}

	entries, err := h.summary.Ledger(from, to, page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(entries)
}

// Summary godoc
// @Summary      Resumen de disponibilidad por material y precio
// @Tags         store
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SummaryRow
// @Router       /api/store/summary [get]
func (h *StoreHandler) Summary(c *fiber.Ctx) error {
	rows, err := h.summary.Summary()
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(rows)
}

// ExportSummary godoc
// @Summary      Exportar el resumen de disponibilidad a XLSX
// @Tags         store
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Router       /api/store/summary/export [get]
func (h *StoreHandler) ExportSummary(c *fiber.Ctx) error {
	data, err := h.summary.ExportSummary()
	if err != nil {
		return respondDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="existencias.xlsx"`)
	return c.Send(data)
}
