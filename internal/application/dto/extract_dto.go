package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-obra/internal/domain/entity"
)

// WorkItemRequest renglón de trabajo al crear un corte.
type WorkItemRequest struct {
	Description  string          `json:"description"`
	Unit         string          `json:"unit"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalPercent decimal.Decimal `json:"total_percent"`
	Locked       bool            `json:"locked"`
	IsSeparator  bool            `json:"is_separator"`
}

// WorkItemPatch campos editables de un renglón existente. Los punteros distinguen
// "no enviado" de "poner en cero".
type WorkItemPatch struct {
	Description  *string          `json:"description"`
	Unit         *string          `json:"unit"`
	Quantity     *decimal.Decimal `json:"quantity"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	TotalPercent *decimal.Decimal `json:"total_percent"`
	Locked       *bool            `json:"locked"`
}

// DeductionRowRequest fila de descuento de materiales dentro del corte.
type DeductionRowRequest struct {
	Name      string          `json:"name" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Date      string          `json:"date" validate:"required"`
}

// CreateExtractRequest entrada para guardar un corte. El número se asigna en el
// servidor (monótono por contratista); el cliente no lo manda.
type CreateExtractRequest struct {
	ContractorID string                `json:"contractor_id" validate:"required,uuid"`
	Date         string                `json:"date" validate:"required"`
	Notes        string                `json:"notes"`
	WorkItems    []WorkItemRequest     `json:"work_items"`
	Deductions   []DeductionRowRequest `json:"deductions"`
}

// WorkItemResponse salida de un renglón de trabajo.
type WorkItemResponse struct {
	ID           string          `json:"id"`
	Position     int             `json:"position"`
	Description  string          `json:"description"`
	Unit         string          `json:"unit,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalPercent decimal.Decimal `json:"total_percent"`
	Locked       bool            `json:"locked"`
	IsSeparator  bool            `json:"is_separator"`
}

// ToWorkItemResponse mapea la entidad a su salida HTTP.
func ToWorkItemResponse(w *entity.WorkItem) WorkItemResponse {
	return WorkItemResponse{
		ID:           w.ID,
		Position:     w.Position,
		Description:  w.Description,
		Unit:         w.Unit,
		Quantity:     w.Quantity,
		UnitPrice:    w.UnitPrice,
		TotalPercent: w.TotalPercent,
		Locked:       w.Locked,
		IsSeparator:  w.IsSeparator,
	}
}

// ExtractResponse salida de un corte completo.
type ExtractResponse struct {
	ID           string             `json:"id"`
	ContractorID string             `json:"contractor_id"`
	Number       int                `json:"number"`
	Date         string             `json:"date"`
	Notes        string             `json:"notes,omitempty"`
	WorkItems    []WorkItemResponse `json:"work_items"`
	Deductions   []DeductionRowDTO  `json:"deductions"`
}

// DeductionRowDTO fila de descuento dentro de la salida de un corte.
type DeductionRowDTO struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Date      string          `json:"date"`
}

// ToExtractResponse mapea la entidad a su salida HTTP.
func ToExtractResponse(e *entity.Extract) ExtractResponse {
	items := make([]WorkItemResponse, 0, len(e.WorkItems))
	for i := range e.WorkItems {
		items = append(items, ToWorkItemResponse(&e.WorkItems[i]))
	}
	rows := make([]DeductionRowDTO, 0, len(e.Deductions))
	for _, d := range e.Deductions {
		rows = append(rows, DeductionRowDTO{
			ID: d.ID, Name: d.Name, Quantity: d.Quantity, UnitPrice: d.UnitPrice, Date: FormatDate(d.Date),
		})
	}
	return ExtractResponse{
		ID:           e.ID,
		ContractorID: e.ContractorID,
		Number:       e.Number,
		Date:         FormatDate(e.Date),
		Notes:        e.Notes,
		WorkItems:    items,
		Deductions:   rows,
	}
}

// ReconcileResult resultado de guardar un corte: el corte creado y cuántos
// materiales del contratista quedaron descontados.
type ReconcileResult struct {
	Extract              ExtractResponse `json:"extract"`
	UpdatedMaterialCount int             `json:"updated_material_count"`
}
