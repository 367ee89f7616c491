package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-obra/internal/domain/entity"
)

// ContractorRequest entrada para crear/actualizar un contratista.
type ContractorRequest struct {
	Name     string `json:"name" validate:"required"`
	WorkItem string `json:"work_item"`
	Phone    string `json:"phone"`
	Notes    string `json:"notes"`
}

// ContractorResponse salida de un contratista.
type ContractorResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	WorkItem string `json:"work_item,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// ToContractorResponse mapea la entidad a su salida HTTP.
func ToContractorResponse(c *entity.Contractor) ContractorResponse {
	return ContractorResponse{ID: c.ID, Name: c.Name, WorkItem: c.WorkItem, Phone: c.Phone, Notes: c.Notes}
}

// RestoreMaterialRequest entrada para reponer a mano un material al contratista
// (por ejemplo uno borrado por error).
type RestoreMaterialRequest struct {
	Name      string          `json:"name" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Date      string          `json:"date" validate:"required"`
	Notes     string          `json:"notes"`
	UserName  string          `json:"user_name"`
}

// DeductMaterialRequest entrada del descuento directo: marca el primer material
// sin descontar que coincida por nombre.
type DeductMaterialRequest struct {
	Name          string `json:"name" validate:"required"`
	ExtractNumber int    `json:"extract_number" validate:"required,min=1"`
	DeductedDate  string `json:"deducted_date"`
}

// MaterialResponse salida de un material entregado.
type MaterialResponse struct {
	ID                      string          `json:"id"`
	ContractorID            string          `json:"contractor_id"`
	Name                    string          `json:"name"`
	Quantity                decimal.Decimal `json:"quantity"`
	UnitPrice               decimal.Decimal `json:"unit_price"`
	Date                    string          `json:"date"`
	Notes                   string          `json:"notes,omitempty"`
	UserName                string          `json:"user_name,omitempty"`
	DeductedInExtractNumber *int            `json:"deducted_in_extract_number,omitempty"`
	DeductedDate            *string         `json:"deducted_date,omitempty"`
}

// ToMaterialResponse mapea la entidad a su salida HTTP.
func ToMaterialResponse(m *entity.MaterialEntry) MaterialResponse {
	resp := MaterialResponse{
		ID:                      m.ID,
		ContractorID:            m.ContractorID,
		Name:                    m.Name,
		Quantity:                m.Quantity,
		UnitPrice:               m.UnitPrice,
		Date:                    FormatDate(m.Date),
		Notes:                   m.Notes,
		UserName:                m.UserName,
		DeductedInExtractNumber: m.DeductedInExtractNumber,
	}
	if m.DeductedDate != nil {
		s := FormatDate(*m.DeductedDate)
		resp.DeductedDate = &s
	}
	return resp
}

// DeductionResponse salida de un registro del historial de descuentos.
type DeductionResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	ExtractNumber int             `json:"extract_number"`
	ExtractID     string          `json:"extract_id"`
	Date          string          `json:"date"`
}

// ToDeductionResponse mapea la entidad a su salida HTTP.
func ToDeductionResponse(d *entity.ContractorDeduction) DeductionResponse {
	return DeductionResponse{
		ID:            d.ID,
		Name:          d.Name,
		Quantity:      d.Quantity,
		UnitPrice:     d.UnitPrice,
		ExtractNumber: d.ExtractNumber,
		ExtractID:     d.ExtractID,
		Date:          FormatDate(d.Date),
	}
}
