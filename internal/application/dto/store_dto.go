package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-obra/internal/domain/entity"
)

// RegisterLotRequest entrada para registrar un suministro o una compra: crea el
// lote con issued = 0 y el asiento de entrada en el libro.
type RegisterLotRequest struct {
	Item       string          `json:"item" validate:"required"`
	OriginName string          `json:"origin_name" validate:"required"` // proveedor o tienda
	Quantity   decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Date       string          `json:"date" validate:"required"`
	Notes      string          `json:"notes"`
	UserName   string          `json:"user_name"`
}

// PurchaseReturnRequest entrada para devolver parte de una compra al proveedor.
type PurchaseReturnRequest struct {
	LotID    string          `json:"lot_id" validate:"required,uuid"`
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
	Date     string          `json:"date" validate:"required"`
	Reason   string          `json:"reason"`
	UserName string          `json:"user_name"`
}

// IssueRequest entrada para despachar material del almacén. ContractorID vacío =
// salida general; UnitPrice nulo = promedio ponderado de los lotes consumidos.
type IssueRequest struct {
	Item         string           `json:"item" validate:"required"`
	Quantity     decimal.Decimal  `json:"quantity" validate:"required"`
	Date         string           `json:"date" validate:"required"`
	ContractorID string           `json:"contractor_id" validate:"omitempty,uuid"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	Notes        string           `json:"notes"`
	UserName     string           `json:"user_name"`
}

// IssueResponse identifica los registros creados por un despacho.
type IssueResponse struct {
	LedgerEntryID     string `json:"ledger_entry_id"`
	ContractorIssueID string `json:"contractor_issue_id,omitempty"`
	MaterialEntryID   string `json:"material_entry_id,omitempty"`
}

// LotResponse salida de un lote.
type LotResponse struct {
	ID         string          `json:"id"`
	Item       string          `json:"item"`
	Source     string          `json:"source"`
	OriginName string          `json:"origin_name"`
	Quantity   decimal.Decimal `json:"quantity"`
	Issued     decimal.Decimal `json:"issued"`
	Available  decimal.Decimal `json:"available"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Date       string          `json:"date"`
	Notes      string          `json:"notes,omitempty"`
}

// ToLotResponse mapea la entidad a su salida HTTP.
func ToLotResponse(l *entity.Lot) LotResponse {
	return LotResponse{
		ID:         l.ID,
		Item:       l.Item,
		Source:     l.Source,
		OriginName: l.OriginName,
		Quantity:   l.Quantity,
		Issued:     l.Issued,
		Available:  l.Available(),
		UnitPrice:  l.UnitPrice,
		Date:       FormatDate(l.Date),
		Notes:      l.Notes,
	}
}

// LedgerEntryResponse salida de un asiento del libro de almacén.
type LedgerEntryResponse struct {
	ID           string          `json:"id"`
	Date         string          `json:"date"`
	Item         string          `json:"item"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Total        decimal.Decimal `json:"total"`
	Operation    string          `json:"operation"`
	OriginName   string          `json:"origin_name,omitempty"`
	ContractorID string          `json:"contractor_id,omitempty"`
	UserName     string          `json:"user_name,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	LotRefs      []LotRefDTO     `json:"lot_refs,omitempty"`
}

// LotRefDTO referencia lote→cantidad dentro de un asiento.
type LotRefDTO struct {
	LotID    string          `json:"lot_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// ToLedgerEntryResponse mapea la entidad a su salida HTTP.
func ToLedgerEntryResponse(e *entity.LedgerEntry) LedgerEntryResponse {
	refs := make([]LotRefDTO, 0, len(e.LotRefs))
	for _, r := range e.LotRefs {
		refs = append(refs, LotRefDTO{LotID: r.LotID, Quantity: r.Quantity})
	}
	return LedgerEntryResponse{
		ID:           e.ID,
		Date:         FormatDate(e.Date),
		Item:         e.Item,
		Quantity:     e.Quantity,
		UnitPrice:    e.UnitPrice,
		Total:        e.Total,
		Operation:    e.Operation,
		OriginName:   e.OriginName,
		ContractorID: e.ContractorID,
		UserName:     e.UserName,
		Notes:        e.Notes,
		LotRefs:      refs,
	}
}

// SummaryRow disponibilidad agregada de un material (por precio unitario).
type SummaryRow struct {
	Item      string          `json:"item"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Available decimal.Decimal `json:"available"`
	Total     decimal.Decimal `json:"total"`
}
