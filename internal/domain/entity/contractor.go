package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Contractor es un contratista de la obra.
type Contractor struct {
	ID        string
	Name      string
	WorkItem  string // rubro contratado
	Phone     string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContractorIssue registra un despacho de material asignado a un contratista,
// vinculado al asiento del libro de almacén que lo originó.
type ContractorIssue struct {
	ID            string
	ContractorID  string
	Item          string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	Total         decimal.Decimal
	Date          time.Time
	Notes         string
	UserName      string
	LedgerEntryID string
	CreatedAt     time.Time
}

// MaterialEntry es un material entregado a un contratista, pendiente de descuento.
// Se crea al despachar; se muta exactamente una vez cuando un corte lo descuenta
// (DeductedInExtractNumber/DeductedDate). El borrado es solo por acción explícita
// del usuario, por ID, nunca por posición.
type MaterialEntry struct {
	ID           string
	ContractorID string
	Name         string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	Date         time.Time
	Notes        string
	UserName     string
	IssueID      string // ContractorIssue de origen; vacío si fue restaurado a mano

	DeductedInExtractNumber *int
	DeductedInExtractID     *string
	DeductedDate            *time.Time

	CreatedAt time.Time
}

// Deducted indica si el material ya fue descontado en algún corte.
func (m *MaterialEntry) Deducted() bool {
	return m.DeductedInExtractNumber != nil
}

// ContractorDeduction es el registro de auditoría de un descuento aplicado en un corte.
type ContractorDeduction struct {
	ID            string
	ContractorID  string
	Name          string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	ExtractNumber int
	ExtractID     string
	Date          time.Time
	CreatedAt     time.Time
}
