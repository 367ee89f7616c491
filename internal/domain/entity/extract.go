package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Extract es el corte (estado de avance) de un contratista. Number es monotónico
// por contratista; solo el corte de número más alto puede eliminarse.
type Extract struct {
	ID           string
	ContractorID string
	Number       int
	Date         time.Time
	Notes        string
	WorkItems    []WorkItem
	Deductions   []DeductionRow
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// WorkItem es un renglón de trabajo del corte. Un renglón Locked rechaza ediciones
// y borrados; un separador nunca se edita ni se borra individualmente.
type WorkItem struct {
	ID           string
	Position     int
	Description  string
	Unit         string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	TotalPercent decimal.Decimal
	Locked       bool
	IsSeparator  bool
	UpdatedAt    time.Time
}

// DeductionRow es una fila de descuento de materiales dentro del corte; al guardar
// el corte se concilia contra los materiales del contratista por nombre y fecha.
type DeductionRow struct {
	ID        string
	Name      string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Date      time.Time
}
