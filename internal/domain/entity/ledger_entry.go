package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de operación del libro de almacén.
const (
	OperationSupplyIn        = "SUPPLY_IN"        // entrada por suministro
	OperationPurchaseIn      = "PURCHASE_IN"      // entrada por compra
	OperationGeneralIssue    = "ISSUE_GENERAL"    // salida sin contratista
	OperationContractorIssue = "ISSUE_CONTRACTOR" // salida asignada a contratista
	OperationReturn          = "RETURN"           // devolución al proveedor
)

// LotRef vincula un asiento del libro con el lote consumido y la cantidad tomada.
type LotRef struct {
	LotID    string          `json:"lot_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// LedgerEntry es un asiento inmutable del libro de movimientos del almacén.
// Cantidad negativa = salida, positiva = entrada. Las correcciones se registran
// como asientos compensatorios, nunca editando uno existente.
type LedgerEntry struct {
	ID           string
	Date         time.Time
	Item         string
	Quantity     decimal.Decimal // con signo
	UnitPrice    decimal.Decimal
	Total        decimal.Decimal
	Operation    string
	OriginName   string
	ContractorID string // vacío en salidas generales y entradas
	UserName     string
	Notes        string
	LotRefs      []LotRef
	CreatedAt    time.Time
}
