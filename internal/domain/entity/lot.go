package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Orígenes de un lote de almacén.
const (
	LotSourceSupply   = "SUPPLY"   // suministro de proveedor
	LotSourcePurchase = "PURCHASE" // compra directa
)

// Lot es un lote de existencias: una partida discreta que entra al almacén desde
// un registro de suministro o de compra, con sus propios contadores quantity/issued.
// Invariante: 0 <= Issued <= Quantity. Issued solo crece (despachos y devoluciones
// compensatorias); los lotes nunca se borran por el motor de despacho.
type Lot struct {
	ID         string
	Item       string
	Source     string // SUPPLY | PURCHASE
	OriginName string // proveedor o tienda de origen
	Quantity   decimal.Decimal
	Issued     decimal.Decimal
	UnitPrice  decimal.Decimal
	Date       time.Time
	Notes      string
	CreatedAt  time.Time
}

// Available devuelve la cantidad aún despachable del lote (Quantity - Issued).
func (l *Lot) Available() decimal.Decimal {
	return l.Quantity.Sub(l.Issued)
}
