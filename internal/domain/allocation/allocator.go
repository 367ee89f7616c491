// Package allocation implementa el reparto FIFO de una cantidad solicitada entre
// los lotes disponibles de un material (servicio de dominio, sin efectos).
package allocation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-obra/internal/domain"
	"github.com/jhoicas/almacen-obra/internal/domain/entity"
)

// Portion es la parte de la cantidad solicitada que se toma de un lote concreto.
type Portion struct {
	LotID     string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// Allocation es el reparto ordenado (del lote más antiguo al más reciente) de una
// solicitud de despacho.
type Allocation struct {
	Item      string
	Requested decimal.Decimal
	Portions  []Portion
}

// SortFIFO ordena los lotes por fecha ascendente, desempatando por orden de
// creación. Suministros y compras forman un único fondo: manda solo la fecha,
// nunca el origen del lote.
func SortFIFO(lots []*entity.Lot) {
	sort.SliceStable(lots, func(i, j int) bool {
		if !lots[i].Date.Equal(lots[j].Date) {
			return lots[i].Date.Before(lots[j].Date)
		}
		return lots[i].CreatedAt.Before(lots[j].CreatedAt)
	})
}

// TotalAvailable suma lo despachable de todos los lotes. Cero si no hay lotes.
func TotalAvailable(lots []*entity.Lot) decimal.Decimal {
	total := decimal.Zero
	for _, lot := range lots {
		if avail := lot.Available(); avail.IsPositive() {
			total = total.Add(avail)
		}
	}
	return total
}

// Allocate reparte requested entre los lotes en orden FIFO. Es una función pura:
// no toca el estado de los lotes y puede llamarse repetidamente para estimar.
// Devuelve ErrInvalidQuantity si requested <= 0 y ErrInsufficientStock si el total
// disponible no alcanza; en ese caso no hay reparto parcial.
func Allocate(item string, lots []*entity.Lot, requested decimal.Decimal) (*Allocation, error) {
	if !requested.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}
	if TotalAvailable(lots).LessThan(requested) {
		return nil, domain.ErrInsufficientStock
	}

	ordered := make([]*entity.Lot, len(lots))
	copy(ordered, lots)
	SortFIFO(ordered)

	alloc := &Allocation{Item: item, Requested: requested}
	left := requested
	for _, lot := range ordered {
		if !left.IsPositive() {
			break
		}
		avail := lot.Available()
		if !avail.IsPositive() {
			continue
		}
		take := decimal.Min(avail, left)
		alloc.Portions = append(alloc.Portions, Portion{
			LotID:     lot.ID,
			Quantity:  take,
			UnitPrice: lot.UnitPrice,
		})
		left = left.Sub(take)
	}
	return alloc, nil
}

// WeightedUnitPrice devuelve el precio unitario promedio ponderado por cantidad
// de los lotes consumidos. Cero si el reparto está vacío.
func (a *Allocation) WeightedUnitPrice() decimal.Decimal {
	total := decimal.Zero
	qty := decimal.Zero
	for _, p := range a.Portions {
		total = total.Add(p.Quantity.Mul(p.UnitPrice))
		qty = qty.Add(p.Quantity)
	}
	if !qty.IsPositive() {
		return decimal.Zero
	}
	return total.Div(qty)
}

// LotRefs convierte el reparto en referencias de lote para el asiento del libro.
func (a *Allocation) LotRefs() []entity.LotRef {
	refs := make([]entity.LotRef, 0, len(a.Portions))
	for _, p := range a.Portions {
		refs = append(refs, entity.LotRef{LotID: p.LotID, Quantity: p.Quantity})
	}
	return refs
}
