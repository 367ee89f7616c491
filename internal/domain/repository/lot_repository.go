package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-obra/internal/domain/entity"
)

// LotRepository define el puerto de persistencia para los lotes de almacén.
// ListByItem y ListByItemForUpdate devuelven los lotes en fecha ascendente con
// desempate por orden de creación: ese orden es el contrato FIFO que consume el
// motor de reparto.
type LotRepository interface {
	Create(lot *entity.Lot) error
	GetByID(id string) (*entity.Lot, error)
	ListByItem(item string) ([]*entity.Lot, error)
	// ListByItemForUpdate bloquea todas las filas del material (SELECT FOR UPDATE)
	// para serializar despachos concurrentes del mismo material.
	ListByItemForUpdate(item string) ([]*entity.Lot, error)
	GetForUpdate(id string) (*entity.Lot, error)
	ListBySource(source string, limit, offset int) ([]*entity.Lot, error)
	ListAll() ([]*entity.Lot, error)
	// UpdateIssued fija el contador issued del lote. La capa de aplicación valida
	// antes que el nuevo valor no exceda quantity.
	UpdateIssued(id string, issued decimal.Decimal) error
	Delete(id string) error
}
