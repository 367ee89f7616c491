package repository

import (
	"time"

	"github.com/jhoicas/almacen-obra/internal/domain/entity"
)

// LedgerRepository define el puerto del libro de movimientos del almacén.
// El libro es append-only: no hay Update ni Delete; las correcciones entran
// como asientos compensatorios.
type LedgerRepository interface {
	Create(entry *entity.LedgerEntry) error
	GetByID(id string) (*entity.LedgerEntry, error)
	List(from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error)
	ListByItem(item string, limit, offset int) ([]*entity.LedgerEntry, error)
}
