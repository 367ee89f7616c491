package repository

import "github.com/jhoicas/almacen-obra/internal/domain/entity"

// ExtractRepository define el puerto de persistencia para cortes de contratista,
// incluidos sus renglones de trabajo y filas de descuento.
type ExtractRepository interface {
	Create(extract *entity.Extract) error
	GetByID(id string) (*entity.Extract, error)
	ListByContractor(contractorID string) ([]*entity.Extract, error)
	List(limit, offset int) ([]*entity.Extract, error)
	Delete(id string) error

	// MaxNumberForUpdate devuelve el número de corte más alto del contratista
	// bloqueando sus cortes (FOR UPDATE); cero si no tiene. Serializa la
	// asignación de número y el chequeo de orden de borrado.
	MaxNumberForUpdate(contractorID string) (int, error)

	GetWorkItem(extractID, workItemID string) (*entity.WorkItem, error)
	UpdateWorkItem(extractID string, item *entity.WorkItem) error
	DeleteWorkItem(extractID, workItemID string) error
}
