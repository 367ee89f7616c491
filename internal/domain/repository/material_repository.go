package repository

import (
	"time"

	"github.com/jhoicas/almacen-obra/internal/domain/entity"
)

// MaterialRepository define el puerto para los materiales entregados a
// contratistas. Toda mutación se dirige por ID, nunca por posición en una lista.
type MaterialRepository interface {
	Create(material *entity.MaterialEntry) error
	GetByID(id string) (*entity.MaterialEntry, error)
	ListByContractor(contractorID string, onlyUndeducted bool) ([]*entity.MaterialEntry, error)
	Delete(id string) error

	// FirstUndeductedByName localiza el material sin descontar más antiguo cuyo
	// nombre normalizado coincida (regla del descuento directo: solo nombre).
	FirstUndeductedByName(contractorID, name string) (*entity.MaterialEntry, error)
	// FindUndeductedByNameAndDate exige además coincidencia de fecha (regla de la
	// conciliación de cortes, más estricta que la del descuento directo).
	FindUndeductedByNameAndDate(contractorID, name string, date time.Time) (*entity.MaterialEntry, error)
	// StampDeduction marca el material como descontado en un corte. Se aplica a
	// lo sumo una vez por material.
	StampDeduction(id string, extractNumber int, extractID string, date time.Time) error
}
