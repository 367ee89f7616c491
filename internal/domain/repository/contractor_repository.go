package repository

import "github.com/jhoicas/almacen-obra/internal/domain/entity"

// ContractorRepository define el puerto de persistencia para contratistas.
type ContractorRepository interface {
	Create(contractor *entity.Contractor) error
	GetByID(id string) (*entity.Contractor, error)
	List(limit, offset int) ([]*entity.Contractor, error)
	Update(contractor *entity.Contractor) error
	Delete(id string) error
}

// ContractorIssueRepository persiste los despachos asignados a contratistas.
type ContractorIssueRepository interface {
	Create(issue *entity.ContractorIssue) error
	ListByContractor(contractorID string, limit, offset int) ([]*entity.ContractorIssue, error)
	List(limit, offset int) ([]*entity.ContractorIssue, error)
}

// ContractorDeductionRepository persiste el historial de descuentos aplicados
// en cortes (registro de auditoría, append-only).
type ContractorDeductionRepository interface {
	Create(deduction *entity.ContractorDeduction) error
	ListByContractor(contractorID string) ([]*entity.ContractorDeduction, error)
}
