// Package contractor contiene los casos de uso de contratistas y de su cuenta
// de materiales entregados.
package contractor

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-obra/internal/application/dto"
	"github.com/jhoicas/almacen-obra/internal/domain"
	"github.com/jhoicas/almacen-obra/internal/domain/entity"
	"github.com/jhoicas/almacen-obra/internal/domain/repository"
)

// UseCase CRUD de contratistas.
type UseCase struct {
	contractorRepo repository.ContractorRepository
	issueRepo      repository.ContractorIssueRepository
	deductionRepo  repository.ContractorDeductionRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	contractorRepo repository.ContractorRepository,
	issueRepo repository.ContractorIssueRepository,
	deductionRepo repository.ContractorDeductionRepository,
) *UseCase {
	return &UseCase{contractorRepo: contractorRepo, issueRepo: issueRepo, deductionRepo: deductionRepo}
}

// Create registra un contratista.
func (uc *UseCase) Create(in dto.ContractorRequest) (*entity.Contractor, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	c := &entity.Contractor{
		ID:        uuid.New().String(),
		Name:      in.Name,
		WorkItem:  in.WorkItem,
		Phone:     in.Phone,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.contractorRepo.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetByID devuelve un contratista o ErrNotFound.
func (uc *UseCase) GetByID(id string) (*entity.Contractor, error) {
	c, err := uc.contractorRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

// List lista contratistas paginados.
func (uc *UseCase) List(limit, offset int) ([]*entity.Contractor, error) {
	return uc.contractorRepo.List(limit, offset)
}

// Update modifica los datos básicos del contratista.
func (uc *UseCase) Update(id string, in dto.ContractorRequest) (*entity.Contractor, error) {
	c, err := uc.GetByID(id)
	if err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	c.Name = in.Name
	c.WorkItem = in.WorkItem
	c.Phone = in.Phone
	c.Notes = in.Notes
	c.UpdatedAt = time.Now()
	if err := uc.contractorRepo.Update(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete elimina un contratista.
func (uc *UseCase) Delete(id string) error {
	if _, err := uc.GetByID(id); err != nil {
		return err
	}
	return uc.contractorRepo.Delete(id)
}

// Issues lista los despachos registrados al contratista.
func (uc *UseCase) Issues(contractorID string, limit, offset int) ([]*entity.ContractorIssue, error) {
	if _, err := uc.GetByID(contractorID); err != nil {
		return nil, err
	}
	return uc.issueRepo.ListByContractor(contractorID, limit, offset)
}

// Deductions devuelve el historial de descuentos aplicados en cortes.
func (uc *UseCase) Deductions(contractorID string) ([]*entity.ContractorDeduction, error) {
	if _, err := uc.GetByID(contractorID); err != nil {
		return nil, err
	}
	return uc.deductionRepo.ListByContractor(contractorID)
}
