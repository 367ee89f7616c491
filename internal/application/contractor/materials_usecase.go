package contractor

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-obra/internal/application/dto"
	"github.com/jhoicas/almacen-obra/internal/domain"
	"github.com/jhoicas/almacen-obra/internal/domain/entity"
	"github.com/jhoicas/almacen-obra/internal/domain/itemname"
	"github.com/jhoicas/almacen-obra/internal/domain/repository"
)

// MaterialsUseCase administra la cuenta de materiales entregados de cada
// contratista: alta manual, baja por ID y descuento directo.
type MaterialsUseCase struct {
	contractorRepo repository.ContractorRepository
	materialRepo   repository.MaterialRepository
}

// NewMaterialsUseCase construye el caso de uso.
func NewMaterialsUseCase(contractorRepo repository.ContractorRepository, materialRepo repository.MaterialRepository) *MaterialsUseCase {
	return &MaterialsUseCase{contractorRepo: contractorRepo, materialRepo: materialRepo}
}

// List devuelve los materiales del contratista; con onlyUndeducted solo los
// pendientes de descuento.
func (uc *MaterialsUseCase) List(contractorID string, onlyUndeducted bool) ([]*entity.MaterialEntry, error) {
	if err := uc.mustExist(contractorID); err != nil {
		return nil, err
	}
	return uc.materialRepo.ListByContractor(contractorID, onlyUndeducted)
}

// Restore repone a mano un material en la cuenta del contratista (sin despacho
// de origen: IssueID queda vacío).
func (uc *MaterialsUseCase) Restore(contractorID string, in dto.RestoreMaterialRequest, date time.Time) (*entity.MaterialEntry, error) {
	if err := uc.mustExist(contractorID); err != nil {
		return nil, err
	}
	name := itemname.Normalize(in.Name)
	if name == "" || date.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}
	m := &entity.MaterialEntry{
		ID:           uuid.New().String(),
		ContractorID: contractorID,
		Name:         name,
		Quantity:     in.Quantity,
		UnitPrice:    in.UnitPrice,
		Date:         date,
		Notes:        in.Notes,
		UserName:     in.UserName,
		CreatedAt:    time.Now(),
	}
	if err := uc.materialRepo.Create(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Remove elimina un material por su ID (nunca por posición en la lista).
func (uc *MaterialsUseCase) Remove(contractorID, materialID string) error {
	m, err := uc.materialRepo.GetByID(materialID)
	if err != nil {
		return err
	}
	if m == nil || m.ContractorID != contractorID {
		return domain.ErrNotFound
	}
	return uc.materialRepo.Delete(materialID)
}

// Deduct marca como descontado el primer material sin descontar que coincida
// por nombre normalizado. Esta es la regla del descuento directo: solo nombre,
// sin fecha (la conciliación de cortes usa nombre y fecha, ver el paquete
// extract). ErrNotFound si no hay coincidencia.
func (uc *MaterialsUseCase) Deduct(contractorID string, in dto.DeductMaterialRequest, deductedDate time.Time) (*entity.MaterialEntry, error) {
	if err := uc.mustExist(contractorID); err != nil {
		return nil, err
	}
	name := itemname.Normalize(in.Name)
	if name == "" || in.ExtractNumber <= 0 {
		return nil, domain.ErrInvalidInput
	}
	m, err := uc.materialRepo.FirstUndeductedByName(contractorID, name)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	if deductedDate.IsZero() {
		deductedDate = time.Now()
	}
	if err := uc.materialRepo.StampDeduction(m.ID, in.ExtractNumber, "", deductedDate); err != nil {
		return nil, err
	}
	m.DeductedInExtractNumber = &in.ExtractNumber
	m.DeductedDate = &deductedDate
	return m, nil
}

func (uc *MaterialsUseCase) mustExist(contractorID string) error {
	c, err := uc.contractorRepo.GetByID(contractorID)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	return nil
}
