// Package extract contiene los casos de uso de cortes (estados de avance) de
// contratistas: creación con conciliación de descuentos, borrado ordenado y
// edición de renglones con bloqueo.
package extract

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-obra/internal/application/dto"
	"github.com/jhoicas/almacen-obra/internal/domain"
	"github.com/jhoicas/almacen-obra/internal/domain/entity"
	"github.com/jhoicas/almacen-obra/internal/domain/itemname"
	"github.com/jhoicas/almacen-obra/internal/domain/repository"
)

// UseCase casos de uso de cortes.
type UseCase struct {
	txRunner       TxRunner
	extractRepo    repository.ExtractRepository
	contractorRepo repository.ContractorRepository
	pdf            PDFGenerator
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, extractRepo repository.ExtractRepository, contractorRepo repository.ContractorRepository, pdf PDFGenerator) *UseCase {
	return &UseCase{txRunner: txRunner, extractRepo: extractRepo, contractorRepo: contractorRepo, pdf: pdf}
}

// CreateResult corte creado y cantidad de materiales conciliados.
type CreateResult struct {
	Extract              *entity.Extract
	UpdatedMaterialCount int
}

// Create guarda un corte en una transacción: bloquea los cortes del contratista
// para asignar number = máximo + 1, persiste renglones y filas de descuento con
// ID propio, y concilia cada fila contra los materiales del contratista. La
// regla de conciliación exige nombre normalizado Y fecha (más estricta que el
// descuento directo por solo nombre); la fila que no empareja no es error:
// simplemente no estampa nada.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateExtractRequest) (*CreateResult, error) {
	if in.ContractorID == "" {
		return nil, domain.ErrInvalidInput
	}
	date, err := dto.ParseDate(in.Date)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	ext := &entity.Extract{
		ID:           uuid.New().String(),
		ContractorID: in.ContractorID,
		Date:         date,
		Notes:        in.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for i, w := range in.WorkItems {
		ext.WorkItems = append(ext.WorkItems, entity.WorkItem{
			ID:           uuid.New().String(),
			Position:     i,
			Description:  w.Description,
			Unit:         w.Unit,
			Quantity:     w.Quantity,
			UnitPrice:    w.UnitPrice,
			TotalPercent: w.TotalPercent,
			Locked:       w.Locked,
			IsSeparator:  w.IsSeparator,
			UpdatedAt:    now,
		})
	}
	for _, d := range in.Deductions {
		dedDate, err := dto.ParseDate(d.Date)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		ext.Deductions = append(ext.Deductions, entity.DeductionRow{
			ID:        uuid.New().String(),
			Name:      itemname.Normalize(d.Name),
			Quantity:  d.Quantity,
			UnitPrice: d.UnitPrice,
			Date:      dedDate,
		})
	}

	result := &CreateResult{Extract: ext}
	err = uc.txRunner.RunExtract(ctx, func(
		extractRepo repository.ExtractRepository,
		materialRepo repository.MaterialRepository,
		deductionRepo repository.ContractorDeductionRepository,
		contractorRepo repository.ContractorRepository,
	) error {
		contractor, err := contractorRepo.GetByID(in.ContractorID)
		if err != nil {
			return err
		}
		if contractor == nil {
			return domain.ErrNotFound
		}

		maxNumber, err := extractRepo.MaxNumberForUpdate(in.ContractorID)
		if err != nil {
			return err
		}
		ext.Number = maxNumber + 1

		if err := extractRepo.Create(ext); err != nil {
			return err
		}

		for _, ded := range ext.Deductions {
			material, err := materialRepo.FindUndeductedByNameAndDate(in.ContractorID, ded.Name, ded.Date)
			if err != nil {
				return err
			}
			if material == nil {
				continue
			}
			if err := materialRepo.StampDeduction(material.ID, ext.Number, ext.ID, ded.Date); err != nil {
				return err
			}
			audit := &entity.ContractorDeduction{
				ID:            uuid.New().String(),
				ContractorID:  in.ContractorID,
				Name:          ded.Name,
				Quantity:      ded.Quantity,
				UnitPrice:     ded.UnitPrice,
				ExtractNumber: ext.Number,
				ExtractID:     ext.ID,
				Date:          ded.Date,
				CreatedAt:     now,
			}
			if err := deductionRepo.Create(audit); err != nil {
				return err
			}
			result.UpdatedMaterialCount++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID devuelve un corte completo o ErrNotFound.
func (uc *UseCase) GetByID(id string) (*entity.Extract, error) {
	ext, err := uc.extractRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if ext == nil {
		return nil, domain.ErrNotFound
	}
	return ext, nil
}

// List lista cortes; con contractorID filtra por contratista.
func (uc *UseCase) List(contractorID string, limit, offset int) ([]*entity.Extract, error) {
	if contractorID != "" {
		return uc.extractRepo.ListByContractor(contractorID)
	}
	return uc.extractRepo.List(limit, offset)
}

// Delete elimina un corte solo si es el de número más alto de su contratista;
// cualquier otro devuelve ErrOutOfOrderDeletion. El chequeo y el borrado van en
// la misma transacción con los cortes del contratista bloqueados.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.RunExtract(ctx, func(
		extractRepo repository.ExtractRepository,
		_ repository.MaterialRepository,
		_ repository.ContractorDeductionRepository,
		_ repository.ContractorRepository,
	) error {
		ext, err := extractRepo.GetByID(id)
		if err != nil {
			return err
		}
		if ext == nil {
			return domain.ErrNotFound
		}
		maxNumber, err := extractRepo.MaxNumberForUpdate(ext.ContractorID)
		if err != nil {
			return err
		}
		if ext.Number != maxNumber {
			return domain.ErrOutOfOrderDeletion
		}
		return extractRepo.Delete(id)
	})
}

// UpdateWorkItem aplica un parche a un renglón dirigido por ID. Un renglón
// bloqueado o separador no se modifica: se devuelve tal cual está (la UI lo
// muestra sin cambios), igual que hacía el sistema de origen.
func (uc *UseCase) UpdateWorkItem(ctx context.Context, extractID, workItemID string, patch dto.WorkItemPatch) (*entity.WorkItem, error) {
	var updated *entity.WorkItem
	err := uc.txRunner.RunExtract(ctx, func(
		extractRepo repository.ExtractRepository,
		_ repository.MaterialRepository,
		_ repository.ContractorDeductionRepository,
		_ repository.ContractorRepository,
	) error {
		item, err := extractRepo.GetWorkItem(extractID, workItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if item.Locked || item.IsSeparator {
			updated = item // sin cambios
			return nil
		}
		if patch.Description != nil {
			item.Description = *patch.Description
		}
		if patch.Unit != nil {
			item.Unit = *patch.Unit
		}
		if patch.Quantity != nil {
			item.Quantity = *patch.Quantity
		}
		if patch.UnitPrice != nil {
			item.UnitPrice = *patch.UnitPrice
		}
		if patch.TotalPercent != nil {
			item.TotalPercent = *patch.TotalPercent
		}
		if patch.Locked != nil {
			item.Locked = *patch.Locked
		}
		item.UpdatedAt = time.Now()
		if err := extractRepo.UpdateWorkItem(extractID, item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteWorkItem borra un renglón por ID. Bloqueado o separador → ErrLockedItem.
func (uc *UseCase) DeleteWorkItem(ctx context.Context, extractID, workItemID string) error {
	return uc.txRunner.RunExtract(ctx, func(
		extractRepo repository.ExtractRepository,
		_ repository.MaterialRepository,
		_ repository.ContractorDeductionRepository,
		_ repository.ContractorRepository,
	) error {
		item, err := extractRepo.GetWorkItem(extractID, workItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if item.Locked || item.IsSeparator {
			return domain.ErrLockedItem
		}
		return extractRepo.DeleteWorkItem(extractID, workItemID)
	})
}

// RenderPDF genera el PDF del corte.
func (uc *UseCase) RenderPDF(id string) ([]byte, error) {
	ext, err := uc.GetByID(id)
	if err != nil {
		return nil, err
	}
	contractor, err := uc.contractorRepo.GetByID(ext.ContractorID)
	if err != nil {
		return nil, err
	}
	return uc.pdf.ExtractPDF(ext, contractor)
}
