package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-obra/internal/domain"
	"github.com/jhoicas/almacen-obra/internal/domain/allocation"
	"github.com/jhoicas/almacen-obra/internal/domain/entity"
	"github.com/jhoicas/almacen-obra/internal/domain/itemname"
	"github.com/jhoicas/almacen-obra/internal/domain/repository"
)

// IssueUseCase despacha material del almacén: reparte la cantidad pedida entre
// los lotes en orden FIFO y confirma el reparto de forma transaccional, con las
// filas de los lotes bloqueadas (SELECT FOR UPDATE) para serializar despachos
// concurrentes del mismo material.
type IssueUseCase struct {
	txRunner TxRunner
	lotRepo  repository.LotRepository
}

// NewIssueUseCase construye el caso de uso.
func NewIssueUseCase(txRunner TxRunner, lotRepo repository.LotRepository) *IssueUseCase {
	return &IssueUseCase{txRunner: txRunner, lotRepo: lotRepo}
}

// IssueInput entrada para un despacho. ContractorID vacío = salida general.
// UnitPrice nulo = promedio ponderado por cantidad de los lotes consumidos.
type IssueInput struct {
	Item         string
	Quantity     decimal.Decimal
	Date         time.Time
	ContractorID string
	UnitPrice    *decimal.Decimal
	Notes        string
	UserName     string
}

// IssueResult identifica los registros creados por el despacho.
type IssueResult struct {
	LedgerEntryID     string
	ContractorIssueID string
	MaterialEntryID   string
}

// Issue valida la entrada y ejecuta el despacho completo en una transacción:
//  1. bloquea los lotes del material y recalcula el reparto FIFO sobre las filas
//     bloqueadas (nunca sobre una lectura previa),
//  2. incrementa issued en cada lote consumido, verificando issued <= quantity
//     antes de confirmar,
//  3. agrega un asiento con cantidad negativa al libro de almacén,
//  4. si hay contratista, registra el despacho y agrega el material a su cuenta.
//
// Cualquier fallo revierte las cuatro escrituras.
func (uc *IssueUseCase) Issue(ctx context.Context, in IssueInput) (*IssueResult, error) {
	item := itemname.Normalize(in.Item)
	if item == "" || in.Date.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	result := &IssueResult{}

	err := uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		ledgerRepo repository.LedgerRepository,
		issueRepo repository.ContractorIssueRepository,
		materialRepo repository.MaterialRepository,
		contractorRepo repository.ContractorRepository,
	) error {
		var contractor *entity.Contractor
		if in.ContractorID != "" {
			var err error
			contractor, err = contractorRepo.GetByID(in.ContractorID)
			if err != nil {
				return err
			}
			if contractor == nil {
				return domain.ErrNotFound
			}
		}

		lots, err := lotRepo.ListByItemForUpdate(item)
		if err != nil {
			return err
		}
		alloc, err := allocation.Allocate(item, lots, in.Quantity)
		if err != nil {
			return err
		}

		byID := make(map[string]*entity.Lot, len(lots))
		for _, l := range lots {
			byID[l.ID] = l
		}
		for _, p := range alloc.Portions {
			lot := byID[p.LotID]
			newIssued := lot.Issued.Add(p.Quantity)
			// Invariante dura: un lote jamás queda con issued > quantity. Si el
			// reparto la violara, se aborta todo antes de confirmar nada.
			if newIssued.GreaterThan(lot.Quantity) {
				return domain.ErrConsistency
			}
			if err := lotRepo.UpdateIssued(lot.ID, newIssued); err != nil {
				return err
			}
		}

		unitPrice := alloc.WeightedUnitPrice()
		if in.UnitPrice != nil {
			unitPrice = *in.UnitPrice
		}

		operation := entity.OperationGeneralIssue
		if contractor != nil {
			operation = entity.OperationContractorIssue
		}
		entry := &entity.LedgerEntry{
			ID:           uuid.New().String(),
			Date:         in.Date,
			Item:         item,
			Quantity:     in.Quantity.Neg(), // negativa = salida
			UnitPrice:    unitPrice,
			Total:        in.Quantity.Mul(unitPrice),
			Operation:    operation,
			ContractorID: in.ContractorID,
			UserName:     in.UserName,
			Notes:        in.Notes,
			LotRefs:      alloc.LotRefs(),
			CreatedAt:    now,
		}
		if err := ledgerRepo.Create(entry); err != nil {
			return err
		}
		result.LedgerEntryID = entry.ID

		if contractor == nil {
			return nil
		}

		issue := &entity.ContractorIssue{
			ID:            uuid.New().String(),
			ContractorID:  contractor.ID,
			Item:          item,
			Quantity:      in.Quantity,
			UnitPrice:     unitPrice,
			Total:         in.Quantity.Mul(unitPrice),
			Date:          in.Date,
			Notes:         in.Notes,
			UserName:      in.UserName,
			LedgerEntryID: entry.ID,
			CreatedAt:     now,
		}
		if err := issueRepo.Create(issue); err != nil {
			return err
		}
		result.ContractorIssueID = issue.ID

		material := &entity.MaterialEntry{
			ID:           uuid.New().String(),
			ContractorID: contractor.ID,
			Name:         item,
			Quantity:     in.Quantity,
			UnitPrice:    unitPrice,
			Date:         in.Date,
			Notes:        in.Notes,
			UserName:     in.UserName,
			IssueID:      issue.ID,
			CreatedAt:    now,
		}
		if err := materialRepo.Create(material); err != nil {
			return err
		}
		result.MaterialEntryID = material.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AvailableQuantity devuelve el total despachable de un material; cero (sin
// error) cuando no existen lotes. Lectura pura, sirve para estimar.
func (uc *IssueUseCase) AvailableQuantity(item string) (decimal.Decimal, error) {
	lots, err := uc.lotRepo.ListByItem(itemname.Normalize(item))
	if err != nil {
		return decimal.Zero, err
	}
	return allocation.TotalAvailable(lots), nil
}

// PlanIssue calcula el reparto FIFO sin tocar estado (estimación para la UI).
func (uc *IssueUseCase) PlanIssue(item string, quantity decimal.Decimal) (*allocation.Allocation, error) {
	lots, err := uc.lotRepo.ListByItem(itemname.Normalize(item))
	if err != nil {
		return nil, err
	}
	return allocation.Allocate(itemname.Normalize(item), lots, quantity)
}
