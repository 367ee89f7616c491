package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-obra/internal/domain"
	"github.com/jhoicas/almacen-obra/internal/domain/entity"
	"github.com/jhoicas/almacen-obra/internal/domain/itemname"
	"github.com/jhoicas/almacen-obra/internal/domain/repository"
)

// IntakeUseCase registra entradas al almacén (suministros y compras crean lotes
// con issued = 0) y devoluciones de compra (incrementos compensatorios de issued).
type IntakeUseCase struct {
	txRunner TxRunner
	lotRepo  repository.LotRepository
}

// NewIntakeUseCase construye el caso de uso.
func NewIntakeUseCase(txRunner TxRunner, lotRepo repository.LotRepository) *IntakeUseCase {
	return &IntakeUseCase{txRunner: txRunner, lotRepo: lotRepo}
}

// LotInput entrada para registrar un suministro o una compra.
type LotInput struct {
	Item       string
	OriginName string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	Date       time.Time
	Notes      string
	UserName   string
}

// RegisterSupply crea el lote de suministro y su asiento de entrada en el libro,
// en una sola transacción.
func (uc *IntakeUseCase) RegisterSupply(ctx context.Context, in LotInput) (*entity.Lot, error) {
	return uc.registerLot(ctx, in, entity.LotSourceSupply, entity.OperationSupplyIn)
}

// RegisterPurchase crea el lote de compra y su asiento de entrada en el libro.
func (uc *IntakeUseCase) RegisterPurchase(ctx context.Context, in LotInput) (*entity.Lot, error) {
	return uc.registerLot(ctx, in, entity.LotSourcePurchase, entity.OperationPurchaseIn)
}

func (uc *IntakeUseCase) registerLot(ctx context.Context, in LotInput, source, operation string) (*entity.Lot, error) {
	item := itemname.Normalize(in.Item)
	if item == "" || in.OriginName == "" || in.Date.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}
	if in.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	lot := &entity.Lot{
		ID:         uuid.New().String(),
		Item:       item,
		Source:     source,
		OriginName: in.OriginName,
		Quantity:   in.Quantity,
		Issued:     decimal.Zero,
		UnitPrice:  in.UnitPrice,
		Date:       in.Date,
		Notes:      in.Notes,
		CreatedAt:  now,
	}
	err := uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		ledgerRepo repository.LedgerRepository,
		_ repository.ContractorIssueRepository,
		_ repository.MaterialRepository,
		_ repository.ContractorRepository,
	) error {
		if err := lotRepo.Create(lot); err != nil {
			return err
		}
		entry := &entity.LedgerEntry{
			ID:         uuid.New().String(),
			Date:       in.Date,
			Item:       item,
			Quantity:   in.Quantity, // positiva = entrada
			UnitPrice:  in.UnitPrice,
			Total:      in.Quantity.Mul(in.UnitPrice),
			Operation:  operation,
			OriginName: in.OriginName,
			UserName:   in.UserName,
			Notes:      in.Notes,
			LotRefs:    []entity.LotRef{{LotID: lot.ID, Quantity: in.Quantity}},
			CreatedAt:  now,
		}
		return ledgerRepo.Create(entry)
	})
	if err != nil {
		return nil, err
	}
	return lot, nil
}

// ReturnInput entrada para devolver parte de una compra al proveedor.
type ReturnInput struct {
	LotID    string
	Quantity decimal.Decimal
	Date     time.Time
	Reason   string
	UserName string
}

// RegisterReturn devuelve mercancía de un lote de compra: valida que lo devuelto
// no exceda lo aún disponible, incrementa issued (entrada compensatoria, el lote
// nunca se edita ni borra) y agrega el asiento RETURN al libro.
func (uc *IntakeUseCase) RegisterReturn(ctx context.Context, in ReturnInput) error {
	if in.LotID == "" || in.Date.IsZero() {
		return domain.ErrInvalidInput
	}
	if !in.Quantity.IsPositive() {
		return domain.ErrInvalidQuantity
	}

	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		ledgerRepo repository.LedgerRepository,
		_ repository.ContractorIssueRepository,
		_ repository.MaterialRepository,
		_ repository.ContractorRepository,
	) error {
		lot, err := lotRepo.GetForUpdate(in.LotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.ErrNotFound
		}
		if lot.Source != entity.LotSourcePurchase {
			return domain.ErrInvalidInput
		}
		if in.Quantity.GreaterThan(lot.Available()) {
			return domain.ErrInsufficientStock
		}
		newIssued := lot.Issued.Add(in.Quantity)
		if newIssued.GreaterThan(lot.Quantity) {
			return domain.ErrConsistency
		}
		if err := lotRepo.UpdateIssued(lot.ID, newIssued); err != nil {
			return err
		}
		entry := &entity.LedgerEntry{
			ID:         uuid.New().String(),
			Date:       in.Date,
			Item:       lot.Item,
			Quantity:   in.Quantity.Neg(),
			UnitPrice:  lot.UnitPrice,
			Total:      in.Quantity.Mul(lot.UnitPrice),
			Operation:  entity.OperationReturn,
			OriginName: lot.OriginName,
			UserName:   in.UserName,
			Notes:      in.Reason,
			LotRefs:    []entity.LotRef{{LotID: lot.ID, Quantity: in.Quantity}},
			CreatedAt:  now,
		}
		return ledgerRepo.Create(entry)
	})
}

// ListBySource lista lotes de un origen (SUPPLY o PURCHASE).
func (uc *IntakeUseCase) ListBySource(source string, limit, offset int) ([]*entity.Lot, error) {
	if source != entity.LotSourceSupply && source != entity.LotSourcePurchase {
		return nil, domain.ErrInvalidInput
	}
	return uc.lotRepo.ListBySource(source, limit, offset)
}

// DeleteLot elimina un lote que aún no ha despachado nada. Con issued > 0 el
// lote sostiene asientos del libro y se rechaza con ErrConflict. La verificación
// se hace sobre la fila bloqueada (SELECT FOR UPDATE) en la misma transacción
// del borrado: un despacho concurrente que consuma el lote mientras el borrado
// espera el bloqueo queda visible antes de decidir.
func (uc *IntakeUseCase) DeleteLot(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		_ repository.LedgerRepository,
		_ repository.ContractorIssueRepository,
		_ repository.MaterialRepository,
		_ repository.ContractorRepository,
	) error {
		lot, err := lotRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.ErrNotFound
		}
		if lot.Issued.IsPositive() {
			return domain.ErrConflict
		}
		return lotRepo.Delete(id)
	})
}
