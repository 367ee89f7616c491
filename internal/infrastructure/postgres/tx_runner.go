package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/almacen-obra/internal/application/extract"
	"github.com/jhoicas/almacen-obra/internal/application/store"
	"github.com/jhoicas/almacen-obra/internal/domain/repository"
)

// Ensure TxRunner implements store.TxRunner and extract.TxRunner.
var _ store.TxRunner = (*TxRunner)(nil)
var _ extract.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción con los repositorios del motor de despacho y hace
// Commit o Rollback. Las cuatro escrituras de un despacho (lotes, asiento,
// despacho de contratista, material) viven dentro de este límite.
func (r *TxRunner) Run(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	ledgerRepo repository.LedgerRepository,
	issueRepo repository.ContractorIssueRepository,
	materialRepo repository.MaterialRepository,
	contractorRepo repository.ContractorRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	lotRepo := NewLotRepository(tx)
	ledgerRepo := NewLedgerRepository(tx)
	issueRepo := NewContractorIssueRepository(tx)
	materialRepo := NewMaterialRepository(tx)
	contractorRepo := NewContractorRepository(tx)

	if err := fn(lotRepo, ledgerRepo, issueRepo, materialRepo, contractorRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunExtract inicia una transacción con los repositorios del módulo de cortes
// (asignación de número, conciliación de descuentos, borrado ordenado).
func (r *TxRunner) RunExtract(ctx context.Context, fn func(
	extractRepo repository.ExtractRepository,
	materialRepo repository.MaterialRepository,
	deductionRepo repository.ContractorDeductionRepository,
	contractorRepo repository.ContractorRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	extractRepo := NewExtractRepository(tx)
	materialRepo := NewMaterialRepository(tx)
	deductionRepo := NewContractorDeductionRepository(tx)
	contractorRepo := NewContractorRepository(tx)

	if err := fn(extractRepo, materialRepo, deductionRepo, contractorRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
