package store

import (
	"context"

	"github.com/jhoicas/almacen-obra/internal/application/dto"
	"github.com/jhoicas/almacen-obra/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que las cuatro escrituras de un
// despacho (lotes, asiento, despacho de contratista, material) entren juntas
// o ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		lotRepo repository.LotRepository,
		ledgerRepo repository.LedgerRepository,
		issueRepo repository.ContractorIssueRepository,
		materialRepo repository.MaterialRepository,
		contractorRepo repository.ContractorRepository,
	) error) error
}

// SummaryExporter genera un libro XLSX con el resumen de disponibilidad.
type SummaryExporter interface {
	SummaryWorkbook(rows []dto.SummaryRow) ([]byte, error)
}
