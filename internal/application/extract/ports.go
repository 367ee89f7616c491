package extract

import (
	"context"

	"github.com/jhoicas/almacen-obra/internal/domain/entity"
	"github.com/jhoicas/almacen-obra/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repositorios
// del módulo de cortes. La asignación de número, la conciliación de descuentos
// y el chequeo de orden de borrado necesitan esta atomicidad.
type TxRunner interface {
	RunExtract(ctx context.Context, fn func(
		extractRepo repository.ExtractRepository,
		materialRepo repository.MaterialRepository,
		deductionRepo repository.ContractorDeductionRepository,
		contractorRepo repository.ContractorRepository,
	) error) error
}

// PDFGenerator renderiza un corte como PDF.
type PDFGenerator interface {
	ExtractPDF(extract *entity.Extract, contractor *entity.Contractor) ([]byte, error)
}
