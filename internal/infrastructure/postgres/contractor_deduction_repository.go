package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/almacen-obra/internal/domain/entity"
	"github.com/jhoicas/almacen-obra/internal/domain/repository"
)

var _ repository.ContractorDeductionRepository = (*ContractorDeductionRepo)(nil)

// ContractorDeductionRepo implementación de ContractorDeductionRepository
// sobre PostgreSQL. Historial append-only.
type ContractorDeductionRepo struct {
	q Querier
}

// NewContractorDeductionRepository construye el adaptador de descuentos.
func NewContractorDeductionRepository(q Querier) *ContractorDeductionRepo {
	return &ContractorDeductionRepo{q: q}
}

// Create inserta el registro de auditoría de un descuento aplicado en un corte.
func (r *ContractorDeductionRepo) Create(d *entity.ContractorDeduction) error {
	query := `
		INSERT INTO contractor_deductions
			(id, contractor_id, name, quantity, unit_price, extract_number, extract_id, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.ContractorID, d.Name, d.Quantity, d.UnitPrice,
		d.ExtractNumber, d.ExtractID, d.Date, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create contractor deduction: %w", err)
	}
	return nil
}

// ListByContractor devuelve los descuentos de un contratista, más recientes primero.
func (r *ContractorDeductionRepo) ListByContractor(contractorID string) ([]*entity.ContractorDeduction, error) {
	query := `
		SELECT id, contractor_id, name, quantity, unit_price, extract_number, extract_id, date, created_at
		FROM contractor_deductions WHERE contractor_id = $1
		ORDER BY extract_number DESC, created_at DESC`
	rows, err := r.q.Query(context.Background(), query, contractorID)
	if err != nil {
		return nil, fmt.Errorf("list contractor deductions: %w", err)
	}
	defer rows.Close()

	var deductions []*entity.ContractorDeduction
	for rows.Next() {
		var d entity.ContractorDeduction
		if err := rows.Scan(
			&d.ID, &d.ContractorID, &d.Name, &d.Quantity, &d.UnitPrice,
			&d.ExtractNumber, &d.ExtractID, &d.Date, &d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan contractor deduction: %w", err)
		}
		deductions = append(deductions, &d)
	}
	return deductions, rows.Err()
}
