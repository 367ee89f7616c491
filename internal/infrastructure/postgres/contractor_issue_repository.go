package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-obra/internal/domain/entity"
	"github.com/jhoicas/almacen-obra/internal/domain/repository"
)

var _ repository.ContractorIssueRepository = (*ContractorIssueRepo)(nil)

const contractorIssueColumns = `id, contractor_id, item, quantity, unit_price, total,
	date, notes, user_name, ledger_entry_id, created_at`

// ContractorIssueRepo implementación de ContractorIssueRepository sobre PostgreSQL.
type ContractorIssueRepo struct {
	q Querier
}

// NewContractorIssueRepository construye el adaptador de despachos a contratistas.
func NewContractorIssueRepository(q Querier) *ContractorIssueRepo {
	return &ContractorIssueRepo{q: q}
}

// Create inserta un despacho vinculado a su asiento del libro.
func (r *ContractorIssueRepo) Create(issue *entity.ContractorIssue) error {
	query := `
		INSERT INTO contractor_issues
			(id, contractor_id, item, quantity, unit_price, total,
			 date, notes, user_name, ledger_entry_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		issue.ID, issue.ContractorID, issue.Item, issue.Quantity, issue.UnitPrice,
		issue.Total, issue.Date, issue.Notes, issue.UserName, issue.LedgerEntryID,
		issue.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create contractor issue: %w", err)
	}
	return nil
}

// ListByContractor devuelve los despachos de un contratista, más recientes primero.
func (r *ContractorIssueRepo) ListByContractor(contractorID string, limit, offset int) ([]*entity.ContractorIssue, error) {
	query := `
		SELECT ` + contractorIssueColumns + `
		FROM contractor_issues WHERE contractor_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, contractorID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list contractor issues: %w", err)
	}
	defer rows.Close()
	return scanContractorIssues(rows)
}

// List devuelve despachos de todos los contratistas, más recientes primero.
func (r *ContractorIssueRepo) List(limit, offset int) ([]*entity.ContractorIssue, error) {
	query := `
		SELECT ` + contractorIssueColumns + `
		FROM contractor_issues
		ORDER BY date DESC, created_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list all contractor issues: %w", err)
	}
	defer rows.Close()
	return scanContractorIssues(rows)
}

func scanContractorIssues(rows pgx.Rows) ([]*entity.ContractorIssue, error) {
	var issues []*entity.ContractorIssue
	for rows.Next() {
		var i entity.ContractorIssue
		if err := rows.Scan(
			&i.ID, &i.ContractorID, &i.Item, &i.Quantity, &i.UnitPrice, &i.Total,
			&i.Date, &i.Notes, &i.UserName, &i.LedgerEntryID, &i.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan contractor issue: %w", err)
		}
		issues = append(issues, &i)
	}
	return issues, rows.Err()
}
