package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-obra/internal/domain"
	"github.com/jhoicas/almacen-obra/internal/domain/entity"
	"github.com/jhoicas/almacen-obra/internal/domain/repository"
)

var _ repository.ExtractRepository = (*ExtractRepo)(nil)

// ExtractRepo implementación de ExtractRepository sobre PostgreSQL.
// Persiste el corte y sus renglones/descuentos en tres tablas.
type ExtractRepo struct {
	q Querier
}

// NewExtractRepository construye el adaptador de cortes.
func NewExtractRepository(q Querier) *ExtractRepo {
	return &ExtractRepo{q: q}
}

// Create inserta el corte con sus renglones de trabajo y filas de descuento.
// La restricción UNIQUE (contractor_id, number) respalda la numeración monotónica.
func (r *ExtractRepo) Create(e *entity.Extract) error {
	ctx := context.Background()

	query := `
		INSERT INTO extracts (id, contractor_id, number, date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, e.ID, e.ContractorID, e.Number, e.Date, e.Notes, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("create extract: %w", err)
	}

	for _, wi := range e.WorkItems {
		query := `
			INSERT INTO extract_work_items
				(id, extract_id, position, description, unit, quantity, unit_price,
				 total_percent, locked, is_separator, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
		_, err := r.q.Exec(ctx, query,
			wi.ID, e.ID, wi.Position, wi.Description, wi.Unit, wi.Quantity,
			wi.UnitPrice, wi.TotalPercent, wi.Locked, wi.IsSeparator, wi.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("create work item: %w", err)
		}
	}

	for _, d := range e.Deductions {
		query := `
			INSERT INTO extract_deductions (id, extract_id, name, quantity, unit_price, date)
			VALUES ($1, $2, $3, $4, $5, $6)`
		_, err := r.q.Exec(ctx, query, d.ID, e.ID, d.Name, d.Quantity, d.UnitPrice, d.Date)
		if err != nil {
			return fmt.Errorf("create extract deduction: %w", err)
		}
	}
	return nil
}

// GetByID busca un corte con sus renglones y descuentos. Devuelve nil si no existe.
func (r *ExtractRepo) GetByID(id string) (*entity.Extract, error) {
	query := `
		SELECT id, contractor_id, number, date, notes, created_at, updated_at
		FROM extracts WHERE id = $1`
	var e entity.Extract
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&e.ID, &e.ContractorID, &e.Number, &e.Date, &e.Notes, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get extract: %w", err)
	}
	if err := r.loadChildren(&e); err != nil {
		return nil, err
	}
	return &e, nil
}

// ListByContractor devuelve los cortes de un contratista, número descendente,
// con renglones y descuentos cargados.
func (r *ExtractRepo) ListByContractor(contractorID string) ([]*entity.Extract, error) {
	query := `
		SELECT id, contractor_id, number, date, notes, created_at, updated_at
		FROM extracts WHERE contractor_id = $1
		ORDER BY number DESC`
	rows, err := r.q.Query(context.Background(), query, contractorID)
	if err != nil {
		return nil, fmt.Errorf("list extracts by contractor: %w", err)
	}
	extracts, err := collectExtracts(rows)
	if err != nil {
		return nil, err
	}
	for _, e := range extracts {
		if err := r.loadChildren(e); err != nil {
			return nil, err
		}
	}
	return extracts, nil
}

// List devuelve cortes de todos los contratistas, más recientes primero,
// sin cargar renglones ni descuentos.
func (r *ExtractRepo) List(limit, offset int) ([]*entity.Extract, error) {
	query := `
		SELECT id, contractor_id, number, date, notes, created_at, updated_at
		FROM extracts
		ORDER BY date DESC, created_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list extracts: %w", err)
	}
	return collectExtracts(rows)
}

// Delete elimina el corte; renglones y descuentos caen por ON DELETE CASCADE.
func (r *ExtractRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM extracts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete extract: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MaxNumberForUpdate devuelve el número de corte más alto del contratista
// bloqueando sus cortes; cero si no tiene ninguno.
func (r *ExtractRepo) MaxNumberForUpdate(contractorID string) (int, error) {
	query := `
		SELECT COALESCE(MAX(number), 0)
		FROM (SELECT number FROM extracts WHERE contractor_id = $1 FOR UPDATE) locked`
	var max int
	err := r.q.QueryRow(context.Background(), query, contractorID).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max extract number: %w", err)
	}
	return max, nil
}

// GetWorkItem busca un renglón del corte por ID. Devuelve nil si no existe.
func (r *ExtractRepo) GetWorkItem(extractID, workItemID string) (*entity.WorkItem, error) {
	query := `
		SELECT id, position, description, unit, quantity, unit_price,
		       total_percent, locked, is_separator, updated_at
		FROM extract_work_items WHERE extract_id = $1 AND id = $2`
	var wi entity.WorkItem
	err := r.q.QueryRow(context.Background(), query, extractID, workItemID).Scan(
		&wi.ID, &wi.Position, &wi.Description, &wi.Unit, &wi.Quantity, &wi.UnitPrice,
		&wi.TotalPercent, &wi.Locked, &wi.IsSeparator, &wi.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get work item: %w", err)
	}
	return &wi, nil
}

// UpdateWorkItem persiste los campos editables de un renglón. Los chequeos de
// bloqueo y separador corren en la capa de aplicación.
func (r *ExtractRepo) UpdateWorkItem(extractID string, item *entity.WorkItem) error {
	query := `
		UPDATE extract_work_items
		SET description = $3, unit = $4, quantity = $5, unit_price = $6,
		    total_percent = $7, locked = $8, updated_at = now()
		WHERE extract_id = $1 AND id = $2`
	tag, err := r.q.Exec(context.Background(), query,
		extractID, item.ID, item.Description, item.Unit, item.Quantity,
		item.UnitPrice, item.TotalPercent, item.Locked,
	)
	if err != nil {
		return fmt.Errorf("update work item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteWorkItem elimina un renglón del corte por ID.
func (r *ExtractRepo) DeleteWorkItem(extractID, workItemID string) error {
	query := `DELETE FROM extract_work_items WHERE extract_id = $1 AND id = $2`
	tag, err := r.q.Exec(context.Background(), query, extractID, workItemID)
	if err != nil {
		return fmt.Errorf("delete work item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ExtractRepo) loadChildren(e *entity.Extract) error {
	ctx := context.Background()

	wiQuery := `
		SELECT id, position, description, unit, quantity, unit_price,
		       total_percent, locked, is_separator, updated_at
		FROM extract_work_items WHERE extract_id = $1
		ORDER BY position ASC`
	rows, err := r.q.Query(ctx, wiQuery, e.ID)
	if err != nil {
		return fmt.Errorf("list work items: %w", err)
	}
	for rows.Next() {
		var wi entity.WorkItem
		if err := rows.Scan(
			&wi.ID, &wi.Position, &wi.Description, &wi.Unit, &wi.Quantity, &wi.UnitPrice,
			&wi.TotalPercent, &wi.Locked, &wi.IsSeparator, &wi.UpdatedAt,
		); err != nil {
			rows.Close()
			return fmt.Errorf("scan work item: %w", err)
		}
		e.WorkItems = append(e.WorkItems, wi)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	dQuery := `
		SELECT id, name, quantity, unit_price, date
		FROM extract_deductions WHERE extract_id = $1
		ORDER BY date ASC, name ASC`
	rows, err = r.q.Query(ctx, dQuery, e.ID)
	if err != nil {
		return fmt.Errorf("list extract deductions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d entity.DeductionRow
		if err := rows.Scan(&d.ID, &d.Name, &d.Quantity, &d.UnitPrice, &d.Date); err != nil {
			return fmt.Errorf("scan extract deduction: %w", err)
		}
		e.Deductions = append(e.Deductions, d)
	}
	return rows.Err()
}

func collectExtracts(rows pgx.Rows) ([]*entity.Extract, error) {
	defer rows.Close()
	var extracts []*entity.Extract
	for rows.Next() {
		var e entity.Extract
		if err := rows.Scan(&e.ID, &e.ContractorID, &e.Number, &e.Date, &e.Notes, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan extract: %w", err)
		}
		extracts = append(extracts, &e)
	}
	return extracts, rows.Err()
}
