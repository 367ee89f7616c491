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

var _ repository.ContractorRepository = (*ContractorRepo)(nil)

// ContractorRepo implementación de ContractorRepository sobre PostgreSQL.
type ContractorRepo struct {
	q Querier
}

// NewContractorRepository construye el adaptador de contratistas.
func NewContractorRepository(q Querier) *ContractorRepo {
	return &ContractorRepo{q: q}
}

// Create inserta un contratista.
func (r *ContractorRepo) Create(c *entity.Contractor) error {
	query := `
		INSERT INTO contractors (id, name, work_item, phone, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.Name, c.WorkItem, c.Phone, c.Notes, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create contractor: %w", err)
	}
	return nil
}

// GetByID busca un contratista por ID. Devuelve nil si no existe.
func (r *ContractorRepo) GetByID(id string) (*entity.Contractor, error) {
	query := `
		SELECT id, name, work_item, phone, notes, created_at, updated_at
		FROM contractors WHERE id = $1`
	var c entity.Contractor
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.Name, &c.WorkItem, &c.Phone, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contractor: %w", err)
	}
	return &c, nil
}

// List devuelve los contratistas ordenados por nombre.
func (r *ContractorRepo) List(limit, offset int) ([]*entity.Contractor, error) {
	query := `
		SELECT id, name, work_item, phone, notes, created_at, updated_at
		FROM contractors
		ORDER BY name ASC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list contractors: %w", err)
	}
	defer rows.Close()

	var contractors []*entity.Contractor
	for rows.Next() {
		var c entity.Contractor
		if err := rows.Scan(&c.ID, &c.Name, &c.WorkItem, &c.Phone, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan contractor: %w", err)
		}
		contractors = append(contractors, &c)
	}
	return contractors, rows.Err()
}

// Update actualiza los datos editables del contratista.
func (r *ContractorRepo) Update(c *entity.Contractor) error {
	query := `
		UPDATE contractors
		SET name = $2, work_item = $3, phone = $4, notes = $5, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, c.ID, c.Name, c.WorkItem, c.Phone, c.Notes)
	if err != nil {
		return fmt.Errorf("update contractor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el contratista. El libro de almacén es inmutable y conserva
// su referencia al contratista: si ya recibió despachos, la llave foránea de
// ledger_entries impide el borrado y se responde ErrConflict.
func (r *ContractorRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM contractors WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete contractor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
