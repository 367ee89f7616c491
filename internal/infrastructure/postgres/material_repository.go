package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-obra/internal/domain"
	"github.com/jhoicas/almacen-obra/internal/domain/entity"
	"github.com/jhoicas/almacen-obra/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

const materialColumns = `id, contractor_id, name, quantity, unit_price, date, notes,
	user_name, issue_id, deducted_in_extract_number, deducted_in_extract_id,
	deducted_date, created_at`

// MaterialRepo implementación de MaterialRepository sobre PostgreSQL.
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador de materiales de contratista.
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

// Create inserta un material entregado (sin descontar).
func (r *MaterialRepo) Create(m *entity.MaterialEntry) error {
	query := `
		INSERT INTO contractor_materials
			(id, contractor_id, name, quantity, unit_price, date, notes,
			 user_name, issue_id, deducted_in_extract_number, deducted_in_extract_id,
			 deducted_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9::text, '')::uuid, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.ContractorID, m.Name, m.Quantity, m.UnitPrice, m.Date, m.Notes,
		m.UserName, m.IssueID, m.DeductedInExtractNumber, m.DeductedInExtractID,
		m.DeductedDate, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create material: %w", err)
	}
	return nil
}

// GetByID busca un material por ID. Devuelve nil si no existe.
func (r *MaterialRepo) GetByID(id string) (*entity.MaterialEntry, error) {
	query := `SELECT ` + materialColumns + ` FROM contractor_materials WHERE id = $1`
	return scanMaterial(r.q.QueryRow(context.Background(), query, id), "get material")
}

// ListByContractor devuelve los materiales de un contratista en orden de entrega.
// Con onlyUndeducted devuelve solo los pendientes de descuento.
func (r *MaterialRepo) ListByContractor(contractorID string, onlyUndeducted bool) ([]*entity.MaterialEntry, error) {
	query := `
		SELECT ` + materialColumns + `
		FROM contractor_materials
		WHERE contractor_id = $1
		  AND ($2 = false OR deducted_in_extract_number IS NULL)
		ORDER BY date ASC, created_at ASC`
	rows, err := r.q.Query(context.Background(), query, contractorID, onlyUndeducted)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	var materials []*entity.MaterialEntry
	for rows.Next() {
		m, err := scanMaterialRow(rows)
		if err != nil {
			return nil, err
		}
		materials = append(materials, m)
	}
	return materials, rows.Err()
}

// Delete elimina un material por ID.
func (r *MaterialRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM contractor_materials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FirstUndeductedByName localiza el material sin descontar más antiguo cuyo nombre
// normalizado coincida. La normalización de nombres la aplica la capa de aplicación
// antes de llamar; aquí se compara el texto ya normalizado.
func (r *MaterialRepo) FirstUndeductedByName(contractorID, name string) (*entity.MaterialEntry, error) {
	query := `
		SELECT ` + materialColumns + `
		FROM contractor_materials
		WHERE contractor_id = $1 AND name = $2 AND deducted_in_extract_number IS NULL
		ORDER BY date ASC, created_at ASC
		LIMIT 1
		FOR UPDATE`
	return scanMaterial(r.q.QueryRow(context.Background(), query, contractorID, name), "first undeducted by name")
}

// FindUndeductedByNameAndDate exige además coincidencia por día calendario.
func (r *MaterialRepo) FindUndeductedByNameAndDate(contractorID, name string, date time.Time) (*entity.MaterialEntry, error) {
	query := `
		SELECT ` + materialColumns + `
		FROM contractor_materials
		WHERE contractor_id = $1 AND name = $2
		  AND date::date = $3::date
		  AND deducted_in_extract_number IS NULL
		ORDER BY created_at ASC
		LIMIT 1
		FOR UPDATE`
	return scanMaterial(r.q.QueryRow(context.Background(), query, contractorID, name, date), "find undeducted by name and date")
}

// StampDeduction marca el material como descontado. La cláusula IS NULL garantiza
// que el sello se aplique a lo sumo una vez.
func (r *MaterialRepo) StampDeduction(id string, extractNumber int, extractID string, date time.Time) error {
	query := `
		UPDATE contractor_materials
		SET deducted_in_extract_number = $2,
		    deducted_in_extract_id = NULLIF($3::text, '')::uuid,
		    deducted_date = $4
		WHERE id = $1 AND deducted_in_extract_number IS NULL`
	tag, err := r.q.Exec(context.Background(), query, id, extractNumber, extractID, date)
	if err != nil {
		return fmt.Errorf("stamp deduction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

func scanMaterial(row pgx.Row, op string) (*entity.MaterialEntry, error) {
	var m entity.MaterialEntry
	var issueID *string
	err := row.Scan(
		&m.ID, &m.ContractorID, &m.Name, &m.Quantity, &m.UnitPrice, &m.Date, &m.Notes,
		&m.UserName, &issueID, &m.DeductedInExtractNumber, &m.DeductedInExtractID,
		&m.DeductedDate, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if issueID != nil {
		m.IssueID = *issueID
	}
	return &m, nil
}

func scanMaterialRow(rows pgx.Rows) (*entity.MaterialEntry, error) {
	var m entity.MaterialEntry
	var issueID *string
	if err := rows.Scan(
		&m.ID, &m.ContractorID, &m.Name, &m.Quantity, &m.UnitPrice, &m.Date, &m.Notes,
		&m.UserName, &issueID, &m.DeductedInExtractNumber, &m.DeductedInExtractID,
		&m.DeductedDate, &m.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan material: %w", err)
	}
	if issueID != nil {
		m.IssueID = *issueID
	}
	return &m, nil
}
