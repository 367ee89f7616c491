package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-obra/internal/domain/entity"
	"github.com/jhoicas/almacen-obra/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

const lotColumns = `id, item, source, origin_name, quantity, issued, unit_price, date, notes, created_at`

// LotRepo implementación de LotRepository sobre PostgreSQL (usable con pool o tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

// Create inserta un lote nuevo.
func (r *LotRepo) Create(lot *entity.Lot) error {
	query := `
		INSERT INTO lots (id, item, source, origin_name, quantity, issued, unit_price, date, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		lot.ID, lot.Item, lot.Source, lot.OriginName,
		lot.Quantity, lot.Issued, lot.UnitPrice, lot.Date, lot.Notes, lot.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create lot: %w", err)
	}
	return nil
}

// GetByID busca un lote por su ID. Devuelve nil si no existe.
func (r *LotRepo) GetByID(id string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get lot")
}

// ListByItem devuelve los lotes de un material en orden FIFO
// (fecha ascendente, desempate por created_at).
func (r *LotRepo) ListByItem(item string) ([]*entity.Lot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM lots WHERE item = $1
		ORDER BY date ASC, created_at ASC`
	rows, err := r.q.Query(context.Background(), query, item)
	if err != nil {
		return nil, fmt.Errorf("list lots by item: %w", err)
	}
	defer rows.Close()
	return scanLots(rows)
}

// ListByItemForUpdate devuelve los lotes de un material en orden FIFO bloqueando
// las filas (SELECT FOR UPDATE). Serializa despachos concurrentes del mismo material.
func (r *LotRepo) ListByItemForUpdate(item string) ([]*entity.Lot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM lots WHERE item = $1
		ORDER BY date ASC, created_at ASC
		FOR UPDATE`
	rows, err := r.q.Query(context.Background(), query, item)
	if err != nil {
		return nil, fmt.Errorf("list lots for update: %w", err)
	}
	defer rows.Close()
	return scanLots(rows)
}

// GetForUpdate busca un lote por ID y bloquea la fila (SELECT FOR UPDATE).
func (r *LotRepo) GetForUpdate(id string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get lot for update")
}

// ListBySource lista los lotes de un origen (SUPPLY o PURCHASE), más recientes primero.
func (r *LotRepo) ListBySource(source string, limit, offset int) ([]*entity.Lot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM lots WHERE source = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, source, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list lots by source: %w", err)
	}
	defer rows.Close()
	return scanLots(rows)
}

// ListAll devuelve todos los lotes en orden FIFO (para el resumen de existencias).
func (r *LotRepo) ListAll() ([]*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots ORDER BY item ASC, date ASC, created_at ASC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list all lots: %w", err)
	}
	defer rows.Close()
	return scanLots(rows)
}

// UpdateIssued fija el contador issued del lote.
func (r *LotRepo) UpdateIssued(id string, issued decimal.Decimal) error {
	query := `UPDATE lots SET issued = $2 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, issued)
	if err != nil {
		return fmt.Errorf("update lot issued: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update lot issued: lote %s no existe", id)
	}
	return nil
}

// Delete elimina un lote. La capa de aplicación verifica antes que issued sea cero.
func (r *LotRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM lots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lot: %w", err)
	}
	return nil
}

func (r *LotRepo) scanOne(row pgx.Row, op string) (*entity.Lot, error) {
	var l entity.Lot
	err := row.Scan(
		&l.ID, &l.Item, &l.Source, &l.OriginName,
		&l.Quantity, &l.Issued, &l.UnitPrice, &l.Date, &l.Notes, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &l, nil
}

func scanLots(rows pgx.Rows) ([]*entity.Lot, error) {
	var lots []*entity.Lot
	for rows.Next() {
		var l entity.Lot
		if err := rows.Scan(
			&l.ID, &l.Item, &l.Source, &l.OriginName,
			&l.Quantity, &l.Issued, &l.UnitPrice, &l.Date, &l.Notes, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		lots = append(lots, &l)
	}
	return lots, rows.Err()
}
