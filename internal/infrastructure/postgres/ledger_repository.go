package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-obra/internal/domain/entity"
	"github.com/jhoicas/almacen-obra/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

const ledgerColumns = `id, date, item, quantity, unit_price, total, operation,
	origin_name, contractor_id, user_name, notes, lot_refs, created_at`

// LedgerRepo implementación de LedgerRepository sobre PostgreSQL.
// El libro es append-only: no expone Update ni Delete.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador del libro de almacén.
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Create inserta un asiento. LotRefs se persiste como JSONB.
func (r *LedgerRepo) Create(entry *entity.LedgerEntry) error {
	refs, err := json.Marshal(entry.LotRefs)
	if err != nil {
		return fmt.Errorf("marshal lot refs: %w", err)
	}
	query := `
		INSERT INTO ledger_entries
			(id, date, item, quantity, unit_price, total, operation,
			 origin_name, contractor_id, user_name, notes, lot_refs, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9::text, '')::uuid, $10, $11, $12, $13)`
	_, err = r.q.Exec(context.Background(), query,
		entry.ID, entry.Date, entry.Item, entry.Quantity, entry.UnitPrice, entry.Total,
		entry.Operation, entry.OriginName, entry.ContractorID, entry.UserName,
		entry.Notes, refs, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create ledger entry: %w", err)
	}
	return nil
}

// GetByID busca un asiento por ID. Devuelve nil si no existe.
func (r *LedgerRepo) GetByID(id string) (*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE id = $1`
	var e entity.LedgerEntry
	var contractorID *string
	var refs []byte
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&e.ID, &e.Date, &e.Item, &e.Quantity, &e.UnitPrice, &e.Total, &e.Operation,
		&e.OriginName, &contractorID, &e.UserName, &e.Notes, &refs, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	if contractorID != nil {
		e.ContractorID = *contractorID
	}
	if err := json.Unmarshal(refs, &e.LotRefs); err != nil {
		return nil, fmt.Errorf("unmarshal lot refs: %w", err)
	}
	return &e, nil
}

// List devuelve los asientos, opcionalmente acotados por rango de fechas,
// más recientes primero.
func (r *LedgerRepo) List(from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE ($1::timestamptz IS NULL OR date >= $1)
		  AND ($2::timestamptz IS NULL OR date <= $2)
		ORDER BY date DESC, created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()
	return scanLedgerEntries(rows)
}

// ListByItem devuelve los asientos de un material, más recientes primero.
func (r *LedgerRepo) ListByItem(item string, limit, offset int) ([]*entity.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries WHERE item = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, item, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries by item: %w", err)
	}
	defer rows.Close()
	return scanLedgerEntries(rows)
}

func scanLedgerEntries(rows pgx.Rows) ([]*entity.LedgerEntry, error) {
	var entries []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		var contractorID *string
		var refs []byte
		if err := rows.Scan(
			&e.ID, &e.Date, &e.Item, &e.Quantity, &e.UnitPrice, &e.Total, &e.Operation,
			&e.OriginName, &contractorID, &e.UserName, &e.Notes, &refs, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		if contractorID != nil {
			e.ContractorID = *contractorID
		}
		if err := json.Unmarshal(refs, &e.LotRefs); err != nil {
			return nil, fmt.Errorf("unmarshal lot refs: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
