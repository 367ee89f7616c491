package store

import (
	"sort"
	"time"

	"github.com/jhoicas/almacen-obra/internal/application/dto"
	"github.com/jhoicas/almacen-obra/internal/domain/repository"
)

// SummaryUseCase arma el resumen de disponibilidad del almacén (vista de lectura
// del registro de lotes) y lo exporta a XLSX.
type SummaryUseCase struct {
	lotRepo    repository.LotRepository
	ledgerRepo repository.LedgerRepository
	exporter   SummaryExporter
}

// NewSummaryUseCase construye el caso de uso.
func NewSummaryUseCase(lotRepo repository.LotRepository, ledgerRepo repository.LedgerRepository, exporter SummaryExporter) *SummaryUseCase {
	return &SummaryUseCase{lotRepo: lotRepo, ledgerRepo: ledgerRepo, exporter: exporter}
}

// Summary agrega lo disponible por material y precio unitario, como el tablero
// del almacén: suministros y compras suman al mismo renglón.
func (uc *SummaryUseCase) Summary() ([]dto.SummaryRow, error) {
	lots, err := uc.lotRepo.ListAll()
	if err != nil {
		return nil, err
	}

	type key struct{ item, price string }
	grouped := make(map[key]*dto.SummaryRow)
	order := make([]key, 0)
	for _, lot := range lots {
		avail := lot.Available()
		if !avail.IsPositive() {
			continue
		}
		k := key{item: lot.Item, price: lot.UnitPrice.String()}
		row, ok := grouped[k]
		if !ok {
			row = &dto.SummaryRow{Item: lot.Item, UnitPrice: lot.UnitPrice}
			grouped[k] = row
			order = append(order, k)
		}
		row.Available = row.Available.Add(avail)
		row.Total = row.Available.Mul(row.UnitPrice)
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].item != order[j].item {
			return order[i].item < order[j].item
		}
		return order[i].price < order[j].price
	})
	rows := make([]dto.SummaryRow, 0, len(order))
	for _, k := range order {
		rows = append(rows, *grouped[k])
	}
	return rows, nil
}

// ExportSummary genera el XLSX del resumen.
func (uc *SummaryUseCase) ExportSummary() ([]byte, error) {
	rows, err := uc.Summary()
	if err != nil {
		return nil, err
	}
	return uc.exporter.SummaryWorkbook(rows)
}

// Ledger lista los asientos del libro de almacén, filtrables por rango de fechas.
func (uc *SummaryUseCase) Ledger(from, to *time.Time, limit, offset int) ([]dto.LedgerEntryResponse, error) {
	entries, err := uc.ledgerRepo.List(from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ToLedgerEntryResponse(e))
	}
	return out, nil
}
