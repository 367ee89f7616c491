package store_test

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-obra/internal/application/store"
	"github.com/jhoicas/almacen-obra/internal/domain"
	"github.com/jhoicas/almacen-obra/internal/domain/entity"
	"github.com/jhoicas/almacen-obra/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios en memoria para los tests de casos de uso
// ──────────────────────────────────────────────────────────────────────────────

type memLotRepo struct {
	lots []*entity.Lot
}

func (r *memLotRepo) Create(lot *entity.Lot) error {
	cp := *lot
	r.lots = append(r.lots, &cp)
	return nil
}

func (r *memLotRepo) GetByID(id string) (*entity.Lot, error) {
	for _, l := range r.lots {
		if l.ID == id {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memLotRepo) ListByItem(item string) ([]*entity.Lot, error) {
	var out []*entity.Lot
	for _, l := range r.lots {
		if l.Item == item {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memLotRepo) ListByItemForUpdate(item string) ([]*entity.Lot, error) {
	return r.ListByItem(item)
}

func (r *memLotRepo) GetForUpdate(id string) (*entity.Lot, error) {
	return r.GetByID(id)
}

func (r *memLotRepo) ListBySource(source string, limit, offset int) ([]*entity.Lot, error) {
	var out []*entity.Lot
	for _, l := range r.lots {
		if l.Source == source {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memLotRepo) ListAll() ([]*entity.Lot, error) {
	out := make([]*entity.Lot, 0, len(r.lots))
	for _, l := range r.lots {
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memLotRepo) UpdateIssued(id string, issued decimal.Decimal) error {
	for _, l := range r.lots {
		if l.ID == id {
			l.Issued = issued
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memLotRepo) Delete(id string) error {
	for i, l := range r.lots {
		if l.ID == id {
			r.lots = append(r.lots[:i], r.lots[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memLotRepo) issuedOf(id string) decimal.Decimal {
	for _, l := range r.lots {
		if l.ID == id {
			return l.Issued
		}
	}
	return decimal.Zero
}

type memLedgerRepo struct {
	entries []*entity.LedgerEntry
}

func (r *memLedgerRepo) Create(e *entity.LedgerEntry) error {
	cp := *e
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *memLedgerRepo) GetByID(id string) (*entity.LedgerEntry, error) {
	for _, e := range r.entries {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memLedgerRepo) List(from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error) {
	return r.entries, nil
}

func (r *memLedgerRepo) ListByItem(item string, limit, offset int) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for _, e := range r.entries {
		if e.Item == item {
			out = append(out, e)
		}
	}
	return out, nil
}

type memIssueRepo struct {
	issues []*entity.ContractorIssue
}

func (r *memIssueRepo) Create(i *entity.ContractorIssue) error {
	cp := *i
	r.issues = append(r.issues, &cp)
	return nil
}

func (r *memIssueRepo) ListByContractor(contractorID string, limit, offset int) ([]*entity.ContractorIssue, error) {
	var out []*entity.ContractorIssue
	for _, i := range r.issues {
		if i.ContractorID == contractorID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r *memIssueRepo) List(limit, offset int) ([]*entity.ContractorIssue, error) {
	return r.issues, nil
}

type memMaterialRepo struct {
	materials []*entity.MaterialEntry
}

func (r *memMaterialRepo) Create(m *entity.MaterialEntry) error {
	cp := *m
	r.materials = append(r.materials, &cp)
	return nil
}

func (r *memMaterialRepo) GetByID(id string) (*entity.MaterialEntry, error) {
	for _, m := range r.materials {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memMaterialRepo) ListByContractor(contractorID string, onlyUndeducted bool) ([]*entity.MaterialEntry, error) {
	var out []*entity.MaterialEntry
	for _, m := range r.materials {
		if m.ContractorID != contractorID {
			continue
		}
		if onlyUndeducted && m.Deducted() {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *memMaterialRepo) Delete(id string) error {
	for i, m := range r.materials {
		if m.ID == id {
			r.materials = append(r.materials[:i], r.materials[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memMaterialRepo) FirstUndeductedByName(contractorID, name string) (*entity.MaterialEntry, error) {
	var found *entity.MaterialEntry
	for _, m := range r.materials {
		if m.ContractorID != contractorID || m.Name != name || m.Deducted() {
			continue
		}
		if found == nil || m.Date.Before(found.Date) {
			found = m
		}
	}
	return found, nil
}

func (r *memMaterialRepo) FindUndeductedByNameAndDate(contractorID, name string, date time.Time) (*entity.MaterialEntry, error) {
	for _, m := range r.materials {
		if m.ContractorID == contractorID && m.Name == name && !m.Deducted() &&
			m.Date.Format("2006-01-02") == date.Format("2006-01-02") {
			return m, nil
		}
	}
	return nil, nil
}

func (r *memMaterialRepo) StampDeduction(id string, extractNumber int, extractID string, date time.Time) error {
	for _, m := range r.materials {
		if m.ID == id {
			if m.Deducted() {
				return domain.ErrConflict
			}
			n := extractNumber
			d := date
			m.DeductedInExtractNumber = &n
			m.DeductedDate = &d
			if extractID != "" {
				eid := extractID
				m.DeductedInExtractID = &eid
			}
			return nil
		}
	}
	return domain.ErrConflict
}

type memContractorRepo struct {
	contractors []*entity.Contractor
}

func (r *memContractorRepo) Create(c *entity.Contractor) error {
	cp := *c
	r.contractors = append(r.contractors, &cp)
	return nil
}

func (r *memContractorRepo) GetByID(id string) (*entity.Contractor, error) {
	for _, c := range r.contractors {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memContractorRepo) List(limit, offset int) ([]*entity.Contractor, error) {
	return r.contractors, nil
}

func (r *memContractorRepo) Update(c *entity.Contractor) error {
	for i, existing := range r.contractors {
		if existing.ID == c.ID {
			cp := *c
			r.contractors[i] = &cp
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memContractorRepo) Delete(id string) error {
	for i, c := range r.contractors {
		if c.ID == id {
			r.contractors = append(r.contractors[:i], r.contractors[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner falso: ejecuta el callback sobre los repos en memoria y, si falla,
// restaura el estado previo (emula el rollback de la transacción real).
// ──────────────────────────────────────────────────────────────────────────────

type fakeTxRunner struct {
	lotRepo        *memLotRepo
	ledgerRepo     *memLedgerRepo
	issueRepo      *memIssueRepo
	materialRepo   *memMaterialRepo
	contractorRepo *memContractorRepo

	// lotInTx reemplaza al repo de lotes dentro del callback; sirve para
	// interponer escrituras de otro proceso a mitad de la transacción.
	lotInTx repository.LotRepository
}

var _ store.TxRunner = (*fakeTxRunner)(nil)

func newFakeTxRunner() *fakeTxRunner {
	return &fakeTxRunner{
		lotRepo:        &memLotRepo{},
		ledgerRepo:     &memLedgerRepo{},
		issueRepo:      &memIssueRepo{},
		materialRepo:   &memMaterialRepo{},
		contractorRepo: &memContractorRepo{},
	}
}

func (f *fakeTxRunner) Run(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	ledgerRepo repository.LedgerRepository,
	issueRepo repository.ContractorIssueRepository,
	materialRepo repository.MaterialRepository,
	contractorRepo repository.ContractorRepository,
) error) error {
	lotRepo := repository.LotRepository(f.lotRepo)
	if f.lotInTx != nil {
		lotRepo = f.lotInTx
	}
	snapshot := f.snapshot()
	if err := fn(lotRepo, f.ledgerRepo, f.issueRepo, f.materialRepo, f.contractorRepo); err != nil {
		f.restore(snapshot)
		return err
	}
	return nil
}

type txSnapshot struct {
	lots      []*entity.Lot
	entries   []*entity.LedgerEntry
	issues    []*entity.ContractorIssue
	materials []*entity.MaterialEntry
}

func (f *fakeTxRunner) snapshot() txSnapshot {
	s := txSnapshot{}
	for _, l := range f.lotRepo.lots {
		cp := *l
		s.lots = append(s.lots, &cp)
	}
	for _, e := range f.ledgerRepo.entries {
		cp := *e
		s.entries = append(s.entries, &cp)
	}
	for _, i := range f.issueRepo.issues {
		cp := *i
		s.issues = append(s.issues, &cp)
	}
	for _, m := range f.materialRepo.materials {
		cp := *m
		s.materials = append(s.materials, &cp)
	}
	return s
}

func (f *fakeTxRunner) restore(s txSnapshot) {
	f.lotRepo.lots = s.lots
	f.ledgerRepo.entries = s.entries
	f.issueRepo.issues = s.issues
	f.materialRepo.materials = s.materials
}
