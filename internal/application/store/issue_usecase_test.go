package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-obra/internal/application/store"
	"github.com/jhoicas/almacen-obra/internal/domain"
	"github.com/jhoicas/almacen-obra/internal/domain/entity"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(n int) time.Time {
	return time.Date(2025, time.March, n, 0, 0, 0, 0, time.UTC)
}

// seedLot agrega un lote al repo en memoria con fecha y orden de creación dados.
func seedLot(f *fakeTxRunner, item, qty string, date time.Time, order int) *entity.Lot {
	lot := &entity.Lot{
		ID:        uuid.New().String(),
		Item:      item,
		Source:    entity.LotSourceSupply,
		Quantity:  dec(qty),
		Issued:    decimal.Zero,
		UnitPrice: dec("100"),
		Date:      date,
		CreatedAt: date.Add(time.Duration(order) * time.Second),
	}
	f.lotRepo.lots = append(f.lotRepo.lots, lot)
	return lot
}

func seedContractor(f *fakeTxRunner, name string) *entity.Contractor {
	c := &entity.Contractor{ID: uuid.New().String(), Name: name, WorkItem: "mampostería"}
	f.contractorRepo.contractors = append(f.contractorRepo.contractors, c)
	return c
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de despacho FIFO
// ──────────────────────────────────────────────────────────────────────────────

// Despachar 12 con lotes de 5, 5 y 10 debe repartir 5/5/2 en orden de fecha.
func TestIssue_RepartoFIFOEntreVariosLotes(t *testing.T) {
	f := newFakeTxRunner()
	uc := store.NewIssueUseCase(f, f.lotRepo)

	l1 := seedLot(f, "cemento gris", "5", day(1), 0)
	l2 := seedLot(f, "cemento gris", "5", day(2), 0)
	l3 := seedLot(f, "cemento gris", "10", day(3), 0)

	res, err := uc.Issue(context.Background(), store.IssueInput{
		Item:     "cemento gris",
		Quantity: dec("12"),
		Date:     day(10),
		UserName: "almacenista1",
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.True(t, f.lotRepo.issuedOf(l1.ID).Equal(dec("5")), "el lote más antiguo se agota primero")
	assert.True(t, f.lotRepo.issuedOf(l2.ID).Equal(dec("5")), "el segundo lote se agota a continuación")
	assert.True(t, f.lotRepo.issuedOf(l3.ID).Equal(dec("2")), "el lote más reciente aporta el resto")

	require.Len(t, f.ledgerRepo.entries, 1)
	entry := f.ledgerRepo.entries[0]
	assert.Equal(t, entry.ID, res.LedgerEntryID)
	assert.Equal(t, entity.OperationGeneralIssue, entry.Operation)
	assert.True(t, entry.Quantity.Equal(dec("-12")), "la salida se asienta con cantidad negativa")
	assert.Len(t, entry.LotRefs, 3, "el asiento referencia los tres lotes consumidos")
	assert.Equal(t, l1.ID, entry.LotRefs[0].LotID)
	assert.True(t, entry.LotRefs[2].Quantity.Equal(dec("2")))

	assert.Empty(t, res.ContractorIssueID, "salida general: sin despacho de contratista")
	assert.Empty(t, f.issueRepo.issues)
	assert.Empty(t, f.materialRepo.materials)
}

// Desempate FIFO: misma fecha, gana el lote creado primero.
func TestIssue_DesempatePorOrdenDeCreacion(t *testing.T) {
	f := newFakeTxRunner()
	uc := store.NewIssueUseCase(f, f.lotRepo)

	primero := seedLot(f, "arena", "10", day(1), 0)
	segundo := seedLot(f, "arena", "10", day(1), 1)

	_, err := uc.Issue(context.Background(), store.IssueInput{
		Item: "arena", Quantity: dec("4"), Date: day(5),
	})
	require.NoError(t, err)

	assert.True(t, f.lotRepo.issuedOf(primero.ID).Equal(dec("4")))
	assert.True(t, f.lotRepo.issuedOf(segundo.ID).IsZero())
}

// Existencias insuficientes: todo o nada, ningún lote cambia y no hay asiento.
func TestIssue_ExistenciasInsuficientes_NoTocaNada(t *testing.T) {
	f := newFakeTxRunner()
	uc := store.NewIssueUseCase(f, f.lotRepo)

	l1 := seedLot(f, "ladrillo", "5", day(1), 0)
	l2 := seedLot(f, "ladrillo", "10", day(2), 0)

	_, err := uc.Issue(context.Background(), store.IssueInput{
		Item: "ladrillo", Quantity: dec("16"), Date: day(5),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, f.lotRepo.issuedOf(l1.ID).IsZero(), "ningún lote debe quedar despachado parcialmente")
	assert.True(t, f.lotRepo.issuedOf(l2.ID).IsZero())
	assert.Empty(t, f.ledgerRepo.entries, "no debe quedar asiento huérfano")
}

// Despacho a contratista: asiento + despacho + material, las tres escrituras.
func TestIssue_Contratista_CreaDespachoYMaterial(t *testing.T) {
	f := newFakeTxRunner()
	uc := store.NewIssueUseCase(f, f.lotRepo)

	seedLot(f, "cemento gris", "50", day(1), 0)
	c := seedContractor(f, "Construcciones Pérez")

	res, err := uc.Issue(context.Background(), store.IssueInput{
		Item:         "cemento gris",
		Quantity:     dec("10"),
		Date:         day(6),
		ContractorID: c.ID,
		UserName:     "almacenista1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.ContractorIssueID)
	require.NotEmpty(t, res.MaterialEntryID)

	require.Len(t, f.ledgerRepo.entries, 1)
	assert.Equal(t, entity.OperationContractorIssue, f.ledgerRepo.entries[0].Operation)
	assert.Equal(t, c.ID, f.ledgerRepo.entries[0].ContractorID)

	require.Len(t, f.issueRepo.issues, 1)
	issue := f.issueRepo.issues[0]
	assert.Equal(t, res.LedgerEntryID, issue.LedgerEntryID, "el despacho enlaza con su asiento")

	require.Len(t, f.materialRepo.materials, 1)
	material := f.materialRepo.materials[0]
	assert.Equal(t, issue.ID, material.IssueID, "el material enlaza con su despacho")
	assert.Equal(t, "cemento gris", material.Name)
	assert.False(t, material.Deducted(), "el material entra sin descontar")
}

// Contratista inexistente aborta antes de tocar los lotes.
func TestIssue_ContratistaInexistente_RetornaNotFound(t *testing.T) {
	f := newFakeTxRunner()
	uc := store.NewIssueUseCase(f, f.lotRepo)

	lot := seedLot(f, "cemento gris", "50", day(1), 0)

	_, err := uc.Issue(context.Background(), store.IssueInput{
		Item:         "cemento gris",
		Quantity:     dec("10"),
		Date:         day(6),
		ContractorID: uuid.New().String(),
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, f.lotRepo.issuedOf(lot.ID).IsZero())
	assert.Empty(t, f.ledgerRepo.entries)
}

func TestIssue_CantidadNoPositiva_RetornaInvalidQuantity(t *testing.T) {
	f := newFakeTxRunner()
	uc := store.NewIssueUseCase(f, f.lotRepo)

	_, err := uc.Issue(context.Background(), store.IssueInput{
		Item: "cemento gris", Quantity: dec("0"), Date: day(1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = uc.Issue(context.Background(), store.IssueInput{
		Item: "cemento gris", Quantity: dec("-3"), Date: day(1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

// Precio explícito reemplaza el promedio ponderado en asiento y material.
func TestIssue_PrecioExplicitoReemplazaPromedio(t *testing.T) {
	f := newFakeTxRunner()
	uc := store.NewIssueUseCase(f, f.lotRepo)

	seedLot(f, "varilla 3/8", "20", day(1), 0)
	c := seedContractor(f, "Hierros del Norte")

	precio := dec("4500")
	_, err := uc.Issue(context.Background(), store.IssueInput{
		Item:         "varilla 3/8",
		Quantity:     dec("5"),
		Date:         day(3),
		ContractorID: c.ID,
		UnitPrice:    &precio,
	})
	require.NoError(t, err)

	assert.True(t, f.ledgerRepo.entries[0].UnitPrice.Equal(precio))
	assert.True(t, f.ledgerRepo.entries[0].Total.Equal(dec("22500")))
	assert.True(t, f.materialRepo.materials[0].UnitPrice.Equal(precio))
}

// El nombre del material se normaliza antes de buscar lotes.
func TestIssue_NormalizaNombreDelMaterial(t *testing.T) {
	f := newFakeTxRunner()
	uc := store.NewIssueUseCase(f, f.lotRepo)

	lot := seedLot(f, "cemento gris", "10", day(1), 0)

	_, err := uc.Issue(context.Background(), store.IssueInput{
		Item: "  Cemento   gris  ", Quantity: dec("3"), Date: day(2),
	})
	// La normalización colapsa espacios pero no cambia mayúsculas, así que
	// "Cemento gris" no encuentra los lotes de "cemento gris".
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = uc.Issue(context.Background(), store.IssueInput{
		Item: "  cemento   gris  ", Quantity: dec("3"), Date: day(2),
	})
	require.NoError(t, err)
	assert.True(t, f.lotRepo.issuedOf(lot.ID).Equal(dec("3")))
}

// agotamientoEnTransaccionLotRepo emula otro proceso que agota los demás lotes
// del reparto después de la primera escritura de issued.
type agotamientoEnTransaccionLotRepo struct {
	*memLotRepo
	listados []*entity.Lot
}

func (r *agotamientoEnTransaccionLotRepo) ListByItemForUpdate(item string) ([]*entity.Lot, error) {
	lots, err := r.memLotRepo.ListByItemForUpdate(item)
	r.listados = lots
	return lots, err
}

func (r *agotamientoEnTransaccionLotRepo) UpdateIssued(id string, issued decimal.Decimal) error {
	for _, l := range r.listados {
		if l.ID != id {
			l.Issued = l.Quantity
		}
	}
	return r.memLotRepo.UpdateIssued(id, issued)
}

// Si un lote del reparto aparece agotado a mitad de la transacción, el guardia
// issued <= quantity aborta con ErrConsistency y revierte las escrituras previas.
func TestIssue_LoteAgotadoEnTransaccion_RevierteConConsistency(t *testing.T) {
	f := newFakeTxRunner()
	f.lotInTx = &agotamientoEnTransaccionLotRepo{memLotRepo: f.lotRepo}
	uc := store.NewIssueUseCase(f, f.lotRepo)

	l1 := seedLot(f, "cemento gris", "5", day(1), 0)
	l2 := seedLot(f, "cemento gris", "10", day(2), 0)

	_, err := uc.Issue(context.Background(), store.IssueInput{
		Item: "cemento gris", Quantity: dec("8"), Date: day(5),
	})
	require.ErrorIs(t, err, domain.ErrConsistency)

	assert.True(t, f.lotRepo.issuedOf(l1.ID).IsZero(), "la escritura del primer lote se revierte")
	assert.True(t, f.lotRepo.issuedOf(l2.ID).IsZero())
	assert.Empty(t, f.ledgerRepo.entries, "no queda asiento de un despacho abortado")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de disponibilidad y estimación
// ──────────────────────────────────────────────────────────────────────────────

func TestAvailableQuantity_SumaDisponiblesYCeroSinLotes(t *testing.T) {
	f := newFakeTxRunner()
	uc := store.NewIssueUseCase(f, f.lotRepo)

	l1 := seedLot(f, "arena", "10", day(1), 0)
	l1.Issued = dec("4")
	seedLot(f, "arena", "6", day(2), 0)

	total, err := uc.AvailableQuantity("arena")
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("12")), "10-4 + 6 = 12")

	total, err = uc.AvailableQuantity("material inexistente")
	require.NoError(t, err)
	assert.True(t, total.IsZero(), "material sin lotes: cero, sin error")
}

func TestPlanIssue_EstimaSinMutarLotes(t *testing.T) {
	f := newFakeTxRunner()
	uc := store.NewIssueUseCase(f, f.lotRepo)

	l1 := seedLot(f, "grava", "5", day(1), 0)
	seedLot(f, "grava", "5", day(2), 0)

	alloc, err := uc.PlanIssue("grava", dec("7"))
	require.NoError(t, err)
	require.Len(t, alloc.Portions, 2)
	assert.True(t, alloc.Portions[0].Quantity.Equal(dec("5")))
	assert.True(t, alloc.Portions[1].Quantity.Equal(dec("2")))

	assert.True(t, f.lotRepo.issuedOf(l1.ID).IsZero(), "la estimación no despacha")
	assert.Empty(t, f.ledgerRepo.entries)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de entradas y devoluciones
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterSupply_CreaLoteYAsiento(t *testing.T) {
	f := newFakeTxRunner()
	uc := store.NewIntakeUseCase(f, f.lotRepo)

	lot, err := uc.RegisterSupply(context.Background(), store.LotInput{
		Item:       "cemento   gris",
		OriginName: "Cementos Argos",
		Quantity:   dec("100"),
		UnitPrice:  dec("32000"),
		Date:       day(1),
		UserName:   "almacenista1",
	})
	require.NoError(t, err)
	assert.Equal(t, "cemento gris", lot.Item, "el nombre se guarda normalizado")
	assert.Equal(t, entity.LotSourceSupply, lot.Source)
	assert.True(t, lot.Issued.IsZero())

	require.Len(t, f.ledgerRepo.entries, 1)
	entry := f.ledgerRepo.entries[0]
	assert.Equal(t, entity.OperationSupplyIn, entry.Operation)
	assert.True(t, entry.Quantity.Equal(dec("100")), "la entrada se asienta con cantidad positiva")
	require.Len(t, entry.LotRefs, 1)
	assert.Equal(t, lot.ID, entry.LotRefs[0].LotID)
}

func TestRegisterPurchase_UsaOperacionPurchaseIn(t *testing.T) {
	f := newFakeTxRunner()
	uc := store.NewIntakeUseCase(f, f.lotRepo)

	lot, err := uc.RegisterPurchase(context.Background(), store.LotInput{
		Item:       "pegante",
		OriginName: "Ferretería Central",
		Quantity:   dec("20"),
		UnitPrice:  dec("15000"),
		Date:       day(2),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.LotSourcePurchase, lot.Source)
	require.Len(t, f.ledgerRepo.entries, 1)
	assert.Equal(t, entity.OperationPurchaseIn, f.ledgerRepo.entries[0].Operation)
}

func TestRegisterSupply_EntradaInvalida(t *testing.T) {
	f := newFakeTxRunner()
	uc := store.NewIntakeUseCase(f, f.lotRepo)

	_, err := uc.RegisterSupply(context.Background(), store.LotInput{
		Item: "", OriginName: "X", Quantity: dec("1"), UnitPrice: dec("1"), Date: day(1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterSupply(context.Background(), store.LotInput{
		Item: "arena", OriginName: "X", Quantity: dec("0"), UnitPrice: dec("1"), Date: day(1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = uc.RegisterSupply(context.Background(), store.LotInput{
		Item: "arena", OriginName: "X", Quantity: dec("1"), UnitPrice: dec("-1"), Date: day(1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Devolver parte de una compra incrementa issued y asienta RETURN.
func TestRegisterReturn_CompraValida(t *testing.T) {
	f := newFakeTxRunner()
	uc := store.NewIntakeUseCase(f, f.lotRepo)

	lot := seedLot(f, "pegante", "20", day(1), 0)
	lot.Source = entity.LotSourcePurchase
	lot.Issued = dec("5")

	err := uc.RegisterReturn(context.Background(), store.ReturnInput{
		LotID:    lot.ID,
		Quantity: dec("10"),
		Date:     day(4),
		Reason:   "empaques rotos",
	})
	require.NoError(t, err)

	assert.True(t, f.lotRepo.issuedOf(lot.ID).Equal(dec("15")), "issued sube 5+10")
	require.Len(t, f.ledgerRepo.entries, 1)
	entry := f.ledgerRepo.entries[0]
	assert.Equal(t, entity.OperationReturn, entry.Operation)
	assert.True(t, entry.Quantity.Equal(dec("-10")))
	assert.Equal(t, "empaques rotos", entry.Notes)
}

// La devolución no puede exceder lo aún disponible del lote.
func TestRegisterReturn_ExcedeDisponible_RetornaInsufficientStock(t *testing.T) {
	f := newFakeTxRunner()
	uc := store.NewIntakeUseCase(f, f.lotRepo)

	lot := seedLot(f, "pegante", "20", day(1), 0)
	lot.Source = entity.LotSourcePurchase
	lot.Issued = dec("15")

	err := uc.RegisterReturn(context.Background(), store.ReturnInput{
		LotID: lot.ID, Quantity: dec("6"), Date: day(4),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.lotRepo.issuedOf(lot.ID).Equal(dec("15")), "el lote no cambia")
	assert.Empty(t, f.ledgerRepo.entries)
}

// Solo los lotes de compra admiten devolución.
func TestRegisterReturn_LoteDeSuministro_RetornaInvalidInput(t *testing.T) {
	f := newFakeTxRunner()
	uc := store.NewIntakeUseCase(f, f.lotRepo)

	lot := seedLot(f, "arena", "20", day(1), 0) // SUPPLY

	err := uc.RegisterReturn(context.Background(), store.ReturnInput{
		LotID: lot.ID, Quantity: dec("5"), Date: day(4),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de borrado de lotes
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteLot_SinDespachos_Elimina(t *testing.T) {
	f := newFakeTxRunner()
	uc := store.NewIntakeUseCase(f, f.lotRepo)

	lot := seedLot(f, "arena", "10", day(1), 0)

	require.NoError(t, uc.DeleteLot(context.Background(), lot.ID))
	got, err := f.lotRepo.GetByID(lot.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeleteLot_ConDespachos_RetornaConflict(t *testing.T) {
	f := newFakeTxRunner()
	uc := store.NewIntakeUseCase(f, f.lotRepo)

	lot := seedLot(f, "arena", "10", day(1), 0)
	lot.Issued = dec("1")

	err := uc.DeleteLot(context.Background(), lot.ID)
	require.ErrorIs(t, err, domain.ErrConflict, "un lote que ya despachó sostiene asientos del libro")

	got, err := f.lotRepo.GetByID(lot.ID)
	require.NoError(t, err)
	assert.NotNil(t, got, "el lote sigue existiendo")
}

func TestDeleteLot_Inexistente_RetornaNotFound(t *testing.T) {
	f := newFakeTxRunner()
	uc := store.NewIntakeUseCase(f, f.lotRepo)

	err := uc.DeleteLot(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// despachoDuranteEsperaLotRepo emula un despacho que confirma mientras el
// borrado espera el bloqueo de la fila: la primera lectura bloqueada ya ve
// issued > 0, aunque cualquier lectura previa fuera de la transacción viera 0.
type despachoDuranteEsperaLotRepo struct {
	*memLotRepo
	despachado bool
}

func (r *despachoDuranteEsperaLotRepo) GetForUpdate(id string) (*entity.Lot, error) {
	if !r.despachado {
		r.despachado = true
		for _, l := range r.memLotRepo.lots {
			if l.ID == id {
				l.Issued = dec("3")
			}
		}
	}
	return r.memLotRepo.GetForUpdate(id)
}

// La verificación de DeleteLot debe decidir sobre la fila bloqueada, no sobre
// una lectura anterior: si otro despacho consumió el lote durante la espera,
// el borrado se rechaza.
func TestDeleteLot_DespachoConcurrenteDuranteLaEspera_RetornaConflict(t *testing.T) {
	f := newFakeTxRunner()
	f.lotInTx = &despachoDuranteEsperaLotRepo{memLotRepo: f.lotRepo}
	uc := store.NewIntakeUseCase(f, f.lotRepo)

	lot := seedLot(f, "arena", "10", day(1), 0) // issued = 0 antes del bloqueo

	err := uc.DeleteLot(context.Background(), lot.ID)
	require.ErrorIs(t, err, domain.ErrConflict)

	got, err := f.lotRepo.GetByID(lot.ID)
	require.NoError(t, err)
	assert.NotNil(t, got, "el lote que despachó durante la espera no se borra")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests del resumen de disponibilidad
// ──────────────────────────────────────────────────────────────────────────────

func TestSummary_AgrupaPorMaterialYPrecio(t *testing.T) {
	f := newFakeTxRunner()
	uc := store.NewSummaryUseCase(f.lotRepo, f.ledgerRepo, nil)

	a := seedLot(f, "arena", "10", day(1), 0)
	a.UnitPrice = dec("50000")
	b := seedLot(f, "arena", "6", day(2), 0)
	b.UnitPrice = dec("50000")
	b.Issued = dec("2")
	c := seedLot(f, "arena", "5", day(3), 0)
	c.UnitPrice = dec("60000") // otro precio: renglón aparte
	agotado := seedLot(f, "cemento gris", "5", day(1), 0)
	agotado.Issued = dec("5") // sin disponible: no aparece

	rows, err := uc.Summary()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "arena", rows[0].Item)
	assert.True(t, rows[0].UnitPrice.Equal(dec("50000")))
	assert.True(t, rows[0].Available.Equal(dec("14")), "10 + (6-2)")
	assert.True(t, rows[0].Total.Equal(dec("700000")))

	assert.Equal(t, "arena", rows[1].Item)
	assert.True(t, rows[1].UnitPrice.Equal(dec("60000")))
	assert.True(t, rows[1].Available.Equal(dec("5")))
}
