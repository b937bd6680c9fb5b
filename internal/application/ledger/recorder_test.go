package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appledger "github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Recorder: la única puerta de entrada al kardex. Los tests cubren las
// invariantes centrales:
//
//   - los totales de cabecera son la suma exacta de las líneas
//   - toda línea cumple nuevo = previo ± cantidad según dirección
//   - la validación completa ocurre antes de la primera escritura
//   - una falla a mitad de la saga cabecera+detalle produce
//     PartialPostingError con los pasos ya escritos
// ──────────────────────────────────────────────────────────────────────────────

type recorderFixture struct {
	movRepo *fakeMovementRepo
	stock   *fakeStockLookup
	seq     *fakeSeqRepo
	rec     *appledger.Recorder
}

func newRecorderFixture() *recorderFixture {
	movRepo := newFakeMovementRepo()
	whRepo := newFakeWarehouseRepo(
		&entity.Warehouse{ID: "wh-a", Code: "BODA", Name: "Bodega A", IsActive: true},
		&entity.Warehouse{ID: "wh-b", Code: "BODB", Name: "Bodega B", IsActive: true},
		&entity.Warehouse{ID: "wh-off", Code: "BODX", Name: "Cerrada", IsActive: false},
	)
	stock := newFakeStockLookup()
	seq := newFakeSeqRepo()
	rec := appledger.NewRecorder(movRepo, whRepo, stock, seq, &fakeIDs{}, logger.Nop())
	return &recorderFixture{movRepo: movRepo, stock: stock, seq: seq, rec: rec}
}

func testDate() time.Time {
	return time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
}

func purchaseInput(lines ...appledger.LineRequest) appledger.RecordInput {
	return appledger.RecordInput{
		TxnType:     entity.TxnTypePurchaseIn,
		WarehouseID: "wh-a",
		TxnDate:     testDate(),
		Lines:       lines,
		CreatedBy:   "usuario-1",
	}
}

func line(productID string, qty, cost int64) appledger.LineRequest {
	return appledger.LineRequest{
		ProductID: productID,
		UomID:     "uom-und",
		Quantity:  decimal.NewFromInt(qty),
		UnitCost:  decimal.NewFromInt(cost),
	}
}

func TestRecord_TotalesSalenDeSumarLasLineas(t *testing.T) {
	f := newRecorderFixture()

	txn, err := f.rec.Record(context.Background(), purchaseInput(
		line("prod-1", 10, 500),
		line("prod-2", 3, 200),
	))
	require.NoError(t, err)

	assert.Equal(t, 2, txn.TotalItems)
	assert.True(t, txn.TotalQuantity.Equal(decimal.NewFromInt(13)),
		"TotalQuantity = Σ cantidades")
	assert.True(t, txn.TotalValue.Equal(decimal.NewFromInt(5600)),
		"TotalValue = Σ cantidad*costo (10*500 + 3*200)")
}

func TestRecord_FotoDeStockPorLinea(t *testing.T) {
	f := newRecorderFixture()
	f.stock.set("prod-1", "wh-a", decimal.NewFromInt(40))

	txn, err := f.rec.Record(context.Background(), purchaseInput(line("prod-1", 10, 500)))
	require.NoError(t, err)

	l := txn.Lines[0]
	assert.True(t, l.PreviousStock.Equal(decimal.NewFromInt(40)))
	assert.True(t, l.NewStock.Equal(decimal.NewFromInt(50)),
		"entrada: nuevo = previo + cantidad")
	assert.Equal(t, "wh-a", l.ToWarehouseID, "entrada puebla solo la bodega destino")
	assert.Empty(t, l.FromWarehouseID)
}

func TestRecord_SalidaRestaYPuebaOrigen(t *testing.T) {
	f := newRecorderFixture()
	f.stock.set("prod-1", "wh-a", decimal.NewFromInt(40))

	txn, err := f.rec.Record(context.Background(), appledger.RecordInput{
		TxnType:     entity.TxnTypeSaleOut,
		WarehouseID: "wh-a",
		TxnDate:     testDate(),
		Lines:       []appledger.LineRequest{line("prod-1", 10, 500)},
	})
	require.NoError(t, err)

	l := txn.Lines[0]
	assert.True(t, l.NewStock.Equal(decimal.NewFromInt(30)),
		"salida: nuevo = previo - cantidad")
	assert.Equal(t, "wh-a", l.FromWarehouseID)
	assert.Empty(t, l.ToWarehouseID)
}

func TestRecord_NumeroConAlcanceDeLaBodega(t *testing.T) {
	f := newRecorderFixture()

	txn1, err := f.rec.Record(context.Background(), purchaseInput(line("prod-1", 1, 100)))
	require.NoError(t, err)
	txn2, err := f.rec.Record(context.Background(), purchaseInput(line("prod-1", 1, 100)))
	require.NoError(t, err)

	assert.Equal(t, "BODA-PIN-20260315-0001", txn1.TxnNumber)
	assert.Equal(t, "BODA-PIN-20260315-0002", txn2.TxnNumber,
		"el consecutivo avanza por (bodega, tipo, día)")
}

func TestRecord_SnapshotExplicitoNoConsultaStock(t *testing.T) {
	f := newRecorderFixture()
	f.stock.set("prod-1", "wh-a", decimal.NewFromInt(999)) // no debe usarse

	prev := decimal.NewFromInt(50)
	newStock := decimal.NewFromInt(45)
	txn, err := f.rec.Record(context.Background(), appledger.RecordInput{
		TxnType:     entity.TxnTypeAdjustmentIn,
		WarehouseID: "wh-a",
		TxnDate:     testDate(),
		Lines: []appledger.LineRequest{{
			ProductID:     "prod-1",
			UomID:         "uom-und",
			Quantity:      decimal.NewFromInt(5),
			UnitCost:      decimal.Zero,
			ReasonCode:    "Physical Count Adjustment: conteo mensual",
			PreviousStock: &prev,
			NewStock:      &newStock,
		}},
	})
	require.NoError(t, err)

	l := txn.Lines[0]
	assert.True(t, l.PreviousStock.Equal(prev), "la foto viene del caller, no del lookup")
	assert.True(t, l.NewStock.Equal(newStock))
}

func TestRecord_FotoAMediasSeRechaza(t *testing.T) {
	f := newRecorderFixture()
	f.stock.set("prod-1", "wh-a", decimal.NewFromInt(50))

	prev := decimal.NewFromInt(50)
	newStock := decimal.NewFromInt(45)
	base := appledger.LineRequest{
		ProductID:  "prod-1",
		UomID:      "uom-und",
		Quantity:   decimal.NewFromInt(5),
		UnitCost:   decimal.Zero,
		ReasonCode: "Physical Count Adjustment: cierre",
	}

	soloNuevo := base
	soloNuevo.NewStock = &newStock
	soloPrevio := base
	soloPrevio.PreviousStock = &prev

	for name, lr := range map[string]appledger.LineRequest{
		"solo nuevo":  soloNuevo,
		"solo previo": soloPrevio,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.rec.Record(context.Background(), appledger.RecordInput{
				TxnType:     entity.TxnTypeAdjustmentIn,
				WarehouseID: "wh-a",
				TxnDate:     testDate(),
				Lines:       []appledger.LineRequest{lr},
			})
			assert.ErrorIs(t, err, domain.ErrInvalidInput,
				"la foto se pasa en pareja o no se pasa: a medias mezcla fuentes")
			assert.Zero(t, f.movRepo.headerWrites)
			assert.Zero(t, f.movRepo.lineWrites)
		})
	}
}

// ── Validación: nada se escribe si algo está mal ──────────────────────────────

func TestRecord_ValidacionAntesDeEscribir(t *testing.T) {
	cases := []struct {
		name  string
		input appledger.RecordInput
		want  error
	}{
		{"tipo desconocido", appledger.RecordInput{
			TxnType: "teleport", WarehouseID: "wh-a", TxnDate: testDate(),
			Lines: []appledger.LineRequest{line("prod-1", 1, 100)},
		}, domain.ErrInvalidInput},
		{"sin líneas", appledger.RecordInput{
			TxnType: entity.TxnTypePurchaseIn, WarehouseID: "wh-a", TxnDate: testDate(),
		}, domain.ErrEmptyLines},
		{"cantidad cero", appledger.RecordInput{
			TxnType: entity.TxnTypePurchaseIn, WarehouseID: "wh-a", TxnDate: testDate(),
			Lines: []appledger.LineRequest{line("prod-1", 0, 100)},
		}, domain.ErrInvalidInput},
		{"costo negativo", appledger.RecordInput{
			TxnType: entity.TxnTypePurchaseIn, WarehouseID: "wh-a", TxnDate: testDate(),
			Lines: []appledger.LineRequest{line("prod-1", 1, -5)},
		}, domain.ErrInvalidInput},
		{"ajuste sin motivo", appledger.RecordInput{
			TxnType: entity.TxnTypeAdjustmentIn, WarehouseID: "wh-a", TxnDate: testDate(),
			Lines: []appledger.LineRequest{line("prod-1", 1, 100)},
		}, domain.ErrInvalidInput},
		{"bodega inexistente", appledger.RecordInput{
			TxnType: entity.TxnTypePurchaseIn, WarehouseID: "wh-nope", TxnDate: testDate(),
			Lines: []appledger.LineRequest{line("prod-1", 1, 100)},
		}, domain.ErrInvalidWarehouse},
		{"bodega inactiva", appledger.RecordInput{
			TxnType: entity.TxnTypePurchaseIn, WarehouseID: "wh-off", TxnDate: testDate(),
			Lines: []appledger.LineRequest{line("prod-1", 1, 100)},
		}, domain.ErrInvalidWarehouse},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newRecorderFixture()
			_, err := f.rec.Record(context.Background(), tc.input)
			assert.ErrorIs(t, err, tc.want)
			assert.Zero(t, f.movRepo.headerWrites, "la validación debe rechazar antes de escribir")
			assert.Zero(t, f.movRepo.lineWrites)
		})
	}
}

// ── Fallas de persistencia ────────────────────────────────────────────────────

func TestRecord_FallaDeCabeceraNoDejaNada(t *testing.T) {
	f := newRecorderFixture()
	f.movRepo.failHeader = true

	_, err := f.rec.Record(context.Background(), purchaseInput(line("prod-1", 1, 100)))

	var perr *domain.PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "movement_transactions", perr.Table)
	assert.Zero(t, f.movRepo.lineWrites, "si la cabecera falla no se intenta ninguna línea")
}

func TestRecord_FallaAMitadDeLasLineasReportaPasos(t *testing.T) {
	f := newRecorderFixture()
	f.movRepo.failLineAfter = 2 // la segunda línea falla

	_, err := f.rec.Record(context.Background(), purchaseInput(
		line("prod-1", 1, 100),
		line("prod-2", 1, 100),
		line("prod-3", 1, 100),
	))

	var perr *domain.PartialPostingError
	require.True(t, errors.As(err, &perr), "la saga a medias debe reportarse tipada")
	assert.NotEmpty(t, perr.TxnID)
	assert.Len(t, perr.Steps, 2, "cabecera + primera línea quedaron escritas")
	assert.Equal(t, "movement_transactions:"+perr.TxnID, perr.Steps[0])
}

// ── Reversa ───────────────────────────────────────────────────────────────────

func TestReverse_CompensaConDireccionOpuesta(t *testing.T) {
	f := newRecorderFixture()
	f.stock.set("prod-1", "wh-a", decimal.NewFromInt(0))

	orig, err := f.rec.Record(context.Background(), purchaseInput(line("prod-1", 10, 500)))
	require.NoError(t, err)

	f.stock.set("prod-1", "wh-a", decimal.NewFromInt(10))
	rev, err := f.rec.Reverse(context.Background(), orig.ID, "recepción errada", "usuario-2")
	require.NoError(t, err)

	assert.Equal(t, entity.TxnTypeAdjustmentOut, rev.TxnType,
		"reversar una entrada emite un ajuste de salida")
	assert.Equal(t, orig.TxnNumber, rev.ReferenceDocument)
	assert.Equal(t, orig.ID, rev.RelatedID)
	require.Len(t, rev.Lines, 1)
	assert.True(t, rev.Lines[0].Quantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, rev.Lines[0].NewStock.Equal(decimal.Zero),
		"la reversa deja el stock como antes de la original")
}

func TestReverse_TransaccionInexistente(t *testing.T) {
	f := newRecorderFixture()
	_, err := f.rec.Reverse(context.Background(), "id-fantasma", "x", "u")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
