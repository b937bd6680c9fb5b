package receipt_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appreceipt "github.com/jhoicas/Kardex-api/internal/application/receipt"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Allocator de recibos: reparte un pago entre la cartera del cliente.
//
//   - cada asignación se recorta al saldo de su factura (clamp)
//   - si lo asignado supera el total recibido se rechaza TODO antes de escribir
//   - el estado de la factura transiciona a partial o paid según el saldo
//   - BalanceAfterReceipt = Σ saldos antes - total recibido
//   - sin asignaciones explícitas se reparte de la más antigua a la más nueva
// ──────────────────────────────────────────────────────────────────────────────

type allocFixture struct {
	invoices *fakeInvoiceRepo
	receipts *fakeReceiptRepo
	alloc    *appreceipt.Allocator
}

func newAllocFixture(invs ...*entity.OutstandingInvoice) *allocFixture {
	invoiceRepo := newFakeInvoiceRepo(invs...)
	receiptRepo := newFakeReceiptRepo()
	alloc := appreceipt.NewAllocator(
		invoiceRepo, receiptRepo, newFakeSeqRepo(), &fakeIDs{}, "FIN", logger.Nop(),
	)
	return &allocFixture{invoices: invoiceRepo, receipts: receiptRepo, alloc: alloc}
}

func invoice(id string, date time.Time, total, advance int64) *entity.OutstandingInvoice {
	status := entity.InvoiceStatusUnpaid
	if advance > 0 {
		status = entity.InvoiceStatusPartial
	}
	return &entity.OutstandingInvoice{
		ID:              id,
		InvoiceNumber:   "FV-" + id,
		CustomerID:      "cli-1",
		InvoiceDate:     date,
		GrandTotal:      decimal.NewFromInt(total),
		AdvanceReceived: decimal.NewFromInt(advance),
		Status:          status,
	}
}

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestAllocate_ClampAlSaldoDeLaFactura(t *testing.T) {
	f := newAllocFixture(invoice("f1", day(1), 1000, 800)) // saldo 200

	result, err := f.alloc.Allocate(context.Background(), appreceipt.AllocateInput{
		CustomerID:    "cli-1",
		ReceiptDate:   day(15),
		TotalReceived: decimal.NewFromInt(500),
		Requests: []appreceipt.AllocationRequest{
			{InvoiceID: "f1", Amount: decimal.NewFromInt(500)},
		},
	})
	require.NoError(t, err)

	require.Len(t, result.Allocations, 1)
	a := result.Allocations[0]
	assert.True(t, a.AmountApplied.Equal(decimal.NewFromInt(200)),
		"la asignación se recorta al saldo, no se sobrepaga la factura")
	assert.True(t, a.NewBalance.IsZero())
	assert.Equal(t, entity.InvoiceStatusPaid, a.NewStatus)
}

func TestAllocate_SobreAsignacionRechazaTodo(t *testing.T) {
	f := newAllocFixture(
		invoice("f1", day(1), 1000, 0),
		invoice("f2", day(2), 1000, 0),
	)

	_, err := f.alloc.Allocate(context.Background(), appreceipt.AllocateInput{
		CustomerID:    "cli-1",
		ReceiptDate:   day(15),
		TotalReceived: decimal.NewFromInt(500),
		Requests: []appreceipt.AllocationRequest{
			{InvoiceID: "f1", Amount: decimal.NewFromInt(400)},
			{InvoiceID: "f2", Amount: decimal.NewFromInt(300)},
		},
	})

	assert.ErrorIs(t, err, domain.ErrOverAllocation)
	assert.Empty(t, f.receipts.receipts, "nada se escribe: la sobre-asignación se rechaza completa")
	assert.True(t, f.invoices.byID["f1"].AdvanceReceived.IsZero())
}

func TestAllocate_FacturaRepetidaSeAcumulaYClampa(t *testing.T) {
	f := newAllocFixture(invoice("f1", day(1), 1000, 800)) // saldo 200

	result, err := f.alloc.Allocate(context.Background(), appreceipt.AllocateInput{
		CustomerID:    "cli-1",
		ReceiptDate:   day(15),
		TotalReceived: decimal.NewFromInt(300),
		Requests: []appreceipt.AllocationRequest{
			{InvoiceID: "f1", Amount: decimal.NewFromInt(150)},
			{InvoiceID: "f1", Amount: decimal.NewFromInt(150)},
		},
	})
	require.NoError(t, err)

	require.Len(t, result.Allocations, 1,
		"las solicitudes repetidas de una factura se funden en una sola aplicación")
	a := result.Allocations[0]
	assert.True(t, a.AmountApplied.Equal(decimal.NewFromInt(200)),
		"el clamp corre contra el saldo restante: partir la solicitud no lo evade")
	assert.True(t, a.NewBalance.IsZero(), "el saldo jamás queda negativo")
	assert.Equal(t, entity.InvoiceStatusPaid, a.NewStatus)

	stored := f.invoices.byID["f1"]
	assert.True(t, stored.AdvanceReceived.Equal(decimal.NewFromInt(1000)),
		"el anticipo nunca supera el total de la factura")
}

func TestAllocate_FacturaRepetidaNoEvadeElTopeGlobal(t *testing.T) {
	f := newAllocFixture(invoice("f1", day(1), 1000, 0))

	_, err := f.alloc.Allocate(context.Background(), appreceipt.AllocateInput{
		CustomerID:    "cli-1",
		ReceiptDate:   day(15),
		TotalReceived: decimal.NewFromInt(200),
		Requests: []appreceipt.AllocationRequest{
			{InvoiceID: "f1", Amount: decimal.NewFromInt(150)},
			{InvoiceID: "f1", Amount: decimal.NewFromInt(150)},
		},
	})

	assert.ErrorIs(t, err, domain.ErrOverAllocation,
		"el agregado por factura también cuenta contra el total recibido")
	assert.Empty(t, f.receipts.receipts)
	assert.True(t, f.invoices.byID["f1"].AdvanceReceived.IsZero())
}

func TestAllocate_EstadosPartialYPaid(t *testing.T) {
	f := newAllocFixture(
		invoice("f1", day(1), 300, 0),
		invoice("f2", day(2), 1000, 0),
	)

	result, err := f.alloc.Allocate(context.Background(), appreceipt.AllocateInput{
		CustomerID:    "cli-1",
		ReceiptDate:   day(15),
		TotalReceived: decimal.NewFromInt(700),
		Requests: []appreceipt.AllocationRequest{
			{InvoiceID: "f1", Amount: decimal.NewFromInt(300)},
			{InvoiceID: "f2", Amount: decimal.NewFromInt(400)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.InvoiceStatusPaid, result.Allocations[0].NewStatus)
	assert.Equal(t, entity.InvoiceStatusPartial, result.Allocations[1].NewStatus)
	assert.True(t, result.Allocations[1].NewBalance.Equal(decimal.NewFromInt(600)))
}

func TestAllocate_BalanceAfterReceipt(t *testing.T) {
	// cartera: 300 + 1000 = 1300 de saldo
	f := newAllocFixture(
		invoice("f1", day(1), 300, 0),
		invoice("f2", day(2), 1000, 0),
	)

	result, err := f.alloc.Allocate(context.Background(), appreceipt.AllocateInput{
		CustomerID:    "cli-1",
		ReceiptDate:   day(15),
		TotalReceived: decimal.NewFromInt(700),
	})
	require.NoError(t, err)

	assert.True(t, result.BalanceAfterReceipt.Equal(decimal.NewFromInt(600)),
		"saldo después = Σ saldos antes (1300) - total recibido (700)")
}

func TestAllocate_SinAsignacionesReparteLaMasAntiguaPrimero(t *testing.T) {
	f := newAllocFixture(
		invoice("reciente", day(20), 500, 0),
		invoice("antigua", day(1), 300, 0),
		invoice("media", day(10), 400, 0),
	)

	result, err := f.alloc.Allocate(context.Background(), appreceipt.AllocateInput{
		CustomerID:    "cli-1",
		ReceiptDate:   day(25),
		TotalReceived: decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	require.Len(t, result.Allocations, 2)
	assert.Equal(t, "antigua", result.Allocations[0].InvoiceID)
	assert.True(t, result.Allocations[0].AmountApplied.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, "media", result.Allocations[1].InvoiceID)
	assert.True(t, result.Allocations[1].AmountApplied.Equal(decimal.NewFromInt(200)),
		"el sobrante cae en la siguiente factura por fecha")
}

func TestAllocate_FacturaAjena(t *testing.T) {
	f := newAllocFixture(invoice("f1", day(1), 1000, 0))

	_, err := f.alloc.Allocate(context.Background(), appreceipt.AllocateInput{
		CustomerID:    "cli-1",
		ReceiptDate:   day(15),
		TotalReceived: decimal.NewFromInt(100),
		Requests: []appreceipt.AllocationRequest{
			{InvoiceID: "de-otro-cliente", Amount: decimal.NewFromInt(100)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAllocate_MontoNegativo(t *testing.T) {
	f := newAllocFixture(invoice("f1", day(1), 1000, 0))

	_, err := f.alloc.Allocate(context.Background(), appreceipt.AllocateInput{
		CustomerID:    "cli-1",
		ReceiptDate:   day(15),
		TotalReceived: decimal.NewFromInt(100),
		Requests: []appreceipt.AllocationRequest{
			{InvoiceID: "f1", Amount: decimal.NewFromInt(-50)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAllocate_DejaAsientoFinancieroSinContabilizar(t *testing.T) {
	f := newAllocFixture(invoice("f1", day(1), 1000, 0))

	result, err := f.alloc.Allocate(context.Background(), appreceipt.AllocateInput{
		CustomerID:    "cli-1",
		ReceiptDate:   day(15),
		TotalReceived: decimal.NewFromInt(400),
	})
	require.NoError(t, err)

	require.Len(t, f.receipts.stubs, 1)
	stub := f.receipts.stubs[0]
	assert.False(t, stub.Posted, "el módulo contable externo lo contabiliza, no este")
	assert.Equal(t, result.ReceiptID, stub.ReceiptID)
	assert.True(t, stub.Amount.Equal(decimal.NewFromInt(400)))
}

func TestAllocate_FallaAMitadReportaPasos(t *testing.T) {
	f := newAllocFixture(
		invoice("f1", day(1), 300, 0),
		invoice("f2", day(2), 1000, 0),
	)
	f.invoices.failAfter = 2 // el segundo ApplyReceipt falla

	_, err := f.alloc.Allocate(context.Background(), appreceipt.AllocateInput{
		CustomerID:    "cli-1",
		ReceiptDate:   day(15),
		TotalReceived: decimal.NewFromInt(700),
	})

	var perr *domain.PartialPostingError
	require.True(t, errors.As(err, &perr))
	assert.NotEmpty(t, perr.TxnID, "el id del recibo ya escrito viaja en el error")
	assert.Len(t, perr.Steps, 3, "recibo + primera factura + primera asignación")
}

// ── fakes ─────────────────────────────────────────────────────────────────────

type fakeInvoiceRepo struct {
	byID      map[string]*entity.OutstandingInvoice
	applies   int
	failAfter int // falla el ApplyReceipt número N (1-based); 0 = nunca
}

func newFakeInvoiceRepo(invs ...*entity.OutstandingInvoice) *fakeInvoiceRepo {
	m := make(map[string]*entity.OutstandingInvoice, len(invs))
	for _, inv := range invs {
		m[inv.ID] = inv
	}
	return &fakeInvoiceRepo{byID: m}
}

func (f *fakeInvoiceRepo) GetByID(id string) (*entity.OutstandingInvoice, error) {
	return f.byID[id], nil
}

func (f *fakeInvoiceRepo) ListOutstandingByCustomer(customerID string) ([]*entity.OutstandingInvoice, error) {
	var out []*entity.OutstandingInvoice
	for _, inv := range f.byID {
		if inv.CustomerID == customerID && inv.Status != entity.InvoiceStatusPaid {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeInvoiceRepo) ApplyReceipt(inv *entity.OutstandingInvoice) error {
	f.applies++
	if f.failAfter > 0 && f.applies >= f.failAfter {
		return errors.New("storage caído")
	}
	f.byID[inv.ID] = inv
	return nil
}

type fakeReceiptRepo struct {
	receipts map[string]*entity.Receipt
	allocs   []*entity.ReceiptAllocation
	stubs    []*entity.FinanceStub
}

func newFakeReceiptRepo() *fakeReceiptRepo {
	return &fakeReceiptRepo{receipts: make(map[string]*entity.Receipt)}
}

func (f *fakeReceiptRepo) Create(r *entity.Receipt) error {
	cp := *r
	f.receipts[r.ID] = &cp
	return nil
}

func (f *fakeReceiptRepo) CreateAllocation(a *entity.ReceiptAllocation) error {
	cp := *a
	f.allocs = append(f.allocs, &cp)
	return nil
}

func (f *fakeReceiptRepo) CreateFinanceStub(s *entity.FinanceStub) error {
	cp := *s
	f.stubs = append(f.stubs, &cp)
	return nil
}

func (f *fakeReceiptRepo) GetByID(id string) (*entity.Receipt, error) {
	return f.receipts[id], nil
}

func (f *fakeReceiptRepo) ListAllocations(receiptID string) ([]*entity.ReceiptAllocation, error) {
	var out []*entity.ReceiptAllocation
	for _, a := range f.allocs {
		if a.ReceiptID == receiptID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeSeqRepo struct {
	seqs map[string]int64
}

func newFakeSeqRepo() *fakeSeqRepo {
	return &fakeSeqRepo{seqs: make(map[string]int64)}
}

func (f *fakeSeqRepo) Next(scope, typeCode string, date time.Time) (int64, error) {
	key := scope + "|" + typeCode + "|" + date.Format("20060102")
	f.seqs[key]++
	return f.seqs[key], nil
}

type fakeIDs struct {
	n int
}

func (f *fakeIDs) NextID() string {
	f.n++
	return fmt.Sprintf("id-%04d", f.n)
}
