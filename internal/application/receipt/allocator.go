package receipt

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appledger "github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

// Allocator reparte un recibo de caja entre las facturas con saldo del
// cliente. Toda la validación (clamps, tope del total recibido) ocurre antes
// de la primera escritura: una asignación que supere el total se rechaza
// completa, nunca se aplica a medias.
type Allocator struct {
	invoiceRepo repository.OutstandingInvoiceRepository
	receiptRepo repository.ReceiptRepository
	seqRepo     repository.SequenceRepository
	ids         appledger.IDGenerator
	scope       string // prefijo SCOPE de los números de recibo
	log         *logger.Logger
}

// NewAllocator construye el asignador.
func NewAllocator(
	invoiceRepo repository.OutstandingInvoiceRepository,
	receiptRepo repository.ReceiptRepository,
	seqRepo repository.SequenceRepository,
	ids appledger.IDGenerator,
	scope string,
	log *logger.Logger,
) *Allocator {
	if scope == "" {
		scope = "FIN"
	}
	return &Allocator{
		invoiceRepo: invoiceRepo,
		receiptRepo: receiptRepo,
		seqRepo:     seqRepo,
		ids:         ids,
		scope:       scope,
		log:         log.Component("receipt.allocator"),
	}
}

// AllocationRequest monto solicitado contra una factura.
type AllocationRequest struct {
	InvoiceID string
	Amount    decimal.Decimal
}

// AllocateInput solicitud de reparto de un recibo. Requests vacío reparte
// automáticamente de la factura más antigua a la más nueva.
type AllocateInput struct {
	CustomerID    string
	ReceiptDate   time.Time
	TotalReceived decimal.Decimal
	Requests      []AllocationRequest
	Remarks       string
	CreatedBy     string
}

// Allocation el resultado por factura.
type Allocation struct {
	InvoiceID     string
	InvoiceNumber string
	AmountApplied decimal.Decimal
	BalanceBefore decimal.Decimal
	NewBalance    decimal.Decimal
	NewStatus     string
}

// AllocateResult salida del reparto.
type AllocateResult struct {
	ReceiptID           string
	ReceiptNumber       string
	Allocations         []Allocation
	BalanceAfterReceipt decimal.Decimal // Σ saldos antes - total recibido
}

// DistributeOldestFirst arma las solicitudes de asignación repartiendo el
// total de la factura más antigua a la más nueva (función pura).
func DistributeOldestFirst(invoices []*entity.OutstandingInvoice, total decimal.Decimal) []AllocationRequest {
	sorted := make([]*entity.OutstandingInvoice, len(invoices))
	copy(sorted, invoices)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].InvoiceDate.Before(sorted[j].InvoiceDate)
	})

	var reqs []AllocationRequest
	remaining := total
	for _, inv := range sorted {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		balance := inv.OutstandingBalance()
		if balance.LessThanOrEqual(decimal.Zero) {
			continue
		}
		amount := decimal.Min(remaining, balance)
		reqs = append(reqs, AllocationRequest{InvoiceID: inv.ID, Amount: amount})
		remaining = remaining.Sub(amount)
	}
	return reqs
}

// Allocate valida y aplica el reparto: crea el recibo, actualiza cada factura
// afectada (una fila por factura), registra las asignaciones y deja el asiento
// financiero sin contabilizar para el módulo contable externo. Una falla
// después de la primera escritura se reporta como posteo parcial con los
// pasos ya escritos.
func (a *Allocator) Allocate(ctx context.Context, input AllocateInput) (*AllocateResult, error) {
	if input.CustomerID == "" || !input.TotalReceived.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if input.ReceiptDate.IsZero() {
		input.ReceiptDate = time.Now()
	}

	invoices, err := a.invoiceRepo.ListOutstandingByCustomer(input.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("cartera de %s: %w", input.CustomerID, err)
	}
	byID := make(map[string]*entity.OutstandingInvoice, len(invoices))
	outstandingBefore := decimal.Zero
	for _, inv := range invoices {
		byID[inv.ID] = inv
		outstandingBefore = outstandingBefore.Add(inv.OutstandingBalance())
	}

	requests := input.Requests
	if len(requests) == 0 {
		requests = DistributeOldestFirst(invoices, input.TotalReceived)
	}

	// Plan de aplicación: clamp por factura y tope global, antes de escribir.
	// Las solicitudes que repiten factura se acumulan en UNA entrada del plan y
	// el clamp corre contra el saldo restante, no contra el original: ninguna
	// factura puede recibir más que su saldo por venir partida en pedazos.
	type planned struct {
		invoice *entity.OutstandingInvoice
		amount  decimal.Decimal
		before  decimal.Decimal
	}
	var plan []*planned
	planByID := make(map[string]*planned)
	totalApplied := decimal.Zero
	for _, req := range requests {
		if req.Amount.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		inv, ok := byID[req.InvoiceID]
		if !ok {
			return nil, domain.ErrNotFound
		}
		p := planByID[req.InvoiceID]
		remaining := inv.OutstandingBalance()
		if p != nil {
			remaining = p.before.Sub(p.amount)
		}
		amount := decimal.Min(req.Amount, remaining)
		if amount.LessThanOrEqual(decimal.Zero) {
			continue
		}
		if p == nil {
			p = &planned{invoice: inv, before: inv.OutstandingBalance()}
			planByID[req.InvoiceID] = p
			plan = append(plan, p)
		}
		p.amount = p.amount.Add(amount)
		totalApplied = totalApplied.Add(amount)
	}
	if totalApplied.GreaterThan(input.TotalReceived) {
		return nil, domain.ErrOverAllocation
	}

	seq, err := a.seqRepo.Next(a.scope, "REC", input.ReceiptDate)
	if err != nil {
		return nil, fmt.Errorf("consecutivo de recibo: %w", err)
	}

	rec := &entity.Receipt{
		ID:                  a.ids.NextID(),
		ReceiptNumber:       ledger.FormatDocNumber(a.scope, "REC", input.ReceiptDate, seq),
		CustomerID:          input.CustomerID,
		ReceiptDate:         input.ReceiptDate,
		TotalReceived:       input.TotalReceived,
		BalanceAfterReceipt: outstandingBefore.Sub(input.TotalReceived),
		Remarks:             input.Remarks,
		CreatedAt:           time.Now(),
		CreatedBy:           input.CreatedBy,
	}
	if err := a.receiptRepo.Create(rec); err != nil {
		return nil, &domain.PersistenceError{Table: "receipts", Key: rec.ReceiptNumber, Err: err}
	}
	steps := []string{"receipts:" + rec.ID}

	result := &AllocateResult{
		ReceiptID:           rec.ID,
		ReceiptNumber:       rec.ReceiptNumber,
		BalanceAfterReceipt: rec.BalanceAfterReceipt,
	}
	for _, p := range plan {
		inv := p.invoice
		inv.AdvanceReceived = inv.AdvanceReceived.Add(p.amount)
		newBalance := inv.GrandTotal.Sub(inv.AdvanceReceived)
		if newBalance.LessThanOrEqual(decimal.Zero) {
			inv.Status = entity.InvoiceStatusPaid
		} else {
			inv.Status = entity.InvoiceStatusPartial
		}
		if err := a.invoiceRepo.ApplyReceipt(inv); err != nil {
			return nil, a.partial(rec, steps, err)
		}
		steps = append(steps, "invoices:"+inv.ID)

		alloc := &entity.ReceiptAllocation{
			ID:            uuid.New().String(),
			ReceiptID:     rec.ID,
			InvoiceID:     inv.ID,
			AmountApplied: p.amount,
			BalanceBefore: p.before,
			BalanceAfter:  newBalance,
			CreatedAt:     time.Now(),
		}
		if err := a.receiptRepo.CreateAllocation(alloc); err != nil {
			return nil, a.partial(rec, steps, err)
		}
		steps = append(steps, "receipt_allocations:"+alloc.ID)

		result.Allocations = append(result.Allocations, Allocation{
			InvoiceID:     inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			AmountApplied: p.amount,
			BalanceBefore: p.before,
			NewBalance:    newBalance,
			NewStatus:     inv.Status,
		})
	}

	stub := &entity.FinanceStub{
		ID:          uuid.New().String(),
		ReceiptID:   rec.ID,
		CustomerID:  input.CustomerID,
		Amount:      input.TotalReceived,
		Description: "Recibo de caja " + rec.ReceiptNumber,
		Posted:      false,
		CreatedAt:   time.Now(),
	}
	if err := a.receiptRepo.CreateFinanceStub(stub); err != nil {
		return nil, a.partial(rec, steps, err)
	}

	a.log.Info().
		Str("receipt_number", rec.ReceiptNumber).
		Str("customer_id", input.CustomerID).
		Int("invoices", len(result.Allocations)).
		Str("total_received", input.TotalReceived.String()).
		Msg("recibo asignado")

	return result, nil
}

func (a *Allocator) partial(rec *entity.Receipt, steps []string, err error) error {
	perr := &domain.PartialPostingError{
		TxnID:     rec.ID,
		TxnNumber: rec.ReceiptNumber,
		Steps:     steps,
		Err:       err,
	}
	a.log.Error().
		Str("receipt_id", rec.ID).
		Str("receipt_number", rec.ReceiptNumber).
		Strs("steps", steps).
		Err(err).
		Msg("reparto de recibo a medias")
	return perr
}
