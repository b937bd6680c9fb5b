package receiving

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	appledger "github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

// LedgerPoster es lo que el receptor necesita del kardex (lo implementa
// ledger.Recorder): postear la entrada por compra de las cantidades aceptadas.
type LedgerPoster interface {
	Record(ctx context.Context, input appledger.RecordInput) (*entity.MovementTransaction, error)
}

// Allocator cierra líneas de orden de compra contra una recepción (GRN):
// acumula recibido, descuenta pendiente y transiciona el estado de la línea.
// Solo lo aceptado entra al kardex; lo rechazado queda anotado en la línea y
// jamás toca stock.
type Allocator struct {
	poRepo        repository.PurchaseOrderRepository
	warehouseRepo repository.WarehouseRepository
	seqRepo       repository.SequenceRepository
	poster        LedgerPoster
	log           *logger.Logger
}

// NewAllocator construye el receptor.
func NewAllocator(
	poRepo repository.PurchaseOrderRepository,
	warehouseRepo repository.WarehouseRepository,
	seqRepo repository.SequenceRepository,
	poster LedgerPoster,
	log *logger.Logger,
) *Allocator {
	return &Allocator{
		poRepo:        poRepo,
		warehouseRepo: warehouseRepo,
		seqRepo:       seqRepo,
		poster:        poster,
		log:           log.Component("receiving.allocator"),
	}
}

// ReceiveLine cantidades de una línea recibida. AcceptedQty <= ReceivedQty;
// la diferencia es rechazo.
type ReceiveLine struct {
	PODetailID  string
	ReceivedQty decimal.Decimal
	AcceptedQty decimal.Decimal
}

// ReceiveInput solicitud de recepción contra una orden de compra.
type ReceiveInput struct {
	POID        string
	WarehouseID string
	ReceiptDate time.Time
	Lines       []ReceiveLine
	Remarks     string
	CreatedBy   string
}

// ReceiveResult salida de la recepción.
type ReceiveResult struct {
	GRNNumber    string
	Txn          *entity.MovementTransaction // nil si nada fue aceptado
	UpdatedLines []*entity.PurchaseOrderLine
}

// Receive valida TODAS las líneas antes de escribir (una aceptación que deje
// pendiente negativo rechaza la recepción completa con ErrOverReceipt), postea
// una sola transacción purchase_in con lo aceptado y actualiza cada línea de
// la orden. Una falla después del posteo se reporta como posteo parcial.
func (a *Allocator) Receive(ctx context.Context, input ReceiveInput) (*ReceiveResult, error) {
	if input.POID == "" || input.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(input.Lines) == 0 {
		return nil, domain.ErrEmptyLines
	}
	if input.ReceiptDate.IsZero() {
		input.ReceiptDate = time.Now()
	}

	wh, err := a.warehouseRepo.GetByID(input.WarehouseID)
	if err != nil {
		return nil, fmt.Errorf("resolver bodega: %w", err)
	}
	if wh == nil || !wh.IsActive {
		return nil, domain.ErrInvalidWarehouse
	}

	// Cargar y validar todas las líneas antes de cualquier escritura. Las
	// solicitudes que repiten la misma línea de la orden se acumulan en UNA
	// entrada del plan: el tope de pendiente corre contra el agregado y la
	// línea se actualiza una sola vez (sin pisar la actualización anterior).
	type planned struct {
		line     *entity.PurchaseOrderLine
		received decimal.Decimal
		accepted decimal.Decimal
	}
	plan := make([]*planned, 0, len(input.Lines))
	planByID := make(map[string]*planned)
	for _, rl := range input.Lines {
		if rl.ReceivedQty.LessThan(decimal.Zero) || rl.AcceptedQty.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if rl.AcceptedQty.GreaterThan(rl.ReceivedQty) {
			return nil, domain.ErrInvalidInput
		}
		p := planByID[rl.PODetailID]
		if p == nil {
			line, err := a.poRepo.GetLine(rl.PODetailID)
			if err != nil {
				return nil, fmt.Errorf("cargar línea %s: %w", rl.PODetailID, err)
			}
			if line == nil || line.POID != input.POID {
				return nil, domain.ErrNotFound
			}
			p = &planned{line: line}
			planByID[rl.PODetailID] = p
			plan = append(plan, p)
		}
		p.received = p.received.Add(rl.ReceivedQty)
		p.accepted = p.accepted.Add(rl.AcceptedQty)
		if p.accepted.GreaterThan(p.line.PendingQuantity) {
			return nil, domain.ErrOverReceipt
		}
	}

	seq, err := a.seqRepo.Next(wh.Code, "GRN", input.ReceiptDate)
	if err != nil {
		return nil, fmt.Errorf("consecutivo de GRN: %w", err)
	}
	grnNumber := ledger.FormatDocNumber(wh.Code, "GRN", input.ReceiptDate, seq)

	// Solo las líneas con aceptado > 0 entran al kardex.
	var reqs []appledger.LineRequest
	for _, p := range plan {
		if !p.accepted.GreaterThan(decimal.Zero) {
			continue
		}
		reqs = append(reqs, appledger.LineRequest{
			ProductID: p.line.ProductID,
			VariantID: p.line.VariantID,
			UomID:     p.line.UomID,
			Quantity:  p.accepted,
			UnitCost:  p.line.UnitPrice,
		})
	}

	var txn *entity.MovementTransaction
	if len(reqs) > 0 {
		txn, err = a.poster.Record(ctx, appledger.RecordInput{
			TxnType:           entity.TxnTypePurchaseIn,
			WarehouseID:       input.WarehouseID,
			TxnDate:           input.ReceiptDate,
			Lines:             reqs,
			ReferenceDocument: grnNumber,
			RelatedID:         input.POID,
			Remarks:           input.Remarks,
			CreatedBy:         input.CreatedBy,
		})
		if err != nil {
			return nil, err
		}
	}

	steps := []string{}
	if txn != nil {
		steps = append(steps, "movement_transactions:"+txn.ID)
	}

	result := &ReceiveResult{GRNNumber: grnNumber, Txn: txn}
	now := time.Now()
	for _, p := range plan {
		line := p.line
		line.ReceivedQuantity = line.ReceivedQuantity.Add(p.accepted)
		line.PendingQuantity = line.PendingQuantity.Sub(p.accepted)
		line.RejectedQuantity = line.RejectedQuantity.Add(p.received.Sub(p.accepted))
		line.LineStatus = lineStatus(line)
		line.UpdatedAt = now

		if err := a.poRepo.UpdateLine(line); err != nil {
			perr := &domain.PartialPostingError{
				TxnID:     input.POID,
				TxnNumber: grnNumber,
				Steps:     steps,
				Err:       err,
			}
			a.log.Error().
				Str("grn_number", grnNumber).
				Str("po_id", input.POID).
				Strs("steps", steps).
				Err(err).
				Msg("recepción a medias: líneas de la orden sin actualizar")
			return nil, perr
		}
		steps = append(steps, "purchase_order_lines:"+line.ID)
		result.UpdatedLines = append(result.UpdatedLines, line)
	}

	a.log.Info().
		Str("grn_number", grnNumber).
		Str("po_id", input.POID).
		Int("lines", len(plan)).
		Msg("recepción registrada")

	return result, nil
}

// lineStatus deriva el estado de la línea desde sus acumulados.
func lineStatus(line *entity.PurchaseOrderLine) string {
	switch {
	case line.PendingQuantity.LessThanOrEqual(decimal.Zero):
		return entity.POLineStatusFullyReceived
	case line.ReceivedQuantity.GreaterThan(decimal.Zero):
		return entity.POLineStatusPartiallyReceived
	default:
		return entity.POLineStatusOpen
	}
}
