package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

// IDGenerator entrega surrogate ids (ver pkg/idgen).
type IDGenerator interface {
	NextID() string
}

// Recorder construye y persiste transacciones del kardex. El almacén solo
// garantiza escrituras atómicas de una fila, así que la secuencia
// cabecera+detalle es una saga explícita: toda validación ocurre antes de la
// primera escritura y una falla a mitad de camino se reporta con los pasos ya
// escritos (nunca se deja inconsistencia silenciosa).
type Recorder struct {
	movRepo       repository.MovementTransactionRepository
	warehouseRepo repository.WarehouseRepository
	stockLookup   repository.StockLookup
	seqRepo       repository.SequenceRepository
	ids           IDGenerator
	log           *logger.Logger
}

// NewRecorder construye el caso de uso.
func NewRecorder(
	movRepo repository.MovementTransactionRepository,
	warehouseRepo repository.WarehouseRepository,
	stockLookup repository.StockLookup,
	seqRepo repository.SequenceRepository,
	ids IDGenerator,
	log *logger.Logger,
) *Recorder {
	return &Recorder{
		movRepo:       movRepo,
		warehouseRepo: warehouseRepo,
		stockLookup:   stockLookup,
		seqRepo:       seqRepo,
		ids:           ids,
		log:           log.Component("ledger.recorder"),
	}
}

// LineRequest es la solicitud de una línea de movimiento. PreviousStock y
// NewStock son opcionales: si vienen nil el recorder consulta el stock actual
// al colaborador y aplica la dirección; el conteo físico los pasa explícitos
// (sistema/contado) porque su foto se tomó al capturar la línea.
type LineRequest struct {
	ProductID     string
	VariantID     string
	UomID         string
	BinID         string
	Quantity      decimal.Decimal // > 0 siempre; la dirección la da el tipo
	UnitCost      decimal.Decimal // >= 0
	ReasonCode    string          // obligatorio en ajustes
	PreviousStock *decimal.Decimal
	NewStock      *decimal.Decimal
}

// RecordInput solicitud de registro de una transacción del kardex.
type RecordInput struct {
	TxnType           string
	WarehouseID       string
	TxnDate           time.Time
	TxnTime           string // HH:MM:SS; vacío = hora actual
	Lines             []LineRequest
	ReferenceDocument string
	RelatedID         string
	Remarks           string
	TxnNumber         string // vacío = generar con el consecutivo de la bodega
	CreatedBy         string
}

// Record valida, numera, calcula fotos y totales, y persiste cabecera + N
// detalles en ese orden. Los totales salen de sumar las líneas, nunca de
// re-consultar. No existe camino de actualización: correcciones vía Reverse.
func (r *Recorder) Record(ctx context.Context, input RecordInput) (*entity.MovementTransaction, error) {
	wh, err := r.validate(input)
	if err != nil {
		return nil, err
	}

	txnNumber := input.TxnNumber
	if txnNumber == "" {
		seq, err := r.seqRepo.Next(wh.Code, entity.TxnTypeCode(input.TxnType), input.TxnDate)
		if err != nil {
			return nil, fmt.Errorf("consecutivo de %s: %w", wh.Code, err)
		}
		txnNumber = ledger.FormatDocNumber(wh.Code, entity.TxnTypeCode(input.TxnType), input.TxnDate, seq)
	}

	now := time.Now()
	txnTime := input.TxnTime
	if txnTime == "" {
		txnTime = now.Format("15:04:05")
	}

	inbound := entity.IsInbound(input.TxnType)
	txnID := r.ids.NextID()

	totalQty := decimal.Zero
	totalValue := decimal.Zero
	lines := make([]entity.StockLine, 0, len(input.Lines))
	for _, lr := range input.Lines {
		var prev decimal.Decimal
		if lr.PreviousStock != nil {
			prev = *lr.PreviousStock
		} else {
			prev, err = r.stockLookup.CurrentStock(lr.ProductID, input.WarehouseID, lr.BinID)
			if err != nil {
				return nil, fmt.Errorf("stock actual de %s en %s: %w", lr.ProductID, input.WarehouseID, err)
			}
		}
		newStock := ledger.ApplyMovement(inbound, prev, lr.Quantity)
		if lr.NewStock != nil {
			newStock = *lr.NewStock
		}

		line := entity.StockLine{
			ID:            r.ids.NextID(),
			TxnID:         txnID,
			ProductID:     lr.ProductID,
			VariantID:     lr.VariantID,
			UomID:         lr.UomID,
			BinID:         lr.BinID,
			Quantity:      lr.Quantity,
			UnitCost:      lr.UnitCost,
			TotalCost:     lr.Quantity.Mul(lr.UnitCost),
			PreviousStock: prev,
			NewStock:      newStock,
			ReasonCode:    lr.ReasonCode,
		}
		if inbound {
			line.ToWarehouseID = input.WarehouseID
		} else {
			line.FromWarehouseID = input.WarehouseID
		}
		totalQty = totalQty.Add(lr.Quantity)
		totalValue = totalValue.Add(line.TotalCost)
		lines = append(lines, line)
	}

	txn := &entity.MovementTransaction{
		ID:                txnID,
		TxnNumber:         txnNumber,
		TxnType:           input.TxnType,
		TxnDate:           input.TxnDate,
		TxnTime:           txnTime,
		WarehouseID:       input.WarehouseID,
		TotalItems:        len(lines),
		TotalQuantity:     totalQty,
		TotalValue:        totalValue,
		ReferenceDocument: input.ReferenceDocument,
		RelatedID:         input.RelatedID,
		Remarks:           input.Remarks,
		CreatedAt:         now,
		CreatedBy:         input.CreatedBy,
		Lines:             lines,
	}

	// Primera escritura: cabecera. Si falla, no se escribió nada.
	if err := r.movRepo.CreateHeader(txn); err != nil {
		return nil, &domain.PersistenceError{Table: "movement_transactions", Key: txnNumber, Err: err}
	}
	steps := []string{"movement_transactions:" + txnID}

	for i := range lines {
		if err := r.movRepo.CreateLine(&lines[i]); err != nil {
			perr := &domain.PartialPostingError{TxnID: txnID, TxnNumber: txnNumber, Steps: steps, Err: err}
			r.log.Error().
				Str("txn_id", txnID).
				Str("txn_number", txnNumber).
				Strs("steps", steps).
				Err(err).
				Msg("posteo parcial: quedó cabecera sin todas sus líneas")
			return nil, perr
		}
		steps = append(steps, "stock_lines:"+lines[i].ID)
	}

	r.log.Info().
		Str("txn_number", txnNumber).
		Str("type", input.TxnType).
		Str("warehouse_id", input.WarehouseID).
		Int("lines", len(lines)).
		Msg("transacción de kardex registrada")

	return txn, nil
}

// validate aplica las restricciones de entrada antes de cualquier escritura.
func (r *Recorder) validate(input RecordInput) (*entity.Warehouse, error) {
	if !entity.IsValidTxnType(input.TxnType) {
		return nil, domain.ErrInvalidInput
	}
	if len(input.Lines) == 0 {
		return nil, domain.ErrEmptyLines
	}
	if input.TxnDate.IsZero() {
		return nil, domain.ErrInvalidInput
	}

	isAdjustment := input.TxnType == entity.TxnTypeAdjustmentIn || input.TxnType == entity.TxnTypeAdjustmentOut
	for _, lr := range input.Lines {
		if lr.ProductID == "" || lr.UomID == "" {
			return nil, domain.ErrInvalidInput
		}
		if !lr.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if lr.UnitCost.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if isAdjustment && lr.ReasonCode == "" {
			return nil, domain.ErrInvalidInput
		}
		// La foto se sobreescribe en pareja o no se sobreescribe: mezclar un
		// previo consultado con un nuevo del caller rompe la invariante.
		if (lr.PreviousStock == nil) != (lr.NewStock == nil) {
			return nil, domain.ErrInvalidInput
		}
	}

	wh, err := r.warehouseRepo.GetByID(input.WarehouseID)
	if err != nil {
		return nil, fmt.Errorf("resolver bodega %s: %w", input.WarehouseID, err)
	}
	if wh == nil || !wh.IsActive {
		return nil, domain.ErrInvalidWarehouse
	}
	return wh, nil
}
