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

// TransferCoordinator emite el par de transacciones de un traslado lógico:
// pata de salida en la bodega origen y pata de entrada en la destino. Ambas
// comparten el número base y el referenceDocument para poder cruzarlas; la
// entrada lleva el sufijo -IN. Cada pata consulta el stock real de SU bodega
// (la destino nunca se asume en cero).
type TransferCoordinator struct {
	recorder      *Recorder
	warehouseRepo repository.WarehouseRepository
	seqRepo       repository.SequenceRepository
	log           *logger.Logger
}

// NewTransferCoordinator construye el coordinador.
func NewTransferCoordinator(
	recorder *Recorder,
	warehouseRepo repository.WarehouseRepository,
	seqRepo repository.SequenceRepository,
	log *logger.Logger,
) *TransferCoordinator {
	return &TransferCoordinator{
		recorder:      recorder,
		warehouseRepo: warehouseRepo,
		seqRepo:       seqRepo,
		log:           log.Component("ledger.transfer"),
	}
}

// TransferLine una línea del traslado (la cantidad sale de origen y entra a destino).
type TransferLine struct {
	ProductID string
	VariantID string
	UomID     string
	BinID     string
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
}

// TransferInput solicitud de traslado entre bodegas.
type TransferInput struct {
	FromWarehouseID string
	ToWarehouseID   string
	TxnDate         time.Time
	TxnTime         string
	Lines           []TransferLine
	Reason          string
	CreatedBy       string
}

// TransferResult las dos patas posteadas de un traslado.
type TransferResult struct {
	OutTxn *entity.MovementTransaction
	InTxn  *entity.MovementTransaction
}

// Transfer postea la pata de salida y después la de entrada. Si la salida
// quedó posteada y la entrada falla, el traslado queda a medias y se devuelve
// PartialTransferError con el id de la pata creada para que un operario o un
// job compensador lo complete o lo reverse.
func (c *TransferCoordinator) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	if input.FromWarehouseID == "" || input.ToWarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.FromWarehouseID == input.ToWarehouseID {
		return nil, domain.ErrSameWarehouse
	}
	if len(input.Lines) == 0 {
		return nil, domain.ErrEmptyLines
	}

	fromWh, err := c.warehouseRepo.GetByID(input.FromWarehouseID)
	if err != nil {
		return nil, fmt.Errorf("resolver bodega origen: %w", err)
	}
	toWh, err := c.warehouseRepo.GetByID(input.ToWarehouseID)
	if err != nil {
		return nil, fmt.Errorf("resolver bodega destino: %w", err)
	}
	if fromWh == nil || !fromWh.IsActive || toWh == nil || !toWh.IsActive {
		return nil, domain.ErrInvalidWarehouse
	}

	// Un solo número legible para todo el traslado, emitido con el
	// consecutivo de la bodega origen.
	seq, err := c.seqRepo.Next(fromWh.Code, entity.TxnTypeCode(entity.TxnTypeTransferOut), input.TxnDate)
	if err != nil {
		return nil, fmt.Errorf("consecutivo de traslado: %w", err)
	}
	baseNumber := ledger.FormatDocNumber(fromWh.Code, entity.TxnTypeCode(entity.TxnTypeTransferOut), input.TxnDate, seq)

	lines := make([]LineRequest, 0, len(input.Lines))
	for _, tl := range input.Lines {
		lines = append(lines, LineRequest{
			ProductID: tl.ProductID,
			VariantID: tl.VariantID,
			UomID:     tl.UomID,
			BinID:     tl.BinID,
			Quantity:  tl.Quantity,
			UnitCost:  tl.UnitCost,
		})
	}

	outTxn, err := c.recorder.Record(ctx, RecordInput{
		TxnType:           entity.TxnTypeTransferOut,
		WarehouseID:       input.FromWarehouseID,
		TxnDate:           input.TxnDate,
		TxnTime:           input.TxnTime,
		Lines:             lines,
		ReferenceDocument: baseNumber,
		Remarks:           input.Reason,
		TxnNumber:         baseNumber,
		CreatedBy:         input.CreatedBy,
	})
	if err != nil {
		return nil, err
	}

	inTxn, err := c.recorder.Record(ctx, RecordInput{
		TxnType:           entity.TxnTypeTransferIn,
		WarehouseID:       input.ToWarehouseID,
		TxnDate:           input.TxnDate,
		TxnTime:           input.TxnTime,
		Lines:             lines,
		ReferenceDocument: baseNumber,
		RelatedID:         outTxn.ID,
		Remarks:           input.Reason,
		TxnNumber:         ledger.TransferInNumber(baseNumber),
		CreatedBy:         input.CreatedBy,
	})
	if err != nil {
		c.log.Error().
			Str("out_txn_id", outTxn.ID).
			Str("out_txn_number", outTxn.TxnNumber).
			Err(err).
			Msg("traslado a medias: salida posteada, entrada falló")
		return nil, &domain.PartialTransferError{
			OutTxnID:     outTxn.ID,
			OutTxnNumber: outTxn.TxnNumber,
			Err:          err,
		}
	}

	c.log.Info().
		Str("transfer_number", baseNumber).
		Str("from", input.FromWarehouseID).
		Str("to", input.ToWarehouseID).
		Int("lines", len(lines)).
		Msg("traslado posteado")

	return &TransferResult{OutTxn: outTxn, InTxn: inTxn}, nil
}
