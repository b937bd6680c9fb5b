package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// Reverse es el punto de entrada de compensación del kardex: postea una
// transacción de ajuste en dirección opuesta que espeja las líneas de la
// original. Nunca edita ni borra; la original y su reversa quedan cruzadas
// por ReferenceDocument/RelatedID.
func (r *Recorder) Reverse(ctx context.Context, txnID, reason, userID string) (*entity.MovementTransaction, error) {
	if txnID == "" {
		return nil, domain.ErrInvalidInput
	}
	orig, err := r.movRepo.GetByID(txnID)
	if err != nil {
		return nil, fmt.Errorf("cargar transacción %s: %w", txnID, err)
	}
	if orig == nil {
		return nil, domain.ErrNotFound
	}
	origLines, err := r.movRepo.ListLines(txnID)
	if err != nil {
		return nil, fmt.Errorf("cargar líneas de %s: %w", txnID, err)
	}
	if len(origLines) == 0 {
		return nil, domain.ErrEmptyLines
	}

	// Dirección opuesta como ajuste: una entrada se reversa con ajuste de
	// salida y viceversa. Las fotos se toman del stock actual al reversar.
	revType := entity.TxnTypeAdjustmentIn
	if entity.IsInbound(orig.TxnType) {
		revType = entity.TxnTypeAdjustmentOut
	}

	reasonCode := "Reversa de " + orig.TxnNumber
	if reason != "" {
		reasonCode += ": " + reason
	}

	lines := make([]LineRequest, 0, len(origLines))
	for _, ol := range origLines {
		lines = append(lines, LineRequest{
			ProductID:  ol.ProductID,
			VariantID:  ol.VariantID,
			UomID:      ol.UomID,
			BinID:      ol.BinID,
			Quantity:   ol.Quantity,
			UnitCost:   ol.UnitCost,
			ReasonCode: reasonCode,
		})
	}

	return r.Record(ctx, RecordInput{
		TxnType:           revType,
		WarehouseID:       orig.WarehouseID,
		TxnDate:           time.Now(),
		Lines:             lines,
		ReferenceDocument: orig.TxnNumber,
		RelatedID:         orig.ID,
		Remarks:           reason,
		CreatedBy:         userID,
	})
}
