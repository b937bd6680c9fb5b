package count

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

// AdjustmentPoster es lo que la sesión necesita del kardex: postear la
// transacción de ajuste al completar (lo implementa ledger.Recorder).
type AdjustmentPoster interface {
	Record(ctx context.Context, input appledger.RecordInput) (*entity.MovementTransaction, error)
}

// Session maneja el ciclo de vida de un conteo físico:
// setup -> counting -> completed. setup es efímero (la pantalla de parámetros);
// counting nace cuando Start persiste la cabecera con id, y completed es
// terminal: ninguna línea se edita después.
type Session struct {
	countRepo     repository.PhysicalCountRepository
	warehouseRepo repository.WarehouseRepository
	productRepo   repository.ProductRepository
	stockLookup   repository.StockLookup
	seqRepo       repository.SequenceRepository
	poster        AdjustmentPoster
	ids           appledger.IDGenerator
	threshold     decimal.Decimal
	log           *logger.Logger
}

// NewSession construye el caso de uso. threshold <= 0 usa el umbral por defecto.
func NewSession(
	countRepo repository.PhysicalCountRepository,
	warehouseRepo repository.WarehouseRepository,
	productRepo repository.ProductRepository,
	stockLookup repository.StockLookup,
	seqRepo repository.SequenceRepository,
	poster AdjustmentPoster,
	ids appledger.IDGenerator,
	threshold decimal.Decimal,
	log *logger.Logger,
) *Session {
	if threshold.LessThanOrEqual(decimal.Zero) {
		threshold = ledger.DefaultInvestigationThreshold
	}
	return &Session{
		countRepo:     countRepo,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		stockLookup:   stockLookup,
		seqRepo:       seqRepo,
		poster:        poster,
		ids:           ids,
		threshold:     threshold,
		log:           log.Component("count.session"),
	}
}

// StartInput parámetros de la transición setup -> counting.
type StartInput struct {
	WarehouseID string
	CountDate   time.Time
	CountType   string // full, cycle
	Method      string // scan, manual
	CreatedBy   string
}

// Start valida los parámetros del conteo, asigna número y persiste la cabecera
// en counting. Sin bodega no hay transición (ErrNoWarehouseSelected).
func (s *Session) Start(ctx context.Context, input StartInput) (*entity.PhysicalCount, error) {
	if input.WarehouseID == "" {
		return nil, domain.ErrNoWarehouseSelected
	}
	if input.CountDate.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	wh, err := s.warehouseRepo.GetByID(input.WarehouseID)
	if err != nil {
		return nil, fmt.Errorf("resolver bodega: %w", err)
	}
	if wh == nil || !wh.IsActive {
		return nil, domain.ErrInvalidWarehouse
	}

	seq, err := s.seqRepo.Next(wh.Code, "CNT", input.CountDate)
	if err != nil {
		return nil, fmt.Errorf("consecutivo de conteo: %w", err)
	}

	c := &entity.PhysicalCount{
		ID:            s.ids.NextID(),
		CountNumber:   ledger.FormatDocNumber(wh.Code, "CNT", input.CountDate, seq),
		WarehouseID:   input.WarehouseID,
		CountDate:     input.CountDate,
		CountType:     input.CountType,
		Method:        input.Method,
		Status:        entity.CountStatusCounting,
		TotalVariance: decimal.Zero,
		CreatedAt:     time.Now(),
		CreatedBy:     input.CreatedBy,
	}
	if err := s.countRepo.CreateHeader(c); err != nil {
		return nil, &domain.PersistenceError{Table: "physical_counts", Key: c.CountNumber, Err: err}
	}

	s.log.Info().
		Str("count_number", c.CountNumber).
		Str("warehouse_id", c.WarehouseID).
		Msg("conteo físico iniciado")
	return c, nil
}

// LineInput captura o edición de una línea contada. SystemQuantity opcional:
// si viene nil se toma la foto del stock actual en ese momento.
type LineInput struct {
	LineID          string // vacío = línea nueva
	ProductID       string
	VariantID       string
	UomID           string
	BinID           string
	SystemQuantity  *decimal.Decimal
	CountedQuantity decimal.Decimal
	Notes           string
}

// UpsertLine agrega o edita una línea del conteo (counting -> counting) y
// recalcula los derivados con la regla única DeriveCountLine.
func (s *Session) UpsertLine(ctx context.Context, countID string, input LineInput) (*entity.CountLine, error) {
	c, err := s.loadOpenCount(countID)
	if err != nil {
		return nil, err
	}
	if input.ProductID == "" || input.UomID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.CountedQuantity.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	// Editar exige que la línea pertenezca a ESTE conteo; un id de otra sesión
	// no puede tocar líneas ajenas.
	if input.LineID != "" {
		existing, err := s.countRepo.GetLine(c.ID, input.LineID)
		if err != nil {
			return nil, fmt.Errorf("cargar línea %s: %w", input.LineID, err)
		}
		if existing == nil {
			return nil, domain.ErrNotFound
		}
	}

	var systemQty decimal.Decimal
	if input.SystemQuantity != nil {
		systemQty = *input.SystemQuantity
	} else {
		systemQty, err = s.stockLookup.CurrentStock(input.ProductID, c.WarehouseID, input.BinID)
		if err != nil {
			return nil, fmt.Errorf("stock de sistema de %s: %w", input.ProductID, err)
		}
	}

	d := ledger.DeriveCountLine(systemQty, input.CountedQuantity, s.threshold)
	line := &entity.CountLine{
		ID:                 input.LineID,
		CountID:            c.ID,
		ProductID:          input.ProductID,
		VariantID:          input.VariantID,
		UomID:              input.UomID,
		BinID:              input.BinID,
		SystemQuantity:     systemQty,
		CountedQuantity:    input.CountedQuantity,
		VarianceQuantity:   d.Variance,
		AdjustmentDecision: d.Decision,
		AdjustmentQuantity: d.AdjustmentQuantity,
		Notes:              input.Notes,
	}
	if line.ID == "" {
		line.ID = s.ids.NextID()
	}
	if err := s.countRepo.UpsertLine(line); err != nil {
		return nil, &domain.PersistenceError{Table: "physical_count_lines", Key: line.ID, Err: err}
	}
	return line, nil
}

// OverrideDecision fuerza la decisión de una línea por encima de la derivada.
// La cantidad de ajuste se recalcula: solo adjust_to_count conserva la variación.
func (s *Session) OverrideDecision(ctx context.Context, countID, lineID, decision string) (*entity.CountLine, error) {
	switch decision {
	case entity.DecisionNoChange, entity.DecisionAdjustToCount, entity.DecisionInvestigate:
	default:
		return nil, domain.ErrInvalidInput
	}
	if _, err := s.loadOpenCount(countID); err != nil {
		return nil, err
	}
	line, err := s.countRepo.GetLine(countID, lineID)
	if err != nil {
		return nil, fmt.Errorf("cargar línea %s: %w", lineID, err)
	}
	if line == nil {
		return nil, domain.ErrNotFound
	}

	line.AdjustmentDecision = decision
	line.AdjustmentQuantity = ledger.ApplyDecisionOverride(line.VarianceQuantity, decision)
	line.DecisionOverridden = true
	if err := s.countRepo.UpsertLine(line); err != nil {
		return nil, &domain.PersistenceError{Table: "physical_count_lines", Key: line.ID, Err: err}
	}
	return line, nil
}

// RemoveLine descarta una línea mientras el conteo sigue en counting.
func (s *Session) RemoveLine(ctx context.Context, countID, lineID string) error {
	if _, err := s.loadOpenCount(countID); err != nil {
		return err
	}
	if err := s.countRepo.DeleteLine(countID, lineID); err != nil {
		return &domain.PersistenceError{Table: "physical_count_lines", Key: lineID, Err: err}
	}
	return nil
}

// CompleteResult salida de la transición counting -> completed.
type CompleteResult struct {
	Count         *entity.PhysicalCount
	AdjustmentTxn *entity.MovementTransaction // nil si ninguna línea requería ajuste
}

// Complete cierra el conteo: calcula totales, selecciona las líneas con
// decisión adjust_to_count y ajuste distinto de cero, y postea UNA transacción
// de ajuste con las fotos capturadas (previo = sistema, nuevo = contado).
// Si el posteo falla el conteo queda en counting para reintentar; si el posteo
// quedó y la cabecera no se pudo cerrar, se reporta posteo parcial con el id
// de la transacción ya escrita.
func (s *Session) Complete(ctx context.Context, countID, reason, userID string) (*CompleteResult, error) {
	if countID == "" {
		return nil, domain.ErrCountIDMissing
	}
	c, err := s.loadOpenCount(countID)
	if err != nil {
		return nil, err
	}
	lines, err := s.countRepo.ListLines(countID)
	if err != nil {
		return nil, fmt.Errorf("cargar líneas del conteo: %w", err)
	}
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCount
	}

	totalVariance := decimal.Zero
	var adjustable []*entity.CountLine
	for _, l := range lines {
		totalVariance = totalVariance.Add(l.VarianceQuantity.Abs())
		if l.AdjustmentDecision == entity.DecisionAdjustToCount && !l.AdjustmentQuantity.IsZero() {
			adjustable = append(adjustable, l)
		}
	}

	var adjTxn *entity.MovementTransaction
	if len(adjustable) > 0 {
		reqs := make([]appledger.LineRequest, 0, len(adjustable))
		for _, l := range adjustable {
			unitCost := decimal.Zero
			if p, err := s.productRepo.GetByID(l.ProductID); err == nil && p != nil {
				unitCost = p.Cost
			}
			prev := l.SystemQuantity
			newStock := l.CountedQuantity
			reqs = append(reqs, appledger.LineRequest{
				ProductID:     l.ProductID,
				VariantID:     l.VariantID,
				UomID:         l.UomID,
				BinID:         l.BinID,
				Quantity:      l.AdjustmentQuantity.Abs(),
				UnitCost:      unitCost,
				ReasonCode:    "Physical Count Adjustment: " + reason,
				PreviousStock: &prev,
				NewStock:      &newStock,
			})
		}
		adjTxn, err = s.poster.Record(ctx, appledger.RecordInput{
			TxnType:           entity.TxnTypeAdjustmentIn,
			WarehouseID:       c.WarehouseID,
			TxnDate:           c.CountDate,
			Lines:             reqs,
			ReferenceDocument: c.CountNumber,
			RelatedID:         c.ID,
			Remarks:           reason,
			CreatedBy:         userID,
		})
		if err != nil {
			// El conteo sigue en counting; el caller decide reintentar.
			return nil, err
		}
	}

	now := time.Now()
	c.Status = entity.CountStatusCompleted
	c.TotalItemsCounted = len(lines)
	c.TotalVariance = totalVariance
	c.CompletedAt = &now
	if adjTxn != nil {
		c.AdjustmentTxnID = adjTxn.ID
	}
	if err := s.countRepo.UpdateHeader(c); err != nil {
		if adjTxn != nil {
			perr := &domain.PartialPostingError{
				TxnID:     adjTxn.ID,
				TxnNumber: adjTxn.TxnNumber,
				Steps:     []string{"movement_transactions:" + adjTxn.ID},
				Err:       err,
			}
			s.log.Error().
				Str("count_id", c.ID).
				Str("txn_id", adjTxn.ID).
				Err(err).
				Msg("ajuste posteado pero el conteo no se pudo cerrar")
			return nil, perr
		}
		return nil, &domain.PersistenceError{Table: "physical_counts", Key: c.ID, Err: err}
	}

	s.log.Info().
		Str("count_number", c.CountNumber).
		Int("items", c.TotalItemsCounted).
		Str("total_variance", totalVariance.String()).
		Int("adjusted_lines", len(adjustable)).
		Msg("conteo físico completado")

	return &CompleteResult{Count: c, AdjustmentTxn: adjTxn}, nil
}

// loadOpenCount carga el conteo y valida que siga abierto.
func (s *Session) loadOpenCount(countID string) (*entity.PhysicalCount, error) {
	if countID == "" {
		return nil, domain.ErrCountIDMissing
	}
	c, err := s.countRepo.GetByID(countID)
	if err != nil {
		return nil, fmt.Errorf("cargar conteo %s: %w", countID, err)
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if c.Status == entity.CountStatusCompleted {
		return nil, domain.ErrCountCompleted
	}
	return c, nil
}
