package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	appledger "github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// LedgerHandler maneja las peticiones HTTP del kardex: registro directo,
// traslados, reversas y consultas.
type LedgerHandler struct {
	recorder *appledger.Recorder
	transfer *appledger.TransferCoordinator
	movRepo  repository.MovementTransactionRepository
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(
	recorder *appledger.Recorder,
	transfer *appledger.TransferCoordinator,
	movRepo repository.MovementTransactionRepository,
) *LedgerHandler {
	return &LedgerHandler{recorder: recorder, transfer: transfer, movRepo: movRepo}
}

// Record registra una transacción del kardex con sus líneas.
func (h *LedgerHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return badDate(c)
	}

	lines := make([]appledger.LineRequest, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, appledger.LineRequest{
			ProductID:  l.ProductID,
			VariantID:  l.VariantID,
			UomID:      l.UomID,
			BinID:      l.BinID,
			Quantity:   l.Quantity,
			UnitCost:   l.UnitCost,
			ReasonCode: l.ReasonCode,
		})
	}

	txn, err := h.recorder.Record(c.Context(), appledger.RecordInput{
		TxnType:           in.Type,
		WarehouseID:       in.WarehouseID,
		TxnDate:           date,
		TxnTime:           in.Time,
		Lines:             lines,
		ReferenceDocument: in.Reference,
		RelatedID:         in.RelatedID,
		Remarks:           in.Remarks,
		CreatedBy:         userID(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(txn)
}

// Transfer postea las dos patas de un traslado entre bodegas.
func (h *LedgerHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return badDate(c)
	}

	lines := make([]appledger.TransferLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, appledger.TransferLine{
			ProductID: l.ProductID,
			VariantID: l.VariantID,
			UomID:     l.UomID,
			BinID:     l.BinID,
			Quantity:  l.Quantity,
			UnitCost:  l.UnitCost,
		})
	}

	result, err := h.transfer.Transfer(c.Context(), appledger.TransferInput{
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		TxnDate:         date,
		TxnTime:         in.Time,
		Lines:           lines,
		Reason:          in.Reason,
		CreatedBy:       userID(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// Reverse postea la transacción compensatoria de una transacción existente.
func (h *LedgerHandler) Reverse(c *fiber.Ctx) error {
	var in dto.ReverseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	txn, err := h.recorder.Reverse(c.Context(), c.Params("id"), in.Reason, userID(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(txn)
}

// GetByID devuelve una transacción con sus líneas.
func (h *LedgerHandler) GetByID(c *fiber.Ctx) error {
	txn, err := h.movRepo.GetByID(c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	if txn == nil {
		return writeDomainError(c, domain.ErrNotFound)
	}
	lines, err := h.movRepo.ListLines(txn.ID)
	if err != nil {
		return writeDomainError(c, err)
	}
	for _, l := range lines {
		txn.Lines = append(txn.Lines, *l)
	}
	return c.JSON(txn)
}

// GetByNumber devuelve una transacción por número de documento.
func (h *LedgerHandler) GetByNumber(c *fiber.Ctx) error {
	txn, err := h.movRepo.GetByNumber(c.Params("number"))
	if err != nil {
		return writeDomainError(c, err)
	}
	if txn == nil {
		return writeDomainError(c, domain.ErrNotFound)
	}
	return c.JSON(txn)
}

// ListByWarehouse lista las transacciones de una bodega, reciente primero.
// Filtros opcionales from/to (YYYY-MM-DD) y paginación limit/offset.
func (h *LedgerHandler) ListByWarehouse(c *fiber.Ctx) error {
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return badDate(c)
		}
		from = &d
	}
	if s := c.Query("to"); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return badDate(c)
		}
		to = &d
	}
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	txns, err := h.movRepo.ListByWarehouse(c.Params("warehouseId"), from, to, limit, offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(txns), "transactions": txns})
}

// ListByReference cruza las transacciones de un documento (ej. las dos patas
// de un traslado o la entrada de un GRN).
func (h *LedgerHandler) ListByReference(c *fiber.Ctx) error {
	txns, err := h.movRepo.ListByReference(c.Params("reference"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(txns), "transactions": txns})
}
