package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	appreceiving "github.com/jhoicas/Kardex-api/internal/application/receiving"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// ReceivingHandler maneja las peticiones HTTP de recepción de mercancía.
type ReceivingHandler struct {
	allocator *appreceiving.Allocator
	poRepo    repository.PurchaseOrderRepository
}

// NewReceivingHandler construye el handler.
func NewReceivingHandler(allocator *appreceiving.Allocator, poRepo repository.PurchaseOrderRepository) *ReceivingHandler {
	return &ReceivingHandler{allocator: allocator, poRepo: poRepo}
}

// Receive registra una recepción (GRN) contra una orden de compra.
func (h *ReceivingHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return badDate(c)
	}

	lines := make([]appreceiving.ReceiveLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, appreceiving.ReceiveLine{
			PODetailID:  l.PODetailID,
			ReceivedQty: l.ReceivedQty,
			AcceptedQty: l.AcceptedQty,
		})
	}

	result, err := h.allocator.Receive(c.Context(), appreceiving.ReceiveInput{
		POID:        in.POID,
		WarehouseID: in.WarehouseID,
		ReceiptDate: date,
		Lines:       lines,
		Remarks:     in.Remarks,
		CreatedBy:   userID(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// ListPOLines devuelve las líneas de una orden con acumulados y estado.
func (h *ReceivingHandler) ListPOLines(c *fiber.Ctx) error {
	lines, err := h.poRepo.ListLinesByPO(c.Params("poId"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(lines), "lines": lines})
}
