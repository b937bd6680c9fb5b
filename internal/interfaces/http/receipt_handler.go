package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	appreceipt "github.com/jhoicas/Kardex-api/internal/application/receipt"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// ReceiptHandler maneja las peticiones HTTP de recibos de caja.
type ReceiptHandler struct {
	allocator   *appreceipt.Allocator
	receiptRepo repository.ReceiptRepository
}

// NewReceiptHandler construye el handler.
func NewReceiptHandler(allocator *appreceipt.Allocator, receiptRepo repository.ReceiptRepository) *ReceiptHandler {
	return &ReceiptHandler{allocator: allocator, receiptRepo: receiptRepo}
}

// Allocate reparte un recibo entre las facturas con saldo del cliente.
func (h *ReceiptHandler) Allocate(c *fiber.Ctx) error {
	var in dto.AllocateReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return badDate(c)
	}

	requests := make([]appreceipt.AllocationRequest, 0, len(in.Allocations))
	for _, a := range in.Allocations {
		requests = append(requests, appreceipt.AllocationRequest{InvoiceID: a.InvoiceID, Amount: a.Amount})
	}

	result, err := h.allocator.Allocate(c.Context(), appreceipt.AllocateInput{
		CustomerID:    in.CustomerID,
		ReceiptDate:   date,
		TotalReceived: in.TotalReceived,
		Requests:      requests,
		Remarks:       in.Remarks,
		CreatedBy:     userID(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// GetByID devuelve un recibo con sus asignaciones.
func (h *ReceiptHandler) GetByID(c *fiber.Ctx) error {
	rec, err := h.receiptRepo.GetByID(c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	if rec == nil {
		return writeDomainError(c, domain.ErrNotFound)
	}
	allocs, err := h.receiptRepo.ListAllocations(rec.ID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"receipt": rec, "allocations": allocs})
}
