package http

import (
	"github.com/gofiber/fiber/v2"

	appcount "github.com/jhoicas/Kardex-api/internal/application/count"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// CountHandler maneja las peticiones HTTP del conteo físico.
type CountHandler struct {
	session   *appcount.Session
	countRepo repository.PhysicalCountRepository
}

// NewCountHandler construye el handler.
func NewCountHandler(session *appcount.Session, countRepo repository.PhysicalCountRepository) *CountHandler {
	return &CountHandler{session: session, countRepo: countRepo}
}

// Start abre un conteo físico en una bodega (setup -> counting).
func (h *CountHandler) Start(c *fiber.Ctx) error {
	var in dto.StartCountRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return badDate(c)
	}
	count, err := h.session.Start(c.Context(), appcount.StartInput{
		WarehouseID: in.WarehouseID,
		CountDate:   date,
		CountType:   in.CountType,
		Method:      in.Method,
		CreatedBy:   userID(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(count)
}

// UpsertLine agrega o edita una línea contada.
func (h *CountHandler) UpsertLine(c *fiber.Ctx) error {
	var in dto.CountLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	line, err := h.session.UpsertLine(c.Context(), c.Params("id"), appcount.LineInput{
		LineID:          in.LineID,
		ProductID:       in.ProductID,
		VariantID:       in.VariantID,
		UomID:           in.UomID,
		BinID:           in.BinID,
		SystemQuantity:  in.SystemQuantity,
		CountedQuantity: in.CountedQuantity,
		Notes:           in.Notes,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(line)
}

// OverrideDecision fuerza la decisión de una línea por encima de la derivada.
func (h *CountHandler) OverrideDecision(c *fiber.Ctx) error {
	var in dto.OverrideDecisionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	line, err := h.session.OverrideDecision(c.Context(), c.Params("id"), c.Params("lineId"), in.Decision)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(line)
}

// RemoveLine descarta una línea del conteo abierto.
func (h *CountHandler) RemoveLine(c *fiber.Ctx) error {
	if err := h.session.RemoveLine(c.Context(), c.Params("id"), c.Params("lineId")); err != nil {
		return writeDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Complete cierra el conteo y postea el ajuste si hay líneas ajustables.
func (h *CountHandler) Complete(c *fiber.Ctx) error {
	var in dto.CompleteCountRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	result, err := h.session.Complete(c.Context(), c.Params("id"), in.Reason, userID(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(result)
}

// GetByID devuelve el conteo con sus líneas.
func (h *CountHandler) GetByID(c *fiber.Ctx) error {
	count, err := h.countRepo.GetByID(c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	if count == nil {
		return writeDomainError(c, domain.ErrNotFound)
	}
	lines, err := h.countRepo.ListLines(count.ID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"count": count, "lines": lines})
}
