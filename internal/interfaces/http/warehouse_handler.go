package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// WarehouseHandler consultas de bodegas (los alcances de numeración).
type WarehouseHandler struct {
	repo repository.WarehouseRepository
}

// NewWarehouseHandler construye el handler.
func NewWarehouseHandler(repo repository.WarehouseRepository) *WarehouseHandler {
	return &WarehouseHandler{repo: repo}
}

// List devuelve todas las bodegas.
func (h *WarehouseHandler) List(c *fiber.Ctx) error {
	whs, err := h.repo.List()
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(whs), "warehouses": whs})
}

// GetByID devuelve una bodega.
func (h *WarehouseHandler) GetByID(c *fiber.Ctx) error {
	wh, err := h.repo.GetByID(c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	if wh == nil {
		return writeDomainError(c, domain.ErrNotFound)
	}
	return c.JSON(wh)
}
