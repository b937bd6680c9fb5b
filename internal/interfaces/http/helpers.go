package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
)

// userID identidad del solicitante. La autenticación vive en el gateway; aquí
// solo se propaga el encabezado para el created_by de los documentos.
func userID(c *fiber.Ctx) string {
	return c.Get("X-User-ID")
}

// parseDate fecha YYYY-MM-DD del cuerpo. Vacía = hoy.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	return time.Parse("2006-01-02", s)
}

// writeDomainError traduce los errores de dominio a respuestas HTTP. Las fallas
// parciales devuelven 500 con la identidad de lo ya escrito: el cliente tiene
// que saber que hay estado a medias que ubicar, no solo que "algo falló".
func writeDomainError(c *fiber.Ctx, err error) error {
	var partial *domain.PartialPostingError
	if errors.As(err, &partial) {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code:      "PARTIAL_POSTING",
			Message:   "posteo parcial: quedaron filas escritas sin completar la secuencia",
			RefID:     partial.TxnID,
			RefNumber: partial.TxnNumber,
			Steps:     partial.Steps,
		})
	}
	var partialTransfer *domain.PartialTransferError
	if errors.As(err, &partialTransfer) {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code:      "PARTIAL_TRANSFER",
			Message:   "traslado a medias: la salida quedó posteada y la entrada falló",
			RefID:     partialTransfer.OutTxnID,
			RefNumber: partialTransfer.OutTxnNumber,
		})
	}
	var persistence *domain.PersistenceError
	if errors.As(err, &persistence) {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code:    "PERSISTENCE",
			Message: persistence.Error(),
		})
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidWarehouse):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "INVALID_WAREHOUSE", Message: err.Error()})
	case errors.Is(err, domain.ErrCountCompleted):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "COUNT_COMPLETED", Message: err.Error()})
	case errors.Is(err, domain.ErrOverAllocation):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "OVER_ALLOCATION", Message: err.Error()})
	case errors.Is(err, domain.ErrOverReceipt):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "OVER_RECEIPT", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrEmptyLines),
		errors.Is(err, domain.ErrSameWarehouse),
		errors.Is(err, domain.ErrNoWarehouseSelected),
		errors.Is(err, domain.ErrEmptyCount),
		errors.Is(err, domain.ErrCountIDMissing):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func badDate(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE", Message: "fecha inválida, se espera YYYY-MM-DD"})
}
