package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
)

// fail traduce errores de dominio a status HTTP y cuerpo de error estándar.
// Retryable solo en fallos transitorios: el POS decide si reintenta con la
// misma clave de idempotencia.
func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidQuantity):
		return respond(c, fiber.StatusBadRequest, "VALIDATION", err)
	case errors.Is(err, domain.ErrUnknownItem):
		return respond(c, fiber.StatusNotFound, "UNKNOWN_ITEM", err)
	case errors.Is(err, domain.ErrUnknownLocation):
		return respond(c, fiber.StatusNotFound, "UNKNOWN_LOCATION", err)
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrReservationNotFound):
		return respond(c, fiber.StatusNotFound, "NOT_FOUND", err)
	case errors.Is(err, domain.ErrInsufficientStock):
		return respond(c, fiber.StatusConflict, "INSUFFICIENT_STOCK", err)
	case errors.Is(err, domain.ErrOverRefund):
		return respond(c, fiber.StatusConflict, "OVER_REFUND", err)
	case errors.Is(err, domain.ErrSaleNotOpen), errors.Is(err, domain.ErrSaleNotCompleted),
		errors.Is(err, domain.ErrInvalidSale), errors.Is(err, domain.ErrTransferState):
		return respond(c, fiber.StatusConflict, "INVALID_STATE", err)
	case errors.Is(err, domain.ErrOperationInProgress):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "OPERATION_IN_PROGRESS", Message: err.Error(), Retryable: true,
		})
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrConflict):
		return respond(c, fiber.StatusConflict, "CONFLICT", err)
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "INTERNAL", Message: err.Error(), Retryable: true,
		})
	}
}

func respond(c *fiber.Ctx, status int, code string, err error) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

// idempotencyKey extrae la clave del header Idempotency-Key o del campo
// idempotency_key del body.
func idempotencyKey(c *fiber.Ctx) string {
	if k := c.Get("Idempotency-Key"); k != "" {
		return k
	}
	var aux struct {
		IdempotencyKey string `json:"idempotency_key"`
	}
	if err := c.BodyParser(&aux); err == nil {
		return aux.IdempotencyKey
	}
	return ""
}

// actorID extrae el actor del header X-Actor-Id. La autenticación vive
// aguas arriba; aquí solo se propaga para auditoría.
func actorID(c *fiber.Ctx) string {
	return c.Get("X-Actor-Id")
}
