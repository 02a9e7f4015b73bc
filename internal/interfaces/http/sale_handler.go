package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/checkout"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
)

// SaleHandler maneja las peticiones HTTP del ciclo de venta POS.
type SaleHandler struct {
	uc *checkout.UseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *checkout.UseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Open abre un carrito: venta OPEN con reservas vivas por línea.
func (h *SaleHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.OpenSale(c.Context(), checkout.OpenSaleInput{
		IdempotencyKey: idempotencyKey(c),
		LocationID:     in.LocationID,
		ActorID:        actorID(c),
		Lines:          in.Lines,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Checkout completa una venta OPEN o procesa un borrador inline.
func (h *SaleHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Checkout(c.Context(), checkout.CheckoutInput{
		IdempotencyKey: idempotencyKey(c),
		SaleID:         in.SaleID,
		LocationID:     in.LocationID,
		ActorID:        actorID(c),
		Lines:          in.Lines,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Refund devuelve líneas de una venta completada.
func (h *SaleHandler) Refund(c *fiber.Ctx) error {
	var in dto.RefundRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Refund(c.Context(), checkout.RefundInput{
		IdempotencyKey: idempotencyKey(c),
		SaleID:         c.Params("id"),
		ActorID:        actorID(c),
		Lines:          in.Lines,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Void anula una venta OPEN liberando sus reservas.
func (h *SaleHandler) Void(c *fiber.Ctx) error {
	out, err := h.uc.Void(c.Context(), checkout.VoidInput{
		IdempotencyKey: idempotencyKey(c),
		SaleID:         c.Params("id"),
		ActorID:        actorID(c),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// GetByID consulta una venta.
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetSale(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
