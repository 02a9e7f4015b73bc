package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/application/ledger"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP de consulta de inventario,
// reservas, ajustes y entradas por compra.
type InventoryHandler struct {
	inv *inventory.UseCase
	led *ledger.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(inv *inventory.UseCase, led *ledger.UseCase) *InventoryHandler {
	return &InventoryHandler{inv: inv, led: led}
}

// Available consulta el disponible de un par (artículo, ubicación).
// Lectura sin bloqueo: tolera obsolescencia acotada.
func (h *InventoryHandler) Available(c *fiber.Ctx) error {
	out, err := h.inv.Available(c.Context(), c.Query("item_id"), c.Query("location_id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Levels lista los niveles de una ubicación.
func (h *InventoryHandler) Levels(c *fiber.Ctx) error {
	out, err := h.inv.Levels(c.Context(), c.Query("location_id"), c.QueryInt("limit", 100), c.QueryInt("offset", 0))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"total": len(out), "levels": out})
}

// Adjust registra un ajuste administrativo (conteo físico, merma, daño).
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.led.Adjust(c.Context(), ledger.AdjustInput{
		IdempotencyKey: idempotencyKey(c),
		ItemID:         in.ItemID,
		LocationID:     in.LocationID,
		Delta:          in.Delta,
		Reason:         entity.ReasonAdjustment,
		ReferenceID:    in.Note,
		ActorID:        actorID(c),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Receipt registra una entrada por compra (PURCHASE_RECEIPT).
func (h *InventoryHandler) Receipt(c *fiber.Ctx) error {
	var in dto.ReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.led.Adjust(c.Context(), ledger.AdjustInput{
		IdempotencyKey: idempotencyKey(c),
		ItemID:         in.ItemID,
		LocationID:     in.LocationID,
		Delta:          in.Quantity,
		Reason:         entity.ReasonPurchaseReceipt,
		ReferenceID:    in.PurchaseOrderID,
		ActorID:        actorID(c),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Rebuild reconstruye la proyección de un par desde el libro.
func (h *InventoryHandler) Rebuild(c *fiber.Ctx) error {
	var in dto.RebuildRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.led.Rebuild(c.Context(), in.ItemID, in.LocationID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Reserve retiene cantidad contra una referencia externa.
func (h *InventoryHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReserveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.inv.Reserve(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Release libera una reserva viva.
func (h *InventoryHandler) Release(c *fiber.Ctx) error {
	if err := h.inv.Release(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
