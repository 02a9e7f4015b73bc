package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/transfer"
)

// TransferHandler maneja las peticiones HTTP del protocolo de traslados.
type TransferHandler struct {
	uc *transfer.UseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *transfer.UseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Create solicita un traslado (REQUESTED) y reserva en origen.
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Request(c.Context(), transfer.RequestInput{
		IdempotencyKey: idempotencyKey(c),
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		ActorID:        actorID(c),
		Lines:          in.Lines,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Ship embarca: TRANSFER_OUT en origen, estado IN_TRANSIT.
func (h *TransferHandler) Ship(c *fiber.Ctx) error {
	out, err := h.uc.Ship(c.Context(), idempotencyKey(c), c.Params("id"), actorID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Receive recibe: TRANSFER_IN en destino, estado RECEIVED.
func (h *TransferHandler) Receive(c *fiber.Ctx) error {
	out, err := h.uc.Receive(c.Context(), idempotencyKey(c), c.Params("id"), actorID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Cancel cancela un traslado aún no embarcado.
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.Context(), idempotencyKey(c), c.Params("id"), actorID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// GetByID consulta un traslado.
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// InTransit lista lo embarcado y no recibido, para conciliación.
func (h *TransferHandler) InTransit(c *fiber.Ctx) error {
	out, err := h.uc.InTransit(c.Context(), c.Query("item_id"), c.Query("location_id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"total": len(out), "in_transit": out})
}
