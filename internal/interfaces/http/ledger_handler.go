package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/ledger"
)

// LedgerHandler maneja las consultas de historia y auditoría del libro.
type LedgerHandler struct {
	uc *ledger.UseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *ledger.UseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// History lista los movimientos de un par ordenados por secuencia,
// opcionalmente acotados por fecha (RFC 3339).
func (h *LedgerHandler) History(c *fiber.Ctx) error {
	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido: use RFC 3339"})
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido: use RFC 3339"})
		}
		to = &t
	}
	out, err := h.uc.History(c.Context(),
		c.Query("item_id"), c.Query("location_id"),
		from, to, c.QueryInt("limit", 100), c.QueryInt("offset", 0))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}

// Verify audita la cadena de balances del par: cada balance debe ser el
// anterior más el delta.
func (h *LedgerHandler) Verify(c *fiber.Ctx) error {
	badSeq, err := h.uc.Verify(c.Context(), c.Query("item_id"), c.Query("location_id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"consistent":         badSeq < 0,
		"first_bad_sequence": badSeq,
	})
}
