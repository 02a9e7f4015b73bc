package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/checkout"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/application/ledger"
	"github.com/jhoicas/Ventas-api/internal/application/transfer"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CheckoutUC  *checkout.UseCase
	InventoryUC *inventory.UseCase
	LedgerUC    *ledger.UseCase
	TransferUC  *transfer.UseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Ventas POS
	sales := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.CheckoutUC)
	sales.Post("/", saleHandler.Open)
	sales.Post("/checkout", saleHandler.Checkout)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Post("/:id/refund", saleHandler.Refund)
	sales.Post("/:id/void", saleHandler.Void)

	// Traslados entre ubicaciones
	transfers := api.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/in-transit", transferHandler.InTransit)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Post("/:id/ship", transferHandler.Ship)
	transfers.Post("/:id/receive", transferHandler.Receive)
	transfers.Post("/:id/cancel", transferHandler.Cancel)

	// Inventario: consulta, reservas, ajustes, entradas
	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC, deps.LedgerUC)
	invGroup.Get("/available", inventoryHandler.Available)
	invGroup.Get("/levels", inventoryHandler.Levels)
	invGroup.Post("/adjustments", inventoryHandler.Adjust)
	invGroup.Post("/receipts", inventoryHandler.Receipt)
	invGroup.Post("/rebuild", inventoryHandler.Rebuild)
	invGroup.Post("/reservations", inventoryHandler.Reserve)
	invGroup.Delete("/reservations/:id", inventoryHandler.Release)

	// Libro de movimientos: historia y auditoría
	ledgerGroup := api.Group("/ledger")
	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	ledgerGroup.Get("/history", ledgerHandler.History)
	ledgerGroup.Get("/verify", ledgerHandler.Verify)
}
