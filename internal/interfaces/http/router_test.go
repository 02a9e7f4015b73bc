package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/checkout"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/application/ledger"
	"github.com/jhoicas/Ventas-api/internal/application/operation"
	"github.com/jhoicas/Ventas-api/internal/application/transfer"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/pricing"
	httpiface "github.com/jhoicas/Ventas-api/internal/interfaces/http"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

func newTestApp(t *testing.T) (*memory.Store, *fiber.App) {
	t.Helper()
	store := memory.NewStore()
	store.SeedItem(&entity.Item{ID: "item-1", SKU: "CAF-500", Name: "Café molido 500g", Price: decimal.NewFromInt(10), Active: true})
	store.SeedLocation(&entity.Location{ID: "loc-1", Code: "T01", Name: "Tienda Centro", Kind: entity.LocationStore})
	store.SeedLocation(&entity.Location{ID: "bodega", Code: "B01", Name: "Bodega Central", Kind: entity.LocationWarehouse})

	log := logger.Nop()
	guard := operation.NewGuard(store.Operations(), log)
	resolver := pricing.NewItemResolver(store.Items())

	ledgerUC := ledger.NewUseCase(store, store.Movements(), store.Levels(),
		store.Items(), store.Locations(), guard, log)
	inventoryUC := inventory.NewUseCase(store, store.Levels(), store.Reservations(),
		store.Items(), store.Locations(), 15*time.Minute, log)
	checkoutUC := checkout.NewUseCase(store, resolver, store.Items(), store.Locations(),
		store.Sales(), guard, 15*time.Minute, log)
	transferUC := transfer.NewUseCase(store, store.Transfers(), store.Items(), store.Locations(),
		guard, 72*time.Hour, log)

	app := fiber.New()
	httpiface.Router(app, httpiface.RouterDeps{
		CheckoutUC:  checkoutUC,
		InventoryUC: inventoryUC,
		LedgerUC:    ledgerUC,
		TransferUC:  transferUC,
	})
	return store, app
}

func doJSON(t *testing.T, app *fiber.App, method, path, key string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	req.Header.Set("X-Actor-Id", "cajero-1")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "cuerpo: %s", raw)
	}
	return resp, decoded
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de venta por HTTP
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckoutEndpoint(t *testing.T) {
	store, app := newTestApp(t)
	store.SeedLevel("item-1", "loc-1", 10, 0)

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/sales/checkout", "k-1", fiber.Map{
		"location_id": "loc-1",
		"lines":       []fiber.Map{{"item_id": "item-1", "quantity": 3}},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "COMPLETED", body["status"])
	assert.Equal(t, "30", fmt.Sprint(body["total"]))
	saleID := body["sale_id"].(string)

	resp, avail := doJSON(t, app, fiber.MethodGet, "/api/inventory/available?item_id=item-1&location_id=loc-1", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(7), avail["available"])

	// La venta queda consultable.
	resp, fetched := doJSON(t, app, fiber.MethodGet, "/api/sales/"+saleID, "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, saleID, fetched["sale_id"])
}

func TestCheckoutEndpointInsufficientStock(t *testing.T) {
	store, app := newTestApp(t)
	store.SeedLevel("item-1", "loc-1", 2, 0)

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/sales/checkout", "k-1", fiber.Map{
		"location_id": "loc-1",
		"lines":       []fiber.Map{{"item_id": "item-1", "quantity": 5}},
	})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
}

func TestCheckoutEndpointMissingKey(t *testing.T) {
	store, app := newTestApp(t)
	store.SeedLevel("item-1", "loc-1", 10, 0)

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/sales/checkout", "", fiber.Map{
		"location_id": "loc-1",
		"lines":       []fiber.Map{{"item_id": "item-1", "quantity": 1}},
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestRefundEndpoint(t *testing.T) {
	store, app := newTestApp(t)
	store.SeedLevel("item-1", "loc-1", 10, 0)

	_, sale := doJSON(t, app, fiber.MethodPost, "/api/sales/checkout", "k-1", fiber.Map{
		"location_id": "loc-1",
		"lines":       []fiber.Map{{"item_id": "item-1", "quantity": 4}},
	})
	saleID := sale["sale_id"].(string)

	resp, refund := doJSON(t, app, fiber.MethodPost, "/api/sales/"+saleID+"/refund", "r-1", fiber.Map{
		"lines": []fiber.Map{{"item_id": "item-1", "quantity": 2}},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "PARTIALLY_REFUNDED", refund["sale_status"])
	assert.Equal(t, "20", fmt.Sprint(refund["total"]))

	// La devolución repone el stock.
	_, avail := doJSON(t, app, fiber.MethodGet, "/api/inventory/available?item_id=item-1&location_id=loc-1", "", nil)
	assert.Equal(t, float64(8), avail["available"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Inventario y libro por HTTP
// ──────────────────────────────────────────────────────────────────────────────

func TestReceiptAndHistoryEndpoints(t *testing.T) {
	_, app := newTestApp(t)

	resp, mov := doJSON(t, app, fiber.MethodPost, "/api/inventory/receipts", "rc-1", fiber.Map{
		"item_id":           "item-1",
		"location_id":       "loc-1",
		"quantity":          10,
		"purchase_order_id": "po-77",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "PURCHASE_RECEIPT", mov["reason"])
	assert.Equal(t, float64(1), mov["sequence"])
	assert.Equal(t, float64(10), mov["balance"])

	resp, history := doJSON(t, app, fiber.MethodGet, "/api/ledger/history?item_id=item-1&location_id=loc-1", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), history["total"])

	resp, verify := doJSON(t, app, fiber.MethodGet, "/api/ledger/verify?item_id=item-1&location_id=loc-1", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, verify["consistent"])
}

func TestReservationEndpoints(t *testing.T) {
	store, app := newTestApp(t)
	store.SeedLevel("item-1", "loc-1", 10, 0)

	resp, res := doJSON(t, app, fiber.MethodPost, "/api/inventory/reservations", "", fiber.Map{
		"item_id":     "item-1",
		"location_id": "loc-1",
		"quantity":    3,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resID := res["reservation_id"].(string)

	req, err := http.NewRequest(fiber.MethodDelete, "/api/inventory/reservations/"+resID, nil)
	require.NoError(t, err)
	del, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, del.StatusCode)

	// Segunda liberación: ya no existe.
	del2, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, del2.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Traslados por HTTP
// ──────────────────────────────────────────────────────────────────────────────

func TestTransferEndpoints(t *testing.T) {
	store, app := newTestApp(t)
	store.SeedLevel("item-1", "bodega", 10, 0)

	resp, tr := doJSON(t, app, fiber.MethodPost, "/api/transfers", "req-1", fiber.Map{
		"from_location_id": "bodega",
		"to_location_id":   "loc-1",
		"lines":            []fiber.Map{{"item_id": "item-1", "quantity": 4}},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	transferID := tr["transfer_id"].(string)

	resp, shipped := doJSON(t, app, fiber.MethodPost, "/api/transfers/"+transferID+"/ship", "ship-1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "IN_TRANSIT", shipped["status"])

	// La ruta fija gana sobre el parámetro :id.
	resp, inTransit := doJSON(t, app, fiber.MethodGet, "/api/transfers/in-transit?item_id=item-1", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), inTransit["total"])

	resp, received := doJSON(t, app, fiber.MethodPost, "/api/transfers/"+transferID+"/receive", "recv-1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "RECEIVED", received["status"])

	_, avail := doJSON(t, app, fiber.MethodGet, "/api/inventory/available?item_id=item-1&location_id=loc-1", "", nil)
	assert.Equal(t, float64(4), avail["available"])
}

func TestTransferEndpointInvalidState(t *testing.T) {
	store, app := newTestApp(t)
	store.SeedLevel("item-1", "bodega", 10, 0)

	_, tr := doJSON(t, app, fiber.MethodPost, "/api/transfers", "req-1", fiber.Map{
		"from_location_id": "bodega",
		"to_location_id":   "loc-1",
		"lines":            []fiber.Map{{"item_id": "item-1", "quantity": 2}},
	})
	transferID := tr["transfer_id"].(string)

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/transfers/"+transferID+"/receive", "recv-1", nil)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVALID_STATE", body["code"])
}
