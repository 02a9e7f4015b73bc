package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea de un carrito. Si UnitPrice viene nulo, el resolver
// de precios decide precio y descuento.
type SaleLineRequest struct {
	ItemID    string           `json:"item_id"`
	Quantity  int64            `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Discount  *decimal.Decimal `json:"discount,omitempty"`
}

// OpenSaleRequest body para POST /api/sales (abrir carrito con reservas).
type OpenSaleRequest struct {
	LocationID string            `json:"location_id"`
	Lines      []SaleLineRequest `json:"lines"`
}

// CheckoutRequest body para POST /api/sales/checkout. O bien referencia una
// venta OPEN (SaleID), o trae el borrador inline y se abre y completa en la
// misma unidad atómica.
type CheckoutRequest struct {
	SaleID     string            `json:"sale_id,omitempty"`
	LocationID string            `json:"location_id,omitempty"`
	Lines      []SaleLineRequest `json:"lines,omitempty"`
}

// SaleLineResponse línea de venta en respuestas.
type SaleLineResponse struct {
	ItemID      string          `json:"item_id"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	RefundedQty int64           `json:"refunded_qty"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SaleResponse respuesta de checkout/void/consulta de venta.
type SaleResponse struct {
	SaleID      string             `json:"sale_id"`
	LocationID  string             `json:"location_id"`
	Status      string             `json:"status"`
	Lines       []SaleLineResponse `json:"lines"`
	Total       decimal.Decimal    `json:"total"`
	CreatedAt   time.Time          `json:"created_at"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
}

// RefundLineRequest cantidad a devolver de un artículo de la venta.
type RefundLineRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int64  `json:"quantity"`
}

// RefundRequest body para POST /api/sales/:id/refund.
type RefundRequest struct {
	Lines []RefundLineRequest `json:"lines"`
}

// RefundResponse respuesta de una devolución.
type RefundResponse struct {
	RefundID   string          `json:"refund_id"`
	SaleID     string          `json:"sale_id"`
	SaleStatus string          `json:"sale_status"`
	Total      decimal.Decimal `json:"total"`
	CreatedAt  time.Time       `json:"created_at"`
}
