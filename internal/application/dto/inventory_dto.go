package dto

import "time"

// AdjustmentRequest body para POST /api/inventory/adjustments.
// Delta con signo; siempre produce exactamente un movimiento de auditoría.
type AdjustmentRequest struct {
	ItemID     string `json:"item_id"`
	LocationID string `json:"location_id"`
	Delta      int64  `json:"delta"`
	Note       string `json:"note,omitempty"`
}

// ReceiptRequest body para POST /api/inventory/receipts (entrada por compra).
type ReceiptRequest struct {
	ItemID          string `json:"item_id"`
	LocationID      string `json:"location_id"`
	Quantity        int64  `json:"quantity"`
	PurchaseOrderID string `json:"purchase_order_id,omitempty"`
}

// MovementResponse un movimiento del libro en respuestas.
type MovementResponse struct {
	MovementID    string    `json:"movement_id"`
	ItemID        string    `json:"item_id"`
	LocationID    string    `json:"location_id"`
	QuantityDelta int64     `json:"quantity_delta"`
	Reason        string    `json:"reason"`
	ReferenceID   string    `json:"reference_id,omitempty"`
	Sequence      int64     `json:"sequence"`
	Balance       int64     `json:"balance"`
	OccurredAt    time.Time `json:"occurred_at"`
	ActorID       string    `json:"actor_id,omitempty"`
}

// AvailableResponse respuesta de GET /api/inventory/available.
type AvailableResponse struct {
	ItemID     string `json:"item_id"`
	LocationID string `json:"location_id"`
	Available  int64  `json:"available"`
}

// LevelResponse nivel de inventario en respuestas.
type LevelResponse struct {
	ItemID     string    `json:"item_id"`
	LocationID string    `json:"location_id"`
	OnHand     int64     `json:"on_hand"`
	Reserved   int64     `json:"reserved"`
	Available  int64     `json:"available"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// RebuildRequest body para POST /api/inventory/rebuild.
type RebuildRequest struct {
	ItemID     string `json:"item_id"`
	LocationID string `json:"location_id"`
}

// ReserveRequest body para POST /api/inventory/reservations.
type ReserveRequest struct {
	ItemID      string `json:"item_id"`
	LocationID  string `json:"location_id"`
	Quantity    int64  `json:"quantity"`
	ReferenceID string `json:"reference_id,omitempty"`
}

// ReservationResponse reserva creada.
type ReservationResponse struct {
	ReservationID string    `json:"reservation_id"`
	ItemID        string    `json:"item_id"`
	LocationID    string    `json:"location_id"`
	Quantity      int64     `json:"quantity"`
	ExpiresAt     time.Time `json:"expires_at"`
}
