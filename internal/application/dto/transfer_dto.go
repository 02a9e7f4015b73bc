package dto

import "time"

// TransferLineRequest línea de traslado.
type TransferLineRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int64  `json:"quantity"`
}

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	FromLocationID string                `json:"from_location_id"`
	ToLocationID   string                `json:"to_location_id"`
	Lines          []TransferLineRequest `json:"lines"`
}

// TransferLineResponse línea de traslado en respuestas.
type TransferLineResponse struct {
	ItemID   string `json:"item_id"`
	Quantity int64  `json:"quantity"`
}

// TransferResponse estado de un traslado.
type TransferResponse struct {
	TransferID     string                 `json:"transfer_id"`
	FromLocationID string                 `json:"from_location_id"`
	ToLocationID   string                 `json:"to_location_id"`
	Status         string                 `json:"status"`
	Lines          []TransferLineResponse `json:"lines"`
	RequestedAt    time.Time              `json:"requested_at"`
	ShippedAt      *time.Time             `json:"shipped_at,omitempty"`
	ReceivedAt     *time.Time             `json:"received_at,omitempty"`
}

// InTransitResponse línea embarcada y no recibida (conciliación).
type InTransitResponse struct {
	TransferID     string `json:"transfer_id"`
	ItemID         string `json:"item_id"`
	FromLocationID string `json:"from_location_id"`
	ToLocationID   string `json:"to_location_id"`
	Quantity       int64  `json:"quantity"`
}
