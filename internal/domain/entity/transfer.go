package entity

import (
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain"
)

// TransferStatus es el estado cerrado de un traslado entre ubicaciones.
type TransferStatus string

const (
	TransferRequested TransferStatus = "REQUESTED"
	TransferInTransit TransferStatus = "IN_TRANSIT"
	TransferReceived  TransferStatus = "RECEIVED"
	TransferCancelled TransferStatus = "CANCELLED"
)

// Valid reporta si el estado pertenece al conjunto cerrado.
func (s TransferStatus) Valid() bool {
	switch s {
	case TransferRequested, TransferInTransit, TransferReceived, TransferCancelled:
		return true
	}
	return false
}

// TransferLine es una línea de traslado. La recepción parcial está fuera de
// alcance: un traslado se recibe completo o se divide en traslados nuevos.
type TransferLine struct {
	ItemID   string
	Quantity int64
}

// Transfer mueve stock entre dos ubicaciones con contabilidad en tránsito.
// En IN_TRANSIT el stock no cuenta como disponible en ninguna ubicación:
// está "en el tubo" y es consultable para conciliación. Una vez RECEIVED,
// la suma de deltas de sus movimientos en ambas ubicaciones es cero
// (conservación de stock).
type Transfer struct {
	ID             string
	FromLocationID string
	ToLocationID   string
	Lines          []TransferLine
	Status         TransferStatus
	RequestedAt    time.Time
	ShippedAt      *time.Time
	ReceivedAt     *time.Time
	ActorID        string
}

// Ship transiciona REQUESTED → IN_TRANSIT.
func (t *Transfer) Ship(now time.Time) error {
	if t.Status != TransferRequested {
		return domain.ErrTransferState
	}
	t.Status = TransferInTransit
	t.ShippedAt = &now
	return nil
}

// Receive transiciona IN_TRANSIT → RECEIVED.
func (t *Transfer) Receive(now time.Time) error {
	if t.Status != TransferInTransit {
		return domain.ErrTransferState
	}
	t.Status = TransferReceived
	t.ReceivedAt = &now
	return nil
}

// Cancel solo es válido desde REQUESTED, antes de cualquier movimiento:
// un traslado cancelado produce cero movimientos netos.
func (t *Transfer) Cancel() error {
	if t.Status != TransferRequested {
		return domain.ErrTransferState
	}
	t.Status = TransferCancelled
	return nil
}
