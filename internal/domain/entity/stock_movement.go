package entity

import "time"

// MovementReason es el motivo cerrado de un movimiento de stock.
// Se modela como tipo propio (no string abierto) y cada consumidor hace
// switch exhaustivo.
type MovementReason string

const (
	ReasonSale            MovementReason = "SALE"             // venta POS (delta negativo)
	ReasonRefund          MovementReason = "REFUND"           // devolución (delta positivo)
	ReasonTransferOut     MovementReason = "TRANSFER_OUT"     // salida por traslado
	ReasonTransferIn      MovementReason = "TRANSFER_IN"      // entrada por traslado
	ReasonAdjustment      MovementReason = "ADJUSTMENT"       // ajuste administrativo
	ReasonPurchaseReceipt MovementReason = "PURCHASE_RECEIPT" // entrada por compra
)

// Valid reporta si el motivo pertenece al conjunto cerrado.
func (r MovementReason) Valid() bool {
	switch r {
	case ReasonSale, ReasonRefund, ReasonTransferOut, ReasonTransferIn,
		ReasonAdjustment, ReasonPurchaseReceipt:
		return true
	}
	return false
}

// StockMovement es un registro inmutable del libro de stock: un cambio de
// cantidad con signo para un artículo en una ubicación. Solo el coordinador
// de transacciones crea movimientos; nunca se actualizan ni se borran — las
// correcciones son movimientos compensatorios nuevos.
//
// Sequence es monótono por (ItemID, LocationID) y define el orden de replay.
// Balance es el on-hand resultante tras aplicar el movimiento; hace la
// historia autoauditable sin recomputar.
type StockMovement struct {
	ID            string
	ItemID        string
	LocationID    string
	QuantityDelta int64 // unidad mínima de stock, con signo, nunca cero
	Reason        MovementReason
	ReferenceID   string // venta, devolución, traslado u orden de compra
	Sequence      int64
	Balance       int64
	OccurredAt    time.Time
	ActorID       string
}
