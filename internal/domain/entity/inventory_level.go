package entity

import "time"

// InventoryLevel es la proyección materializada del libro de stock para un
// (artículo, ubicación): on-hand, reservado y disponible. Siempre
// reconstruible desde StockMovement; nunca es la fuente de verdad.
type InventoryLevel struct {
	ItemID     string
	LocationID string
	OnHand     int64
	Reserved   int64
	UpdatedAt  time.Time
}

// Available devuelve la cantidad comprometible: on-hand menos reservado.
// El invariante del sistema garantiza que nunca es negativa.
func (l *InventoryLevel) Available() int64 {
	return l.OnHand - l.Reserved
}
