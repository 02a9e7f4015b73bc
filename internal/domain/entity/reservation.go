package entity

import "time"

// Reservation retiene cantidad contra un carrito o traslado en curso.
// Baja el disponible pero no el on-hand: modela el hueco entre "el carrito
// tiene el artículo" y "la venta se completa". Una reserva no liberada se
// recupera por el barrido de expiración cuando ExpiresAt ya pasó.
type Reservation struct {
	ID          string
	ItemID      string
	LocationID  string
	Quantity    int64
	ReferenceID string // venta o traslado que la originó
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// Expired reporta si la reserva ya venció estrictamente en el instante dado.
func (r *Reservation) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
