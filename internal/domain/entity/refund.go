package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RefundLine es una línea devuelta: subconjunto de una línea de la venta
// original con cantidad devuelta ≤ cantidad vendida.
type RefundLine struct {
	ItemID   string
	Quantity int64
	Amount   decimal.Decimal // monto devuelto por la línea
}

// Refund referencia a la venta original (lookup, no ownership) y registra
// qué líneas se devolvieron. Cada devolución genera movimientos REFUND con
// delta positivo en el libro.
type Refund struct {
	ID        string
	SaleID    string
	Lines     []RefundLine
	Total     decimal.Decimal
	CreatedAt time.Time
	ActorID   string
}
