package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item es la referencia mínima de catálogo que el motor necesita para
// resolver movimientos y precios por defecto. El CRUD de catálogo vive en
// otro servicio.
type Item struct {
	ID        string
	SKU       string
	Name      string
	Price     decimal.Decimal // precio de lista; el resolver de precios puede sobreescribirlo
	Active    bool
	CreatedAt time.Time
}
