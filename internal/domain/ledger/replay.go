// Package ledger contiene la lógica pura de replay del libro de stock
// (servicio de dominio, sin dependencias de infraestructura).
package ledger

import (
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// Replay recalcula el on-hand plegando los deltas de todos los movimientos
// hasta asOf inclusive. Se usa para auditoría y para reconstruir la
// proyección tras una caída. Los movimientos deben venir ordenados por
// secuencia; el orden no afecta la suma pero sí la verificación de balances.
func Replay(movements []*entity.StockMovement, asOf time.Time) int64 {
	var onHand int64
	for _, m := range movements {
		if m.OccurredAt.After(asOf) {
			continue
		}
		onHand += m.QuantityDelta
	}
	return onHand
}

// CheckBalances verifica que el balance registrado en cada movimiento
// coincide con la suma acumulada de deltas. Devuelve la secuencia del primer
// movimiento inconsistente, o -1 si la cadena es íntegra.
func CheckBalances(movements []*entity.StockMovement) int64 {
	var running int64
	for _, m := range movements {
		running += m.QuantityDelta
		if m.Balance != running {
			return m.Sequence
		}
	}
	return -1
}
