package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/ledger"
)

func mov(seq, delta, balance int64, at time.Time) *entity.StockMovement {
	return &entity.StockMovement{
		ItemID:        "item-1",
		LocationID:    "loc-1",
		QuantityDelta: delta,
		Sequence:      seq,
		Balance:       balance,
		OccurredAt:    at,
	}
}

func TestReplay(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	movements := []*entity.StockMovement{
		mov(1, 10, 10, base),
		mov(2, -3, 7, base.Add(time.Hour)),
		mov(3, 5, 12, base.Add(2*time.Hour)),
	}

	assert.Equal(t, int64(12), ledger.Replay(movements, base.Add(3*time.Hour)))
	// Corte temporal: el tercer movimiento queda fuera.
	assert.Equal(t, int64(7), ledger.Replay(movements, base.Add(90*time.Minute)))
	assert.Equal(t, int64(0), ledger.Replay(movements, base.Add(-time.Minute)))
	assert.Equal(t, int64(0), ledger.Replay(nil, base))
}

func TestCheckBalances(t *testing.T) {
	base := time.Now()

	consistent := []*entity.StockMovement{
		mov(1, 10, 10, base),
		mov(2, -4, 6, base),
		mov(3, 1, 7, base),
	}
	assert.Equal(t, int64(-1), ledger.CheckBalances(consistent))

	broken := []*entity.StockMovement{
		mov(1, 10, 10, base),
		mov(2, -4, 5, base), // balance registrado incorrecto
		mov(3, 1, 7, base),
	}
	assert.Equal(t, int64(2), ledger.CheckBalances(broken))

	assert.Equal(t, int64(-1), ledger.CheckBalances(nil))
}
