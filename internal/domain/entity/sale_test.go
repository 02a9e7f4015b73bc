package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

func openSale(lines ...entity.SaleLine) *entity.Sale {
	s := &entity.Sale{
		ID:         "sale-1",
		LocationID: "loc-1",
		Status:     entity.SaleOpen,
		Lines:      lines,
		CreatedAt:  time.Now(),
	}
	s.Total = s.ComputeTotal()
	return s
}

func line(itemID string, qty int64, price, discount int64) entity.SaleLine {
	return entity.SaleLine{
		ItemID:    itemID,
		Quantity:  qty,
		UnitPrice: decimal.NewFromInt(price),
		Discount:  decimal.NewFromInt(discount),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones de estado
// ──────────────────────────────────────────────────────────────────────────────

func TestSaleComplete(t *testing.T) {
	s := openSale(line("item-1", 2, 10, 0))
	now := time.Now()

	require.NoError(t, s.Complete(now))
	assert.Equal(t, entity.SaleCompleted, s.Status)
	require.NotNil(t, s.CompletedAt)

	// Una venta completada no se completa dos veces.
	assert.ErrorIs(t, s.Complete(now), domain.ErrSaleNotOpen)
}

func TestSaleVoid(t *testing.T) {
	s := openSale(line("item-1", 1, 5, 0))
	require.NoError(t, s.Void())
	assert.Equal(t, entity.SaleVoided, s.Status)
	assert.True(t, s.Status.Terminal())

	// Una venta completada no puede anularse: para eso está la devolución.
	s2 := openSale(line("item-1", 1, 5, 0))
	require.NoError(t, s2.Complete(time.Now()))
	assert.ErrorIs(t, s2.Void(), domain.ErrSaleNotOpen)
}

func TestSaleStatusValid(t *testing.T) {
	for _, st := range []entity.SaleStatus{
		entity.SaleOpen, entity.SaleCompleted, entity.SaleVoided,
		entity.SaleRefunded, entity.SalePartiallyRefunded,
	} {
		assert.True(t, st.Valid(), string(st))
	}
	assert.False(t, entity.SaleStatus("PENDING").Valid())
}

// ──────────────────────────────────────────────────────────────────────────────
// Devoluciones
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyRefundPartial(t *testing.T) {
	s := openSale(line("item-1", 4, 10, 2)) // subtotal 38, neto unitario 9.50
	require.NoError(t, s.Complete(time.Now()))

	allocs, err := s.ApplyRefund(map[string]int64{"item-1": 2})
	require.NoError(t, err)
	require.Len(t, allocs, 1)
	assert.Equal(t, int64(2), allocs[0].Quantity)
	// Monto prorrateado con el descuento incluido: 2 * 9.50 = 19.
	assert.True(t, allocs[0].Amount.Equal(decimal.NewFromInt(19)),
		"monto prorrateado: %s", allocs[0].Amount)

	assert.Equal(t, entity.SalePartiallyRefunded, s.Status)
	assert.Equal(t, int64(2), s.Lines[0].RefundedQty)
	assert.Equal(t, int64(2), s.RefundableQty("item-1"))
}

func TestApplyRefundFull(t *testing.T) {
	s := openSale(line("item-1", 2, 10, 0), line("item-2", 1, 7, 0))
	require.NoError(t, s.Complete(time.Now()))

	_, err := s.ApplyRefund(map[string]int64{"item-1": 2})
	require.NoError(t, err)
	assert.Equal(t, entity.SalePartiallyRefunded, s.Status)

	// Devoluciones adicionales son válidas desde PARTIALLY_REFUNDED.
	_, err = s.ApplyRefund(map[string]int64{"item-2": 1})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleRefunded, s.Status)
	assert.True(t, s.Status.Terminal())
}

func TestApplyRefundOverRefund(t *testing.T) {
	s := openSale(line("item-1", 3, 10, 0))
	require.NoError(t, s.Complete(time.Now()))

	_, err := s.ApplyRefund(map[string]int64{"item-1": 2})
	require.NoError(t, err)

	// 2 ya devueltas: pedir 2 más excede lo vendido.
	_, err = s.ApplyRefund(map[string]int64{"item-1": 2})
	assert.ErrorIs(t, err, domain.ErrOverRefund)
	// La validación falla antes de mutar: lo devuelto sigue en 2.
	assert.Equal(t, int64(2), s.Lines[0].RefundedQty)
	assert.Equal(t, entity.SalePartiallyRefunded, s.Status)
}

func TestApplyRefundGuards(t *testing.T) {
	s := openSale(line("item-1", 1, 10, 0))

	// Una venta OPEN no admite devoluciones.
	_, err := s.ApplyRefund(map[string]int64{"item-1": 1})
	assert.ErrorIs(t, err, domain.ErrSaleNotCompleted)

	require.NoError(t, s.Complete(time.Now()))
	_, err = s.ApplyRefund(map[string]int64{"item-1": 0})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	_, err = s.ApplyRefund(map[string]int64{"item-1": -1})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestComputeTotal(t *testing.T) {
	s := openSale(line("item-1", 2, 10, 3), line("item-2", 1, 5, 0))
	// 2*10 - 3 + 1*5 = 22
	assert.True(t, s.Total.Equal(decimal.NewFromInt(22)), "total: %s", s.Total)
}
