package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

func newFixture(t *testing.T, ttl time.Duration) (*memory.Store, *inventory.UseCase) {
	t.Helper()
	store := memory.NewStore()
	store.SeedItem(&entity.Item{ID: "item-1", SKU: "CAF-500", Name: "Café molido 500g", Price: decimal.NewFromInt(10), Active: true})
	store.SeedLocation(&entity.Location{ID: "loc-1", Code: "T01", Name: "Tienda Centro", Kind: entity.LocationStore})

	uc := inventory.NewUseCase(store, store.Levels(), store.Reservations(),
		store.Items(), store.Locations(), ttl, logger.Nop())
	return store, uc
}

func TestAvailable(t *testing.T) {
	store, uc := newFixture(t, 15*time.Minute)
	store.SeedLevel("item-1", "loc-1", 10, 3)

	out, err := uc.Available(context.Background(), "item-1", "loc-1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), out.Available)

	// Par sin historia: disponible cero, no error.
	out, err = uc.Available(context.Background(), "item-1", "loc-otra")
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.Available)

	_, err = uc.Available(context.Background(), "", "loc-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReserveAndRelease(t *testing.T) {
	store, uc := newFixture(t, 15*time.Minute)
	store.SeedLevel("item-1", "loc-1", 10, 0)
	ctx := context.Background()

	res, err := uc.Reserve(ctx, dto.ReserveRequest{
		ItemID: "item-1", LocationID: "loc-1", Quantity: 3, ReferenceID: "cart-9",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Quantity)
	assert.True(t, res.ExpiresAt.After(time.Now()))

	avail, err := uc.Available(ctx, "item-1", "loc-1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), avail.Available)

	require.NoError(t, uc.Release(ctx, res.ReservationID))
	avail, err = uc.Available(ctx, "item-1", "loc-1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), avail.Available)

	// Liberar dos veces: la reserva ya no existe.
	assert.ErrorIs(t, uc.Release(ctx, res.ReservationID), domain.ErrReservationNotFound)
}

func TestReserveInsufficientStock(t *testing.T) {
	store, uc := newFixture(t, 15*time.Minute)
	store.SeedLevel("item-1", "loc-1", 5, 3)

	// Disponible 2: no alcanza para 3.
	_, err := uc.Reserve(context.Background(), dto.ReserveRequest{
		ItemID: "item-1", LocationID: "loc-1", Quantity: 3,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	// El reservado no se tocó.
	level, err := store.Levels().Get(context.Background(), "item-1", "loc-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), level.Reserved)
}

func TestReserveUnknownRefs(t *testing.T) {
	_, uc := newFixture(t, 15*time.Minute)

	_, err := uc.Reserve(context.Background(), dto.ReserveRequest{
		ItemID: "item-999", LocationID: "loc-1", Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrUnknownItem)

	_, err = uc.Reserve(context.Background(), dto.ReserveRequest{
		ItemID: "item-1", LocationID: "loc-999", Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrUnknownLocation)
}

// ──────────────────────────────────────────────────────────────────────────────
// Barrido de reservas vencidas
// ──────────────────────────────────────────────────────────────────────────────

func TestSweepReclaimsExpired(t *testing.T) {
	// TTL negativo: toda reserva nace vencida.
	store, uc := newFixture(t, -time.Second)
	store.SeedLevel("item-1", "loc-1", 10, 0)
	ctx := context.Background()

	_, err := uc.Reserve(ctx, dto.ReserveRequest{
		ItemID: "item-1", LocationID: "loc-1", Quantity: 4, ReferenceID: "cart-olvidado",
	})
	require.NoError(t, err)

	sweeper := inventory.NewSweeper(uc, time.Minute, 100, logger.Nop())
	reclaimed, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, reclaimed)

	level, err := store.Levels().Get(ctx, "item-1", "loc-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), level.Reserved)
	assert.Equal(t, int64(10), level.OnHand)
	assert.Equal(t, 0, store.ReservationCount())
}

func TestSweepKeepsLiveReservations(t *testing.T) {
	store, uc := newFixture(t, time.Hour)
	store.SeedLevel("item-1", "loc-1", 10, 0)
	ctx := context.Background()

	_, err := uc.Reserve(ctx, dto.ReserveRequest{
		ItemID: "item-1", LocationID: "loc-1", Quantity: 4,
	})
	require.NoError(t, err)

	sweeper := inventory.NewSweeper(uc, time.Minute, 100, logger.Nop())
	reclaimed, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, reclaimed)
	assert.Equal(t, 1, store.ReservationCount())
}
