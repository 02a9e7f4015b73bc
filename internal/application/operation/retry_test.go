package operation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/operation"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

func TestRetryable(t *testing.T) {
	// Los errores de dominio son terminales: reintentar no los arregla.
	assert.False(t, operation.Retryable(domain.ErrInsufficientStock))
	assert.False(t, operation.Retryable(domain.ErrOverRefund))
	assert.False(t, operation.Retryable(context.Canceled))
	assert.False(t, operation.Retryable(nil))

	// Un fallo de infraestructura sí se reintenta.
	assert.True(t, operation.Retryable(errors.New("conexión reiniciada")))
}

func TestWithBackoffRetriesTransient(t *testing.T) {
	attempts := 0
	err := operation.WithBackoff(context.Background(), 3, time.Millisecond, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("falla transitoria")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithBackoffStopsOnTerminal(t *testing.T) {
	attempts := 0
	err := operation.WithBackoff(context.Background(), 5, time.Millisecond, func() error {
		attempts++
		return domain.ErrInsufficientStock
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 1, attempts)
}

func TestWithBackoffExhaustsAttempts(t *testing.T) {
	attempts := 0
	boom := errors.New("sigue fallando")
	err := operation.WithBackoff(context.Background(), 3, time.Millisecond, func() error {
		attempts++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, attempts)
}

// ──────────────────────────────────────────────────────────────────────────────
// Guard de idempotencia
// ──────────────────────────────────────────────────────────────────────────────

func TestGuardLifecycle(t *testing.T) {
	store := memory.NewStore()
	guard := operation.NewGuard(store.Operations(), logger.Nop())
	ctx := context.Background()

	// Primera ejecución: clave registrada, sin resultado previo.
	stored, err := guard.Begin(ctx, "k-1", "checkout")
	require.NoError(t, err)
	assert.Nil(t, stored)

	// Réplica concurrente mientras corre: en curso.
	_, err = guard.Begin(ctx, "k-1", "checkout")
	assert.ErrorIs(t, err, domain.ErrOperationInProgress)

	type result struct {
		SaleID string `json:"sale_id"`
	}
	require.NoError(t, guard.Done(ctx, "k-1", result{SaleID: "s-1"}))

	// Réplica tras completar: devuelve el resultado guardado.
	stored, err = guard.Begin(ctx, "k-1", "checkout")
	require.NoError(t, err)
	assert.JSONEq(t, `{"sale_id":"s-1"}`, string(stored))
}

func TestGuardAbortFreesKey(t *testing.T) {
	store := memory.NewStore()
	guard := operation.NewGuard(store.Operations(), logger.Nop())
	ctx := context.Background()

	_, err := guard.Begin(ctx, "k-1", "refund")
	require.NoError(t, err)

	guard.Abort(ctx, "k-1")

	// La clave quedó libre: el reintento vuelve a ejecutar.
	stored, err := guard.Begin(ctx, "k-1", "refund")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestGuardRequiresKey(t *testing.T) {
	store := memory.NewStore()
	guard := operation.NewGuard(store.Operations(), logger.Nop())

	_, err := guard.Begin(context.Background(), "", "checkout")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
