// Package operation implementa la deduplicación por clave de idempotencia y
// el reintento con backoff del coordinador de transacciones.
package operation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// Guard registra la clave antes de ejecutar la operación (fuera de la tx de
// trabajo, para que un reintento concurrente la vea en RUNNING de inmediato)
// y guarda el resultado al completar. Si la operación falla, la clave se
// elimina para permitir un reintento limpio.
type Guard struct {
	ops repository.OperationRepository
	log *logger.Logger
}

// NewGuard construye el guard.
func NewGuard(ops repository.OperationRepository, log *logger.Logger) *Guard {
	return &Guard{ops: ops, log: log}
}

// Begin intenta registrar la clave en RUNNING. Devuelve:
//   - (resultado, nil) si la clave ya está DONE: el caller deserializa y
//     responde sin re-ejecutar efectos;
//   - (nil, nil) si la clave quedó registrada y la operación debe ejecutarse;
//   - (nil, ErrOperationInProgress) si otra ejecución está en curso.
func (g *Guard) Begin(ctx context.Context, key, kind string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: clave de idempotencia requerida", domain.ErrInvalidInput)
	}
	now := time.Now()
	err := g.ops.InsertRunning(ctx, &entity.Operation{
		Key:       key,
		Kind:      kind,
		Status:    entity.OperationRunning,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err == nil {
		return nil, nil
	}
	if !errors.Is(err, domain.ErrDuplicate) {
		return nil, fmt.Errorf("registrar operación: %w", err)
	}
	existing, err := g.ops.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("leer operación: %w", err)
	}
	if existing == nil || existing.Status != entity.OperationDone {
		return nil, domain.ErrOperationInProgress
	}
	return existing.Result, nil
}

// Done serializa el resultado y marca la clave como DONE.
func (g *Guard) Done(ctx context.Context, key string, result any) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("serializar resultado: %w", err)
	}
	if err := g.ops.MarkDone(ctx, key, raw); err != nil {
		return fmt.Errorf("marcar operación: %w", err)
	}
	return nil
}

// Abort elimina la clave de una operación fallida para habilitar el reintento.
func (g *Guard) Abort(ctx context.Context, key string) {
	if err := g.ops.Delete(ctx, key); err != nil {
		g.log.Error().Err(err).Str("key", key).Msg("liberar clave de idempotencia")
	}
}
