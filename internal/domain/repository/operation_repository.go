package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// OperationRepository persiste el estado de deduplicación por clave de
// idempotencia. El insert con constraint único sobre la clave es el árbitro
// de la carrera entre reintentos concurrentes.
type OperationRepository interface {
	// InsertRunning registra la clave en RUNNING. Si la clave ya existe
	// devuelve domain.ErrDuplicate.
	InsertRunning(ctx context.Context, op *entity.Operation) error
	Get(ctx context.Context, key string) (*entity.Operation, error)
	// MarkDone guarda el resultado serializado y pasa la clave a DONE.
	MarkDone(ctx context.Context, key string, result []byte) error
	// Delete elimina la clave (operación fallida: el caller puede reintentar).
	Delete(ctx context.Context, key string) error
}
