package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// MovementRepository persiste el libro de movimientos (append-only).
// No hay Update ni Delete: las correcciones son movimientos compensatorios.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// NextSequence devuelve la siguiente secuencia monótona del par
	// (artículo, ubicación). Se llama con la fila de nivel ya bloqueada,
	// lo que serializa la asignación.
	NextSequence(ctx context.Context, itemID, locationID string) (int64, error)
	// ListByItemLocation lista movimientos ordenados por secuencia ascendente,
	// opcionalmente acotados por fecha.
	ListByItemLocation(ctx context.Context, itemID, locationID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	// ListByReference lista los movimientos ligados a una venta, devolución,
	// traslado u orden de compra.
	ListByReference(ctx context.Context, referenceID string) ([]*entity.StockMovement, error)
	// SumDeltas suma los deltas del par hasta asOf inclusive (replay en SQL).
	SumDeltas(ctx context.Context, itemID, locationID string, asOf time.Time) (int64, error)
}
