package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// LevelRepository persiste la proyección InventoryLevel. La fila por
// (artículo, ubicación) es la unidad de serialización del sistema:
// GetForUpdate la bloquea y toda mutación pasa por ahí.
type LevelRepository interface {
	// Get devuelve el nivel actual; si no existe fila devuelve un nivel en cero.
	Get(ctx context.Context, itemID, locationID string) (*entity.InventoryLevel, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) y la devuelve.
	GetForUpdate(ctx context.Context, itemID, locationID string) (*entity.InventoryLevel, error)
	Upsert(ctx context.Context, level *entity.InventoryLevel) error
	ListByLocation(ctx context.Context, locationID string, limit, offset int) ([]*entity.InventoryLevel, error)
}
