package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.LevelRepository = (*LevelRepo)(nil)

// LevelRepo implementación de la proyección de inventario sobre PostgreSQL.
// La fila (item_id, location_id) es la unidad de serialización: toda
// mutación de stock la bloquea con SELECT FOR UPDATE.
type LevelRepo struct {
	q Querier
}

// NewLevelRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLevelRepository(q Querier) *LevelRepo {
	return &LevelRepo{q: q}
}

// Get obtiene el nivel actual; sin fila devuelve un nivel en cero.
func (r *LevelRepo) Get(ctx context.Context, itemID, locationID string) (*entity.InventoryLevel, error) {
	query := `
		SELECT item_id, location_id, on_hand, reserved, updated_at
		FROM inventory_levels WHERE item_id = $1 AND location_id = $2`
	var l entity.InventoryLevel
	err := r.q.QueryRow(ctx, query, itemID, locationID).Scan(
		&l.ItemID, &l.LocationID, &l.OnHand, &l.Reserved, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.InventoryLevel{ItemID: itemID, LocationID: locationID}, nil
		}
		return nil, fmt.Errorf("get inventory level: %w", err)
	}
	return &l, nil
}

// GetForUpdate obtiene el nivel y bloquea la fila (SELECT FOR UPDATE).
// Si no existe, la inserta en cero primero para tener qué bloquear.
func (r *LevelRepo) GetForUpdate(ctx context.Context, itemID, locationID string) (*entity.InventoryLevel, error) {
	insert := `
		INSERT INTO inventory_levels (item_id, location_id, on_hand, reserved, updated_at)
		VALUES ($1, $2, 0, 0, now())
		ON CONFLICT (item_id, location_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, itemID, locationID); err != nil {
		return nil, fmt.Errorf("ensure inventory level row: %w", err)
	}
	query := `
		SELECT item_id, location_id, on_hand, reserved, updated_at
		FROM inventory_levels WHERE item_id = $1 AND location_id = $2
		FOR UPDATE`
	var l entity.InventoryLevel
	err := r.q.QueryRow(ctx, query, itemID, locationID).Scan(
		&l.ItemID, &l.LocationID, &l.OnHand, &l.Reserved, &l.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get inventory level for update: %w", err)
	}
	return &l, nil
}

// Upsert inserta o actualiza on-hand y reservado del par.
func (r *LevelRepo) Upsert(ctx context.Context, level *entity.InventoryLevel) error {
	query := `
		INSERT INTO inventory_levels (item_id, location_id, on_hand, reserved, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (item_id, location_id)
		DO UPDATE SET on_hand = EXCLUDED.on_hand, reserved = EXCLUDED.reserved, updated_at = now()`
	_, err := r.q.Exec(ctx, query, level.ItemID, level.LocationID, level.OnHand, level.Reserved)
	if err != nil {
		return fmt.Errorf("upsert inventory level: %w", err)
	}
	return nil
}

// ListByLocation lista los niveles de una ubicación.
func (r *LevelRepo) ListByLocation(ctx context.Context, locationID string, limit, offset int) ([]*entity.InventoryLevel, error) {
	query := `
		SELECT item_id, location_id, on_hand, reserved, updated_at
		FROM inventory_levels WHERE location_id = $1
		ORDER BY item_id ASC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, locationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory levels: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryLevel
	for rows.Next() {
		var l entity.InventoryLevel
		if err := rows.Scan(&l.ItemID, &l.LocationID, &l.OnHand, &l.Reserved, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory level: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
