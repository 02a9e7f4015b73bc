package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de movimientos sobre PostgreSQL.
// La tabla stock_movements es append-only con constraint único
// (item_id, location_id, sequence); no hay UPDATE ni DELETE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, item_id, location_id, quantity_delta, reason, reference_id, sequence, balance, occurred_at, actor_id`

// Create persiste un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ItemID, m.LocationID, m.QuantityDelta, string(m.Reason),
		m.ReferenceID, m.Sequence, m.Balance, m.OccurredAt, m.ActorID,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// NextSequence devuelve la siguiente secuencia del par. Se llama con la fila
// de inventory_levels bloqueada, lo que serializa la asignación.
func (r *MovementRepo) NextSequence(ctx context.Context, itemID, locationID string) (int64, error) {
	query := `
		SELECT COALESCE(MAX(sequence), 0) + 1
		FROM stock_movements WHERE item_id = $1 AND location_id = $2`
	var seq int64
	if err := r.q.QueryRow(ctx, query, itemID, locationID).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// ListByItemLocation lista movimientos del par ordenados por secuencia,
// opcionalmente acotados por fecha.
func (r *MovementRepo) ListByItemLocation(ctx context.Context, itemID, locationID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements WHERE item_id = $1 AND location_id = $2`
	args := []any{itemID, locationID}
	pos := 3
	if from != nil {
		query += fmt.Sprintf(" AND occurred_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND occurred_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY sequence ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// ListByReference lista los movimientos de una venta, devolución o traslado.
func (r *MovementRepo) ListByReference(ctx context.Context, referenceID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements WHERE reference_id = $1
		ORDER BY occurred_at ASC, sequence ASC`
	rows, err := r.q.Query(ctx, query, referenceID)
	if err != nil {
		return nil, fmt.Errorf("list movements by reference: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// SumDeltas pliega los deltas del par hasta asOf inclusive (replay en SQL).
func (r *MovementRepo) SumDeltas(ctx context.Context, itemID, locationID string, asOf time.Time) (int64, error) {
	query := `
		SELECT COALESCE(SUM(quantity_delta), 0)
		FROM stock_movements
		WHERE item_id = $1 AND location_id = $2 AND occurred_at <= $3`
	var sum int64
	if err := r.q.QueryRow(ctx, query, itemID, locationID, asOf).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum deltas: %w", err)
	}
	return sum, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovement(row rowScanner) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var reason string
	var referenceID, actorID *string
	if err := row.Scan(&m.ID, &m.ItemID, &m.LocationID, &m.QuantityDelta, &reason,
		&referenceID, &m.Sequence, &m.Balance, &m.OccurredAt, &actorID); err != nil {
		return nil, fmt.Errorf("scan movement: %w", err)
	}
	m.Reason = entity.MovementReason(reason)
	if referenceID != nil {
		m.ReferenceID = *referenceID
	}
	if actorID != nil {
		m.ActorID = *actorID
	}
	return &m, nil
}
