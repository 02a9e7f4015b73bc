package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de traslados sobre PostgreSQL.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

// Create persiste cabecera y líneas.
func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	query := `
		INSERT INTO transfers (id, from_location_id, to_location_id, status, requested_at, shipped_at, received_at, actor_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.FromLocationID, t.ToLocationID, string(t.Status),
		t.RequestedAt, t.ShippedAt, t.ReceivedAt, t.ActorID,
	)
	if err != nil {
		return fmt.Errorf("create transfer: %w", err)
	}
	for i, line := range t.Lines {
		lineQuery := `
			INSERT INTO transfer_lines (transfer_id, line_no, item_id, quantity)
			VALUES ($1, $2, $3, $4)`
		if _, err := r.q.Exec(ctx, lineQuery, t.ID, i, line.ItemID, line.Quantity); err != nil {
			return fmt.Errorf("create transfer line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene el traslado con sus líneas; nil si no existe.
func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate bloquea la cabecera para una transición de estado.
func (r *TransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.get(ctx, id, true)
}

func (r *TransferRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.Transfer, error) {
	query := `
		SELECT id, from_location_id, to_location_id, status, requested_at, shipped_at, received_at, actor_id
		FROM transfers WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var t entity.Transfer
	var status string
	var actorID *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.FromLocationID, &t.ToLocationID, &status,
		&t.RequestedAt, &t.ShippedAt, &t.ReceivedAt, &actorID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	t.Status = entity.TransferStatus(status)
	if actorID != nil {
		t.ActorID = *actorID
	}

	lineQuery := `
		SELECT item_id, quantity
		FROM transfer_lines WHERE transfer_id = $1 ORDER BY line_no ASC`
	rows, err := r.q.Query(ctx, lineQuery, id)
	if err != nil {
		return nil, fmt.Errorf("list transfer lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.TransferLine
		if err := rows.Scan(&l.ItemID, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan transfer line: %w", err)
		}
		t.Lines = append(t.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Update persiste estado y marcas de tiempo del ciclo de vida.
func (r *TransferRepo) Update(ctx context.Context, t *entity.Transfer) error {
	query := `
		UPDATE transfers SET status = $2, shipped_at = $3, received_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, t.ID, string(t.Status), t.ShippedAt, t.ReceivedAt)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	return nil
}

// ListInTransit lista líneas de traslados IN_TRANSIT, filtrables por
// artículo o por ubicación (origen o destino).
func (r *TransferRepo) ListInTransit(ctx context.Context, itemID, locationID string) ([]repository.InTransitItem, error) {
	query := `
		SELECT t.id, l.item_id, t.from_location_id, t.to_location_id, l.quantity
		FROM transfers t
		JOIN transfer_lines l ON l.transfer_id = t.id
		WHERE t.status = 'IN_TRANSIT'`
	args := []any{}
	pos := 1
	if itemID != "" {
		query += fmt.Sprintf(" AND l.item_id = $%d", pos)
		args = append(args, itemID)
		pos++
	}
	if locationID != "" {
		query += fmt.Sprintf(" AND (t.from_location_id = $%d OR t.to_location_id = $%d)", pos, pos)
		args = append(args, locationID)
		pos++
	}
	query += " ORDER BY t.requested_at ASC"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list in-transit: %w", err)
	}
	defer rows.Close()
	var list []repository.InTransitItem
	for rows.Next() {
		var it repository.InTransitItem
		if err := rows.Scan(&it.TransferID, &it.ItemID, &it.FromLocationID, &it.ToLocationID, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan in-transit: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}
