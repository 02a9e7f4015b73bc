package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.RefundRepository = (*RefundRepo)(nil)

// RefundRepo implementación de devoluciones sobre PostgreSQL.
type RefundRepo struct {
	q Querier
}

// NewRefundRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRefundRepository(q Querier) *RefundRepo {
	return &RefundRepo{q: q}
}

// Create persiste cabecera y líneas de la devolución.
func (r *RefundRepo) Create(ctx context.Context, refund *entity.Refund) error {
	query := `
		INSERT INTO refunds (id, sale_id, total, created_at, actor_id)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query,
		refund.ID, refund.SaleID, refund.Total, refund.CreatedAt, refund.ActorID,
	)
	if err != nil {
		return fmt.Errorf("create refund: %w", err)
	}
	for i := range refund.Lines {
		line := &refund.Lines[i]
		lineQuery := `
			INSERT INTO refund_lines (refund_id, line_no, item_id, quantity, amount)
			VALUES ($1, $2, $3, $4, $5)`
		if _, err := r.q.Exec(ctx, lineQuery, refund.ID, i, line.ItemID, line.Quantity, line.Amount); err != nil {
			return fmt.Errorf("create refund line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una devolución con sus líneas; nil si no existe.
func (r *RefundRepo) GetByID(ctx context.Context, id string) (*entity.Refund, error) {
	query := `
		SELECT id, sale_id, total, created_at, actor_id
		FROM refunds WHERE id = $1`
	var ref entity.Refund
	var actorID *string
	err := r.q.QueryRow(ctx, query, id).Scan(&ref.ID, &ref.SaleID, &ref.Total, &ref.CreatedAt, &actorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get refund: %w", err)
	}
	if actorID != nil {
		ref.ActorID = *actorID
	}
	if err := r.loadLines(ctx, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

// ListBySale lista las devoluciones de una venta.
func (r *RefundRepo) ListBySale(ctx context.Context, saleID string) ([]*entity.Refund, error) {
	query := `
		SELECT id, sale_id, total, created_at, actor_id
		FROM refunds WHERE sale_id = $1 ORDER BY created_at ASC`
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list refunds: %w", err)
	}
	defer rows.Close()
	var list []*entity.Refund
	for rows.Next() {
		var ref entity.Refund
		var actorID *string
		if err := rows.Scan(&ref.ID, &ref.SaleID, &ref.Total, &ref.CreatedAt, &actorID); err != nil {
			return nil, fmt.Errorf("scan refund: %w", err)
		}
		if actorID != nil {
			ref.ActorID = *actorID
		}
		list = append(list, &ref)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, ref := range list {
		if err := r.loadLines(ctx, ref); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *RefundRepo) loadLines(ctx context.Context, ref *entity.Refund) error {
	query := `
		SELECT item_id, quantity, amount
		FROM refund_lines WHERE refund_id = $1 ORDER BY line_no ASC`
	rows, err := r.q.Query(ctx, query, ref.ID)
	if err != nil {
		return fmt.Errorf("list refund lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.RefundLine
		if err := rows.Scan(&l.ItemID, &l.Quantity, &l.Amount); err != nil {
			return fmt.Errorf("scan refund line: %w", err)
		}
		ref.Lines = append(ref.Lines, l)
	}
	return rows.Err()
}
