package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de ventas sobre PostgreSQL: cabecera en sales,
// líneas en sale_lines (ordenadas por line_no).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste cabecera y líneas.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, location_id, status, total, created_at, completed_at, actor_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		sale.ID, sale.LocationID, string(sale.Status), sale.Total,
		sale.CreatedAt, sale.CompletedAt, sale.ActorID,
	)
	if err != nil {
		return fmt.Errorf("create sale: %w", err)
	}
	for i := range sale.Lines {
		line := &sale.Lines[i]
		lineQuery := `
			INSERT INTO sale_lines (sale_id, line_no, item_id, quantity, unit_price, discount, refunded_qty)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`
		_, err := r.q.Exec(ctx, lineQuery,
			sale.ID, i, line.ItemID, line.Quantity, line.UnitPrice, line.Discount, line.RefundedQty,
		)
		if err != nil {
			return fmt.Errorf("create sale line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la venta con sus líneas; nil si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate bloquea la cabecera para una transición de estado.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, id, true)
}

func (r *SaleRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.Sale, error) {
	query := `
		SELECT id, location_id, status, total, created_at, completed_at, actor_id
		FROM sales WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var s entity.Sale
	var status string
	var actorID *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.LocationID, &status, &s.Total, &s.CreatedAt, &s.CompletedAt, &actorID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	s.Status = entity.SaleStatus(status)
	if actorID != nil {
		s.ActorID = *actorID
	}

	lineQuery := `
		SELECT item_id, quantity, unit_price, discount, refunded_qty
		FROM sale_lines WHERE sale_id = $1 ORDER BY line_no ASC`
	rows, err := r.q.Query(ctx, lineQuery, id)
	if err != nil {
		return nil, fmt.Errorf("list sale lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ItemID, &l.Quantity, &l.UnitPrice, &l.Discount, &l.RefundedQty); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		s.Lines = append(s.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Update persiste estado, total, completed_at y cantidades devueltas por
// línea. Las líneas en sí son inmutables tras el COMPLETED.
func (r *SaleRepo) Update(ctx context.Context, sale *entity.Sale) error {
	query := `
		UPDATE sales SET status = $2, total = $3, completed_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, sale.ID, string(sale.Status), sale.Total, sale.CompletedAt)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	for i := range sale.Lines {
		line := &sale.Lines[i]
		lineQuery := `UPDATE sale_lines SET refunded_qty = $3 WHERE sale_id = $1 AND line_no = $2`
		if _, err := r.q.Exec(ctx, lineQuery, sale.ID, i, line.RefundedQty); err != nil {
			return fmt.Errorf("update sale line: %w", err)
		}
	}
	return nil
}
