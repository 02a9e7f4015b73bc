package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.OperationRepository = (*OperationRepo)(nil)

// OperationRepo registro de idempotencia sobre PostgreSQL. La restricción
// de unicidad de la clave es el árbitro ante réplicas concurrentes.
type OperationRepo struct {
	q Querier
}

// NewOperationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOperationRepository(q Querier) *OperationRepo {
	return &OperationRepo{q: q}
}

// InsertRunning registra la operación como RUNNING. Si la clave ya existe
// devuelve domain.ErrDuplicate sin tocar la fila.
func (r *OperationRepo) InsertRunning(ctx context.Context, op *entity.Operation) error {
	query := `
		INSERT INTO operations (key, kind, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, op.Key, op.Kind, op.Status, op.CreatedAt, op.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert operation: %w", err)
	}
	return nil
}

// Get obtiene una operación; nil si no existe.
func (r *OperationRepo) Get(ctx context.Context, key string) (*entity.Operation, error) {
	query := `
		SELECT key, kind, status, result, created_at, updated_at
		FROM operations WHERE key = $1`
	var op entity.Operation
	err := r.q.QueryRow(ctx, query, key).Scan(
		&op.Key, &op.Kind, &op.Status, &op.Result, &op.CreatedAt, &op.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get operation: %w", err)
	}
	return &op, nil
}

// MarkDone guarda el resultado serializado y marca la operación como DONE.
func (r *OperationRepo) MarkDone(ctx context.Context, key string, result []byte) error {
	query := `
		UPDATE operations SET status = $2, result = $3, updated_at = now()
		WHERE key = $1`
	_, err := r.q.Exec(ctx, query, key, entity.OperationDone, result)
	if err != nil {
		return fmt.Errorf("mark operation done: %w", err)
	}
	return nil
}

// Delete borra la clave tras un fallo para permitir el reintento.
func (r *OperationRepo) Delete(ctx context.Context, key string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM operations WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete operation: %w", err)
	}
	return nil
}
