package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Ventas-api/internal/application/checkout"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/application/ledger"
	"github.com/jhoicas/Ventas-api/internal/application/transfer"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// Ensure TxRunner implementa los puertos de cada caso de uso.
var (
	_ ledger.TxRunner    = (*TxRunner)(nil)
	_ inventory.TxRunner = (*TxRunner)(nil)
	_ checkout.TxRunner  = (*TxRunner)(nil)
	_ transfer.TxRunner  = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con
// repositorios atados a esa tx. Commit si fn retorna nil; Rollback si no.
// La cancelación del ctx antes del Commit revierte la unidad completa.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) inTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Run transacción para operaciones del libro (ajustes, rebuild).
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	levelRepo repository.LevelRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewMovementRepository(q), NewLevelRepository(q))
	})
}

// RunInventory transacción para reservas y liberaciones.
func (r *TxRunner) RunInventory(ctx context.Context, fn func(
	levelRepo repository.LevelRepository,
	resRepo repository.ReservationRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewLevelRepository(q), NewReservationRepository(q))
	})
}

// RunCheckout transacción para checkout, devolución y anulación.
func (r *TxRunner) RunCheckout(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	levelRepo repository.LevelRepository,
	resRepo repository.ReservationRepository,
	saleRepo repository.SaleRepository,
	refundRepo repository.RefundRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(
			NewMovementRepository(q),
			NewLevelRepository(q),
			NewReservationRepository(q),
			NewSaleRepository(q),
			NewRefundRepository(q),
		)
	})
}

// RunTransfer transacción para el protocolo de traslados.
func (r *TxRunner) RunTransfer(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	levelRepo repository.LevelRepository,
	resRepo repository.ReservationRepository,
	transferRepo repository.TransferRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(
			NewMovementRepository(q),
			NewLevelRepository(q),
			NewReservationRepository(q),
			NewTransferRepository(q),
		)
	})
}
