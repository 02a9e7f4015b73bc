package inventory

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios de proyección y reservas atados a esa tx.
type TxRunner interface {
	RunInventory(ctx context.Context, fn func(
		levelRepo repository.LevelRepository,
		resRepo repository.ReservationRepository,
	) error) error
}
