package transfer

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios que toca el protocolo de traslados.
type TxRunner interface {
	RunTransfer(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		levelRepo repository.LevelRepository,
		resRepo repository.ReservationRepository,
		transferRepo repository.TransferRepository,
	) error) error
}
