package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// Append aplica un movimiento sobre un nivel ya bloqueado (GetForUpdate del
// caller): asigna secuencia monótona y balance, persiste el movimiento y
// actualiza la proyección en la misma transacción. Es el único camino de
// escritura al libro; checkout, traslados y ajustes pasan por aquí.
//
// El caller muta level.Reserved antes de llamar cuando consume o libera
// reservas; Append solo toca OnHand.
func Append(
	ctx context.Context,
	movRepo repository.MovementRepository,
	levelRepo repository.LevelRepository,
	level *entity.InventoryLevel,
	mov *entity.StockMovement,
) error {
	if mov.QuantityDelta == 0 {
		return domain.ErrInvalidQuantity
	}
	if !mov.Reason.Valid() {
		return fmt.Errorf("%w: motivo de movimiento %q", domain.ErrInvalidInput, mov.Reason)
	}
	if mov.ItemID != level.ItemID || mov.LocationID != level.LocationID {
		return fmt.Errorf("%w: el movimiento no corresponde al nivel bloqueado", domain.ErrInvalidInput)
	}

	newOnHand := level.OnHand + mov.QuantityDelta
	if newOnHand < 0 {
		return domain.ErrInsufficientStock
	}

	seq, err := movRepo.NextSequence(ctx, mov.ItemID, mov.LocationID)
	if err != nil {
		return fmt.Errorf("asignar secuencia: %w", err)
	}

	if mov.ID == "" {
		mov.ID = uuid.New().String()
	}
	mov.Sequence = seq
	mov.Balance = newOnHand

	if err := movRepo.Create(ctx, mov); err != nil {
		return err
	}

	level.OnHand = newOnHand
	level.UpdatedAt = mov.OccurredAt
	return levelRepo.Upsert(ctx, level)
}
