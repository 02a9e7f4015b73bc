package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/operation"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	domainledger "github.com/jhoicas/Ventas-api/internal/domain/ledger"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// UseCase expone el libro de stock: historial y replay para auditoría,
// reconstrucción de la proyección y ajustes/entradas administrativas.
type UseCase struct {
	txRunner  TxRunner
	movements repository.MovementRepository // atado al pool, solo lecturas
	levels    repository.LevelRepository
	items     repository.ItemRepository
	locations repository.LocationRepository
	guard     *operation.Guard
	retries   int
	backoff   time.Duration
	log       *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	movements repository.MovementRepository,
	levels repository.LevelRepository,
	items repository.ItemRepository,
	locations repository.LocationRepository,
	guard *operation.Guard,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:  txRunner,
		movements: movements,
		levels:    levels,
		items:     items,
		locations: locations,
		guard:     guard,
		retries:   3,
		backoff:   50 * time.Millisecond,
		log:       log,
	}
}

// History devuelve los movimientos de un par (artículo, ubicación) ordenados
// por secuencia, acotados opcionalmente por fecha. Lectura sin bloqueos.
func (uc *UseCase) History(ctx context.Context, itemID, locationID string, from, to *time.Time, limit, offset int) ([]dto.MovementResponse, error) {
	if itemID == "" || locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	movements, err := uc.movements.ListByItemLocation(ctx, itemID, locationID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, movementResponse(m))
	}
	return out, nil
}

// Replay recalcula el on-hand plegando los movimientos hasta asOf.
// Auditoría pura: no toca la proyección.
func (uc *UseCase) Replay(ctx context.Context, itemID, locationID string, asOf time.Time) (int64, error) {
	if itemID == "" || locationID == "" {
		return 0, domain.ErrInvalidInput
	}
	return uc.movements.SumDeltas(ctx, itemID, locationID, asOf)
}

// Rebuild reconstruye la proyección de un par desde el libro: bloquea la
// fila, pliega todos los deltas y sobreescribe el on-hand. Ante deriva
// detectada se loguea el valor anterior; la reserva se conserva tal cual.
func (uc *UseCase) Rebuild(ctx context.Context, itemID, locationID string) (*dto.LevelResponse, error) {
	if itemID == "" || locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	var out *dto.LevelResponse
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		levelRepo repository.LevelRepository,
	) error {
		level, err := levelRepo.GetForUpdate(ctx, itemID, locationID)
		if err != nil {
			return err
		}
		onHand, err := movRepo.SumDeltas(ctx, itemID, locationID, time.Now())
		if err != nil {
			return err
		}
		if level.OnHand != onHand {
			uc.log.Warn().
				Str("item_id", itemID).
				Str("location_id", locationID).
				Int64("projected", level.OnHand).
				Int64("replayed", onHand).
				Msg("deriva detectada en la proyección; reconstruyendo")
		}
		level.OnHand = onHand
		level.UpdatedAt = time.Now()
		if err := levelRepo.Upsert(ctx, level); err != nil {
			return err
		}
		out = levelResponse(level)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AdjustInput entrada para un ajuste administrativo o entrada por compra.
type AdjustInput struct {
	IdempotencyKey string
	ItemID         string
	LocationID     string
	Delta          int64
	Reason         entity.MovementReason // ADJUSTMENT o PURCHASE_RECEIPT
	ReferenceID    string
	ActorID        string
}

// Adjust registra exactamente un movimiento de auditoría y actualiza la
// proyección. Un delta negativo nunca puede dejar el disponible bajo cero.
func (uc *UseCase) Adjust(ctx context.Context, in AdjustInput) (*dto.MovementResponse, error) {
	if in.Delta == 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if in.Reason != entity.ReasonAdjustment && in.Reason != entity.ReasonPurchaseReceipt {
		return nil, fmt.Errorf("%w: motivo %q no permitido en ajustes", domain.ErrInvalidInput, in.Reason)
	}
	if err := uc.resolveRefs(ctx, in.ItemID, in.LocationID); err != nil {
		return nil, err
	}

	stored, err := uc.guard.Begin(ctx, in.IdempotencyKey, "adjust")
	if err != nil {
		return nil, err
	}
	if stored != nil {
		var out dto.MovementResponse
		if err := json.Unmarshal(stored, &out); err != nil {
			return nil, fmt.Errorf("resultado idempotente corrupto: %w", err)
		}
		return &out, nil
	}

	var out *dto.MovementResponse
	err = operation.WithBackoff(ctx, uc.retries, uc.backoff, func() error {
		return uc.txRunner.Run(ctx, func(
			movRepo repository.MovementRepository,
			levelRepo repository.LevelRepository,
		) error {
			level, err := levelRepo.GetForUpdate(ctx, in.ItemID, in.LocationID)
			if err != nil {
				return err
			}
			if in.Delta < 0 && level.Available()+in.Delta < 0 {
				return domain.ErrInsufficientStock
			}
			mov := &entity.StockMovement{
				ItemID:        in.ItemID,
				LocationID:    in.LocationID,
				QuantityDelta: in.Delta,
				Reason:        in.Reason,
				ReferenceID:   in.ReferenceID,
				OccurredAt:    time.Now(),
				ActorID:       in.ActorID,
			}
			if err := Append(ctx, movRepo, levelRepo, level, mov); err != nil {
				return err
			}
			resp := movementResponse(mov)
			out = &resp
			return nil
		})
	})
	if err != nil {
		uc.guard.Abort(ctx, in.IdempotencyKey)
		return nil, err
	}
	if err := uc.guard.Done(ctx, in.IdempotencyKey, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Verify compara balances registrados contra el replay de la cadena y
// devuelve la secuencia del primer movimiento inconsistente (-1 = íntegra).
func (uc *UseCase) Verify(ctx context.Context, itemID, locationID string) (int64, error) {
	movements, err := uc.movements.ListByItemLocation(ctx, itemID, locationID, nil, nil, 1_000_000, 0)
	if err != nil {
		return 0, err
	}
	return domainledger.CheckBalances(movements), nil
}

func (uc *UseCase) resolveRefs(ctx context.Context, itemID, locationID string) error {
	item, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrUnknownItem
	}
	loc, err := uc.locations.GetByID(ctx, locationID)
	if err != nil {
		return err
	}
	if loc == nil {
		return domain.ErrUnknownLocation
	}
	return nil
}

func movementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		MovementID:    m.ID,
		ItemID:        m.ItemID,
		LocationID:    m.LocationID,
		QuantityDelta: m.QuantityDelta,
		Reason:        string(m.Reason),
		ReferenceID:   m.ReferenceID,
		Sequence:      m.Sequence,
		Balance:       m.Balance,
		OccurredAt:    m.OccurredAt,
		ActorID:       m.ActorID,
	}
}

func levelResponse(l *entity.InventoryLevel) *dto.LevelResponse {
	return &dto.LevelResponse{
		ItemID:     l.ItemID,
		LocationID: l.LocationID,
		OnHand:     l.OnHand,
		Reserved:   l.Reserved,
		Available:  l.Available(),
		UpdatedAt:  l.UpdatedAt,
	}
}
