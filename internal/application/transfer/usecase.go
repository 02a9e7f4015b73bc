package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/application/ledger"
	"github.com/jhoicas/Ventas-api/internal/application/operation"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// UseCase gobierna el protocolo de traslados entre ubicaciones:
// REQUESTED → IN_TRANSIT → RECEIVED, con CANCELLED solo antes del embarque.
// Al pedir el traslado se reserva en origen; al embarcar la reserva se
// consume con un TRANSFER_OUT; al recibir se registra el TRANSFER_IN en
// destino. Entre ambos, el stock está "en el tubo": no cuenta como
// disponible en ninguna ubicación pero es consultable para conciliación.
type UseCase struct {
	txRunner  TxRunner
	transfers repository.TransferRepository // atado al pool, solo lecturas
	items     repository.ItemRepository
	locations repository.LocationRepository
	guard     *operation.Guard
	ttl       time.Duration // vigencia de la reserva en origen mientras está REQUESTED
	retries   int
	backoff   time.Duration
	log       *logger.Logger
}

// NewUseCase construye el caso de uso. ttl acota cuánto puede quedarse un
// traslado en REQUESTED reteniendo stock en origen.
func NewUseCase(
	txRunner TxRunner,
	transfers repository.TransferRepository,
	items repository.ItemRepository,
	locations repository.LocationRepository,
	guard *operation.Guard,
	ttl time.Duration,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:  txRunner,
		transfers: transfers,
		items:     items,
		locations: locations,
		guard:     guard,
		ttl:       ttl,
		retries:   3,
		backoff:   50 * time.Millisecond,
		log:       log,
	}
}

// RequestInput entrada para solicitar un traslado.
type RequestInput struct {
	IdempotencyKey string
	FromLocationID string
	ToLocationID   string
	ActorID        string
	Lines          []dto.TransferLineRequest
}

// Request crea el traslado en REQUESTED y reserva las cantidades en origen.
func (uc *UseCase) Request(ctx context.Context, in RequestInput) (*dto.TransferResponse, error) {
	if in.FromLocationID == "" || in.ToLocationID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.FromLocationID == in.ToLocationID {
		return nil, fmt.Errorf("%w: origen y destino idénticos", domain.ErrInvalidInput)
	}
	for _, loc := range []string{in.FromLocationID, in.ToLocationID} {
		l, err := uc.locations.GetByID(ctx, loc)
		if err != nil {
			return nil, err
		}
		if l == nil {
			return nil, domain.ErrUnknownLocation
		}
	}
	lines := make([]entity.TransferLine, 0, len(in.Lines))
	for _, req := range in.Lines {
		if req.ItemID == "" || req.Quantity <= 0 {
			return nil, fmt.Errorf("%w: línea con artículo vacío o cantidad no positiva", domain.ErrInvalidInput)
		}
		item, err := uc.items.GetByID(ctx, req.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.ErrUnknownItem
		}
		lines = append(lines, entity.TransferLine{ItemID: req.ItemID, Quantity: req.Quantity})
	}

	if stored, err := uc.guard.Begin(ctx, in.IdempotencyKey, "transfer.request"); err != nil {
		return nil, err
	} else if stored != nil {
		return decodeTransfer(stored)
	}

	transfer := &entity.Transfer{
		ID:             uuid.New().String(),
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Lines:          lines,
		Status:         entity.TransferRequested,
		RequestedAt:    time.Now(),
		ActorID:        in.ActorID,
	}
	err := operation.WithBackoff(ctx, uc.retries, uc.backoff, func() error {
		return uc.txRunner.RunTransfer(ctx, func(
			_ repository.MovementRepository,
			levelRepo repository.LevelRepository,
			resRepo repository.ReservationRepository,
			transferRepo repository.TransferRepository,
		) error {
			if err := transferRepo.Create(ctx, transfer); err != nil {
				return err
			}
			for _, line := range transfer.Lines {
				if _, err := inventory.ReserveInTx(ctx, levelRepo, resRepo,
					line.ItemID, transfer.FromLocationID, line.Quantity, transfer.ID, uc.ttl); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		uc.guard.Abort(ctx, in.IdempotencyKey)
		return nil, err
	}
	out := transferResponse(transfer)
	if err := uc.guard.Done(ctx, in.IdempotencyKey, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Ship embarca: REQUESTED → IN_TRANSIT. Consume la reserva de origen y
// registra un TRANSFER_OUT por línea, bajando el on-hand de inmediato.
func (uc *UseCase) Ship(ctx context.Context, key, transferID, actorID string) (*dto.TransferResponse, error) {
	return uc.transition(ctx, key, "transfer.ship", transferID, func(
		ctx context.Context,
		movRepo repository.MovementRepository,
		levelRepo repository.LevelRepository,
		resRepo repository.ReservationRepository,
		transfer *entity.Transfer,
	) error {
		now := time.Now()
		if err := transfer.Ship(now); err != nil {
			return err
		}
		held := map[string][]*entity.Reservation{}
		reservations, err := resRepo.ListByReference(ctx, transfer.ID)
		if err != nil {
			return err
		}
		for _, r := range reservations {
			held[r.ItemID] = append(held[r.ItemID], r)
		}
		for _, line := range transfer.Lines {
			level, err := levelRepo.GetForUpdate(ctx, line.ItemID, transfer.FromLocationID)
			if err != nil {
				return err
			}
			if rs := held[line.ItemID]; len(rs) > 0 {
				res := rs[0]
				held[line.ItemID] = rs[1:]
				level.Reserved -= res.Quantity
				if level.Reserved < 0 {
					level.Reserved = 0
				}
				if err := resRepo.Delete(ctx, res.ID); err != nil {
					return err
				}
			} else if level.Available() < line.Quantity {
				// La reserva expiró y la barrieron: verificación al vuelo.
				return domain.ErrInsufficientStock
			}
			mov := &entity.StockMovement{
				ItemID:        line.ItemID,
				LocationID:    transfer.FromLocationID,
				QuantityDelta: -line.Quantity,
				Reason:        entity.ReasonTransferOut,
				ReferenceID:   transfer.ID,
				OccurredAt:    now,
				ActorID:       actorID,
			}
			if err := ledger.Append(ctx, movRepo, levelRepo, level, mov); err != nil {
				return err
			}
		}
		return nil
	})
}

// Receive recibe: IN_TRANSIT → RECEIVED. Registra un TRANSFER_IN por línea
// en destino. Con esto la suma de deltas del traslado en ambas ubicaciones
// queda en cero.
func (uc *UseCase) Receive(ctx context.Context, key, transferID, actorID string) (*dto.TransferResponse, error) {
	return uc.transition(ctx, key, "transfer.receive", transferID, func(
		ctx context.Context,
		movRepo repository.MovementRepository,
		levelRepo repository.LevelRepository,
		_ repository.ReservationRepository,
		transfer *entity.Transfer,
	) error {
		now := time.Now()
		if err := transfer.Receive(now); err != nil {
			return err
		}
		for _, line := range transfer.Lines {
			level, err := levelRepo.GetForUpdate(ctx, line.ItemID, transfer.ToLocationID)
			if err != nil {
				return err
			}
			mov := &entity.StockMovement{
				ItemID:        line.ItemID,
				LocationID:    transfer.ToLocationID,
				QuantityDelta: line.Quantity,
				Reason:        entity.ReasonTransferIn,
				ReferenceID:   transfer.ID,
				OccurredAt:    now,
				ActorID:       actorID,
			}
			if err := ledger.Append(ctx, movRepo, levelRepo, level, mov); err != nil {
				return err
			}
		}
		return nil
	})
}

// Cancel cancela: solo desde REQUESTED. Libera las reservas de origen; cero
// movimientos netos.
func (uc *UseCase) Cancel(ctx context.Context, key, transferID, actorID string) (*dto.TransferResponse, error) {
	return uc.transition(ctx, key, "transfer.cancel", transferID, func(
		ctx context.Context,
		_ repository.MovementRepository,
		levelRepo repository.LevelRepository,
		resRepo repository.ReservationRepository,
		transfer *entity.Transfer,
	) error {
		if err := transfer.Cancel(); err != nil {
			return err
		}
		reservations, err := resRepo.ListByReference(ctx, transfer.ID)
		if err != nil {
			return err
		}
		for _, res := range reservations {
			if err := inventory.ReleaseInTx(ctx, levelRepo, resRepo, res); err != nil {
				return err
			}
		}
		return nil
	})
}

// Get consulta un traslado. Lectura sin bloqueo.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.TransferResponse, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	transfer, err := uc.transfers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, domain.ErrNotFound
	}
	return transferResponse(transfer), nil
}

// InTransit lista lo embarcado y no recibido, filtrable por artículo o
// ubicación. Para conciliación: ese stock no es disponible en ningún lado.
func (uc *UseCase) InTransit(ctx context.Context, itemID, locationID string) ([]dto.InTransitResponse, error) {
	items, err := uc.transfers.ListInTransit(ctx, itemID, locationID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InTransitResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.InTransitResponse{
			TransferID:     it.TransferID,
			ItemID:         it.ItemID,
			FromLocationID: it.FromLocationID,
			ToLocationID:   it.ToLocationID,
			Quantity:       it.Quantity,
		})
	}
	return out, nil
}

// transition ejecuta una transición de estado idempotente sobre el traslado
// bloqueado, con reintento de fallos transitorios.
func (uc *UseCase) transition(
	ctx context.Context,
	key, kind, transferID string,
	fn func(ctx context.Context,
		movRepo repository.MovementRepository,
		levelRepo repository.LevelRepository,
		resRepo repository.ReservationRepository,
		transfer *entity.Transfer,
	) error,
) (*dto.TransferResponse, error) {
	if transferID == "" {
		return nil, domain.ErrInvalidInput
	}
	if stored, err := uc.guard.Begin(ctx, key, kind); err != nil {
		return nil, err
	} else if stored != nil {
		return decodeTransfer(stored)
	}

	var transfer *entity.Transfer
	err := operation.WithBackoff(ctx, uc.retries, uc.backoff, func() error {
		return uc.txRunner.RunTransfer(ctx, func(
			movRepo repository.MovementRepository,
			levelRepo repository.LevelRepository,
			resRepo repository.ReservationRepository,
			transferRepo repository.TransferRepository,
		) error {
			var err error
			transfer, err = transferRepo.GetForUpdate(ctx, transferID)
			if err != nil {
				return err
			}
			if transfer == nil {
				return domain.ErrNotFound
			}
			if err := fn(ctx, movRepo, levelRepo, resRepo, transfer); err != nil {
				return err
			}
			return transferRepo.Update(ctx, transfer)
		})
	})
	if err != nil {
		uc.guard.Abort(ctx, key)
		return nil, err
	}
	out := transferResponse(transfer)
	if err := uc.guard.Done(ctx, key, out); err != nil {
		return nil, err
	}
	return out, nil
}

func transferResponse(t *entity.Transfer) *dto.TransferResponse {
	lines := make([]dto.TransferLineResponse, 0, len(t.Lines))
	for _, l := range t.Lines {
		lines = append(lines, dto.TransferLineResponse{ItemID: l.ItemID, Quantity: l.Quantity})
	}
	return &dto.TransferResponse{
		TransferID:     t.ID,
		FromLocationID: t.FromLocationID,
		ToLocationID:   t.ToLocationID,
		Status:         string(t.Status),
		Lines:          lines,
		RequestedAt:    t.RequestedAt,
		ShippedAt:      t.ShippedAt,
		ReceivedAt:     t.ReceivedAt,
	}
}

func decodeTransfer(raw []byte) (*dto.TransferResponse, error) {
	var out dto.TransferResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("resultado idempotente corrupto: %w", err)
	}
	return &out, nil
}
