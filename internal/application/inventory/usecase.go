package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// UseCase expone la vista de inventario: disponible, niveles y el ciclo de
// vida de reservas (reservar, liberar, barrido de expiradas).
type UseCase struct {
	txRunner     TxRunner
	levels       repository.LevelRepository // atado al pool, lecturas sin bloqueo
	reservations repository.ReservationRepository
	items        repository.ItemRepository
	locations    repository.LocationRepository
	ttl          time.Duration
	log          *logger.Logger
}

// NewUseCase construye el caso de uso. ttl es la vigencia por defecto de una
// reserva de carrito.
func NewUseCase(
	txRunner TxRunner,
	levels repository.LevelRepository,
	reservations repository.ReservationRepository,
	items repository.ItemRepository,
	locations repository.LocationRepository,
	ttl time.Duration,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		levels:       levels,
		reservations: reservations,
		items:        items,
		locations:    locations,
		ttl:          ttl,
		log:          log,
	}
}

// Available devuelve el disponible de un par. Lectura sin bloqueo: puede
// estar desfasada a lo sumo por una mutación en vuelo.
func (uc *UseCase) Available(ctx context.Context, itemID, locationID string) (*dto.AvailableResponse, error) {
	if itemID == "" || locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	level, err := uc.levels.Get(ctx, itemID, locationID)
	if err != nil {
		return nil, err
	}
	return &dto.AvailableResponse{
		ItemID:     itemID,
		LocationID: locationID,
		Available:  level.Available(),
	}, nil
}

// Levels lista los niveles de una ubicación.
func (uc *UseCase) Levels(ctx context.Context, locationID string, limit, offset int) ([]dto.LevelResponse, error) {
	if locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	levels, err := uc.levels.ListByLocation(ctx, locationID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LevelResponse, 0, len(levels))
	for _, l := range levels {
		out = append(out, dto.LevelResponse{
			ItemID:     l.ItemID,
			LocationID: l.LocationID,
			OnHand:     l.OnHand,
			Reserved:   l.Reserved,
			Available:  l.Available(),
			UpdatedAt:  l.UpdatedAt,
		})
	}
	return out, nil
}

// Reserve retiene cantidad contra el disponible sin tocar el on-hand.
// Falla con ErrInsufficientStock si el disponible no alcanza.
func (uc *UseCase) Reserve(ctx context.Context, in dto.ReserveRequest) (*dto.ReservationResponse, error) {
	if in.ItemID == "" || in.LocationID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.items.GetByID(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrUnknownItem
	}
	loc, err := uc.locations.GetByID(ctx, in.LocationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrUnknownLocation
	}

	var res *entity.Reservation
	err = uc.txRunner.RunInventory(ctx, func(
		levelRepo repository.LevelRepository,
		resRepo repository.ReservationRepository,
	) error {
		var err error
		res, err = ReserveInTx(ctx, levelRepo, resRepo, in.ItemID, in.LocationID, in.Quantity, in.ReferenceID, uc.ttl)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.ReservationResponse{
		ReservationID: res.ID,
		ItemID:        res.ItemID,
		LocationID:    res.LocationID,
		Quantity:      res.Quantity,
		ExpiresAt:     res.ExpiresAt,
	}, nil
}

// Release libera una reserva sin generar movimiento en el libro
// (anulación de carrito o reserva vencida).
func (uc *UseCase) Release(ctx context.Context, reservationID string) error {
	if reservationID == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunInventory(ctx, func(
		levelRepo repository.LevelRepository,
		resRepo repository.ReservationRepository,
	) error {
		res, err := resRepo.GetByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if res == nil {
			return domain.ErrReservationNotFound
		}
		return ReleaseInTx(ctx, levelRepo, resRepo, res)
	})
}

// ReserveInTx toma la reserva dentro de la transacción del caller: bloquea
// el nivel, verifica disponible y sube el reservado. Lo comparten el caso de
// uso de checkout (carrito) y el de traslados (retención en origen).
func ReserveInTx(
	ctx context.Context,
	levelRepo repository.LevelRepository,
	resRepo repository.ReservationRepository,
	itemID, locationID string,
	quantity int64,
	referenceID string,
	ttl time.Duration,
) (*entity.Reservation, error) {
	level, err := levelRepo.GetForUpdate(ctx, itemID, locationID)
	if err != nil {
		return nil, err
	}
	if level.Available() < quantity {
		return nil, domain.ErrInsufficientStock
	}
	level.Reserved += quantity
	level.UpdatedAt = time.Now()
	if err := levelRepo.Upsert(ctx, level); err != nil {
		return nil, err
	}
	res := &entity.Reservation{
		ID:          uuid.New().String(),
		ItemID:      itemID,
		LocationID:  locationID,
		Quantity:    quantity,
		ReferenceID: referenceID,
		ExpiresAt:   time.Now().Add(ttl),
		CreatedAt:   time.Now(),
	}
	if err := resRepo.Create(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// ReleaseInTx libera la reserva dentro de la transacción del caller:
// bloquea el nivel, baja el reservado (con piso en cero) y borra la fila.
func ReleaseInTx(
	ctx context.Context,
	levelRepo repository.LevelRepository,
	resRepo repository.ReservationRepository,
	res *entity.Reservation,
) error {
	level, err := levelRepo.GetForUpdate(ctx, res.ItemID, res.LocationID)
	if err != nil {
		return err
	}
	level.Reserved -= res.Quantity
	if level.Reserved < 0 {
		level.Reserved = 0
	}
	level.UpdatedAt = time.Now()
	if err := levelRepo.Upsert(ctx, level); err != nil {
		return err
	}
	return resRepo.Delete(ctx, res.ID)
}
