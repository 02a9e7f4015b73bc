package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// ReservationRepository persiste reservas de stock.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *entity.Reservation) error
	GetByID(ctx context.Context, id string) (*entity.Reservation, error)
	// ListByReference devuelve las reservas de una venta o traslado.
	ListByReference(ctx context.Context, referenceID string) ([]*entity.Reservation, error)
	// Delete elimina la reserva (consumo o liberación).
	Delete(ctx context.Context, id string) error
	// ListExpired devuelve reservas cuyo vencimiento ya pasó estrictamente,
	// para el barrido de expiración.
	ListExpired(ctx context.Context, now time.Time, limit int) ([]*entity.Reservation, error)
}
