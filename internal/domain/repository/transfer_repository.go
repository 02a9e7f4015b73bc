package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// InTransitItem es una línea de traslado embarcada y aún no recibida:
// stock que no cuenta como disponible en ninguna ubicación.
type InTransitItem struct {
	TransferID     string
	ItemID         string
	FromLocationID string
	ToLocationID   string
	Quantity       int64
}

// TransferRepository persiste traslados con sus líneas.
type TransferRepository interface {
	Create(ctx context.Context, transfer *entity.Transfer) error
	GetByID(ctx context.Context, id string) (*entity.Transfer, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error)
	Update(ctx context.Context, transfer *entity.Transfer) error
	// ListInTransit lista lo embarcado y no recibido, opcionalmente filtrado
	// por artículo o ubicación (origen o destino). Para conciliación.
	ListInTransit(ctx context.Context, itemID, locationID string) ([]InTransitItem, error)
}
