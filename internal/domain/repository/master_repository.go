package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// ItemRepository resuelve referencias de catálogo. Solo lectura desde el
// motor; el CRUD vive en el servicio de catálogo.
type ItemRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Item, error)
}

// LocationRepository resuelve referencias de tiendas y bodegas.
type LocationRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Location, error)
}
