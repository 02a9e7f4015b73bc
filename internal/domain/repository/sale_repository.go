package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// SaleRepository persiste ventas con sus líneas.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// GetForUpdate bloquea la venta para una transición de estado.
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	// Update persiste estado, totales y cantidades devueltas por línea.
	Update(ctx context.Context, sale *entity.Sale) error
}

// RefundRepository persiste devoluciones.
type RefundRepository interface {
	Create(ctx context.Context, refund *entity.Refund) error
	GetByID(ctx context.Context, id string) (*entity.Refund, error)
	ListBySale(ctx context.Context, saleID string) ([]*entity.Refund, error)
}
