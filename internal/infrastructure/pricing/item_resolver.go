// Package pricing resuelve precios por defecto desde el catálogo. Es el
// adaptador mínimo del puerto PricingResolver: precio de lista del artículo
// y descuento cero. Un motor de promociones externo puede sustituirlo.
package pricing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/application/checkout"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ checkout.PricingResolver = (*ItemResolver)(nil)

// ItemResolver resuelve el precio de lista del catálogo.
type ItemResolver struct {
	items repository.ItemRepository
}

// NewItemResolver construye el resolver.
func NewItemResolver(items repository.ItemRepository) *ItemResolver {
	return &ItemResolver{items: items}
}

// Resolve devuelve el precio de lista y descuento cero.
func (r *ItemResolver) Resolve(ctx context.Context, itemID string, quantity int64) (decimal.Decimal, decimal.Decimal, error) {
	item, err := r.items.GetByID(ctx, itemID)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("resolver precio: %w", err)
	}
	if item == nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: %s", domain.ErrUnknownItem, itemID)
	}
	return item.Price, decimal.Zero, nil
}
