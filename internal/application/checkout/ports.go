package checkout

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con todos los
// repositorios que toca un checkout/devolución/anulación. O se aplican todos
// los movimientos y actualizaciones, o ninguno.
type TxRunner interface {
	RunCheckout(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		levelRepo repository.LevelRepository,
		resRepo repository.ReservationRepository,
		saleRepo repository.SaleRepository,
		refundRepo repository.RefundRepository,
	) error) error
}

// PricingResolver entrega precio unitario y descuento de una línea.
// Colaborador externo (motor de promociones/precios): se consume, no se
// posee. El coordinador lo invoca solo cuando el borrador no trae precio.
type PricingResolver interface {
	Resolve(ctx context.Context, itemID string, quantity int64) (unitPrice, discount decimal.Decimal, err error)
}
