package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/application/ledger"
	"github.com/jhoicas/Ventas-api/internal/application/operation"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// UseCase es el coordinador de transacciones de venta POS: abre carritos con
// reserva, completa checkouts, registra devoluciones y anula ventas abiertas.
// Es el único componente autorizado a generar movimientos SALE y REFUND.
type UseCase struct {
	txRunner  TxRunner
	pricing   PricingResolver
	items     repository.ItemRepository
	locations repository.LocationRepository
	sales     repository.SaleRepository // atado al pool, solo lecturas
	guard     *operation.Guard
	ttl       time.Duration // vigencia de reservas de carrito
	retries   int
	backoff   time.Duration
	log       *logger.Logger
}

// NewUseCase construye el coordinador.
func NewUseCase(
	txRunner TxRunner,
	pricing PricingResolver,
	items repository.ItemRepository,
	locations repository.LocationRepository,
	sales repository.SaleRepository,
	guard *operation.Guard,
	ttl time.Duration,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:  txRunner,
		pricing:   pricing,
		items:     items,
		locations: locations,
		sales:     sales,
		guard:     guard,
		ttl:       ttl,
		retries:   3,
		backoff:   50 * time.Millisecond,
		log:       log,
	}
}

// OpenSaleInput entrada para abrir un carrito.
type OpenSaleInput struct {
	IdempotencyKey string
	LocationID     string
	ActorID        string
	Lines          []dto.SaleLineRequest
}

// OpenSale crea una venta OPEN con una reserva viva por línea. El stock
// reservado deja de estar disponible sin tocar el on-hand hasta el checkout.
func (uc *UseCase) OpenSale(ctx context.Context, in OpenSaleInput) (*dto.SaleResponse, error) {
	lines, err := uc.buildLines(ctx, in.LocationID, in.Lines)
	if err != nil {
		return nil, err
	}
	if stored, err := uc.guard.Begin(ctx, in.IdempotencyKey, "open_sale"); err != nil {
		return nil, err
	} else if stored != nil {
		return decodeSale(stored)
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:         uuid.New().String(),
		LocationID: in.LocationID,
		Status:     entity.SaleOpen,
		Lines:      lines,
		CreatedAt:  now,
		ActorID:    in.ActorID,
	}
	sale.Total = sale.ComputeTotal()

	err = operation.WithBackoff(ctx, uc.retries, uc.backoff, func() error {
		return uc.txRunner.RunCheckout(ctx, func(
			_ repository.MovementRepository,
			levelRepo repository.LevelRepository,
			resRepo repository.ReservationRepository,
			saleRepo repository.SaleRepository,
			_ repository.RefundRepository,
		) error {
			if err := saleRepo.Create(ctx, sale); err != nil {
				return err
			}
			for i := range sale.Lines {
				line := &sale.Lines[i]
				if _, err := inventory.ReserveInTx(ctx, levelRepo, resRepo,
					line.ItemID, sale.LocationID, line.Quantity, sale.ID, uc.ttl); err != nil {
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
	out := saleResponse(sale)
	if err := uc.guard.Done(ctx, in.IdempotencyKey, out); err != nil {
		return nil, err
	}
	return out, nil
}

// CheckoutInput entrada para completar una venta. O referencia una venta
// OPEN, o trae el borrador inline (LocationID + Lines) y se abre y completa
// en la misma unidad atómica con reserva-y-consumo inmediatos.
type CheckoutInput struct {
	IdempotencyKey string
	SaleID         string
	LocationID     string
	ActorID        string
	Lines          []dto.SaleLineRequest
}

// Checkout consume las reservas de la venta (o verifica y consume stock al
// vuelo si la reserva expiró o el borrador es inline), genera un movimiento
// SALE con delta negativo por línea y marca la venta COMPLETED. Cualquier
// línea sin stock revierte la unidad completa.
func (uc *UseCase) Checkout(ctx context.Context, in CheckoutInput) (*dto.SaleResponse, error) {
	inline := in.SaleID == ""
	var draftLines []entity.SaleLine
	if inline {
		var err error
		draftLines, err = uc.buildLines(ctx, in.LocationID, in.Lines)
		if err != nil {
			return nil, err
		}
	}
	if stored, err := uc.guard.Begin(ctx, in.IdempotencyKey, "checkout"); err != nil {
		return nil, err
	} else if stored != nil {
		return decodeSale(stored)
	}

	var sale *entity.Sale
	err := operation.WithBackoff(ctx, uc.retries, uc.backoff, func() error {
		return uc.txRunner.RunCheckout(ctx, func(
			movRepo repository.MovementRepository,
			levelRepo repository.LevelRepository,
			resRepo repository.ReservationRepository,
			saleRepo repository.SaleRepository,
			_ repository.RefundRepository,
		) error {
			now := time.Now()
			if inline {
				sale = &entity.Sale{
					ID:         uuid.New().String(),
					LocationID: in.LocationID,
					Status:     entity.SaleOpen,
					Lines:      draftLines,
					CreatedAt:  now,
					ActorID:    in.ActorID,
				}
				sale.Total = sale.ComputeTotal()
				if err := saleRepo.Create(ctx, sale); err != nil {
					return err
				}
			} else {
				var err error
				sale, err = saleRepo.GetForUpdate(ctx, in.SaleID)
				if err != nil {
					return err
				}
				if sale == nil {
					return domain.ErrInvalidSale
				}
				if sale.Status != entity.SaleOpen {
					return fmt.Errorf("%w: estado %s", domain.ErrInvalidSale, sale.Status)
				}
			}

			// Reservas vivas de la venta, por artículo. Una reserva barrida
			// por expiración obliga a verificar disponible al vuelo.
			held := map[string][]*entity.Reservation{}
			if !inline {
				reservations, err := resRepo.ListByReference(ctx, sale.ID)
				if err != nil {
					return err
				}
				for _, r := range reservations {
					held[r.ItemID] = append(held[r.ItemID], r)
				}
			}

			for i := range sale.Lines {
				line := &sale.Lines[i]
				level, err := levelRepo.GetForUpdate(ctx, line.ItemID, sale.LocationID)
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
					return domain.ErrInsufficientStock
				}
				mov := &entity.StockMovement{
					ItemID:        line.ItemID,
					LocationID:    sale.LocationID,
					QuantityDelta: -line.Quantity,
					Reason:        entity.ReasonSale,
					ReferenceID:   sale.ID,
					OccurredAt:    now,
					ActorID:       in.ActorID,
				}
				if err := ledger.Append(ctx, movRepo, levelRepo, level, mov); err != nil {
					return err
				}
			}

			if err := sale.Complete(now); err != nil {
				return err
			}
			return saleRepo.Update(ctx, sale)
		})
	})
	if err != nil {
		uc.guard.Abort(ctx, in.IdempotencyKey)
		return nil, err
	}
	out := saleResponse(sale)
	if err := uc.guard.Done(ctx, in.IdempotencyKey, out); err != nil {
		return nil, err
	}
	return out, nil
}

// RefundInput entrada para devolver líneas de una venta completada.
type RefundInput struct {
	IdempotencyKey string
	SaleID         string
	ActorID        string
	Lines          []dto.RefundLineRequest
}

// Refund valida que lo devuelto por artículo nunca exceda lo vendido menos
// lo ya devuelto, genera movimientos REFUND con delta positivo y transiciona
// la venta a REFUNDED o PARTIALLY_REFUNDED.
func (uc *UseCase) Refund(ctx context.Context, in RefundInput) (*dto.RefundResponse, error) {
	if in.SaleID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	quantities := map[string]int64{}
	for _, l := range in.Lines {
		if l.ItemID == "" || l.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		quantities[l.ItemID] += l.Quantity
	}
	if stored, err := uc.guard.Begin(ctx, in.IdempotencyKey, "refund"); err != nil {
		return nil, err
	} else if stored != nil {
		var out dto.RefundResponse
		if err := json.Unmarshal(stored, &out); err != nil {
			return nil, fmt.Errorf("resultado idempotente corrupto: %w", err)
		}
		return &out, nil
	}

	var out *dto.RefundResponse
	err := operation.WithBackoff(ctx, uc.retries, uc.backoff, func() error {
		return uc.txRunner.RunCheckout(ctx, func(
			movRepo repository.MovementRepository,
			levelRepo repository.LevelRepository,
			_ repository.ReservationRepository,
			saleRepo repository.SaleRepository,
			refundRepo repository.RefundRepository,
		) error {
			sale, err := saleRepo.GetForUpdate(ctx, in.SaleID)
			if err != nil {
				return err
			}
			if sale == nil {
				return domain.ErrNotFound
			}
			allocations, err := sale.ApplyRefund(quantities)
			if err != nil {
				return err
			}

			now := time.Now()
			refund := &entity.Refund{
				ID:        uuid.New().String(),
				SaleID:    sale.ID,
				Lines:     allocations,
				CreatedAt: now,
				ActorID:   in.ActorID,
			}
			total := decimal.Zero
			for _, alloc := range allocations {
				total = total.Add(alloc.Amount)
				level, err := levelRepo.GetForUpdate(ctx, alloc.ItemID, sale.LocationID)
				if err != nil {
					return err
				}
				mov := &entity.StockMovement{
					ItemID:        alloc.ItemID,
					LocationID:    sale.LocationID,
					QuantityDelta: alloc.Quantity,
					Reason:        entity.ReasonRefund,
					ReferenceID:   refund.ID,
					OccurredAt:    now,
					ActorID:       in.ActorID,
				}
				if err := ledger.Append(ctx, movRepo, levelRepo, level, mov); err != nil {
					return err
				}
			}
			refund.Total = total

			if err := refundRepo.Create(ctx, refund); err != nil {
				return err
			}
			if err := saleRepo.Update(ctx, sale); err != nil {
				return err
			}
			out = &dto.RefundResponse{
				RefundID:   refund.ID,
				SaleID:     sale.ID,
				SaleStatus: string(sale.Status),
				Total:      refund.Total,
				CreatedAt:  refund.CreatedAt,
			}
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

// VoidInput entrada para anular una venta abierta.
type VoidInput struct {
	IdempotencyKey string
	SaleID         string
	ActorID        string
}

// Void anula una venta OPEN: libera todas sus reservas sin generar ningún
// movimiento en el libro. Una venta completada no puede anularse.
func (uc *UseCase) Void(ctx context.Context, in VoidInput) (*dto.SaleResponse, error) {
	if in.SaleID == "" {
		return nil, domain.ErrInvalidInput
	}
	if stored, err := uc.guard.Begin(ctx, in.IdempotencyKey, "void"); err != nil {
		return nil, err
	} else if stored != nil {
		return decodeSale(stored)
	}

	var sale *entity.Sale
	err := operation.WithBackoff(ctx, uc.retries, uc.backoff, func() error {
		return uc.txRunner.RunCheckout(ctx, func(
			_ repository.MovementRepository,
			levelRepo repository.LevelRepository,
			resRepo repository.ReservationRepository,
			saleRepo repository.SaleRepository,
			_ repository.RefundRepository,
		) error {
			var err error
			sale, err = saleRepo.GetForUpdate(ctx, in.SaleID)
			if err != nil {
				return err
			}
			if sale == nil {
				return domain.ErrNotFound
			}
			if err := sale.Void(); err != nil {
				return err
			}
			reservations, err := resRepo.ListByReference(ctx, sale.ID)
			if err != nil {
				return err
			}
			for _, res := range reservations {
				if err := inventory.ReleaseInTx(ctx, levelRepo, resRepo, res); err != nil {
					return err
				}
			}
			return saleRepo.Update(ctx, sale)
		})
	})
	if err != nil {
		uc.guard.Abort(ctx, in.IdempotencyKey)
		return nil, err
	}
	out := saleResponse(sale)
	if err := uc.guard.Done(ctx, in.IdempotencyKey, out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSale consulta una venta por ID. Lectura sin bloqueo.
func (uc *UseCase) GetSale(ctx context.Context, id string) (*dto.SaleResponse, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	sale, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return saleResponse(sale), nil
}

// buildLines valida ubicación y artículos, y resuelve precios con el
// PricingResolver cuando el borrador no los trae. Solo lecturas, fuera de
// la transacción.
func (uc *UseCase) buildLines(ctx context.Context, locationID string, in []dto.SaleLineRequest) ([]entity.SaleLine, error) {
	if locationID == "" || len(in) == 0 {
		return nil, fmt.Errorf("%w: ubicación y líneas requeridas", domain.ErrInvalidSale)
	}
	loc, err := uc.locations.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrUnknownLocation
	}
	lines := make([]entity.SaleLine, 0, len(in))
	for _, req := range in {
		if req.ItemID == "" || req.Quantity <= 0 {
			return nil, fmt.Errorf("%w: línea con artículo vacío o cantidad no positiva", domain.ErrInvalidSale)
		}
		item, err := uc.items.GetByID(ctx, req.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.ErrUnknownItem
		}
		line := entity.SaleLine{ItemID: req.ItemID, Quantity: req.Quantity}
		if req.UnitPrice != nil {
			line.UnitPrice = *req.UnitPrice
			if req.Discount != nil {
				line.Discount = *req.Discount
			}
		} else {
			price, discount, err := uc.pricing.Resolve(ctx, req.ItemID, req.Quantity)
			if err != nil {
				return nil, fmt.Errorf("resolver precio: %w", err)
			}
			line.UnitPrice = price
			line.Discount = discount
		}
		if line.UnitPrice.LessThan(decimal.Zero) || line.Discount.LessThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: precio o descuento negativo", domain.ErrInvalidSale)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func saleResponse(s *entity.Sale) *dto.SaleResponse {
	lines := make([]dto.SaleLineResponse, 0, len(s.Lines))
	for i := range s.Lines {
		l := &s.Lines[i]
		lines = append(lines, dto.SaleLineResponse{
			ItemID:      l.ItemID,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Discount:    l.Discount,
			RefundedQty: l.RefundedQty,
			Subtotal:    l.Subtotal(),
		})
	}
	return &dto.SaleResponse{
		SaleID:      s.ID,
		LocationID:  s.LocationID,
		Status:      string(s.Status),
		Lines:       lines,
		Total:       s.Total,
		CreatedAt:   s.CreatedAt,
		CompletedAt: s.CompletedAt,
	}
}

func decodeSale(raw []byte) (*dto.SaleResponse, error) {
	var out dto.SaleResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("resultado idempotente corrupto: %w", err)
	}
	return &out, nil
}
