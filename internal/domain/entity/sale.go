package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
)

// SaleStatus es el estado cerrado de una venta POS.
type SaleStatus string

const (
	SaleOpen              SaleStatus = "OPEN"
	SaleCompleted         SaleStatus = "COMPLETED"
	SaleVoided            SaleStatus = "VOIDED"
	SaleRefunded          SaleStatus = "REFUNDED"
	SalePartiallyRefunded SaleStatus = "PARTIALLY_REFUNDED"
)

// Valid reporta si el estado pertenece al conjunto cerrado.
func (s SaleStatus) Valid() bool {
	switch s {
	case SaleOpen, SaleCompleted, SaleVoided, SaleRefunded, SalePartiallyRefunded:
		return true
	}
	return false
}

// Terminal reporta si desde este estado no hay más transiciones.
// PARTIALLY_REFUNDED no es terminal: admite devoluciones adicionales.
func (s SaleStatus) Terminal() bool {
	return s == SaleVoided || s == SaleRefunded
}

// SaleLine es una línea de venta. RefundedQty acumula lo ya devuelto para
// validar sobre-devoluciones línea a línea.
type SaleLine struct {
	ItemID      string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
	RefundedQty int64
}

// Subtotal devuelve cantidad * precio unitario - descuento.
func (l *SaleLine) Subtotal() decimal.Decimal {
	return decimal.NewFromInt(l.Quantity).Mul(l.UnitPrice).Sub(l.Discount)
}

// Sale es una venta POS. El caso de uso de checkout es su único dueño
// mientras está OPEN; una vez COMPLETED es inmutable salvo las transiciones
// de estado que disparan void/refund.
type Sale struct {
	ID          string
	LocationID  string
	Status      SaleStatus
	Lines       []SaleLine
	Total       decimal.Decimal
	CreatedAt   time.Time
	CompletedAt *time.Time
	ActorID     string
}

// ComputeTotal recalcula el total desde las líneas.
func (s *Sale) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range s.Lines {
		total = total.Add(s.Lines[i].Subtotal())
	}
	return total
}

// Complete transiciona OPEN → COMPLETED. El caller garantiza antes que cada
// línea tiene reserva viva o consumo de stock exitoso.
func (s *Sale) Complete(now time.Time) error {
	if s.Status != SaleOpen {
		return domain.ErrSaleNotOpen
	}
	s.Status = SaleCompleted
	s.CompletedAt = &now
	return nil
}

// Void transiciona OPEN → VOIDED. Una venta completada no puede anularse;
// para eso existe la devolución.
func (s *Sale) Void() error {
	if s.Status != SaleOpen {
		return domain.ErrSaleNotOpen
	}
	s.Status = SaleVoided
	return nil
}

// CanRefund reporta si la venta admite devoluciones en su estado actual.
func (s *Sale) CanRefund() bool {
	return s.Status == SaleCompleted || s.Status == SalePartiallyRefunded
}

// RefundableQty devuelve la cantidad aún devolvible para un artículo.
func (s *Sale) RefundableQty(itemID string) int64 {
	var qty int64
	for i := range s.Lines {
		if s.Lines[i].ItemID == itemID {
			qty += s.Lines[i].Quantity - s.Lines[i].RefundedQty
		}
	}
	return qty
}

// ApplyRefund acumula cantidades devueltas por línea y transiciona a
// REFUNDED o PARTIALLY_REFUNDED según quede o no saldo por devolver.
// Valida sobre-devolución por artículo antes de mutar nada y devuelve las
// asignaciones por línea con el monto prorrateado (descuento incluido).
func (s *Sale) ApplyRefund(quantities map[string]int64) ([]RefundLine, error) {
	if !s.CanRefund() {
		return nil, domain.ErrSaleNotCompleted
	}
	for itemID, qty := range quantities {
		if qty <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		if qty > s.RefundableQty(itemID) {
			return nil, domain.ErrOverRefund
		}
	}
	var allocations []RefundLine
	for itemID, qty := range quantities {
		remaining := qty
		for i := range s.Lines {
			if remaining == 0 {
				break
			}
			line := &s.Lines[i]
			if line.ItemID != itemID {
				continue
			}
			take := line.Quantity - line.RefundedQty
			if take > remaining {
				take = remaining
			}
			if take == 0 {
				continue
			}
			unitNet := line.Subtotal().Div(decimal.NewFromInt(line.Quantity))
			allocations = append(allocations, RefundLine{
				ItemID:   itemID,
				Quantity: take,
				Amount:   unitNet.Mul(decimal.NewFromInt(take)),
			})
			line.RefundedQty += take
			remaining -= take
		}
	}
	s.Status = SalePartiallyRefunded
	if s.fullyRefunded() {
		s.Status = SaleRefunded
	}
	return allocations, nil
}

func (s *Sale) fullyRefunded() bool {
	for i := range s.Lines {
		if s.Lines[i].RefundedQty < s.Lines[i].Quantity {
			return false
		}
	}
	return true
}
