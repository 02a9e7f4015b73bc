// Package memory implementa todos los puertos de persistencia sobre mapas
// en memoria, con semántica transaccional por snapshot. Pensado para tests
// de casos de uso y de concurrencia sin PostgreSQL.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Ventas-api/internal/application/checkout"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/application/ledger"
	"github.com/jhoicas/Ventas-api/internal/application/transfer"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// Ensure Store implementa los puertos de transacción de cada caso de uso.
var (
	_ ledger.TxRunner    = (*Store)(nil)
	_ inventory.TxRunner = (*Store)(nil)
	_ checkout.TxRunner  = (*Store)(nil)
	_ transfer.TxRunner  = (*Store)(nil)
)

type data struct {
	movements    []*entity.StockMovement
	levels       map[string]*entity.InventoryLevel // item|location
	reservations map[string]*entity.Reservation
	sales        map[string]*entity.Sale
	refunds      map[string]*entity.Refund
	transfers    map[string]*entity.Transfer
	items        map[string]*entity.Item
	locations    map[string]*entity.Location
	operations   map[string]*entity.Operation
}

// Store es el almacén en memoria. El mutex serializa transacciones y
// accesos directos, emulando los bloqueos de fila de PostgreSQL; cada
// transacción toma un snapshot y lo restaura si el callback falla.
type Store struct {
	mu sync.Mutex
	d  *data
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{d: &data{
		levels:       map[string]*entity.InventoryLevel{},
		reservations: map[string]*entity.Reservation{},
		sales:        map[string]*entity.Sale{},
		refunds:      map[string]*entity.Refund{},
		transfers:    map[string]*entity.Transfer{},
		items:        map[string]*entity.Item{},
		locations:    map[string]*entity.Location{},
		operations:   map[string]*entity.Operation{},
	}}
}

func levelKey(itemID, locationID string) string {
	return itemID + "|" + locationID
}

// ───────────────────────── Transacciones ─────────────────────────

func (s *Store) inTx(fn func(d *data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.d.clone()
	if err := fn(s.d); err != nil {
		s.d = snapshot
		return err
	}
	return nil
}

// Run transacción para operaciones del libro.
func (s *Store) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	levelRepo repository.LevelRepository,
) error) error {
	return s.inTx(func(d *data) error {
		return fn(movementRepo{d}, levelRepo{d})
	})
}

// RunInventory transacción para reservas y liberaciones.
func (s *Store) RunInventory(ctx context.Context, fn func(
	levelRepo repository.LevelRepository,
	resRepo repository.ReservationRepository,
) error) error {
	return s.inTx(func(d *data) error {
		return fn(levelRepo{d}, reservationRepo{d})
	})
}

// RunCheckout transacción para checkout, devolución y anulación.
func (s *Store) RunCheckout(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	levelRepo repository.LevelRepository,
	resRepo repository.ReservationRepository,
	saleRepo repository.SaleRepository,
	refundRepo repository.RefundRepository,
) error) error {
	return s.inTx(func(d *data) error {
		return fn(movementRepo{d}, levelRepo{d}, reservationRepo{d}, saleRepo{d}, refundRepo{d})
	})
}

// RunTransfer transacción para el protocolo de traslados.
func (s *Store) RunTransfer(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	levelRepo repository.LevelRepository,
	resRepo repository.ReservationRepository,
	transferRepo repository.TransferRepository,
) error) error {
	return s.inTx(func(d *data) error {
		return fn(movementRepo{d}, levelRepo{d}, reservationRepo{d}, transferRepo{d})
	})
}

// ───────────────── Accesores de repositorio (con bloqueo) ─────────────────

// Movements devuelve el repositorio de movimientos para acceso directo.
func (s *Store) Movements() repository.MovementRepository { return lockedMovements{s} }

// Levels devuelve el repositorio de niveles para acceso directo.
func (s *Store) Levels() repository.LevelRepository { return lockedLevels{s} }

// Reservations devuelve el repositorio de reservas para acceso directo.
func (s *Store) Reservations() repository.ReservationRepository { return lockedReservations{s} }

// Sales devuelve el repositorio de ventas para acceso directo.
func (s *Store) Sales() repository.SaleRepository { return lockedSales{s} }

// Refunds devuelve el repositorio de devoluciones para acceso directo.
func (s *Store) Refunds() repository.RefundRepository { return lockedRefunds{s} }

// Transfers devuelve el repositorio de traslados para acceso directo.
func (s *Store) Transfers() repository.TransferRepository { return lockedTransfers{s} }

// Items devuelve el catálogo de artículos.
func (s *Store) Items() repository.ItemRepository { return lockedItems{s} }

// Locations devuelve el catálogo de ubicaciones.
func (s *Store) Locations() repository.LocationRepository { return lockedLocations{s} }

// Operations devuelve el registro de idempotencia.
func (s *Store) Operations() repository.OperationRepository { return lockedOperations{s} }

// ───────────────────────── Siembra para tests ─────────────────────────

// SeedItem registra un artículo de catálogo.
func (s *Store) SeedItem(item *entity.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *item
	s.d.items[item.ID] = &c
}

// SeedLocation registra una ubicación.
func (s *Store) SeedLocation(loc *entity.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *loc
	s.d.locations[loc.ID] = &c
}

// SeedLevel fija el nivel de un par directamente (sin movimientos).
func (s *Store) SeedLevel(itemID, locationID string, onHand, reserved int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.levels[levelKey(itemID, locationID)] = &entity.InventoryLevel{
		ItemID: itemID, LocationID: locationID,
		OnHand: onHand, Reserved: reserved, UpdatedAt: time.Now(),
	}
}

// MovementCount devuelve cuántos movimientos hay registrados.
func (s *Store) MovementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.d.movements)
}

// ReservationCount devuelve cuántas reservas vivas hay.
func (s *Store) ReservationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.d.reservations)
}

// ───────────────────────── Snapshot ─────────────────────────

func (d *data) clone() *data {
	c := &data{
		movements:    append([]*entity.StockMovement(nil), d.movements...),
		levels:       make(map[string]*entity.InventoryLevel, len(d.levels)),
		reservations: make(map[string]*entity.Reservation, len(d.reservations)),
		sales:        make(map[string]*entity.Sale, len(d.sales)),
		refunds:      make(map[string]*entity.Refund, len(d.refunds)),
		transfers:    make(map[string]*entity.Transfer, len(d.transfers)),
		items:        make(map[string]*entity.Item, len(d.items)),
		locations:    make(map[string]*entity.Location, len(d.locations)),
		operations:   make(map[string]*entity.Operation, len(d.operations)),
	}
	for k, l := range d.levels {
		cp := *l
		c.levels[k] = &cp
	}
	for k, r := range d.reservations {
		cp := *r
		c.reservations[k] = &cp
	}
	for k, s := range d.sales {
		c.sales[k] = cloneSale(s)
	}
	for k, r := range d.refunds {
		c.refunds[k] = cloneRefund(r)
	}
	for k, t := range d.transfers {
		c.transfers[k] = cloneTransfer(t)
	}
	for k, i := range d.items {
		cp := *i
		c.items[k] = &cp
	}
	for k, l := range d.locations {
		cp := *l
		c.locations[k] = &cp
	}
	for k, o := range d.operations {
		cp := *o
		c.operations[k] = &cp
	}
	return c
}

func cloneSale(s *entity.Sale) *entity.Sale {
	c := *s
	c.Lines = append([]entity.SaleLine(nil), s.Lines...)
	return &c
}

func cloneRefund(r *entity.Refund) *entity.Refund {
	c := *r
	c.Lines = append([]entity.RefundLine(nil), r.Lines...)
	return &c
}

func cloneTransfer(t *entity.Transfer) *entity.Transfer {
	c := *t
	c.Lines = append([]entity.TransferLine(nil), t.Lines...)
	return &c
}
