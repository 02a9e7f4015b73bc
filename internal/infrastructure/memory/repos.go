package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// Implementaciones sin bloqueo, atadas a los datos de una transacción en
// curso. Las variantes locked* al final envuelven estas mismas con el mutex
// del Store para el acceso directo fuera de transacciones.

var (
	_ repository.MovementRepository    = movementRepo{}
	_ repository.LevelRepository       = levelRepo{}
	_ repository.ReservationRepository = reservationRepo{}
	_ repository.SaleRepository        = saleRepo{}
	_ repository.RefundRepository      = refundRepo{}
	_ repository.TransferRepository    = transferRepo{}
	_ repository.ItemRepository        = itemRepo{}
	_ repository.LocationRepository    = locationRepo{}
	_ repository.OperationRepository   = operationRepo{}
)

type movementRepo struct{ d *data }

func (r movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	c := *m
	r.d.movements = append(r.d.movements, &c)
	return nil
}

func (r movementRepo) NextSequence(_ context.Context, itemID, locationID string) (int64, error) {
	var max int64
	for _, m := range r.d.movements {
		if m.ItemID == itemID && m.LocationID == locationID && m.Sequence > max {
			max = m.Sequence
		}
	}
	return max + 1, nil
}

func (r movementRepo) ListByItemLocation(_ context.Context, itemID, locationID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for _, m := range r.d.movements {
		if m.ItemID != itemID || m.LocationID != locationID {
			continue
		}
		if from != nil && m.OccurredAt.Before(*from) {
			continue
		}
		if to != nil && m.OccurredAt.After(*to) {
			continue
		}
		c := *m
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Sequence < list[j].Sequence })
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (r movementRepo) ListByReference(_ context.Context, referenceID string) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for _, m := range r.d.movements {
		if m.ReferenceID == referenceID {
			c := *m
			list = append(list, &c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].OccurredAt.Before(list[j].OccurredAt) })
	return list, nil
}

func (r movementRepo) SumDeltas(_ context.Context, itemID, locationID string, asOf time.Time) (int64, error) {
	var sum int64
	for _, m := range r.d.movements {
		if m.ItemID == itemID && m.LocationID == locationID && !m.OccurredAt.After(asOf) {
			sum += m.QuantityDelta
		}
	}
	return sum, nil
}

type levelRepo struct{ d *data }

func (r levelRepo) Get(_ context.Context, itemID, locationID string) (*entity.InventoryLevel, error) {
	if l, ok := r.d.levels[levelKey(itemID, locationID)]; ok {
		c := *l
		return &c, nil
	}
	return &entity.InventoryLevel{ItemID: itemID, LocationID: locationID}, nil
}

func (r levelRepo) GetForUpdate(ctx context.Context, itemID, locationID string) (*entity.InventoryLevel, error) {
	// El mutex del Store ya serializa: equivale al bloqueo de fila.
	return r.Get(ctx, itemID, locationID)
}

func (r levelRepo) Upsert(_ context.Context, level *entity.InventoryLevel) error {
	c := *level
	c.UpdatedAt = time.Now()
	r.d.levels[levelKey(level.ItemID, level.LocationID)] = &c
	return nil
}

func (r levelRepo) ListByLocation(_ context.Context, locationID string, limit, offset int) ([]*entity.InventoryLevel, error) {
	var list []*entity.InventoryLevel
	for _, l := range r.d.levels {
		if l.LocationID == locationID {
			c := *l
			list = append(list, &c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ItemID < list[j].ItemID })
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

type reservationRepo struct{ d *data }

func (r reservationRepo) Create(_ context.Context, res *entity.Reservation) error {
	c := *res
	r.d.reservations[res.ID] = &c
	return nil
}

func (r reservationRepo) GetByID(_ context.Context, id string) (*entity.Reservation, error) {
	if res, ok := r.d.reservations[id]; ok {
		c := *res
		return &c, nil
	}
	return nil, nil
}

func (r reservationRepo) ListByReference(_ context.Context, referenceID string) ([]*entity.Reservation, error) {
	var list []*entity.Reservation
	for _, res := range r.d.reservations {
		if res.ReferenceID == referenceID {
			c := *res
			list = append(list, &c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (r reservationRepo) Delete(_ context.Context, id string) error {
	delete(r.d.reservations, id)
	return nil
}

func (r reservationRepo) ListExpired(_ context.Context, now time.Time, limit int) ([]*entity.Reservation, error) {
	var list []*entity.Reservation
	for _, res := range r.d.reservations {
		if res.Expired(now) {
			c := *res
			list = append(list, &c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ExpiresAt.Before(list[j].ExpiresAt) })
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

type saleRepo struct{ d *data }

func (r saleRepo) Create(_ context.Context, sale *entity.Sale) error {
	r.d.sales[sale.ID] = cloneSale(sale)
	return nil
}

func (r saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	if s, ok := r.d.sales[id]; ok {
		return cloneSale(s), nil
	}
	return nil, nil
}

func (r saleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r saleRepo) Update(_ context.Context, sale *entity.Sale) error {
	r.d.sales[sale.ID] = cloneSale(sale)
	return nil
}

type refundRepo struct{ d *data }

func (r refundRepo) Create(_ context.Context, refund *entity.Refund) error {
	r.d.refunds[refund.ID] = cloneRefund(refund)
	return nil
}

func (r refundRepo) GetByID(_ context.Context, id string) (*entity.Refund, error) {
	if ref, ok := r.d.refunds[id]; ok {
		return cloneRefund(ref), nil
	}
	return nil, nil
}

func (r refundRepo) ListBySale(_ context.Context, saleID string) ([]*entity.Refund, error) {
	var list []*entity.Refund
	for _, ref := range r.d.refunds {
		if ref.SaleID == saleID {
			list = append(list, cloneRefund(ref))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

type transferRepo struct{ d *data }

func (r transferRepo) Create(_ context.Context, t *entity.Transfer) error {
	r.d.transfers[t.ID] = cloneTransfer(t)
	return nil
}

func (r transferRepo) GetByID(_ context.Context, id string) (*entity.Transfer, error) {
	if t, ok := r.d.transfers[id]; ok {
		return cloneTransfer(t), nil
	}
	return nil, nil
}

func (r transferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.GetByID(ctx, id)
}

func (r transferRepo) Update(_ context.Context, t *entity.Transfer) error {
	r.d.transfers[t.ID] = cloneTransfer(t)
	return nil
}

func (r transferRepo) ListInTransit(_ context.Context, itemID, locationID string) ([]repository.InTransitItem, error) {
	var list []repository.InTransitItem
	for _, t := range r.d.transfers {
		if t.Status != entity.TransferInTransit {
			continue
		}
		if locationID != "" && t.FromLocationID != locationID && t.ToLocationID != locationID {
			continue
		}
		for _, line := range t.Lines {
			if itemID != "" && line.ItemID != itemID {
				continue
			}
			list = append(list, repository.InTransitItem{
				TransferID:     t.ID,
				ItemID:         line.ItemID,
				FromLocationID: t.FromLocationID,
				ToLocationID:   t.ToLocationID,
				Quantity:       line.Quantity,
			})
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].TransferID < list[j].TransferID })
	return list, nil
}

type itemRepo struct{ d *data }

func (r itemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	if it, ok := r.d.items[id]; ok {
		c := *it
		return &c, nil
	}
	return nil, nil
}

type locationRepo struct{ d *data }

func (r locationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	if l, ok := r.d.locations[id]; ok {
		c := *l
		return &c, nil
	}
	return nil, nil
}

type operationRepo struct{ d *data }

func (r operationRepo) InsertRunning(_ context.Context, op *entity.Operation) error {
	if _, ok := r.d.operations[op.Key]; ok {
		return domain.ErrDuplicate
	}
	c := *op
	r.d.operations[op.Key] = &c
	return nil
}

func (r operationRepo) Get(_ context.Context, key string) (*entity.Operation, error) {
	if o, ok := r.d.operations[key]; ok {
		c := *o
		return &c, nil
	}
	return nil, nil
}

func (r operationRepo) MarkDone(_ context.Context, key string, result []byte) error {
	if o, ok := r.d.operations[key]; ok {
		o.Status = entity.OperationDone
		o.Result = result
		o.UpdatedAt = time.Now()
	}
	return nil
}

func (r operationRepo) Delete(_ context.Context, key string) error {
	delete(r.d.operations, key)
	return nil
}
