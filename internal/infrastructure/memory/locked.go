package memory

import (
	"context"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// Envolturas con mutex para el acceso directo fuera de transacciones
// (lecturas de consulta, guard de idempotencia, barrido de expiración).

type lockedMovements struct{ s *Store }

func (r lockedMovements) Create(ctx context.Context, m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return movementRepo{r.s.d}.Create(ctx, m)
}

func (r lockedMovements) NextSequence(ctx context.Context, itemID, locationID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return movementRepo{r.s.d}.NextSequence(ctx, itemID, locationID)
}

func (r lockedMovements) ListByItemLocation(ctx context.Context, itemID, locationID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return movementRepo{r.s.d}.ListByItemLocation(ctx, itemID, locationID, from, to, limit, offset)
}

func (r lockedMovements) ListByReference(ctx context.Context, referenceID string) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return movementRepo{r.s.d}.ListByReference(ctx, referenceID)
}

func (r lockedMovements) SumDeltas(ctx context.Context, itemID, locationID string, asOf time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return movementRepo{r.s.d}.SumDeltas(ctx, itemID, locationID, asOf)
}

type lockedLevels struct{ s *Store }

func (r lockedLevels) Get(ctx context.Context, itemID, locationID string) (*entity.InventoryLevel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return levelRepo{r.s.d}.Get(ctx, itemID, locationID)
}

func (r lockedLevels) GetForUpdate(ctx context.Context, itemID, locationID string) (*entity.InventoryLevel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return levelRepo{r.s.d}.GetForUpdate(ctx, itemID, locationID)
}

func (r lockedLevels) Upsert(ctx context.Context, level *entity.InventoryLevel) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return levelRepo{r.s.d}.Upsert(ctx, level)
}

func (r lockedLevels) ListByLocation(ctx context.Context, locationID string, limit, offset int) ([]*entity.InventoryLevel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return levelRepo{r.s.d}.ListByLocation(ctx, locationID, limit, offset)
}

type lockedReservations struct{ s *Store }

func (r lockedReservations) Create(ctx context.Context, res *entity.Reservation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return reservationRepo{r.s.d}.Create(ctx, res)
}

func (r lockedReservations) GetByID(ctx context.Context, id string) (*entity.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return reservationRepo{r.s.d}.GetByID(ctx, id)
}

func (r lockedReservations) ListByReference(ctx context.Context, referenceID string) ([]*entity.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return reservationRepo{r.s.d}.ListByReference(ctx, referenceID)
}

func (r lockedReservations) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return reservationRepo{r.s.d}.Delete(ctx, id)
}

func (r lockedReservations) ListExpired(ctx context.Context, now time.Time, limit int) ([]*entity.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return reservationRepo{r.s.d}.ListExpired(ctx, now, limit)
}

type lockedSales struct{ s *Store }

func (r lockedSales) Create(ctx context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return saleRepo{r.s.d}.Create(ctx, sale)
}

func (r lockedSales) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return saleRepo{r.s.d}.GetByID(ctx, id)
}

func (r lockedSales) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return saleRepo{r.s.d}.GetForUpdate(ctx, id)
}

func (r lockedSales) Update(ctx context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return saleRepo{r.s.d}.Update(ctx, sale)
}

type lockedRefunds struct{ s *Store }

func (r lockedRefunds) Create(ctx context.Context, refund *entity.Refund) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return refundRepo{r.s.d}.Create(ctx, refund)
}

func (r lockedRefunds) GetByID(ctx context.Context, id string) (*entity.Refund, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return refundRepo{r.s.d}.GetByID(ctx, id)
}

func (r lockedRefunds) ListBySale(ctx context.Context, saleID string) ([]*entity.Refund, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return refundRepo{r.s.d}.ListBySale(ctx, saleID)
}

type lockedTransfers struct{ s *Store }

func (r lockedTransfers) Create(ctx context.Context, t *entity.Transfer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return transferRepo{r.s.d}.Create(ctx, t)
}

func (r lockedTransfers) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return transferRepo{r.s.d}.GetByID(ctx, id)
}

func (r lockedTransfers) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return transferRepo{r.s.d}.GetForUpdate(ctx, id)
}

func (r lockedTransfers) Update(ctx context.Context, t *entity.Transfer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return transferRepo{r.s.d}.Update(ctx, t)
}

func (r lockedTransfers) ListInTransit(ctx context.Context, itemID, locationID string) ([]repository.InTransitItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return transferRepo{r.s.d}.ListInTransit(ctx, itemID, locationID)
}

type lockedItems struct{ s *Store }

func (r lockedItems) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return itemRepo{r.s.d}.GetByID(ctx, id)
}

type lockedLocations struct{ s *Store }

func (r lockedLocations) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return locationRepo{r.s.d}.GetByID(ctx, id)
}

type lockedOperations struct{ s *Store }

func (r lockedOperations) InsertRunning(ctx context.Context, op *entity.Operation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return operationRepo{r.s.d}.InsertRunning(ctx, op)
}

func (r lockedOperations) Get(ctx context.Context, key string) (*entity.Operation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return operationRepo{r.s.d}.Get(ctx, key)
}

func (r lockedOperations) MarkDone(ctx context.Context, key string, result []byte) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return operationRepo{r.s.d}.MarkDone(ctx, key, result)
}

func (r lockedOperations) Delete(ctx context.Context, key string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return operationRepo{r.s.d}.Delete(ctx, key)
}
