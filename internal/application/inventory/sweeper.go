package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// Sweeper recupera reservas vencidas y no liberadas en intervalos fijos.
// Sin él, el stock reservado por carritos abandonados queda perpetuamente
// indisponible. Es seguro frente a tráfico vivo: cada liberación re-lee la
// reserva bajo la transacción y solo recupera las estrictamente vencidas.
type Sweeper struct {
	uc       *UseCase
	interval time.Duration
	batch    int
	log      *logger.Logger
}

// NewSweeper construye el barrido.
func NewSweeper(uc *UseCase, interval time.Duration, batch int, log *logger.Logger) *Sweeper {
	if batch <= 0 {
		batch = 100
	}
	return &Sweeper{uc: uc, interval: interval, batch: batch, log: log}
}

// Run ejecuta el barrido en loop hasta que el ctx se cancele.
// Pensado para correr en una goroutine desde main.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reclaimed, err := s.Sweep(ctx)
			if err != nil {
				s.log.Error().Err(err).Msg("barrido de reservas vencidas")
				continue
			}
			if reclaimed > 0 {
				s.log.Info().Int("reclaimed", reclaimed).Msg("reservas vencidas recuperadas")
			}
		}
	}
}

// Sweep recupera un lote de reservas vencidas y devuelve cuántas liberó.
// Una reserva consumida o liberada entre el listado y su transacción se
// salta sin error; la que siga viva (reloj corrido) también.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	now := time.Now()
	expired, err := s.uc.reservations.ListExpired(ctx, now, s.batch)
	if err != nil {
		return 0, err
	}
	reclaimed := 0
	for _, candidate := range expired {
		id := candidate.ID
		err := s.uc.txRunner.RunInventory(ctx, func(
			levelRepo repository.LevelRepository,
			resRepo repository.ReservationRepository,
		) error {
			res, err := resRepo.GetByID(ctx, id)
			if err != nil {
				return err
			}
			// Consumida o liberada entre el listado y esta tx.
			if res == nil || !res.Expired(now) {
				return nil
			}
			if err := ReleaseInTx(ctx, levelRepo, resRepo, res); err != nil {
				return err
			}
			reclaimed++
			return nil
		})
		if err != nil {
			s.log.Error().Err(err).Str("reservation_id", id).Msg("recuperar reserva vencida")
		}
	}
	return reclaimed, nil
}
