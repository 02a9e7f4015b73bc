package operation

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain"
)

// Errores terminales del dominio: jamás se reintentan. Todo lo demás se
// trata como fallo transitorio de infraestructura.
var terminal = []error{
	domain.ErrNotFound,
	domain.ErrInvalidInput,
	domain.ErrDuplicate,
	domain.ErrConflict,
	domain.ErrInsufficientStock,
	domain.ErrInvalidQuantity,
	domain.ErrUnknownItem,
	domain.ErrUnknownLocation,
	domain.ErrInvalidSale,
	domain.ErrSaleNotOpen,
	domain.ErrSaleNotCompleted,
	domain.ErrOverRefund,
	domain.ErrOperationInProgress,
	domain.ErrReservationNotFound,
	domain.ErrTransferState,
}

// Retryable reporta si un error amerita reintento con backoff.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	for _, t := range terminal {
		if errors.Is(err, t) {
			return false
		}
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// WithBackoff ejecuta fn reintentando fallos transitorios con backoff
// exponencial hasta attempts intentos. Los errores terminales y la
// cancelación del ctx cortan de inmediato.
func WithBackoff(ctx context.Context, attempts int, base time.Duration, fn func() error) error {
	var err error
	delay := base
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil || !Retryable(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}
