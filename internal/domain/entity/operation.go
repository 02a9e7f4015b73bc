package entity

import "time"

// Estados de una operación idempotente.
const (
	OperationRunning = "RUNNING"
	OperationDone    = "DONE"
)

// Operation registra una clave de idempotencia provista por el caller.
// Reintentar una clave DONE devuelve el resultado guardado sin re-ejecutar
// efectos; reintentar una clave RUNNING falla con ErrOperationInProgress.
type Operation struct {
	Key       string
	Kind      string // checkout, refund, void, adjust, transfer.*
	Status    string
	Result    []byte // JSON del resultado original, solo en DONE
	CreatedAt time.Time
	UpdatedAt time.Time
}
