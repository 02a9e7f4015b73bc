package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los handlers HTTP los mapean a códigos de estado; el coordinador solo
// reintenta fallos de infraestructura, nunca estos.
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrInvalidQuantity     = errors.New("cantidad inválida: el delta no puede ser cero")
	ErrUnknownItem         = errors.New("artículo desconocido")
	ErrUnknownLocation     = errors.New("ubicación desconocida")
	ErrInvalidSale         = errors.New("venta inválida")
	ErrSaleNotOpen         = errors.New("la venta no está abierta")
	ErrSaleNotCompleted    = errors.New("la venta no está completada")
	ErrOverRefund          = errors.New("la cantidad a devolver excede lo vendido")
	ErrOperationInProgress = errors.New("operación en curso para esta clave de idempotencia")
	ErrReservationNotFound = errors.New("reserva no encontrada")
	ErrTransferState       = errors.New("transición de traslado no permitida")
)
