package dto

// ErrorResponse cuerpo de error estándar de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Retryable indica al boundary si conviene reintentar (backoff) o
	// mostrar un fallo definitivo.
	Retryable bool `json:"retryable"`
}
