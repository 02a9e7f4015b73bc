package entity

import "time"

// Tipos de ubicación.
const (
	LocationStore     = "STORE"     // tienda (POS)
	LocationWarehouse = "WAREHOUSE" // bodega
)

// Location es una tienda o bodega donde existe stock. La administración de
// ubicaciones es colaborador externo; aquí solo se resuelven referencias.
type Location struct {
	ID        string
	Code      string
	Name      string
	Kind      string // STORE o WAREHOUSE
	CreatedAt time.Time
}
