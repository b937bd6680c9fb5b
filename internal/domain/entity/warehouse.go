package entity

import "time"

// Warehouse representa una bodega donde se almacena inventario.
// Code es el prefijo SCOPE de los números de documento de esa bodega.
type Warehouse struct {
	ID        string
	Code      string
	Name      string
	Address   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
