package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario.
// El stock actual por bodega se deriva del kardex, no se guarda aquí.
type Product struct {
	ID        string
	SKU       string
	Name      string
	UomID     string // unidad de medida base
	Cost      decimal.Decimal
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
