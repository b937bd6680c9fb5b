package repository

import "github.com/shopspring/decimal"

// StockLookup es el colaborador de consulta de stock actual. Debe reflejar el
// estado ANTES de aplicar el movimiento en curso; el recorder nunca inventa
// este número ni lo asume cero (tampoco en la pata destino de un traslado).
type StockLookup interface {
	// CurrentStock devuelve la cantidad actual del producto en la bodega,
	// opcionalmente filtrada por bin (binID vacío = toda la bodega).
	CurrentStock(productID, warehouseID, binID string) (decimal.Decimal, error)
}
