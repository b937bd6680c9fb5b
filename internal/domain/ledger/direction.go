package ledger

import (
	"github.com/shopspring/decimal"
)

// ApplyMovement calcula la foto de stock resultante de aplicar una cantidad
// (siempre positiva) sobre el stock previo según la dirección.
// Invariante del kardex: NewStock = PreviousStock + qty en entradas,
// PreviousStock - qty en salidas. Toda línea persistida debe cumplirlo.
func ApplyMovement(inbound bool, previousStock, quantity decimal.Decimal) decimal.Decimal {
	if inbound {
		return previousStock.Add(quantity)
	}
	return previousStock.Sub(quantity)
}

// SnapshotHolds verifica la invariante antes/después de una línea ya armada.
func SnapshotHolds(inbound bool, previousStock, quantity, newStock decimal.Decimal) bool {
	return ApplyMovement(inbound, previousStock, quantity).Equal(newStock)
}
