package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una línea de orden de compra según las recepciones aplicadas.
const (
	POLineStatusOpen              = "open"
	POLineStatusPartiallyReceived = "partially_received"
	POLineStatusFullyReceived     = "fully_received"
)

// PurchaseOrderLine es una línea de orden de compra con sus acumulados de
// recepción. OrderedQuantity queda implícita: Received + Pending.
type PurchaseOrderLine struct {
	ID               string
	POID             string
	ProductID        string
	VariantID        string
	UomID            string
	UnitPrice        decimal.Decimal
	ReceivedQuantity decimal.Decimal
	PendingQuantity  decimal.Decimal
	RejectedQuantity decimal.Decimal // recibido pero no aceptado; nunca toca stock
	LineStatus       string
	UpdatedAt        time.Time
}
