package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de cobro de una factura de venta.
const (
	InvoiceStatusUnpaid  = "unpaid"
	InvoiceStatusPartial = "partial"
	InvoiceStatusPaid    = "paid"
)

// OutstandingInvoice es la vista de cartera de una factura: total, anticipos
// recibidos y saldo pendiente. Es el insumo del asignador de recibos.
type OutstandingInvoice struct {
	ID              string
	InvoiceNumber   string
	CustomerID      string
	InvoiceDate     time.Time
	GrandTotal      decimal.Decimal
	AdvanceReceived decimal.Decimal
	Status          string
	UpdatedAt       time.Time
}

// OutstandingBalance devuelve el saldo pendiente (GrandTotal - AdvanceReceived).
func (i *OutstandingInvoice) OutstandingBalance() decimal.Decimal {
	return i.GrandTotal.Sub(i.AdvanceReceived)
}
