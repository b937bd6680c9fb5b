package dto

import "github.com/shopspring/decimal"

// ReceiptAllocationRequest monto solicitado contra una factura.
type ReceiptAllocationRequest struct {
	InvoiceID string          `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// AllocateReceiptRequest reparto de un recibo de caja. Allocations vacío
// reparte automáticamente de la factura más antigua a la más nueva.
type AllocateReceiptRequest struct {
	CustomerID    string                     `json:"customer_id"`
	Date          string                     `json:"date,omitempty"` // YYYY-MM-DD
	TotalReceived decimal.Decimal            `json:"total_received"`
	Allocations   []ReceiptAllocationRequest `json:"allocations,omitempty"`
	Remarks       string                     `json:"remarks,omitempty"`
}
