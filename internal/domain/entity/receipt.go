package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt es un recibo de caja de un cliente, repartido entre facturas por el
// asignador. BalanceAfterReceipt = Σ saldos antes del recibo - TotalReceived.
type Receipt struct {
	ID                  string
	ReceiptNumber       string // <SCOPE>-REC-<YYYYMMDD>-<seq>
	CustomerID          string
	ReceiptDate         time.Time
	TotalReceived       decimal.Decimal
	BalanceAfterReceipt decimal.Decimal
	Remarks             string
	CreatedAt           time.Time
	CreatedBy           string
}

// ReceiptAllocation es la porción de un recibo aplicada a una factura.
type ReceiptAllocation struct {
	ID            string
	ReceiptID     string
	InvoiceID     string
	AmountApplied decimal.Decimal
	BalanceBefore decimal.Decimal // saldo de la factura antes de aplicar
	BalanceAfter  decimal.Decimal
	CreatedAt     time.Time
}

// FinanceStub es el asiento financiero sin contabilizar que deja el recibo
// para que el módulo contable externo lo postee después.
type FinanceStub struct {
	ID          string
	ReceiptID   string
	CustomerID  string
	Amount      decimal.Decimal
	Description string
	Posted      bool
	CreatedAt   time.Time
}
