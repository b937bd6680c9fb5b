package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción del kardex. Cada tipo tiene una dirección fija:
// entrada (suma stock en la bodega destino) o salida (resta stock en la bodega origen).
const (
	TxnTypePurchaseIn    = "purchase_in"    // entrada por recepción de compra (GRN)
	TxnTypeSaleOut       = "sale_out"       // salida por venta/despacho
	TxnTypeAdjustmentIn  = "adjustment_in"  // ajuste por conteo físico u otro motivo
	TxnTypeAdjustmentOut = "adjustment_out" // ajuste negativo
	TxnTypeTransferIn    = "transfer_in"    // pata de entrada de un traslado
	TxnTypeTransferOut   = "transfer_out"   // pata de salida de un traslado
)

// IsInbound indica si el tipo de transacción suma stock en su bodega.
func IsInbound(txnType string) bool {
	switch txnType {
	case TxnTypePurchaseIn, TxnTypeAdjustmentIn, TxnTypeTransferIn:
		return true
	}
	return false
}

// IsValidTxnType valida el tipo contra el catálogo.
func IsValidTxnType(txnType string) bool {
	switch txnType {
	case TxnTypePurchaseIn, TxnTypeSaleOut, TxnTypeAdjustmentIn,
		TxnTypeAdjustmentOut, TxnTypeTransferIn, TxnTypeTransferOut:
		return true
	}
	return false
}

// TxnTypeCode devuelve el código corto del tipo para el número legible
// (<SCOPE>-<TYPE>-<YYYYMMDD>-<seq>). Las dos patas de un traslado comparten TRF.
func TxnTypeCode(txnType string) string {
	switch txnType {
	case TxnTypePurchaseIn:
		return "PIN"
	case TxnTypeSaleOut:
		return "SOU"
	case TxnTypeAdjustmentIn:
		return "AJI"
	case TxnTypeAdjustmentOut:
		return "AJO"
	case TxnTypeTransferIn, TxnTypeTransferOut:
		return "TRF"
	}
	return "MOV"
}

// StockLine es el detalle de una transacción: el movimiento de un producto con
// su foto de stock antes/después. La cantidad siempre se guarda positiva; la
// dirección la da el tipo de la transacción y cuál campo de bodega está poblado
// (entrada solo ToWarehouseID, salida solo FromWarehouseID).
type StockLine struct {
	ID              string
	TxnID           string
	ProductID       string
	VariantID       string // opcional
	UomID           string
	Quantity        decimal.Decimal // magnitud, siempre > 0
	UnitCost        decimal.Decimal
	TotalCost       decimal.Decimal // Quantity * UnitCost
	FromWarehouseID string
	ToWarehouseID   string
	PreviousStock   decimal.Decimal // foto antes de aplicar el movimiento
	NewStock        decimal.Decimal // foto después
	BinID           string // ubicación/bin opcional
	ReasonCode      string // obligatorio en ajustes
}

// MovementTransaction es la unidad atómica del kardex: cabecera + detalle.
// Se crea una vez y nunca se modifica; toda corrección es una transacción nueva.
type MovementTransaction struct {
	ID                string // surrogate único (snowflake)
	TxnNumber         string // legible: <SCOPE>-<TYPE>-<YYYYMMDD>-<seq>
	TxnType           string
	TxnDate           time.Time
	TxnTime           string // HH:MM:SS
	WarehouseID       string
	TotalItems        int             // len(Lines)
	TotalQuantity     decimal.Decimal // Σ Quantity
	TotalValue        decimal.Decimal // Σ TotalCost
	ReferenceDocument string          // GRN, factura, conteo o número de traslado
	RelatedID         string          // referencia foránea (PO, recibo, conteo...)
	Remarks           string
	CreatedAt         time.Time
	CreatedBy         string
	Lines             []StockLine
}
