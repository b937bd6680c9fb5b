package dto

import "github.com/shopspring/decimal"

// ReceiveLineRequest línea recibida contra una línea de orden de compra.
type ReceiveLineRequest struct {
	PODetailID  string          `json:"po_detail_id"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
	AcceptedQty decimal.Decimal `json:"accepted_qty"`
}

// ReceiveRequest recepción de mercancía (GRN) contra una orden de compra.
type ReceiveRequest struct {
	POID        string               `json:"po_id"`
	WarehouseID string               `json:"warehouse_id"`
	Date        string               `json:"date"` // YYYY-MM-DD
	Lines       []ReceiveLineRequest `json:"lines"`
	Remarks     string               `json:"remarks,omitempty"`
}
