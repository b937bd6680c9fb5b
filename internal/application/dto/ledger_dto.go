package dto

import "github.com/shopspring/decimal"

// MovementLineRequest línea de un movimiento solicitado.
type MovementLineRequest struct {
	ProductID  string          `json:"product_id"`
	VariantID  string          `json:"variant_id,omitempty"`
	UomID      string          `json:"uom_id"`
	BinID      string          `json:"bin_id,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	ReasonCode string          `json:"reason_code,omitempty"`
}

// RecordMovementRequest registro directo de una transacción del kardex.
type RecordMovementRequest struct {
	Type        string                `json:"type"`
	WarehouseID string                `json:"warehouse_id"`
	Date        string                `json:"date"` // YYYY-MM-DD
	Time        string                `json:"time,omitempty"`
	Lines       []MovementLineRequest `json:"lines"`
	Reference   string                `json:"reference,omitempty"`
	RelatedID   string                `json:"related_id,omitempty"`
	Remarks     string                `json:"remarks,omitempty"`
}

// TransferRequest traslado entre bodegas.
type TransferRequest struct {
	FromWarehouseID string                `json:"from_warehouse_id"`
	ToWarehouseID   string                `json:"to_warehouse_id"`
	Date            string                `json:"date"`
	Time            string                `json:"time,omitempty"`
	Lines           []MovementLineRequest `json:"lines"`
	Reason          string                `json:"reason,omitempty"`
}

// ReverseRequest reversa de una transacción posteada.
type ReverseRequest struct {
	Reason string `json:"reason,omitempty"`
}
