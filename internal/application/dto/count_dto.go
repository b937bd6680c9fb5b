package dto

import "github.com/shopspring/decimal"

// StartCountRequest transición setup -> counting de un conteo físico.
type StartCountRequest struct {
	WarehouseID string `json:"warehouse_id"`
	Date        string `json:"date"` // YYYY-MM-DD
	CountType   string `json:"count_type"`
	Method      string `json:"method"`
}

// CountLineRequest captura o edición de una línea contada. SystemQuantity
// opcional: ausente = foto del stock actual al capturar.
type CountLineRequest struct {
	LineID          string           `json:"line_id,omitempty"`
	ProductID       string           `json:"product_id"`
	VariantID       string           `json:"variant_id,omitempty"`
	UomID           string           `json:"uom_id"`
	BinID           string           `json:"bin_id,omitempty"`
	SystemQuantity  *decimal.Decimal `json:"system_quantity,omitempty"`
	CountedQuantity decimal.Decimal  `json:"counted_quantity"`
	Notes           string           `json:"notes,omitempty"`
}

// OverrideDecisionRequest fuerza la decisión derivada de una línea.
type OverrideDecisionRequest struct {
	Decision string `json:"decision"`
}

// CompleteCountRequest transición counting -> completed.
type CompleteCountRequest struct {
	Reason string `json:"reason"`
}
