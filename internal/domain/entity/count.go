package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un conteo físico. No hay vuelta atrás: una vez en counting el
// conteo tiene id persistido, y completed es terminal.
const (
	CountStatusSetup     = "setup"
	CountStatusCounting  = "counting"
	CountStatusCompleted = "completed"
)

// Decisiones de ajuste por línea contada.
const (
	DecisionNoChange      = "no_change"
	DecisionAdjustToCount = "adjust_to_count"
	DecisionInvestigate   = "investigate"
)

// PhysicalCount es la cabecera de un conteo físico (toma de inventario).
type PhysicalCount struct {
	ID                string
	CountNumber       string // <SCOPE>-CNT-<YYYYMMDD>-<seq>
	WarehouseID       string
	CountDate         time.Time
	CountType         string // full, cycle
	Method            string // scan, manual
	Status            string
	TotalItemsCounted int
	TotalVariance     decimal.Decimal // Σ |variance| al completar
	AdjustmentTxnID   string          // transacción de ajuste posteada al completar
	CreatedAt         time.Time
	CompletedAt       *time.Time
	CreatedBy         string
}

// CountLine es una línea contada: cantidad de sistema al momento de capturar,
// cantidad contada por el operario y los campos derivados por la regla de
// decisión (ver ledger.DeriveCountLine).
type CountLine struct {
	ID                 string
	CountID            string
	ProductID          string
	VariantID          string
	UomID              string
	BinID              string
	SystemQuantity     decimal.Decimal
	CountedQuantity    decimal.Decimal
	VarianceQuantity   decimal.Decimal // counted - system
	AdjustmentDecision string
	AdjustmentQuantity decimal.Decimal // = variance solo si decisión adjust_to_count
	DecisionOverridden bool            // el operario forzó la decisión derivada
	Notes              string
}
