package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// DefaultInvestigationThreshold es el umbral de investigación en unidades:
// variaciones absolutas mayores no se ajustan automáticamente.
var DefaultInvestigationThreshold = decimal.NewFromInt(10)

// CountDerivation es el resultado de derivar una línea de conteo.
type CountDerivation struct {
	Variance           decimal.Decimal
	Decision           string
	AdjustmentQuantity decimal.Decimal
}

// DeriveCountLine deriva variación, decisión y cantidad de ajuste desde el par
// (cantidad de sistema, cantidad contada). Es función pura: todos los callers
// (captura, edición, completar conteo) pasan por aquí para que UI y
// persistencia nunca diverjan.
//
// Regla: variance == 0 -> no_change; |variance| > umbral -> investigate
// (no se auto-aplica); en otro caso -> adjust_to_count con ajuste = variance.
func DeriveCountLine(systemQty, countedQty, threshold decimal.Decimal) CountDerivation {
	if threshold.LessThanOrEqual(decimal.Zero) {
		threshold = DefaultInvestigationThreshold
	}
	variance := countedQty.Sub(systemQty)

	switch {
	case variance.IsZero():
		return CountDerivation{Variance: variance, Decision: entity.DecisionNoChange, AdjustmentQuantity: decimal.Zero}
	case variance.Abs().GreaterThan(threshold):
		return CountDerivation{Variance: variance, Decision: entity.DecisionInvestigate, AdjustmentQuantity: decimal.Zero}
	default:
		return CountDerivation{Variance: variance, Decision: entity.DecisionAdjustToCount, AdjustmentQuantity: variance}
	}
}

// ApplyDecisionOverride recalcula la cantidad de ajuste cuando el operario
// fuerza la decisión: solo adjust_to_count conserva ajuste = variance.
func ApplyDecisionOverride(variance decimal.Decimal, decision string) decimal.Decimal {
	if decision == entity.DecisionAdjustToCount {
		return variance
	}
	return decimal.Zero
}
