package ledger

import (
	"fmt"
	"time"
)

// TransferInSuffix distingue la pata de entrada de un traslado: ambas patas
// comparten el número base y el referenceDocument.
const TransferInSuffix = "-IN"

// FormatDocNumber arma el número legible <SCOPE>-<TYPE>-<YYYYMMDD>-<seq>.
// seq viene del contador atómico por (scope, tipo, día); el número es un campo
// de presentación y cruce, el id real es el surrogate.
func FormatDocNumber(scope, typeCode string, date time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%s-%04d", scope, typeCode, date.Format("20060102"), seq)
}

// TransferInNumber deriva el número de la pata de entrada desde el número base.
func TransferInNumber(baseNumber string) string {
	return baseNumber + TransferInSuffix
}
