package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Kardex-api/internal/domain/ledger"
)

func TestFormatDocNumber(t *testing.T) {
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "BOD01-PIN-20260315-0001", ledger.FormatDocNumber("BOD01", "PIN", date, 1))
	assert.Equal(t, "BOD01-TRF-20260315-0042", ledger.FormatDocNumber("BOD01", "TRF", date, 42))
}

// El consecutivo se rellena a 4 dígitos pero no se trunca: el día 10000
// simplemente queda más largo.
func TestFormatDocNumber_SecuenciaLarga(t *testing.T) {
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "FIN-REC-20260315-10000", ledger.FormatDocNumber("FIN", "REC", date, 10000))
}

func TestTransferInNumber(t *testing.T) {
	assert.Equal(t, "BOD01-TRF-20260315-0007-IN", ledger.TransferInNumber("BOD01-TRF-20260315-0007"))
}
