package repository

import (
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// MovementTransactionRepository define el puerto de persistencia del kardex.
// El ledger es append-only: no hay Update ni Delete; toda corrección es una
// transacción nueva. Cada método es UNA escritura de una fila (el almacén no
// garantiza transacciones multi-sentencia).
type MovementTransactionRepository interface {
	CreateHeader(txn *entity.MovementTransaction) error
	CreateLine(line *entity.StockLine) error
	GetByID(id string) (*entity.MovementTransaction, error)
	GetByNumber(txnNumber string) (*entity.MovementTransaction, error)
	ListLines(txnID string) ([]*entity.StockLine, error)
	ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.MovementTransaction, error)
	ListByReference(referenceDocument string) ([]*entity.MovementTransaction, error)
}
