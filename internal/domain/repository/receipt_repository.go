package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// ReceiptRepository define el puerto de persistencia de recibos de caja,
// sus asignaciones y el asiento financiero sin contabilizar.
type ReceiptRepository interface {
	Create(receipt *entity.Receipt) error
	CreateAllocation(alloc *entity.ReceiptAllocation) error
	CreateFinanceStub(stub *entity.FinanceStub) error
	GetByID(id string) (*entity.Receipt, error)
	ListAllocations(receiptID string) ([]*entity.ReceiptAllocation, error)
}
