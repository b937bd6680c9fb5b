package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// PurchaseOrderRepository define el puerto de líneas de orden de compra para
// el cierre contra recepciones (GRN).
type PurchaseOrderRepository interface {
	GetLine(poDetailID string) (*entity.PurchaseOrderLine, error)
	ListLinesByPO(poID string) ([]*entity.PurchaseOrderLine, error)
	// UpdateLine actualiza acumulados y estado de una línea (una fila).
	UpdateLine(line *entity.PurchaseOrderLine) error
}
