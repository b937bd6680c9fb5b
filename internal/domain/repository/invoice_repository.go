package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// OutstandingInvoiceRepository define el puerto de cartera para el asignador
// de recibos: lectura de facturas con saldo y UNA actualización por factura.
type OutstandingInvoiceRepository interface {
	GetByID(id string) (*entity.OutstandingInvoice, error)
	ListOutstandingByCustomer(customerID string) ([]*entity.OutstandingInvoice, error)
	// ApplyReceipt actualiza anticipo y estado de una factura (una fila).
	ApplyReceipt(invoice *entity.OutstandingInvoice) error
}
