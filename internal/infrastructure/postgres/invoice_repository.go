package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.OutstandingInvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo vista de cartera sobre la tabla de facturas del ERP anfitrión.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador de cartera.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceSelect = `
	SELECT id, invoice_number, customer_id, invoice_date,
	       grand_total, advance_received, status, updated_at
	FROM invoices`

// GetByID obtiene una factura por id.
func (r *InvoiceRepo) GetByID(id string) (*entity.OutstandingInvoice, error) {
	row := r.q.QueryRow(context.Background(), invoiceSelect+` WHERE id = $1`, id)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// ListOutstandingByCustomer lista las facturas del cliente con saldo pendiente,
// de la más antigua a la más nueva.
func (r *InvoiceRepo) ListOutstandingByCustomer(customerID string) ([]*entity.OutstandingInvoice, error) {
	query := invoiceSelect + `
		WHERE customer_id = $1 AND grand_total > advance_received
		ORDER BY invoice_date ASC, invoice_number ASC`
	rows, err := r.q.Query(context.Background(), query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list outstanding: %w", err)
	}
	defer rows.Close()

	var invoices []*entity.OutstandingInvoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// ApplyReceipt actualiza anticipo y estado de una factura (una fila).
func (r *InvoiceRepo) ApplyReceipt(inv *entity.OutstandingInvoice) error {
	query := `
		UPDATE invoices
		SET advance_received = $2, status = $3, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, inv.ID, inv.AdvanceReceived, inv.Status)
	if err != nil {
		return fmt.Errorf("apply receipt a factura %s: %w", inv.ID, err)
	}
	return nil
}

func scanInvoice(row pgx.Row) (*entity.OutstandingInvoice, error) {
	var inv entity.OutstandingInvoice
	err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.CustomerID, &inv.InvoiceDate,
		&inv.GrandTotal, &inv.AdvanceReceived, &inv.Status, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
