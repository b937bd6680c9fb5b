package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.ReceiptRepository = (*ReceiptRepo)(nil)

// ReceiptRepo implementación de recibos de caja sobre PostgreSQL.
type ReceiptRepo struct {
	q Querier
}

// NewReceiptRepository construye el adaptador.
func NewReceiptRepository(q Querier) *ReceiptRepo {
	return &ReceiptRepo{q: q}
}

// Create persiste un recibo (una fila).
func (r *ReceiptRepo) Create(rec *entity.Receipt) error {
	query := `
		INSERT INTO receipts
			(id, receipt_number, customer_id, receipt_date, total_received,
			 balance_after_receipt, remarks, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		rec.ID, rec.ReceiptNumber, rec.CustomerID, rec.ReceiptDate, rec.TotalReceived,
		rec.BalanceAfterReceipt, nullable(rec.Remarks), rec.CreatedAt, nullable(rec.CreatedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("número de recibo duplicado %s: %w", rec.ReceiptNumber, err)
		}
		return fmt.Errorf("create receipt: %w", err)
	}
	return nil
}

// CreateAllocation persiste la porción aplicada a una factura (una fila).
func (r *ReceiptRepo) CreateAllocation(alloc *entity.ReceiptAllocation) error {
	query := `
		INSERT INTO receipt_allocations
			(id, receipt_id, invoice_id, amount_applied, balance_before, balance_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		alloc.ID, alloc.ReceiptID, alloc.InvoiceID,
		alloc.AmountApplied, alloc.BalanceBefore, alloc.BalanceAfter, alloc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create allocation: %w", err)
	}
	return nil
}

// CreateFinanceStub persiste el asiento sin contabilizar (una fila).
func (r *ReceiptRepo) CreateFinanceStub(stub *entity.FinanceStub) error {
	query := `
		INSERT INTO finance_stubs
			(id, receipt_id, customer_id, amount, description, posted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		stub.ID, stub.ReceiptID, stub.CustomerID,
		stub.Amount, stub.Description, stub.Posted, stub.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create finance stub: %w", err)
	}
	return nil
}

// GetByID obtiene un recibo por id.
func (r *ReceiptRepo) GetByID(id string) (*entity.Receipt, error) {
	query := `
		SELECT id, receipt_number, customer_id, receipt_date, total_received,
		       balance_after_receipt, remarks, created_at, created_by
		FROM receipts WHERE id = $1`
	var rec entity.Receipt
	var remarks, createdBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&rec.ID, &rec.ReceiptNumber, &rec.CustomerID, &rec.ReceiptDate, &rec.TotalReceived,
		&rec.BalanceAfterReceipt, &remarks, &rec.CreatedAt, &createdBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receipt: %w", err)
	}
	rec.Remarks = fromNullable(remarks)
	rec.CreatedBy = fromNullable(createdBy)
	return &rec, nil
}

// ListAllocations obtiene las asignaciones de un recibo.
func (r *ReceiptRepo) ListAllocations(receiptID string) ([]*entity.ReceiptAllocation, error) {
	query := `
		SELECT id, receipt_id, invoice_id, amount_applied, balance_before, balance_after, created_at
		FROM receipt_allocations WHERE receipt_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, receiptID)
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	defer rows.Close()

	var allocs []*entity.ReceiptAllocation
	for rows.Next() {
		var a entity.ReceiptAllocation
		if err := rows.Scan(
			&a.ID, &a.ReceiptID, &a.InvoiceID,
			&a.AmountApplied, &a.BalanceBefore, &a.BalanceAfter, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		allocs = append(allocs, &a)
	}
	return allocs, rows.Err()
}
