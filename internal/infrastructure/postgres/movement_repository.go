package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.MovementTransactionRepository = (*MovementRepo)(nil)

// MovementRepo implementación del kardex sobre PostgreSQL. Solo INSERT y
// SELECT: el ledger es append-only y no existe camino de UPDATE/DELETE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// CreateHeader persiste la cabecera de una transacción (una fila).
func (r *MovementRepo) CreateHeader(txn *entity.MovementTransaction) error {
	query := `
		INSERT INTO movement_transactions
			(id, txn_number, txn_type, txn_date, txn_time, warehouse_id,
			 total_items, total_quantity, total_value,
			 reference_document, related_id, remarks, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		txn.ID, txn.TxnNumber, txn.TxnType, txn.TxnDate, txn.TxnTime, txn.WarehouseID,
		txn.TotalItems, txn.TotalQuantity, txn.TotalValue,
		nullable(txn.ReferenceDocument), nullable(txn.RelatedID), nullable(txn.Remarks),
		txn.CreatedAt, nullable(txn.CreatedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("número de transacción duplicado %s: %w", txn.TxnNumber, err)
		}
		return fmt.Errorf("create movement header: %w", err)
	}
	return nil
}

// CreateLine persiste una línea de detalle (una fila).
func (r *MovementRepo) CreateLine(line *entity.StockLine) error {
	query := `
		INSERT INTO stock_lines
			(id, txn_id, product_id, variant_id, uom_id, bin_id,
			 quantity, unit_cost, total_cost,
			 from_warehouse_id, to_warehouse_id, previous_stock, new_stock, reason_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.TxnID, line.ProductID, nullable(line.VariantID), line.UomID, nullable(line.BinID),
		line.Quantity, line.UnitCost, line.TotalCost,
		nullable(line.FromWarehouseID), nullable(line.ToWarehouseID),
		line.PreviousStock, line.NewStock, nullable(line.ReasonCode),
	)
	if err != nil {
		return fmt.Errorf("create stock line: %w", err)
	}
	return nil
}

const txnColumns = `
	id, txn_number, txn_type, txn_date, txn_time, warehouse_id,
	total_items, total_quantity, total_value,
	reference_document, related_id, remarks, created_at, created_by`

// GetByID obtiene una cabecera por surrogate id.
func (r *MovementRepo) GetByID(id string) (*entity.MovementTransaction, error) {
	query := `SELECT` + txnColumns + ` FROM movement_transactions WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByNumber obtiene una cabecera por número legible.
func (r *MovementRepo) GetByNumber(txnNumber string) (*entity.MovementTransaction, error) {
	query := `SELECT` + txnColumns + ` FROM movement_transactions WHERE txn_number = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, txnNumber))
}

func (r *MovementRepo) scanOne(row pgx.Row) (*entity.MovementTransaction, error) {
	var t entity.MovementTransaction
	var reference, related, remarks, createdBy *string
	err := row.Scan(
		&t.ID, &t.TxnNumber, &t.TxnType, &t.TxnDate, &t.TxnTime, &t.WarehouseID,
		&t.TotalItems, &t.TotalQuantity, &t.TotalValue,
		&reference, &related, &remarks, &t.CreatedAt, &createdBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	t.ReferenceDocument = fromNullable(reference)
	t.RelatedID = fromNullable(related)
	t.Remarks = fromNullable(remarks)
	t.CreatedBy = fromNullable(createdBy)
	return &t, nil
}

// ListLines obtiene el detalle de una transacción.
func (r *MovementRepo) ListLines(txnID string) ([]*entity.StockLine, error) {
	query := `
		SELECT id, txn_id, product_id, variant_id, uom_id, bin_id,
		       quantity, unit_cost, total_cost,
		       from_warehouse_id, to_warehouse_id, previous_stock, new_stock, reason_code
		FROM stock_lines WHERE txn_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, txnID)
	if err != nil {
		return nil, fmt.Errorf("list lines: %w", err)
	}
	defer rows.Close()

	var lines []*entity.StockLine
	for rows.Next() {
		var l entity.StockLine
		var variant, bin, fromWh, toWh, reason *string
		if err := rows.Scan(
			&l.ID, &l.TxnID, &l.ProductID, &variant, &l.UomID, &bin,
			&l.Quantity, &l.UnitCost, &l.TotalCost,
			&fromWh, &toWh, &l.PreviousStock, &l.NewStock, &reason,
		); err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		l.VariantID = fromNullable(variant)
		l.BinID = fromNullable(bin)
		l.FromWarehouseID = fromNullable(fromWh)
		l.ToWarehouseID = fromNullable(toWh)
		l.ReasonCode = fromNullable(reason)
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// ListByWarehouse lista transacciones de una bodega en un rango de fechas.
func (r *MovementRepo) ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.MovementTransaction, error) {
	query := `SELECT` + txnColumns + ` FROM movement_transactions WHERE warehouse_id = $1`
	args := []any{warehouseID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND txn_date >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND txn_date <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY txn_date DESC, txn_number DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)
	return r.list(query, args...)
}

// ListByReference lista las transacciones que comparten un referenceDocument
// (las dos patas de un traslado, los ajustes de un conteo).
func (r *MovementRepo) ListByReference(referenceDocument string) ([]*entity.MovementTransaction, error) {
	query := `SELECT` + txnColumns + ` FROM movement_transactions WHERE reference_document = $1 ORDER BY txn_number`
	return r.list(query, referenceDocument)
}

func (r *MovementRepo) list(query string, args ...any) ([]*entity.MovementTransaction, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var txns []*entity.MovementTransaction
	for rows.Next() {
		var t entity.MovementTransaction
		var reference, related, remarks, createdBy *string
		if err := rows.Scan(
			&t.ID, &t.TxnNumber, &t.TxnType, &t.TxnDate, &t.TxnTime, &t.WarehouseID,
			&t.TotalItems, &t.TotalQuantity, &t.TotalValue,
			&reference, &related, &remarks, &t.CreatedAt, &createdBy,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		t.ReferenceDocument = fromNullable(reference)
		t.RelatedID = fromNullable(related)
		t.Remarks = fromNullable(remarks)
		t.CreatedBy = fromNullable(createdBy)
		txns = append(txns, &t)
	}
	return txns, rows.Err()
}
