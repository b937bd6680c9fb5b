package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo líneas de orden de compra del ERP anfitrión.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador.
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const poLineSelect = `
	SELECT id, po_id, product_id, variant_id, uom_id, unit_price,
	       received_quantity, pending_quantity, rejected_quantity, line_status, updated_at
	FROM purchase_order_lines`

// GetLine obtiene una línea por id.
func (r *PurchaseOrderRepo) GetLine(poDetailID string) (*entity.PurchaseOrderLine, error) {
	row := r.q.QueryRow(context.Background(), poLineSelect+` WHERE id = $1`, poDetailID)
	l, err := scanPOLine(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get po line: %w", err)
	}
	return l, nil
}

// ListLinesByPO obtiene las líneas de una orden.
func (r *PurchaseOrderRepo) ListLinesByPO(poID string) ([]*entity.PurchaseOrderLine, error) {
	rows, err := r.q.Query(context.Background(), poLineSelect+` WHERE po_id = $1 ORDER BY id`, poID)
	if err != nil {
		return nil, fmt.Errorf("list po lines: %w", err)
	}
	defer rows.Close()

	var lines []*entity.PurchaseOrderLine
	for rows.Next() {
		l, err := scanPOLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan po line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// UpdateLine actualiza acumulados y estado de una línea (una fila).
func (r *PurchaseOrderRepo) UpdateLine(l *entity.PurchaseOrderLine) error {
	query := `
		UPDATE purchase_order_lines
		SET received_quantity = $2, pending_quantity = $3, rejected_quantity = $4,
		    line_status = $5, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.ReceivedQuantity, l.PendingQuantity, l.RejectedQuantity, l.LineStatus,
	)
	if err != nil {
		return fmt.Errorf("update po line %s: %w", l.ID, err)
	}
	return nil
}

func scanPOLine(row pgx.Row) (*entity.PurchaseOrderLine, error) {
	var l entity.PurchaseOrderLine
	var variant *string
	err := row.Scan(
		&l.ID, &l.POID, &l.ProductID, &variant, &l.UomID, &l.UnitPrice,
		&l.ReceivedQuantity, &l.PendingQuantity, &l.RejectedQuantity, &l.LineStatus, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.VariantID = fromNullable(variant)
	return &l, nil
}
