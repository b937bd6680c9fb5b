package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.PhysicalCountRepository = (*CountRepo)(nil)

// CountRepo implementación de conteos físicos sobre PostgreSQL.
type CountRepo struct {
	q Querier
}

// NewCountRepository construye el adaptador.
func NewCountRepository(q Querier) *CountRepo {
	return &CountRepo{q: q}
}

// CreateHeader persiste la cabecera de un conteo (una fila).
func (r *CountRepo) CreateHeader(c *entity.PhysicalCount) error {
	query := `
		INSERT INTO physical_counts
			(id, count_number, warehouse_id, count_date, count_type, method, status,
			 total_items_counted, total_variance, adjustment_txn_id, created_at, completed_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.CountNumber, c.WarehouseID, c.CountDate, c.CountType, c.Method, c.Status,
		c.TotalItemsCounted, c.TotalVariance, nullable(c.AdjustmentTxnID),
		c.CreatedAt, c.CompletedAt, nullable(c.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create count header: %w", err)
	}
	return nil
}

// UpdateHeader actualiza estado y totales de un conteo (una fila).
func (r *CountRepo) UpdateHeader(c *entity.PhysicalCount) error {
	query := `
		UPDATE physical_counts
		SET status = $2, total_items_counted = $3, total_variance = $4,
		    adjustment_txn_id = $5, completed_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.Status, c.TotalItemsCounted, c.TotalVariance,
		nullable(c.AdjustmentTxnID), c.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update count header: %w", err)
	}
	return nil
}

// GetByID obtiene un conteo por id.
func (r *CountRepo) GetByID(id string) (*entity.PhysicalCount, error) {
	query := `
		SELECT id, count_number, warehouse_id, count_date, count_type, method, status,
		       total_items_counted, total_variance, adjustment_txn_id, created_at, completed_at, created_by
		FROM physical_counts WHERE id = $1`
	var c entity.PhysicalCount
	var adjTxn, createdBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.CountNumber, &c.WarehouseID, &c.CountDate, &c.CountType, &c.Method, &c.Status,
		&c.TotalItemsCounted, &c.TotalVariance, &adjTxn, &c.CreatedAt, &c.CompletedAt, &createdBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get count: %w", err)
	}
	c.AdjustmentTxnID = fromNullable(adjTxn)
	c.CreatedBy = fromNullable(createdBy)
	return &c, nil
}

// UpsertLine inserta o actualiza una línea contada (una fila).
func (r *CountRepo) UpsertLine(l *entity.CountLine) error {
	query := `
		INSERT INTO physical_count_lines
			(id, count_id, product_id, variant_id, uom_id, bin_id,
			 system_quantity, counted_quantity, variance_quantity,
			 adjustment_decision, adjustment_quantity, decision_overridden, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			system_quantity = EXCLUDED.system_quantity,
			counted_quantity = EXCLUDED.counted_quantity,
			variance_quantity = EXCLUDED.variance_quantity,
			adjustment_decision = EXCLUDED.adjustment_decision,
			adjustment_quantity = EXCLUDED.adjustment_quantity,
			decision_overridden = EXCLUDED.decision_overridden,
			notes = EXCLUDED.notes
		WHERE physical_count_lines.count_id = EXCLUDED.count_id`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.CountID, l.ProductID, nullable(l.VariantID), l.UomID, nullable(l.BinID),
		l.SystemQuantity, l.CountedQuantity, l.VarianceQuantity,
		l.AdjustmentDecision, l.AdjustmentQuantity, l.DecisionOverridden, nullable(l.Notes),
	)
	if err != nil {
		return fmt.Errorf("upsert count line: %w", err)
	}
	return nil
}

// DeleteLine elimina una línea mientras el conteo sigue abierto (una fila).
func (r *CountRepo) DeleteLine(countID, lineID string) error {
	query := `DELETE FROM physical_count_lines WHERE count_id = $1 AND id = $2`
	if _, err := r.q.Exec(context.Background(), query, countID, lineID); err != nil {
		return fmt.Errorf("delete count line: %w", err)
	}
	return nil
}

// GetLine obtiene una línea del conteo.
func (r *CountRepo) GetLine(countID, lineID string) (*entity.CountLine, error) {
	query := countLineSelect + ` WHERE count_id = $1 AND id = $2`
	row := r.q.QueryRow(context.Background(), query, countID, lineID)
	l, err := scanCountLine(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get count line: %w", err)
	}
	return l, nil
}

// ListLines obtiene las líneas de un conteo.
func (r *CountRepo) ListLines(countID string) ([]*entity.CountLine, error) {
	query := countLineSelect + ` WHERE count_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, countID)
	if err != nil {
		return nil, fmt.Errorf("list count lines: %w", err)
	}
	defer rows.Close()

	var lines []*entity.CountLine
	for rows.Next() {
		l, err := scanCountLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan count line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

const countLineSelect = `
	SELECT id, count_id, product_id, variant_id, uom_id, bin_id,
	       system_quantity, counted_quantity, variance_quantity,
	       adjustment_decision, adjustment_quantity, decision_overridden, notes
	FROM physical_count_lines`

func scanCountLine(row pgx.Row) (*entity.CountLine, error) {
	var l entity.CountLine
	var variant, bin, notes *string
	err := row.Scan(
		&l.ID, &l.CountID, &l.ProductID, &variant, &l.UomID, &bin,
		&l.SystemQuantity, &l.CountedQuantity, &l.VarianceQuantity,
		&l.AdjustmentDecision, &l.AdjustmentQuantity, &l.DecisionOverridden, &notes,
	)
	if err != nil {
		return nil, err
	}
	l.VariantID = fromNullable(variant)
	l.BinID = fromNullable(bin)
	l.Notes = fromNullable(notes)
	return &l, nil
}
