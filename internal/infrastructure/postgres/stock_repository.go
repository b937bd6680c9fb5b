package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.StockLookup = (*StockRepo)(nil)

// StockRepo resuelve el stock actual desde el ledger de registro: entradas a
// la bodega menos salidas de la bodega, sumadas sobre las líneas del kardex.
// No hay tabla materializada que pueda quedarse desfasada del ledger.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de consulta de stock.
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// CurrentStock devuelve la cantidad actual del producto en la bodega
// (opcionalmente por bin). Refleja el estado antes del movimiento en curso
// porque este aún no tiene líneas persistidas.
func (r *StockRepo) CurrentStock(productID, warehouseID, binID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(
			CASE
				WHEN to_warehouse_id   = $2 THEN quantity
				WHEN from_warehouse_id = $2 THEN -quantity
				ELSE 0
			END), 0) AS qty
		FROM stock_lines
		WHERE product_id = $1
		  AND (to_warehouse_id = $2 OR from_warehouse_id = $2)`
	args := []any{productID, warehouseID}
	if binID != "" {
		query += ` AND bin_id = $3`
		args = append(args, binID)
	}

	var qty decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, args...).Scan(&qty); err != nil {
		return decimal.Zero, fmt.Errorf("current stock de %s en %s: %w", productID, warehouseID, err)
	}
	return qty, nil
}
