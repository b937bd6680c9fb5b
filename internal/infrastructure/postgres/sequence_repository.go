package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo contador monótono por (scope, tipo, día). El upsert con
// RETURNING es UNA sentencia atómica: dos peticiones concurrentes nunca
// reciben el mismo consecutivo, a diferencia del esquema de contar las filas
// existentes del día.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador de consecutivos.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa y devuelve el consecutivo del día para (scope, typeCode).
func (r *SequenceRepo) Next(scope, typeCode string, date time.Time) (int64, error) {
	query := `
		INSERT INTO doc_sequences (scope, type_code, seq_date, last_seq)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (scope, type_code, seq_date)
		DO UPDATE SET last_seq = doc_sequences.last_seq + 1
		RETURNING last_seq`
	var seq int64
	err := r.q.QueryRow(context.Background(), query, scope, typeCode, date.Format("2006-01-02")).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next seq %s-%s: %w", scope, typeCode, err)
	}
	return seq, nil
}
