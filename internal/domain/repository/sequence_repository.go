package repository

import "time"

// SequenceRepository entrega consecutivos por (scope, tipo, día) con un
// incremento atómico de una sola fila. Reemplaza el esquema de "contar filas
// del día", que pierde números bajo creación concurrente.
type SequenceRepository interface {
	Next(scope, typeCode string, date time.Time) (int64, error)
}
