package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas). Los de validación y de regla
// de negocio se detectan antes de cualquier escritura.
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrEmptyLines          = errors.New("la transacción no tiene líneas")
	ErrInvalidWarehouse    = errors.New("bodega inexistente o inactiva")
	ErrSameWarehouse       = errors.New("bodega origen y destino son la misma")
	ErrNoWarehouseSelected = errors.New("no se seleccionó bodega para el conteo")
	ErrEmptyCount          = errors.New("el conteo no tiene líneas")
	ErrCountIDMissing      = errors.New("el conteo no tiene id de sesión válido")
	ErrCountCompleted      = errors.New("el conteo ya fue completado")
	ErrOverAllocation      = errors.New("el monto asignado supera el total recibido")
	ErrOverReceipt         = errors.New("la cantidad aceptada supera la pendiente de la línea")
)

// PersistenceError indica que falló una escritura de una sola fila. Lleva la
// identidad de lo que se escribía para que el caller pueda reintentar o reportar.
type PersistenceError struct {
	Table string
	Key   string
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("fallo de persistencia en %s (%s): %v", e.Table, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// PartialPostingError indica que una secuencia multi-fila escribió algunas
// filas y luego falló. Steps lista lo ya escrito (tabla:id) para que un
// operario o un job compensador pueda completar o reversar.
type PartialPostingError struct {
	TxnID     string
	TxnNumber string
	Steps     []string
	Err       error
}

func (e *PartialPostingError) Error() string {
	return fmt.Sprintf("posteo parcial de %s (%s), pasos escritos [%s]: %v",
		e.TxnNumber, e.TxnID, strings.Join(e.Steps, ", "), e.Err)
}

func (e *PartialPostingError) Unwrap() error { return e.Err }

// PartialTransferError indica que la pata de salida de un traslado quedó
// posteada y la de entrada falló. Lleva el id de la pata creada para
// completar o reversar el traslado.
type PartialTransferError struct {
	OutTxnID     string
	OutTxnNumber string
	Err          error
}

func (e *PartialTransferError) Error() string {
	return fmt.Sprintf("traslado a medias: pata de salida %s (%s) posteada, entrada falló: %v",
		e.OutTxnNumber, e.OutTxnID, e.Err)
}

func (e *PartialTransferError) Unwrap() error { return e.Err }
