package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// nullable devuelve nil para strings vacíos (columnas opcionales).
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// fromNullable devuelve "" para punteros nil.
func fromNullable(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
