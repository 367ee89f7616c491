package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// pgErrCode extrae el código SQLSTATE de un error de pgx, o "" si no aplica.
func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgErrCode(err) == "23505"
}

// isForeignKeyViolation verifica si un error es una violación de llave
// foránea (23503): la fila está referenciada por otra tabla.
func isForeignKeyViolation(err error) bool {
	return pgErrCode(err) == "23503"
}
