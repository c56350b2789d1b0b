package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/inventario-pedidos/internal/domain"
)

// Códigos SQLSTATE usados.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNumericOverflow     = "22003"
	codeInvalidTextRepr     = "22P02"
)

// constraintErrors traduce violaciones de unicidad por nombre de constraint/índice.
var constraintErrors = map[string]error{
	"products_sku_key":                    domain.ErrDuplicate,
	"categories_name_key":                 domain.ErrDuplicate,
	"users_email_key":                     domain.ErrEmailAlreadyExists,
	"orders_order_number_key":             domain.ErrUniquenessConflict,
	"invoices_invoice_number_key":         domain.ErrUniquenessConflict,
	"invoices_order_id_key":               domain.ErrDuplicate,
	"order_items_order_id_product_id_key": domain.ErrDuplicateLineItem,
}

func pgError(err error) *pgconn.PgError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr
	}
	return nil
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	if pgErr := pgError(err); pgErr != nil {
		return pgErr.Code == codeUniqueViolation
	}
	return strings.Contains(err.Error(), codeUniqueViolation)
}

// isForeignKeyViolation verifica si un error es una violación de clave foránea (23503).
func isForeignKeyViolation(err error) bool {
	if pgErr := pgError(err); pgErr != nil {
		return pgErr.Code == codeForeignKeyViolation
	}
	return false
}

func hasCode(err error, codes ...string) bool {
	pgErr := pgError(err)
	if pgErr == nil {
		return false
	}
	for _, c := range codes {
		if pgErr.Code == c {
			return true
		}
	}
	return false
}

// isNoRows trata como "no existe" tanto la fila ausente como un id que no es UUID (22P02).
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || hasCode(err, codeInvalidTextRepr)
}

// mapWriteError traduce errores de INSERT/UPDATE: unicidad por constraint, FK o id mal formado
// a ErrNotFound, CHECK o desborde numérico a ErrInvalidInput.
// Devuelve nil si err no es una violación conocida.
func mapWriteError(err error) error {
	if isUniqueViolation(err) {
		if pgErr := pgError(err); pgErr != nil {
			if mapped, ok := constraintErrors[pgErr.ConstraintName]; ok {
				return mapped
			}
		}
		return domain.ErrDuplicate
	}
	if isForeignKeyViolation(err) || hasCode(err, codeInvalidTextRepr) {
		return domain.ErrNotFound
	}
	if hasCode(err, codeCheckViolation, codeNumericOverflow) {
		return domain.ErrInvalidInput
	}
	return nil
}

// mapDeleteError traduce una FK violada al borrar (fila referenciada) a ErrConflict
// y un id mal formado a ErrNotFound.
func mapDeleteError(err error) error {
	if isForeignKeyViolation(err) {
		return domain.ErrConflict
	}
	if hasCode(err, codeInvalidTextRepr) {
		return domain.ErrNotFound
	}
	return nil
}
