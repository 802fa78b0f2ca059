package implementation

import (
	"errors"
	"fmt"

	"haruhi-agent-be/internal/repository/contract"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation      = "23505"
	pgUndefinedTable       = "42P01"
	pgStringDataTruncation = "22001"
	pgInvalidTextRepr      = "22P02"
	pgInvalidJSONText      = "22032"
	pgCheckViolation       = "23514"
	pgNotNullViolation     = "23502"
)

// translatePgError maps Postgres error codes onto repository errors and keeps
// the original error in the chain. Other errors pass through unchanged.
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUndefinedTable:
		return fmt.Errorf("%w: %s: %w", contract.ErrSchemaMissing, pgErr.TableName, err)
	case pgUniqueViolation:
		return fmt.Errorf("%w: %s: %w", contract.ErrDuplicate, pgErr.ConstraintName, err)
	case pgStringDataTruncation, pgInvalidTextRepr, pgInvalidJSONText, pgCheckViolation, pgNotNullViolation:
		return fmt.Errorf("%w: %s: %w", contract.ErrInvalidValue, pgErr.ColumnName, err)
	default:
		return err
	}
}
