package contract

import "errors"

var (
	// ErrSchemaMissing means the table does not exist yet; run cmd/migrate.
	ErrSchemaMissing = errors.New("repository schema missing")
	ErrDuplicate     = errors.New("record already exists")
	ErrInvalidValue  = errors.New("value rejected by the database")
)

// IsPermanent reports whether retrying the same write can never succeed.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrSchemaMissing) || errors.Is(err, ErrDuplicate) || errors.Is(err, ErrInvalidValue)
}
