package implementation

import (
	"errors"
	"fmt"
	"testing"

	"haruhi-agent-be/internal/repository/contract"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslatePgError(t *testing.T) {
	plain := errors.New("connection reset")

	tests := []struct {
		name      string
		err       error
		want      error
		permanent bool
	}{
		{"missing table", &pgconn.PgError{Code: "42P01", TableName: "bookings"}, contract.ErrSchemaMissing, true},
		{"wrapped unique violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "bookings_pkey"}), contract.ErrDuplicate, true},
		{"value too long", &pgconn.PgError{Code: "22001", ColumnName: "key"}, contract.ErrInvalidValue, true},
		{"bad json", &pgconn.PgError{Code: "22032", ColumnName: "payload"}, contract.ErrInvalidValue, true},
		{"serialization failure is retryable", &pgconn.PgError{Code: "40001"}, nil, false},
		{"non postgres error", plain, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translatePgError(tt.err)
			if tt.want != nil {
				assert.ErrorIs(t, got, tt.want)
			} else {
				assert.Equal(t, tt.err, got)
			}

			var pgErr *pgconn.PgError
			if errors.As(tt.err, &pgErr) {
				assert.ErrorAs(t, got, &pgErr, "original error stays in the chain")
			}
			assert.Equal(t, tt.permanent, contract.IsPermanent(got))
		})
	}

	assert.NoError(t, translatePgError(nil))
}
