package unitofwork

import (
	"context"

	"haruhi-agent-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	PreferenceRepository() contract.PreferenceRepository
	BookingRepository() contract.BookingRepository
}
