package contract

import (
	"context"

	"haruhi-agent-be/internal/entity"
	"haruhi-agent-be/internal/repository/specification"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Booking, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
