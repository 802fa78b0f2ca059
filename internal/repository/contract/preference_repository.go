package contract

import (
	"context"

	"haruhi-agent-be/internal/entity"
	"haruhi-agent-be/internal/repository/specification"
)

type PreferenceRepository interface {
	// Upsert writes the value for (user, key), replacing any previous one atomically.
	Upsert(ctx context.Context, pref *entity.Preference) error
	Get(ctx context.Context, userID, key string) (*entity.Preference, error)
	Delete(ctx context.Context, userID, key string) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Preference, error)
}
