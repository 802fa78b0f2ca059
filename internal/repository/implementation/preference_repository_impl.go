package implementation

import (
	"context"
	"errors"

	"haruhi-agent-be/internal/entity"
	"haruhi-agent-be/internal/mapper"
	"haruhi-agent-be/internal/model"
	"haruhi-agent-be/internal/repository/contract"
	"haruhi-agent-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PreferenceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PreferenceMapper
}

func NewPreferenceRepository(db *gorm.DB) contract.PreferenceRepository {
	return &PreferenceRepositoryImpl{
		db:     db,
		mapper: mapper.NewPreferenceMapper(),
	}
}

func (r *PreferenceRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// Upsert relies on the (user_id, key) primary key so concurrent writers to the
// same key are serialized by the database.
func (r *PreferenceRepositoryImpl) Upsert(ctx context.Context, pref *entity.Preference) error {
	m := r.mapper.ToModel(pref)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return translatePgError(err)
	}
	*pref = *r.mapper.ToEntity(m)
	return nil
}

func (r *PreferenceRepositoryImpl) Get(ctx context.Context, userID, key string) (*entity.Preference, error) {
	var m model.Preference
	if err := r.db.WithContext(ctx).Where("user_id = ? AND key = ?", userID, key).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translatePgError(err)
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PreferenceRepositoryImpl) Delete(ctx context.Context, userID, key string) error {
	return translatePgError(r.db.WithContext(ctx).Where("user_id = ? AND key = ?", userID, key).Delete(&model.Preference{}).Error)
}

func (r *PreferenceRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Preference, error) {
	var models []*model.Preference
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Preference{}), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, translatePgError(err)
	}
	return r.mapper.ToEntities(models), nil
}
