package mapper

import (
	"haruhi-agent-be/internal/entity"
	"haruhi-agent-be/internal/model"
)

type PreferenceMapper struct{}

func NewPreferenceMapper() *PreferenceMapper {
	return &PreferenceMapper{}
}

func (m *PreferenceMapper) ToEntity(model *model.Preference) *entity.Preference {
	if model == nil {
		return nil
	}
	return &entity.Preference{
		UserID:    model.UserID,
		Key:       model.Key,
		Value:     model.Value,
		UpdatedAt: model.UpdatedAt,
	}
}

func (m *PreferenceMapper) ToModel(entity *entity.Preference) *model.Preference {
	if entity == nil {
		return nil
	}
	return &model.Preference{
		UserID:    entity.UserID,
		Key:       entity.Key,
		Value:     entity.Value,
		UpdatedAt: entity.UpdatedAt,
	}
}

func (m *PreferenceMapper) ToEntities(models []*model.Preference) []*entity.Preference {
	entities := make([]*entity.Preference, 0, len(models))
	for _, mdl := range models {
		entities = append(entities, m.ToEntity(mdl))
	}
	return entities
}
