package mapper

import (
	"encoding/json"

	"haruhi-agent-be/internal/entity"
	"haruhi-agent-be/internal/model"

	"gorm.io/datatypes"
)

type BookingMapper struct{}

func NewBookingMapper() *BookingMapper {
	return &BookingMapper{}
}

func (m *BookingMapper) ToEntity(model *model.Booking) *entity.Booking {
	if model == nil {
		return nil
	}
	return &entity.Booking{
		Id:        model.Id,
		UserID:    model.UserID,
		Kind:      model.Kind,
		Payload:   json.RawMessage(model.Payload),
		CreatedAt: model.CreatedAt,
	}
}

func (m *BookingMapper) ToModel(entity *entity.Booking) *model.Booking {
	if entity == nil {
		return nil
	}
	return &model.Booking{
		Id:        entity.Id,
		UserID:    entity.UserID,
		Kind:      entity.Kind,
		Payload:   datatypes.JSON(entity.Payload),
		CreatedAt: entity.CreatedAt,
	}
}

func (m *BookingMapper) ToEntities(models []*model.Booking) []*entity.Booking {
	entities := make([]*entity.Booking, 0, len(models))
	for _, mdl := range models {
		entities = append(entities, m.ToEntity(mdl))
	}
	return entities
}
