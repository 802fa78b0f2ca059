package implementation

import (
	"context"

	"haruhi-agent-be/internal/entity"
	"haruhi-agent-be/internal/mapper"
	"haruhi-agent-be/internal/model"
	"haruhi-agent-be/internal/repository/contract"
	"haruhi-agent-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BookingMapper
}

func NewBookingRepository(db *gorm.DB) contract.BookingRepository {
	return &BookingRepositoryImpl{
		db:     db,
		mapper: mapper.NewBookingMapper(),
	}
}

func (r *BookingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *BookingRepositoryImpl) Create(ctx context.Context, booking *entity.Booking) error {
	if booking.Id == uuid.Nil {
		booking.Id = uuid.New()
	}
	m := r.mapper.ToModel(booking)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translatePgError(err)
	}
	*booking = *r.mapper.ToEntity(m)
	return nil
}

func (r *BookingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Booking, error) {
	var models []*model.Booking
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Booking{}), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, translatePgError(err)
	}
	return r.mapper.ToEntities(models), nil
}

func (r *BookingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Booking{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, translatePgError(err)
	}
	return count, nil
}
