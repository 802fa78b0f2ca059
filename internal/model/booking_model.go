package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Booking struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    string         `gorm:"type:varchar(255);index;not null"`
	Kind      string         `gorm:"type:varchar(50);index;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index"`
}

func (Booking) TableName() string {
	return "bookings"
}
