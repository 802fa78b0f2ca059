package model

import "time"

type Preference struct {
	UserID    string    `gorm:"type:varchar(255);primaryKey"`
	Key       string    `gorm:"type:varchar(100);primaryKey"`
	Value     string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Preference) TableName() string {
	return "preferences"
}
