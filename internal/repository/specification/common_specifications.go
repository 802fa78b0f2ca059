package specification

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type ByUserID struct {
	UserID string
}

func (s ByUserID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

type ByKind struct {
	Kind string
}

func (s ByKind) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("kind = ?", s.Kind)
}

// ByKeyPrefix matches preference keys such as "gcal_" or "oauth_".
type ByKeyPrefix struct {
	Prefix string
}

func (s ByKeyPrefix) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("key LIKE ?", s.Prefix+"%")
}

type CreatedSince struct {
	Since time.Time
}

func (s CreatedSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at >= ?", s.Since)
}

var orderableFields = map[string]bool{"created_at": true, "updated_at": true, "key": true}

// OrderBy ignores fields outside the allow list.
type OrderBy struct {
	Field string
	Desc  bool
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	if !orderableFields[s.Field] {
		return db
	}
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", s.Field, direction))
}

type Pagination struct {
	Limit  int
	Offset int
}

func (s Pagination) Apply(db *gorm.DB) *gorm.DB {
	return db.Limit(s.Limit).Offset(s.Offset)
}
