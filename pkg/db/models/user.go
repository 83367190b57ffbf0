package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an authenticated account. Login is by unique login name.
type User struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	LoginName     string    `gorm:"column:login_name;uniqueIndex;not null"`
	UserName      string    `gorm:"column:user_name;not null"`
	IsDeleted     bool      `gorm:"column:is_deleted;not null;default:false"`
	VersionNumber int64     `gorm:"column:version_number;not null;default:1"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	ensureVersion(&u.VersionNumber)
	return nil
}
