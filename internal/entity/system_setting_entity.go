package entity

import (
	"time"

	"github.com/google/uuid"
)

// SystemSetting is a key/value row edited from the admin panel (default
// limits, assistant toggles, branding strings).
type SystemSetting struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;not null" json:"key"`
	Value     string    `json:"value"`
	UpdatedBy uuid.UUID `gorm:"type:uuid" json:"updated_by"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SystemSetting) TableName() string { return "system_settings" }
