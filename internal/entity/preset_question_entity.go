package entity

import (
	"time"

	"github.com/google/uuid"
)

type PresetQuestion struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Prompt      string    `gorm:"not null" json:"prompt"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	UsageCount  int       `gorm:"default:0" json:"usage_count"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (PresetQuestion) TableName() string { return "preset_questions" }
