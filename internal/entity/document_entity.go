package entity

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Filename         string    `gorm:"not null" json:"filename"`
	OriginalFilename string    `gorm:"not null" json:"original_filename"`
	FileSize         int64     `json:"file_size"`
	FileType         string    `json:"file_type"`
	Category         string    `json:"category"`
	Description      string    `json:"description,omitempty"`
	StoragePath      string    `gorm:"not null" json:"storage_path"`
	StorageBucket    string    `gorm:"not null" json:"storage_bucket"`
	ContentProcessed bool      `gorm:"default:false" json:"content_processed"`
	ContentText      string    `json:"content_text,omitempty"`
	UploadedBy       uuid.UUID `gorm:"type:uuid;index;not null" json:"uploaded_by"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Document) TableName() string { return "documents" }
