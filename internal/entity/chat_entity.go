package entity

import (
	"time"

	"github.com/google/uuid"
)

type MessageSender string

const (
	SenderUser      MessageSender = "user"
	SenderAssistant MessageSender = "ai"
)

type Conversation struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `json:"title,omitempty"`
	UserId    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Conversation) TableName() string { return "conversations" }

type Message struct {
	Id               uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationId   uuid.UUID     `gorm:"type:uuid;index;not null" json:"conversation_id"`
	Sender           MessageSender `gorm:"type:varchar(8);not null" json:"sender"`
	Content          string        `gorm:"not null" json:"content"`
	TokensUsed       int           `gorm:"default:0" json:"tokens_used"`
	WordsCount       int           `gorm:"default:0" json:"words_count"`
	PresetQuestionId *uuid.UUID    `gorm:"type:uuid" json:"preset_question_id,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
}

func (Message) TableName() string { return "messages" }
