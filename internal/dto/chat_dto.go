package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/mahdyhasan/augmind/internal/entity"
)

type SendMessageRequest struct {
	ConversationId   *uuid.UUID `json:"conversation_id,omitempty"`
	Content          string     `json:"content" validate:"required,max=4000"`
	PresetQuestionId *uuid.UUID `json:"preset_question_id,omitempty"`
}

type SendMessageResponse struct {
	ConversationId uuid.UUID      `json:"conversation_id"`
	UserMessage    entity.Message `json:"user_message"`
	AiMessage      entity.Message `json:"ai_message"`
}

type ConversationResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ConversationDetailResponse struct {
	Conversation ConversationResponse `json:"conversation"`
	Messages     []entity.Message     `json:"messages"`
}
