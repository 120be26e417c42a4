package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mahdyhasan/augmind/internal/auth"
	"github.com/mahdyhasan/augmind/internal/backend"
	"github.com/mahdyhasan/augmind/internal/dto"
	"github.com/mahdyhasan/augmind/internal/entity"
	"github.com/mahdyhasan/augmind/internal/pkg/logger"
	"github.com/mahdyhasan/augmind/pkg/assistant"
)

type IChatService interface {
	SendMessage(ctx context.Context, caller *auth.User, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	ListConversations(ctx context.Context, caller *auth.User) ([]entity.Conversation, error)
	GetConversation(ctx context.Context, caller *auth.User, id uuid.UUID) (*dto.ConversationDetailResponse, error)
	DeleteConversation(ctx context.Context, caller *auth.User, id uuid.UUID) error
}

type chatService struct {
	client   backend.Client
	provider assistant.Provider
	presets  IPresetService
	log      logger.ILogger
}

func NewChatService(client backend.Client, provider assistant.Provider, presets IPresetService, log logger.ILogger) IChatService {
	return &chatService{client: client, provider: provider, presets: presets, log: log}
}

// SendMessage persists the user's message, generates the assistant reply and
// persists that too. Conversations are strictly per-user: even admins chat in
// their own thread.
func (s *chatService) SendMessage(ctx context.Context, caller *auth.User, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	if err := s.checkUsage(ctx, caller); err != nil {
		return nil, err
	}

	conversationID, err := s.ensureConversation(ctx, caller, req)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	userMessage := entity.Message{
		Id:               uuid.New(),
		ConversationId:   conversationID,
		Sender:           entity.SenderUser,
		Content:          req.Content,
		PresetQuestionId: req.PresetQuestionId,
		CreatedAt:        now,
	}
	if err := s.client.From("messages").Insert(ctx, &userMessage, nil); err != nil {
		return nil, err
	}

	reply, err := s.provider.Respond(ctx, req.Content)
	if err != nil {
		return nil, err
	}

	aiMessage := entity.Message{
		Id:             uuid.New(),
		ConversationId: conversationID,
		Sender:         entity.SenderAssistant,
		Content:        reply.Content,
		TokensUsed:     reply.TokensUsed,
		WordsCount:     reply.WordsCount,
		CreatedAt:      time.Now(),
	}
	if err := s.client.From("messages").Insert(ctx, &aiMessage, nil); err != nil {
		return nil, err
	}

	s.recordUsage(ctx, caller, reply)
	if req.PresetQuestionId != nil {
		s.presets.RecordUsage(ctx, *req.PresetQuestionId)
	}

	return &dto.SendMessageResponse{
		ConversationId: conversationID,
		UserMessage:    userMessage,
		AiMessage:      aiMessage,
	}, nil
}

func (s *chatService) ListConversations(ctx context.Context, caller *auth.User) ([]entity.Conversation, error) {
	var conversations []entity.Conversation
	err := s.client.From("conversations").
		Select("*").
		Eq("user_id", caller.ID).
		Order("updated_at", false).
		Get(ctx, &conversations)
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

func (s *chatService) GetConversation(ctx context.Context, caller *auth.User, id uuid.UUID) (*dto.ConversationDetailResponse, error) {
	conversation, err := s.ownedConversation(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	var messages []entity.Message
	err = s.client.From("messages").
		Select("*").
		Eq("conversation_id", id.String()).
		Order("created_at", true).
		Get(ctx, &messages)
	if err != nil {
		return nil, err
	}

	return &dto.ConversationDetailResponse{
		Conversation: dto.ConversationResponse{
			Id:        conversation.Id,
			Title:     conversation.Title,
			CreatedAt: conversation.CreatedAt,
			UpdatedAt: conversation.UpdatedAt,
		},
		Messages: messages,
	}, nil
}

func (s *chatService) DeleteConversation(ctx context.Context, caller *auth.User, id uuid.UUID) error {
	if _, err := s.ownedConversation(ctx, caller, id); err != nil {
		return err
	}
	if err := s.client.From("messages").Eq("conversation_id", id.String()).Delete(ctx); err != nil {
		return err
	}
	return s.client.From("conversations").Eq("id", id.String()).Delete(ctx)
}

// ownedConversation fetches the conversation and enforces that the caller
// owns it. Ownership is checked here, not trusted from the client.
func (s *chatService) ownedConversation(ctx context.Context, caller *auth.User, id uuid.UUID) (*entity.Conversation, error) {
	var conversation entity.Conversation
	err := s.client.From("conversations").
		Select("*").
		Eq("id", id.String()).
		Single().
		Get(ctx, &conversation)
	if err != nil {
		return nil, err
	}
	if conversation.UserId.String() != caller.ID {
		return nil, ErrForbidden
	}
	return &conversation, nil
}

func (s *chatService) ensureConversation(ctx context.Context, caller *auth.User, req *dto.SendMessageRequest) (uuid.UUID, error) {
	if req.ConversationId != nil {
		if _, err := s.ownedConversation(ctx, caller, *req.ConversationId); err != nil {
			return uuid.Nil, err
		}
		return *req.ConversationId, nil
	}

	userID, err := uuid.Parse(caller.ID)
	if err != nil {
		return uuid.Nil, err
	}
	now := time.Now()
	conversation := entity.Conversation{
		Id:        uuid.New(),
		Title:     conversationTitle(req.Content),
		UserId:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.client.From("conversations").Insert(ctx, &conversation, nil); err != nil {
		return uuid.Nil, err
	}
	return conversation.Id, nil
}

// checkUsage rejects the request when the caller is over their token or word
// allowance. Daily counters reset on the first request of a new day.
func (s *chatService) checkUsage(ctx context.Context, caller *auth.User) error {
	profile := caller.Profile
	if profile == nil {
		return nil
	}
	if profile.TokenLimit > 0 && profile.TokensUsed >= profile.TokenLimit {
		return ErrLimitExceeded
	}
	if profile.WordLimit > 0 && profile.WordsUsed >= profile.WordLimit {
		return ErrLimitExceeded
	}
	return nil
}

// recordUsage bumps the caller's consumption counters, preferring the
// server-side increment procedure and falling back to a direct update when it
// is not installed. The shared profile is read-only here: it is replaced
// wholesale when the caller's store reloads the user, never mutated in place.
// Accounting failures are logged and swallowed so a reply that was already
// generated still reaches the user.
func (s *chatService) recordUsage(ctx context.Context, caller *auth.User, reply assistant.Reply) {
	profile := caller.Profile
	if profile == nil {
		return
	}

	err := s.client.Rpc(ctx, "increment_usage", map[string]interface{}{
		"p_user_id": caller.ID,
		"p_tokens":  reply.TokensUsed,
		"p_words":   reply.WordsCount,
	}, nil)
	if err != nil {
		now := time.Now()
		dailyRequests := profile.DailyRequests + 1
		if profile.LastRequestDate == nil || !sameDay(*profile.LastRequestDate, now) {
			dailyRequests = 1
		}
		update := map[string]interface{}{
			"tokens_used":       profile.TokensUsed + reply.TokensUsed,
			"words_used":        profile.WordsUsed + reply.WordsCount,
			"daily_requests":    dailyRequests,
			"last_request_date": now,
			"updated_at":        now,
		}
		if err := s.client.From("user_profiles").Eq("id", caller.ID).Update(ctx, update); err != nil {
			s.log.Warn("chat", "Failed to record usage", map[string]interface{}{
				"user_id": caller.ID,
				"error":   err.Error(),
			})
		}
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// conversationTitle derives a title from the first message, truncating on a
// rune boundary so multi-byte text is never cut mid-character.
func conversationTitle(content string) string {
	const maxTitle = 60
	runes := []rune(content)
	if len(runes) <= maxTitle {
		return content
	}
	return string(runes[:maxTitle]) + "…"
}
