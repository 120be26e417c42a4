package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mahdyhasan/augmind/internal/auth"
	"github.com/mahdyhasan/augmind/internal/backend"
	"github.com/mahdyhasan/augmind/internal/datasource"
	"github.com/mahdyhasan/augmind/internal/dto"
	"github.com/mahdyhasan/augmind/internal/entity"
	"github.com/mahdyhasan/augmind/internal/pkg/logger"
)

type IPresetService interface {
	List(ctx context.Context, caller *auth.User) ([]entity.PresetQuestion, error)
	Create(ctx context.Context, caller *auth.User, req *dto.CreatePresetQuestionRequest) (*entity.PresetQuestion, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePresetQuestionRequest) (*entity.PresetQuestion, error)
	Delete(ctx context.Context, id uuid.UUID) error
	RecordUsage(ctx context.Context, id uuid.UUID)
}

type presetService struct {
	client backend.Client
	policy *datasource.Policy
	log    logger.ILogger
}

func NewPresetService(client backend.Client, policy *datasource.Policy, log logger.ILogger) IPresetService {
	return &presetService{client: client, policy: policy, log: log}
}

// List returns the question catalog: admins see everything, everyone else
// only active entries. In fallback mode the bundled demo catalog is served.
func (s *presetService) List(ctx context.Context, caller *auth.User) ([]entity.PresetQuestion, error) {
	if !s.policy.Live() {
		return datasource.DemoPresetQuestions(), nil
	}

	query := s.client.From("preset_questions").Select("*")
	if !caller.IsAdmin() {
		query = query.Eq("is_active", true)
	}

	var questions []entity.PresetQuestion
	if err := query.Order("usage_count", false).Get(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (s *presetService) Create(ctx context.Context, caller *auth.User, req *dto.CreatePresetQuestionRequest) (*entity.PresetQuestion, error) {
	createdBy, err := uuid.Parse(caller.ID)
	if err != nil {
		return nil, err
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	now := time.Now()
	question := entity.PresetQuestion{
		Id:          uuid.New(),
		Title:       req.Title,
		Prompt:      req.Prompt,
		Category:    req.Category,
		Description: req.Description,
		IsActive:    active,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.client.From("preset_questions").Insert(ctx, &question, nil); err != nil {
		return nil, err
	}
	return &question, nil
}

func (s *presetService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePresetQuestionRequest) (*entity.PresetQuestion, error) {
	update := map[string]interface{}{"updated_at": time.Now()}
	if req.Title != nil {
		update["title"] = *req.Title
	}
	if req.Prompt != nil {
		update["prompt"] = *req.Prompt
	}
	if req.Category != nil {
		update["category"] = *req.Category
	}
	if req.Description != nil {
		update["description"] = *req.Description
	}
	if req.IsActive != nil {
		update["is_active"] = *req.IsActive
	}

	if err := s.client.From("preset_questions").Eq("id", id.String()).Update(ctx, update); err != nil {
		return nil, err
	}

	var question entity.PresetQuestion
	err := s.client.From("preset_questions").
		Select("*").
		Eq("id", id.String()).
		Single().
		Get(ctx, &question)
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (s *presetService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.client.From("preset_questions").Eq("id", id.String()).Delete(ctx)
}

// RecordUsage bumps a question's usage counter. Best effort: catalog
// analytics never fail a chat request.
func (s *presetService) RecordUsage(ctx context.Context, id uuid.UUID) {
	var question entity.PresetQuestion
	err := s.client.From("preset_questions").
		Select("id", "usage_count").
		Eq("id", id.String()).
		Single().
		Get(ctx, &question)
	if err != nil {
		return
	}

	update := map[string]interface{}{
		"usage_count": question.UsageCount + 1,
		"updated_at":  time.Now(),
	}
	if err := s.client.From("preset_questions").Eq("id", id.String()).Update(ctx, update); err != nil {
		s.log.Warn("preset", "Failed to record question usage", map[string]interface{}{
			"question_id": id.String(),
			"error":       err.Error(),
		})
	}
}
