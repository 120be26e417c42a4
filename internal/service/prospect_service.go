package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/mahdyhasan/augmind/internal/auth"
	"github.com/mahdyhasan/augmind/internal/backend"
	"github.com/mahdyhasan/augmind/internal/datasource"
	"github.com/mahdyhasan/augmind/internal/dto"
	"github.com/mahdyhasan/augmind/internal/entity"
	"github.com/mahdyhasan/augmind/internal/pkg/logger"
	"github.com/mahdyhasan/augmind/pkg/assistant"
)

type IProspectService interface {
	Create(ctx context.Context, caller *auth.User, req *dto.CreateProspectRequest) (*entity.ClientProspect, error)
	List(ctx context.Context, caller *auth.User) ([]entity.ClientProspect, error)
	Get(ctx context.Context, caller *auth.User, id uuid.UUID) (*entity.ClientProspect, error)
	Delete(ctx context.Context, caller *auth.User, id uuid.UUID) error
	Analyze(ctx context.Context, caller *auth.User, id uuid.UUID, req *dto.AnalyzeProspectRequest) (*dto.ProspectAnalysisResponse, error)
	ListAnalyses(ctx context.Context, caller *auth.User, id uuid.UUID) ([]entity.ProspectAnalysis, error)
}

type prospectService struct {
	client   backend.Client
	policy   *datasource.Policy
	provider assistant.Provider
	log      logger.ILogger
}

func NewProspectService(client backend.Client, policy *datasource.Policy, provider assistant.Provider, log logger.ILogger) IProspectService {
	return &prospectService{client: client, policy: policy, provider: provider, log: log}
}

func (s *prospectService) Create(ctx context.Context, caller *auth.User, req *dto.CreateProspectRequest) (*entity.ClientProspect, error) {
	userID, err := uuid.Parse(caller.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	prospect := entity.ClientProspect{
		Id:              uuid.New(),
		CompanyName:     req.CompanyName,
		Website:         req.Website,
		LinkedinCompany: req.LinkedinCompany,
		KdmName:         req.KdmName,
		KdmRole:         req.KdmRole,
		KdmEmail:        req.KdmEmail,
		KdmLinkedin:     req.KdmLinkedin,
		AdditionalInfo:  req.AdditionalInfo,
		UserId:          userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.client.From("client_prospects").Insert(ctx, &prospect, nil); err != nil {
		return nil, err
	}
	return &prospect, nil
}

// List scopes to the caller's own prospects unless they are an admin.
func (s *prospectService) List(ctx context.Context, caller *auth.User) ([]entity.ClientProspect, error) {
	if !s.policy.Live() {
		return datasource.DemoProspects(), nil
	}

	query := s.client.From("client_prospects").Select("*")
	if !caller.IsAdmin() {
		query = query.Eq("user_id", caller.ID)
	}

	var prospects []entity.ClientProspect
	if err := query.Order("created_at", false).Get(ctx, &prospects); err != nil {
		return nil, err
	}
	return prospects, nil
}

func (s *prospectService) Get(ctx context.Context, caller *auth.User, id uuid.UUID) (*entity.ClientProspect, error) {
	return s.ownedProspect(ctx, caller, id)
}

func (s *prospectService) Delete(ctx context.Context, caller *auth.User, id uuid.UUID) error {
	if _, err := s.ownedProspect(ctx, caller, id); err != nil {
		return err
	}
	if err := s.client.From("prospect_analyses").Eq("prospect_id", id.String()).Delete(ctx); err != nil {
		return err
	}
	return s.client.From("client_prospects").Eq("id", id.String()).Delete(ctx)
}

// Analyze generates strategy insights for a prospect and stores the result as
// an analysis record.
func (s *prospectService) Analyze(ctx context.Context, caller *auth.User, id uuid.UUID, req *dto.AnalyzeProspectRequest) (*dto.ProspectAnalysisResponse, error) {
	prospect, err := s.ownedProspect(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	insights, reply, err := s.provider.AnalyzeProspect(ctx, assistant.ProspectInput{
		CompanyName: prospect.CompanyName,
		KdmName:     prospect.KdmName,
		KdmRole:     prospect.KdmRole,
	}, req.Question)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(insights)
	if err != nil {
		return nil, err
	}

	analysis := entity.ProspectAnalysis{
		Id:              uuid.New(),
		ProspectId:      prospect.Id,
		Question:        req.Question,
		AnalysisResults: datatypes.JSON(payload),
		TokensUsed:      reply.TokensUsed,
		CreatedAt:       time.Now(),
	}
	if err := s.client.From("prospect_analyses").Insert(ctx, &analysis, nil); err != nil {
		return nil, err
	}

	return &dto.ProspectAnalysisResponse{Analysis: analysis, Insights: insights}, nil
}

func (s *prospectService) ListAnalyses(ctx context.Context, caller *auth.User, id uuid.UUID) ([]entity.ProspectAnalysis, error) {
	if _, err := s.ownedProspect(ctx, caller, id); err != nil {
		return nil, err
	}

	var analyses []entity.ProspectAnalysis
	err := s.client.From("prospect_analyses").
		Select("*").
		Eq("prospect_id", id.String()).
		Order("created_at", false).
		Get(ctx, &analyses)
	if err != nil {
		return nil, err
	}
	return analyses, nil
}

func (s *prospectService) ownedProspect(ctx context.Context, caller *auth.User, id uuid.UUID) (*entity.ClientProspect, error) {
	var prospect entity.ClientProspect
	err := s.client.From("client_prospects").
		Select("*").
		Eq("id", id.String()).
		Single().
		Get(ctx, &prospect)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && prospect.UserId.String() != caller.ID {
		return nil, ErrForbidden
	}
	return &prospect, nil
}
