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

type IAdminService interface {
	ListUsers(ctx context.Context) ([]entity.UserProfile, error)
	CreateUser(ctx context.Context, req *dto.AdminCreateUserRequest) (*entity.UserProfile, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req *dto.AdminUpdateUserRequest) (*entity.UserProfile, error)
	DeleteUser(ctx context.Context, caller *auth.User, id uuid.UUID) error
	Stats(ctx context.Context) (*dto.AdminStatsResponse, error)
	ListSettings(ctx context.Context) ([]entity.SystemSetting, error)
	UpsertSetting(ctx context.Context, caller *auth.User, req *dto.UpsertSystemSettingRequest) (*entity.SystemSetting, error)
	Logs(level string, limit, offset int) ([]logger.LogEntry, error)
}

type adminService struct {
	client backend.Client
	policy *datasource.Policy
	log    logger.ILogger
}

func NewAdminService(client backend.Client, policy *datasource.Policy, log logger.ILogger) IAdminService {
	return &adminService{client: client, policy: policy, log: log}
}

func (s *adminService) ListUsers(ctx context.Context) ([]entity.UserProfile, error) {
	if !s.policy.Live() {
		return datasource.DemoProfiles(), nil
	}

	var users []entity.UserProfile
	err := s.client.From("user_profiles").
		Select("*").
		Order("created_at", true).
		Get(ctx, &users)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser provisions the auth identity through the admin API, then the
// profile row. Unlike self-signup, a failed profile insert here rolls the
// identity back so the admin panel never shows half-created accounts.
func (s *adminService) CreateUser(ctx context.Context, req *dto.AdminCreateUserRequest) (*entity.UserProfile, error) {
	if !req.Role.Valid() {
		return nil, ErrForbidden
	}

	identity, err := s.client.Auth().AdminCreateUser(ctx, req.Email, req.Password, map[string]interface{}{
		"username":  req.Username,
		"full_name": req.FullName,
	})
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(identity.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	profile := entity.UserProfile{
		Id:        id,
		Username:  req.Username,
		FullName:  req.FullName,
		Role:      req.Role,
		Status:    entity.UserStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.client.From("user_profiles").Insert(ctx, &profile, nil); err != nil {
		if delErr := s.client.Auth().AdminDeleteUser(ctx, identity.ID); delErr != nil {
			s.log.Error("admin", "Failed to roll back identity after profile insert failure", map[string]interface{}{
				"user_id": identity.ID,
				"error":   delErr.Error(),
			})
		}
		return nil, err
	}
	return &profile, nil
}

func (s *adminService) UpdateUser(ctx context.Context, id uuid.UUID, req *dto.AdminUpdateUserRequest) (*entity.UserProfile, error) {
	update := map[string]interface{}{"updated_at": time.Now()}
	if req.FullName != nil {
		update["full_name"] = *req.FullName
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, ErrForbidden
		}
		update["role"] = *req.Role
	}
	if req.Status != nil {
		update["status"] = *req.Status
	}
	if req.TokenLimit != nil {
		update["token_limit"] = *req.TokenLimit
	}
	if req.WordLimit != nil {
		update["word_limit"] = *req.WordLimit
	}

	if err := s.client.From("user_profiles").Eq("id", id.String()).Update(ctx, update); err != nil {
		return nil, err
	}

	var profile entity.UserProfile
	err := s.client.From("user_profiles").
		Select("*").
		Eq("id", id.String()).
		Single().
		Get(ctx, &profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// DeleteUser removes the profile and the auth identity. Self-deletion is
// rejected so an admin cannot lock themselves out mid-session.
func (s *adminService) DeleteUser(ctx context.Context, caller *auth.User, id uuid.UUID) error {
	if caller.ID == id.String() {
		return ErrForbidden
	}

	if err := s.client.From("user_profiles").Eq("id", id.String()).Delete(ctx); err != nil {
		return err
	}
	return s.client.Auth().AdminDeleteUser(ctx, id.String())
}

func (s *adminService) Stats(ctx context.Context) (*dto.AdminStatsResponse, error) {
	stats := &dto.AdminStatsResponse{}

	var err error
	if stats.TotalUsers, err = s.client.From("user_profiles").Count(ctx); err != nil {
		return nil, err
	}
	if stats.ActiveUsers, err = s.client.From("user_profiles").Eq("status", string(entity.UserStatusActive)).Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalDocuments, err = s.client.From("documents").Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalProspects, err = s.client.From("client_prospects").Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalMessages, err = s.client.From("messages").Count(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *adminService) ListSettings(ctx context.Context) ([]entity.SystemSetting, error) {
	var settings []entity.SystemSetting
	err := s.client.From("system_settings").
		Select("*").
		Order("key", true).
		Get(ctx, &settings)
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *adminService) UpsertSetting(ctx context.Context, caller *auth.User, req *dto.UpsertSystemSettingRequest) (*entity.SystemSetting, error) {
	updatedBy, err := uuid.Parse(caller.ID)
	if err != nil {
		return nil, err
	}

	var existing entity.SystemSetting
	err = s.client.From("system_settings").
		Select("*").
		Eq("key", req.Key).
		Single().
		Get(ctx, &existing)
	switch {
	case err == nil:
		update := map[string]interface{}{
			"value":      req.Value,
			"updated_by": updatedBy,
			"updated_at": time.Now(),
		}
		if err := s.client.From("system_settings").Eq("key", req.Key).Update(ctx, update); err != nil {
			return nil, err
		}
		existing.Value = req.Value
		existing.UpdatedBy = updatedBy
		return &existing, nil
	case backend.IsNotFound(err):
		setting := entity.SystemSetting{
			Id:        uuid.New(),
			Key:       req.Key,
			Value:     req.Value,
			UpdatedBy: updatedBy,
			UpdatedAt: time.Now(),
		}
		if err := s.client.From("system_settings").Insert(ctx, &setting, nil); err != nil {
			return nil, err
		}
		return &setting, nil
	default:
		return nil, err
	}
}

func (s *adminService) Logs(level string, limit, offset int) ([]logger.LogEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.log.GetLogs(level, limit, offset)
}
