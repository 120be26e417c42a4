package service

import (
	"context"

	"github.com/mahdyhasan/augmind/internal/backend"
	"github.com/mahdyhasan/augmind/internal/dto"
	"github.com/mahdyhasan/augmind/internal/entity"
	"github.com/mahdyhasan/augmind/internal/pkg/logger"
)

// ISetupService covers first-run provisioning: it may create the initial
// admin account, but only while no admin profile exists yet.
type ISetupService interface {
	NeedsAdmin(ctx context.Context) (bool, error)
	CreateInitialAdmin(ctx context.Context, req *dto.AdminCreateUserRequest) (*entity.UserProfile, error)
}

type setupService struct {
	client backend.Client
	admin  IAdminService
	log    logger.ILogger
}

func NewSetupService(client backend.Client, admin IAdminService, log logger.ILogger) ISetupService {
	return &setupService{client: client, admin: admin, log: log}
}

func (s *setupService) NeedsAdmin(ctx context.Context) (bool, error) {
	count, err := s.client.From("user_profiles").
		Eq("role", string(entity.RoleAdmin)).
		Count(ctx)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// CreateInitialAdmin is the one unauthenticated path that can mint an admin.
// It re-checks the precondition right before creating, so it shuts itself off
// permanently once the first admin exists.
func (s *setupService) CreateInitialAdmin(ctx context.Context, req *dto.AdminCreateUserRequest) (*entity.UserProfile, error) {
	needed, err := s.NeedsAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if !needed {
		return nil, ErrForbidden
	}

	req.Role = entity.RoleAdmin
	profile, err := s.admin.CreateUser(ctx, req)
	if err != nil {
		return nil, err
	}

	s.log.Info("setup", "Initial admin account provisioned", map[string]interface{}{
		"user_id":  profile.Id.String(),
		"username": profile.Username,
	})
	return profile, nil
}
