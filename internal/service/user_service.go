package service

import (
	"context"
	"time"

	"github.com/mahdyhasan/augmind/internal/auth"
	"github.com/mahdyhasan/augmind/internal/backend"
	"github.com/mahdyhasan/augmind/internal/dto"
	"github.com/mahdyhasan/augmind/internal/entity"
	"github.com/mahdyhasan/augmind/internal/pkg/logger"
)

// IUserService backs the settings page: own profile, password, usage.
type IUserService interface {
	GetProfile(ctx context.Context, caller *auth.User) (*entity.UserProfile, error)
	UpdateProfile(ctx context.Context, caller *auth.User, req *dto.UpdateProfileRequest) (*entity.UserProfile, error)
	ChangePassword(ctx context.Context, caller *auth.User, accessToken string, req *dto.ChangePasswordRequest) error
	Usage(ctx context.Context, caller *auth.User) (*dto.UsageResponse, error)
}

type userService struct {
	client backend.Client
	log    logger.ILogger
}

func NewUserService(client backend.Client, log logger.ILogger) IUserService {
	return &userService{client: client, log: log}
}

func (s *userService) GetProfile(ctx context.Context, caller *auth.User) (*entity.UserProfile, error) {
	var profile entity.UserProfile
	err := s.client.From("user_profiles").
		Select("*").
		Eq("id", caller.ID).
		Single().
		Get(ctx, &profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile lets a user edit their own username and display name. Role,
// status and limits are admin-only and not reachable from here.
func (s *userService) UpdateProfile(ctx context.Context, caller *auth.User, req *dto.UpdateProfileRequest) (*entity.UserProfile, error) {
	update := map[string]interface{}{"updated_at": time.Now()}
	if req.Username != "" {
		update["username"] = req.Username
	}
	if req.FullName != "" {
		update["full_name"] = req.FullName
	}

	if err := s.client.From("user_profiles").Eq("id", caller.ID).Update(ctx, update); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, caller)
}

// ChangePassword goes through the auth provider with the caller's own access
// token, so the provider enforces its password policy.
func (s *userService) ChangePassword(ctx context.Context, caller *auth.User, accessToken string, req *dto.ChangePasswordRequest) error {
	_, err := s.client.Auth().UpdateUser(ctx, accessToken, backend.UserAttributes{
		Password: req.NewPassword,
	})
	return err
}

func (s *userService) Usage(ctx context.Context, caller *auth.User) (*dto.UsageResponse, error) {
	profile, err := s.GetProfile(ctx, caller)
	if err != nil {
		if caller.Profile != nil {
			profile = caller.Profile
		} else {
			return nil, err
		}
	}
	return &dto.UsageResponse{
		TokenLimit:    profile.TokenLimit,
		TokensUsed:    profile.TokensUsed,
		WordLimit:     profile.WordLimit,
		WordsUsed:     profile.WordsUsed,
		DailyRequests: profile.DailyRequests,
	}, nil
}
