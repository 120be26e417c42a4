package dto

import "github.com/mahdyhasan/augmind/internal/entity"

type AdminCreateUserRequest struct {
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=6"`
	Username string      `json:"username" validate:"required,min=3,max=32"`
	FullName string      `json:"full_name" validate:"required,min=2"`
	Role     entity.Role `json:"role" validate:"required"`
}

type AdminUpdateUserRequest struct {
	FullName   *string            `json:"full_name,omitempty" validate:"omitempty,min=2"`
	Role       *entity.Role       `json:"role,omitempty"`
	Status     *entity.UserStatus `json:"status,omitempty"`
	TokenLimit *int               `json:"token_limit,omitempty" validate:"omitempty,min=0"`
	WordLimit  *int               `json:"word_limit,omitempty" validate:"omitempty,min=0"`
}

type UpsertSystemSettingRequest struct {
	Key   string `json:"key" validate:"required,max=128"`
	Value string `json:"value" validate:"max=4000"`
}

// AdminStatsResponse backs the dashboard overview cards.
type AdminStatsResponse struct {
	TotalUsers     int64 `json:"total_users"`
	ActiveUsers    int64 `json:"active_users"`
	TotalDocuments int64 `json:"total_documents"`
	TotalProspects int64 `json:"total_prospects"`
	TotalMessages  int64 `json:"total_messages"`
}
