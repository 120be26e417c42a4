package dto

import "github.com/mahdyhasan/augmind/internal/entity"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Username string `json:"username" validate:"required,min=3,max=32"`
	FullName string `json:"full_name" validate:"required,min=2"`
}

// AuthResultResponse mirrors the credential-operation contract: Success with
// a non-empty Error means the account exists but a follow-up step was
// deferred.
type AuthResultResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error,omitempty"`
	User    *CurrentUserResponse `json:"user,omitempty"`
}

type CurrentUserResponse struct {
	ID       string              `json:"id"`
	Username string              `json:"username"`
	Role     entity.Role         `json:"role"`
	Name     string              `json:"name"`
	Email    string              `json:"email"`
	Profile  *entity.UserProfile `json:"profile,omitempty"`
}

// SessionStateResponse is what the client polls on startup: loading is
// always false by the time a response is produced.
type SessionStateResponse struct {
	User    *CurrentUserResponse `json:"user"`
	Loading bool                 `json:"loading"`
}
