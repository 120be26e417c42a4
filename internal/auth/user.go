package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mahdyhasan/augmind/internal/backend"
	"github.com/mahdyhasan/augmind/internal/entity"
)

// User is the client-side view model of an authenticated user. It is replaced
// wholesale on every profile resolution and nilled on logout; nothing mutates
// it in place.
type User struct {
	ID       string              `json:"id"`
	Username string              `json:"username"`
	Role     entity.Role         `json:"role"`
	Name     string              `json:"name"`
	Email    string              `json:"email"`
	Profile  *entity.UserProfile `json:"profile,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == entity.RoleAdmin
}

// userFromProfile builds the view model from a resolved profile record.
func userFromProfile(identity *backend.Identity, profile *entity.UserProfile) *User {
	return &User{
		ID:       identity.ID,
		Username: profile.Username,
		Role:     profile.Role,
		Name:     profile.FullName,
		Email:    identity.Email,
		Profile:  profile,
	}
}

// userFromIdentity synthesizes a fallback view model from identity claims
// alone: username from the email local-part, default non-admin role.
func userFromIdentity(identity *backend.Identity) *User {
	username := localPart(identity.Email)
	name := username
	if identity.Metadata != nil {
		if v, ok := identity.Metadata["username"].(string); ok && v != "" {
			username = v
		}
		if v, ok := identity.Metadata["full_name"].(string); ok && v != "" {
			name = v
		}
	}
	return &User{
		ID:       identity.ID,
		Username: username,
		Role:     entity.RoleBusinessDev,
		Name:     name,
		Email:    identity.Email,
	}
}

// newProfileRecord builds the profile row written right after signup. A nil
// return means the identity id is not something the profiles table can key
// on, so provisioning is deferred to the resolver.
func newProfileRecord(identity *backend.Identity, username, fullName string, role entity.Role) *entity.UserProfile {
	id, err := uuid.Parse(identity.ID)
	if err != nil {
		return nil
	}
	if username == "" {
		username = localPart(identity.Email)
	}
	if fullName == "" {
		fullName = username
	}
	now := time.Now()
	return &entity.UserProfile{
		Id:        id,
		Username:  username,
		FullName:  fullName,
		Role:      role,
		Status:    entity.UserStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func localPart(email string) string {
	if idx := strings.Index(email, "@"); idx > 0 {
		return email[:idx]
	}
	return email
}
