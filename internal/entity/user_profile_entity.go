package entity

import (
	"time"

	"github.com/google/uuid"
)

type Role string
type UserStatus string

const (
	RoleAdmin       Role = "Admin"
	RoleBusinessDev Role = "Business Dev User"

	UserStatusActive   UserStatus = "Active"
	UserStatusInactive UserStatus = "Inactive"
)

// Valid reports whether the role is one of the two known roles. Exactly one
// role per user; anything else fails closed.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleBusinessDev
}

// UserProfile mirrors the user_profiles table. The auth identity itself lives
// with the external auth provider; this row extends it with role and limits.
type UserProfile struct {
	Id              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Username        string     `gorm:"uniqueIndex;not null" json:"username"`
	FullName        string     `json:"full_name"`
	Role            Role       `gorm:"type:varchar(32);not null;default:'Business Dev User'" json:"role"`
	TokenLimit      int        `gorm:"default:10000" json:"token_limit"`
	WordLimit       int        `gorm:"default:50000" json:"word_limit"`
	TokensUsed      int        `gorm:"default:0" json:"tokens_used"`
	WordsUsed       int        `gorm:"default:0" json:"words_used"`
	DailyRequests   int        `gorm:"default:0" json:"daily_requests"`
	LastRequestDate *time.Time `json:"last_request_date,omitempty"`
	Status          UserStatus `gorm:"type:varchar(16);not null;default:'Active'" json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (UserProfile) TableName() string { return "user_profiles" }
