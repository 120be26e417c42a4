// Command seed provisions the demo accounts (admin@augmind.com and
// user@augmind.com) against the configured backend. Safe to re-run: it skips
// seeding when any profile already exists.
package main

import (
	"context"
	"log"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/mahdyhasan/augmind/internal/backend"
	"github.com/mahdyhasan/augmind/internal/backend/supabase"
	"github.com/mahdyhasan/augmind/internal/config"
	"github.com/mahdyhasan/augmind/internal/entity"
)

type demoUser struct {
	email    string
	password string
	username string
	fullName string
	role     entity.Role
}

var demoUsers = []demoUser{
	{"admin@augmind.com", "admin123", "admin", "Administrator", entity.RoleAdmin},
	{"user@augmind.com", "user123", "johnsmith", "John Smith", entity.RoleBusinessDev},
}

func main() {
	cfg := config.Load()
	cfg.MustValidate()

	client := supabase.New(
		cfg.Backend.URL,
		cfg.Backend.AnonKey,
		supabase.WithServiceKey(cfg.Backend.ServiceKey),
		supabase.WithTimeout(cfg.Backend.RequestTimeout),
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	count, err := client.From("user_profiles").Count(ctx)
	if err != nil {
		log.Fatalf("Cannot reach backend: %v", err)
	}
	if count > 0 {
		color.Yellow("Profiles already exist (%d), skipping seed", count)
		return
	}

	color.Cyan("Seeding demo accounts...")
	for _, u := range demoUsers {
		if err := seedUser(ctx, client, u); err != nil {
			color.Red("  ✗ %s: %v", u.email, err)
			continue
		}
		color.Green("  ✓ %s (%s)", u.email, u.role)
	}
	color.Cyan("Seeding completed")
}

func seedUser(ctx context.Context, client backend.Client, u demoUser) error {
	identity, err := client.Auth().SignUp(ctx, u.email, u.password, map[string]interface{}{
		"username":  u.username,
		"full_name": u.fullName,
	})
	if err != nil {
		return err
	}

	id, err := uuid.Parse(identity.ID)
	if err != nil {
		return err
	}

	now := time.Now()
	profile := entity.UserProfile{
		Id:         id,
		Username:   u.username,
		FullName:   u.fullName,
		Role:       u.role,
		TokenLimit: 10000,
		WordLimit:  2000,
		Status:     entity.UserStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return client.From("user_profiles").Insert(ctx, &profile, nil)
}
