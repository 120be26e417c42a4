package datasource

import (
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mahdyhasan/augmind/internal/entity"
)

// Well-known ids keep the demo dataset internally consistent across requests
// and restarts.
var (
	DemoAdminID    = uuid.MustParse("0b5d76de-0000-4000-8000-000000000001")
	DemoUserID     = uuid.MustParse("0b5d76de-0000-4000-8000-000000000002")
	demoProspectID = uuid.MustParse("0b5d76de-0000-4000-8000-000000000101")
)

// DemoAccount is a credentialed demo identity available in fallback mode.
type DemoAccount struct {
	Email        string
	passwordHash []byte
	Profile      entity.UserProfile
}

var demoAccounts []DemoAccount

func init() {
	seeded := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	adminHash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("demo dataset: %v", err)
	}
	userHash, err := bcrypt.GenerateFromPassword([]byte("user123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("demo dataset: %v", err)
	}

	demoAccounts = []DemoAccount{
		{
			Email:        "admin@augmind.com",
			passwordHash: adminHash,
			Profile: entity.UserProfile{
				Id:         DemoAdminID,
				Username:   "admin",
				FullName:   "Administrator",
				Role:       entity.RoleAdmin,
				TokenLimit: 10000,
				WordLimit:  2000,
				Status:     entity.UserStatusActive,
				CreatedAt:  seeded,
				UpdatedAt:  seeded,
			},
		},
		{
			Email:        "user@augmind.com",
			passwordHash: userHash,
			Profile: entity.UserProfile{
				Id:         DemoUserID,
				Username:   "johnsmith",
				FullName:   "John Smith",
				Role:       entity.RoleBusinessDev,
				TokenLimit: 10000,
				WordLimit:  50000,
				Status:     entity.UserStatusActive,
				CreatedAt:  seeded,
				UpdatedAt:  seeded,
			},
		},
	}
}

// VerifyDemoCredentials checks an email/password pair against the demo
// accounts. It returns the matching profile, or nil when the pair is not a
// demo identity.
func VerifyDemoCredentials(email, password string) *entity.UserProfile {
	for i := range demoAccounts {
		account := &demoAccounts[i]
		if !strings.EqualFold(account.Email, email) {
			continue
		}
		if bcrypt.CompareHashAndPassword(account.passwordHash, []byte(password)) != nil {
			return nil
		}
		profile := account.Profile
		return &profile
	}
	return nil
}

// FallbackAuthenticator exposes the demo directory to the auth store, gated
// on the policy: demo sign-in is available only while fallback data is being
// served.
type FallbackAuthenticator struct {
	policy *Policy
}

func NewFallbackAuthenticator(policy *Policy) *FallbackAuthenticator {
	return &FallbackAuthenticator{policy: policy}
}

func (a *FallbackAuthenticator) Active() bool {
	return !a.policy.Live()
}

func (a *FallbackAuthenticator) Verify(email, password string) *entity.UserProfile {
	return VerifyDemoCredentials(email, password)
}

// DemoProfiles returns the demo user directory served in fallback mode.
func DemoProfiles() []entity.UserProfile {
	out := make([]entity.UserProfile, 0, len(demoAccounts))
	for i := range demoAccounts {
		out = append(out, demoAccounts[i].Profile)
	}
	return out
}

// DemoPresetQuestions is the canned question catalog shown when the backend
// is unreachable.
func DemoPresetQuestions() []entity.PresetQuestion {
	seeded := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	return []entity.PresetQuestion{
		{
			Id:          uuid.MustParse("0b5d76de-0000-4000-8000-000000000201"),
			Title:       "Company Overview",
			Prompt:      "Give me a concise overview of this company: its market, size, and core offering.",
			Category:    "Research",
			Description: "Quick orientation on a prospect's business.",
			IsActive:    true,
			UsageCount:  42,
			CreatedBy:   DemoAdminID,
			CreatedAt:   seeded,
			UpdatedAt:   seeded,
		},
		{
			Id:          uuid.MustParse("0b5d76de-0000-4000-8000-000000000202"),
			Title:       "Outreach Angle",
			Prompt:      "Suggest three personalized outreach angles for this key decision maker.",
			Category:    "Outreach",
			Description: "Personalization ideas for a first touch.",
			IsActive:    true,
			UsageCount:  31,
			CreatedBy:   DemoAdminID,
			CreatedAt:   seeded,
			UpdatedAt:   seeded,
		},
		{
			Id:          uuid.MustParse("0b5d76de-0000-4000-8000-000000000203"),
			Title:       "Pain Points",
			Prompt:      "What operational pain points is a company like this most likely facing right now?",
			Category:    "Research",
			IsActive:    true,
			UsageCount:  17,
			CreatedBy:   DemoAdminID,
			CreatedAt:   seeded,
			UpdatedAt:   seeded,
		},
	}
}

// DemoProspects returns sample client prospects owned by the demo business
// user.
func DemoProspects() []entity.ClientProspect {
	seeded := time.Date(2024, 2, 1, 10, 30, 0, 0, time.UTC)
	return []entity.ClientProspect{
		{
			Id:              demoProspectID,
			CompanyName:     "Northwind Logistics",
			Website:         "https://northwind.example.com",
			LinkedinCompany: "https://linkedin.com/company/northwind-logistics",
			KdmName:         "Sarah Chen",
			KdmRole:         "VP of Operations",
			KdmEmail:        "sarah.chen@northwind.example.com",
			AdditionalInfo:  "Mid-market 3PL expanding into cold chain.",
			UserId:          DemoUserID,
			CreatedAt:       seeded,
			UpdatedAt:       seeded,
		},
		{
			Id:          uuid.MustParse("0b5d76de-0000-4000-8000-000000000102"),
			CompanyName: "Helio Analytics",
			Website:     "https://helio.example.com",
			KdmName:     "Marcus Webb",
			KdmRole:     "Head of Growth",
			UserId:      DemoUserID,
			CreatedAt:   seeded.Add(48 * time.Hour),
			UpdatedAt:   seeded.Add(48 * time.Hour),
		},
	}
}

// DemoDocuments returns sample document metadata for the fallback library
// view. The underlying files do not exist; downloads are disabled in demo
// mode.
func DemoDocuments() []entity.Document {
	seeded := time.Date(2024, 2, 10, 14, 0, 0, 0, time.UTC)
	return []entity.Document{
		{
			Id:               uuid.MustParse("0b5d76de-0000-4000-8000-000000000301"),
			Filename:         "q1-pipeline-review.pdf",
			OriginalFilename: "Q1 Pipeline Review.pdf",
			FileSize:         482133,
			FileType:         "application/pdf",
			Category:         "Reports",
			Description:      "Quarterly pipeline health summary.",
			StoragePath:      "demo/q1-pipeline-review.pdf",
			StorageBucket:    "documents",
			ContentProcessed: true,
			UploadedBy:       DemoUserID,
			CreatedAt:        seeded,
			UpdatedAt:        seeded,
		},
	}
}
