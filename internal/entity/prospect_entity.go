package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ClientProspect struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyName     string    `gorm:"not null" json:"company_name"`
	Website         string    `json:"website,omitempty"`
	LinkedinCompany string    `json:"linkedin_company,omitempty"`
	KdmName         string    `gorm:"not null" json:"kdm_name"`
	KdmRole         string    `json:"kdm_role,omitempty"`
	KdmEmail        string    `json:"kdm_email,omitempty"`
	KdmLinkedin     string    `json:"kdm_linkedin,omitempty"`
	AdditionalInfo  string    `json:"additional_info,omitempty"`
	UserId          uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (ClientProspect) TableName() string { return "client_prospects" }

type ProspectAnalysis struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProspectId      uuid.UUID      `gorm:"type:uuid;index;not null" json:"prospect_id"`
	Question        string         `gorm:"not null" json:"question"`
	AnalysisResults datatypes.JSON `gorm:"type:jsonb" json:"analysis_results"`
	TokensUsed      int            `gorm:"default:0" json:"tokens_used"`
	CreatedAt       time.Time      `json:"created_at"`
}

func (ProspectAnalysis) TableName() string { return "prospect_analyses" }
