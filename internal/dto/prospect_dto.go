package dto

import (
	"github.com/mahdyhasan/augmind/internal/entity"
	"github.com/mahdyhasan/augmind/pkg/assistant"
)

type CreateProspectRequest struct {
	CompanyName     string `json:"company_name" validate:"required,max=128"`
	Website         string `json:"website" validate:"omitempty,url"`
	LinkedinCompany string `json:"linkedin_company" validate:"omitempty,url"`
	KdmName         string `json:"kdm_name" validate:"required,max=128"`
	KdmRole         string `json:"kdm_role" validate:"max=128"`
	KdmEmail        string `json:"kdm_email" validate:"omitempty,email"`
	KdmLinkedin     string `json:"kdm_linkedin" validate:"omitempty,url"`
	AdditionalInfo  string `json:"additional_info" validate:"max=2000"`
}

type AnalyzeProspectRequest struct {
	Question string `json:"question" validate:"required,max=1000"`
}

type ProspectAnalysisResponse struct {
	Analysis entity.ProspectAnalysis `json:"analysis"`
	Insights assistant.Insights      `json:"insights"`
}
