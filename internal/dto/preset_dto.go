package dto

type CreatePresetQuestionRequest struct {
	Title       string `json:"title" validate:"required,max=128"`
	Prompt      string `json:"prompt" validate:"required,max=2000"`
	Category    string `json:"category" validate:"required,max=64"`
	Description string `json:"description" validate:"max=512"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

type UpdatePresetQuestionRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=128"`
	Prompt      *string `json:"prompt,omitempty" validate:"omitempty,max=2000"`
	Category    *string `json:"category,omitempty" validate:"omitempty,max=64"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=512"`
	IsActive    *bool   `json:"is_active,omitempty"`
}
