package dto

type UpdateProfileRequest struct {
	Username string `json:"username" validate:"omitempty,min=3,max=32"`
	FullName string `json:"full_name" validate:"omitempty,min=2"`
}

type ChangePasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// UsageResponse reports consumption against the per-user limits on the
// settings page.
type UsageResponse struct {
	TokenLimit    int `json:"token_limit"`
	TokensUsed    int `json:"tokens_used"`
	WordLimit     int `json:"word_limit"`
	WordsUsed     int `json:"words_used"`
	DailyRequests int `json:"daily_requests"`
}
