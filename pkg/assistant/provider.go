// Package assistant defines the reply-generation contract for the chat and
// prospect-analysis surfaces, and ships the canned implementation the product
// runs on today.
package assistant

import "context"

// Reply is one generated assistant response with its usage accounting.
type Reply struct {
	Content    string `json:"content"`
	TokensUsed int    `json:"tokens_used"`
	WordsCount int    `json:"words_count"`
}

// ProspectInput carries the prospect fields the insight generator
// personalizes around.
type ProspectInput struct {
	CompanyName string
	KdmName     string
	KdmRole     string
}

// Insights is the structured strategy payload attached to a prospect
// analysis.
type Insights struct {
	Approach        string `json:"approach"`
	Alignment       string `json:"alignment"`
	CurrentPartners string `json:"current_partners"`
	Persuasion      string `json:"persuasion"`
	Needs           string `json:"needs"`
	EmailFormat     string `json:"email_format"`
	PitchingFormat  string `json:"pitching_format"`
}

// Provider generates assistant content. Implementations must be safe for
// concurrent use.
type Provider interface {
	// Respond produces the reply to one chat prompt.
	Respond(ctx context.Context, prompt string) (Reply, error)
	// AnalyzeProspect produces the strategy insights for a prospect and
	// question pair.
	AnalyzeProspect(ctx context.Context, prospect ProspectInput, question string) (Insights, Reply, error)
}
