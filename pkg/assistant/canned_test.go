package assistant_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdyhasan/augmind/pkg/assistant"
)

func TestRespondRoutesByKeyword(t *testing.T) {
	provider := assistant.NewCanned()

	cases := []struct {
		prompt   string
		expected string
	}{
		{"What are the latest market trends?", "market data"},
		{"Tell me about our competition", "competitive analysis"},
		{"How do we plan for growth?", "strategic growth"},
		{"How do I retain this client?", "Client intelligence"},
		{"Can you read my uploaded document?", "documents in your library"},
	}

	for _, tc := range cases {
		reply, err := provider.Respond(context.Background(), tc.prompt)
		require.NoError(t, err)
		assert.Contains(t, reply.Content, tc.expected, "prompt: %s", tc.prompt)
		assert.Positive(t, reply.TokensUsed)
		assert.Positive(t, reply.WordsCount)
	}
}

func TestRespondFallsBackToDefault(t *testing.T) {
	provider := assistant.NewCanned()
	reply, err := provider.Respond(context.Background(), "what is the meaning of life?")
	require.NoError(t, err)
	assert.Contains(t, reply.Content, "data-driven approach")
}

func TestRespondIsDeterministic(t *testing.T) {
	provider := assistant.NewCanned()
	first, err := provider.Respond(context.Background(), "growth strategy please")
	require.NoError(t, err)
	second, err := provider.Respond(context.Background(), "growth strategy please")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRespondHonorsCancelledContext(t *testing.T) {
	provider := assistant.NewCanned()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := provider.Respond(ctx, "market trends")
	assert.Error(t, err)
}

func TestAnalyzeProspectPersonalizesInsights(t *testing.T) {
	provider := assistant.NewCanned()
	insights, reply, err := provider.AnalyzeProspect(context.Background(), assistant.ProspectInput{
		CompanyName: "Northwind Logistics",
		KdmName:     "Sarah Chen",
		KdmRole:     "VP of Operations",
	}, "How should we approach this prospect?")
	require.NoError(t, err)

	for _, section := range []string{
		insights.Approach,
		insights.Alignment,
		insights.CurrentPartners,
		insights.Needs,
		insights.EmailFormat,
	} {
		assert.Contains(t, section, "Northwind Logistics")
	}
	assert.Contains(t, insights.Persuasion, "Sarah Chen")
	assert.Contains(t, insights.Persuasion, "VP of Operations")
	assert.True(t, strings.HasPrefix(insights.EmailFormat, "Subject:"))
	assert.Positive(t, reply.TokensUsed)
}

func TestAnalyzeProspectDefaultsMissingRole(t *testing.T) {
	provider := assistant.NewCanned()
	insights, _, err := provider.AnalyzeProspect(context.Background(), assistant.ProspectInput{
		CompanyName: "Helio Analytics",
		KdmName:     "Marcus Webb",
	}, "Who might they be working with currently?")
	require.NoError(t, err)
	assert.Contains(t, insights.Persuasion, "the key decision maker")
}
