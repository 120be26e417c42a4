package assistant

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Canned is the keyword-routed assistant. Replies are deterministic so the
// product behaves identically across environments; swapping in a real
// inference provider is a drop-in replacement of this type.
type Canned struct{}

func NewCanned() *Canned { return &Canned{} }

type cannedRoute struct {
	keywords []string
	reply    string
}

var chatRoutes = []cannedRoute{
	{
		keywords: []string{"market", "trend"},
		reply:    "Based on current market data, I can see several key trends emerging in your industry. The market is shifting towards digital transformation, with a 23% increase in demand for AI-powered solutions. I recommend focusing on innovation and customer experience to stay competitive. Would you like me to dive deeper into specific market segments?",
	},
	{
		keywords: []string{"competitor", "competition"},
		reply:    "From a competitive analysis perspective, your main differentiators should focus on quality, customer service, and innovation. I suggest conducting a SWOT analysis to identify your competitive advantages. Your positioning should emphasize unique value propositions that competitors can't easily replicate. Shall I help you develop a competitive strategy framework?",
	},
	{
		keywords: []string{"strategy", "growth"},
		reply:    "For strategic growth, I recommend a multi-pronged approach: 1) Strengthen core offerings, 2) Expand into adjacent markets, 3) Develop strategic partnerships, 4) Invest in technology and innovation. The key is to balance risk with opportunity while maintaining operational excellence. What specific area of growth would you like to explore first?",
	},
	{
		keywords: []string{"client", "customer"},
		reply:    "Client intelligence suggests that retention rates improve by 15% when you implement personalized engagement strategies. I recommend segmenting your client base by value, needs, and behavior patterns. Focus on proactive communication and value-added services for high-value clients. Would you like me to help you develop a client segmentation strategy?",
	},
	{
		keywords: []string{"document", "upload", "file"},
		reply:    "I can work with the documents in your library. Upload reports, case studies, or research material and I will use them as context for strategy questions. Processed documents are searchable by category, and you can reference a specific file in your question to focus the analysis. Which document would you like to start with?",
	},
	{
		keywords: []string{"hello", "hi ", "hey"},
		reply:    "Hello! I'm your business development assistant. I can help with market trends, competitive positioning, growth strategy, and client engagement. Pick a preset question to get started, or just describe what you're working on.",
	},
}

const defaultChatReply = "That's an interesting question! Based on the strategic context you've provided, I'd recommend taking a data-driven approach to this challenge. Let me analyze the key factors: market conditions, competitive landscape, resource allocation, and risk assessment. I can help you develop a comprehensive strategy that addresses both short-term wins and long-term objectives. What specific outcomes are you hoping to achieve?"

func (c *Canned) Respond(ctx context.Context, prompt string) (Reply, error) {
	if err := ctx.Err(); err != nil {
		return Reply{}, err
	}

	input := strings.ToLower(prompt)
	content := defaultChatReply
	for _, route := range chatRoutes {
		if matchesAny(input, route.keywords) {
			content = route.reply
			break
		}
	}
	return newReply(content), nil
}

func (c *Canned) AnalyzeProspect(ctx context.Context, prospect ProspectInput, question string) (Insights, Reply, error) {
	if err := ctx.Err(); err != nil {
		return Insights{}, Reply{}, err
	}

	company := prospect.CompanyName
	kdm := prospect.KdmName
	role := prospect.KdmRole
	if role == "" {
		role = "the key decision maker"
	}

	insights := Insights{
		Approach:        fmt.Sprintf("For %s, I recommend a consultative approach. Start by researching their recent initiatives and industry challenges. Position yourself as a strategic partner rather than a vendor. Initial contact should be through %s via LinkedIn with a personalized message referencing their company's recent developments.", company, kdm),
		Alignment:       fmt.Sprintf("Based on %s's profile, align your messaging around digital transformation and operational efficiency. Emphasize ROI and measurable outcomes. If they're in a growth phase, focus on scalability solutions. For established companies, emphasize optimization and competitive advantage.", company),
		CurrentPartners: fmt.Sprintf("%s likely works with established consulting firms or technology partners. Research their recent announcements, partnerships, and vendor relationships. Look for gaps in their current service portfolio where you can add unique value. They may be looking to diversify their vendor base for better service or cost optimization.", company),
		Persuasion:      fmt.Sprintf("To convince %s (%s), focus on business outcomes relevant to their role. Present case studies from similar companies in their industry. Offer a pilot project or assessment to demonstrate value with minimal risk. Address their specific challenges and show clear ROI projections.", kdm, role),
		Needs:           fmt.Sprintf("%s is likely looking for: 1) Proven expertise in their industry, 2) Scalable solutions that grow with their business, 3) Strong support and partnership approach, 4) Competitive pricing with clear value proposition, 5) Innovation and forward-thinking strategies, 6) Reliable implementation and change management support.", company),
		EmailFormat:     fmt.Sprintf("Subject: Strategic Partnership Opportunity for %s\n\nDear %s,\n\nI noticed %s's recent [specific achievement/announcement]. Your focus on [relevant business area] aligns perfectly with our expertise.\n\nWe've helped similar companies in [industry] achieve [specific results]. I'd love to share how we could support %s's [specific goals].\n\nWould you be open to a brief 15-minute conversation next week?\n\nBest regards,\n[Your name]", company, kdm, company, company),
		PitchingFormat:  "1. Opening Hook: Reference their recent company news/achievements\n2. Credibility: Share relevant case study or industry expertise\n3. Value Proposition: Clearly state how you solve their specific challenges\n4. Proof Points: Quantifiable results from similar clients\n5. Call to Action: Specific next step (demo, assessment, pilot)\n6. Follow-up: Clear timeline and expectations\n\nKeep it conversational, focus on their business, not your services. Prepare for objections and have concrete examples ready.",
	}

	summary := fmt.Sprintf("Generated strategy insights for %s covering approach, alignment, partners, persuasion, needs, and outreach formats for question: %s", company, question)
	return insights, newReply(summary), nil
}

func matchesAny(input string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(input, kw) {
			return true
		}
	}
	return false
}

// newReply fills the usage accounting the settings view reports against the
// per-user limits. Tokens are approximated at four characters apiece.
func newReply(content string) Reply {
	return Reply{
		Content:    content,
		TokensUsed: (utf8.RuneCountInString(content) + 3) / 4,
		WordsCount: len(strings.Fields(content)),
	}
}
