package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/hyperjump/qanoon/internal/intent"
	"github.com/hyperjump/qanoon/internal/models"
)

// GenerateRequest is the input to an answer generator.
type GenerateRequest struct {
	Question string
	Intent   intent.Intent
	// Documents are the corpus documents the answer should draw on, best first.
	Documents []*models.Document
}

// Generator produces answer text. Documents an answer relies on are cited
// inline as "[document-id]" markers.
type Generator interface {
	Generate(ctx context.Context, req *GenerateRequest) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req *GenerateRequest) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req *GenerateRequest) (string, error) {
	return f(ctx, req)
}

// HeuristicGenerator answers from fixed topic templates and cites every
// document it is given. It never fails.
type HeuristicGenerator struct{}

// NewHeuristicGenerator creates the template generator.
func NewHeuristicGenerator() *HeuristicGenerator {
	return &HeuristicGenerator{}
}

type topicTemplate struct {
	triggers []string
	answer   string
}

var topicTemplates = []topicTemplate{
	{
		triggers: []string{"business", "start"},
		answer: `To start a business in Dubai, you need to follow these steps:

1. **Choose a Business Structure**: Decide between Free Zone Company, Mainland Company, or Offshore Company
2. **Select a Trade Name**: Choose a unique business name registered with the Department of Commerce
3. **Obtain a Trade License**: Apply through the Department of Commerce and Tourism (DCAT)
4. **Get Required Approvals**: Obtain sector-specific approvals if needed
5. **Register with Authorities**: Register with DEWA, Municipality, and other relevant authorities
6. **Open a Bank Account**: Open a corporate bank account with required documentation

The process typically takes 1-2 weeks. Dubai offers various incentives including 100% foreign ownership in Free Zones, corporate tax exemptions in certain sectors, and modern infrastructure.

For detailed information about specific business types and requirements, please refer to the related legal resources below.`,
	},
	{
		triggers: []string{"labor", "employee"},
		answer: `UAE Labour Law provides comprehensive protections for both employers and employees:

Key provisions include:
- **Working Hours**: Maximum 48 hours per week
- **Leave**: Minimum 30 days annual leave
- **End of Service Benefits**: Employees are entitled to gratuity
- **Health and Safety**: Employers must maintain safe working conditions
- **Termination**: Specific procedures must be followed

Disputes are resolved through the UAE Labour Courts. Both local and expatriate workers enjoy equal legal protections under UAE Labour Law.`,
	},
	{
		triggers: []string{"contract", "agreement"},
		answer: `UAE Civil Law governs contracts and agreements. Key principles include:

- **Offer and Acceptance**: Parties must clearly express their intent
- **Consideration**: Something of value must be exchanged
- **Capacity**: Parties must be legally competent to enter contracts
- **Legality**: Contract purpose must be legal
- **Consent**: Agreement must be free from duress

Contracts can be verbal or written. Written contracts are preferred for commercial transactions. UAE courts enforce contracts according to the parties' intentions and local law principles.`,
	},
}

const generalAnswer = `Thank you for your question about UAE law. Based on your inquiry and our available legal resources, I've compiled relevant information and references for you.

To get the most accurate legal guidance, I recommend:
1. Consulting with a qualified UAE legal professional
2. Reviewing the official government websites (DCAT, DEWA, etc.)
3. Checking the specific legal text applicable to your situation

Please refer to the legal resources below for more detailed information.`

// Generate picks the first template whose trigger appears in the question.
func (g *HeuristicGenerator) Generate(_ context.Context, req *GenerateRequest) (string, error) {
	var b strings.Builder
	b.WriteString(templateFor(req.Question))

	if len(req.Documents) > 0 {
		b.WriteString("\n\nRelated legal resources:")
		for _, doc := range req.Documents {
			fmt.Fprintf(&b, "\n- %s", doc.Title)
			if doc.LegalReference != "" {
				fmt.Fprintf(&b, " (%s)", doc.LegalReference)
			}
			fmt.Fprintf(&b, " [%s]", doc.ID)
		}
	}
	return b.String(), nil
}

func templateFor(question string) string {
	lower := strings.ToLower(question)
	for _, t := range topicTemplates {
		for _, trigger := range t.triggers {
			if strings.Contains(lower, trigger) {
				return t.answer
			}
		}
	}
	return generalAnswer
}
