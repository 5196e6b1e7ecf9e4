// Package intent classifies free-text legal questions into an intent type,
// a topical category and a handful of informal entities.
package intent

// Type is the kind of request a query expresses.
type Type string

const (
	TypeQuery         Type = "QUERY"
	TypeClarification Type = "CLARIFICATION"
	TypeNavigation    Type = "NAVIGATION"
	TypeDefinition    Type = "DEFINITION"
	TypeFeedback      Type = "FEEDBACK"
)

// Action is the suggested next step for a classified query.
type Action string

const (
	ActionAnswerWithReferences Action = "provide_answer_with_references"
	ActionClarifyWithExamples  Action = "clarify_with_examples"
	ActionStepByStepGuide      Action = "provide_step_by_step_guide"
	ActionDefinitionInContext  Action = "provide_definition_with_context"
	ActionAcknowledgeAndRecord Action = "acknowledge_and_record"
	ActionRequestClarification Action = "request_clarification"
)

// CategoryGeneral is used when no category rule matches.
const CategoryGeneral = "general"

// Intent is the classification of a single query.
type Intent struct {
	Type            Type     `json:"type"`
	Confidence      float64  `json:"confidence"`
	Category        string   `json:"category"`
	Entities        []string `json:"entities"`
	SuggestedAction Action   `json:"suggestedAction"`
}

var actions = map[Type]Action{
	TypeQuery:         ActionAnswerWithReferences,
	TypeClarification: ActionClarifyWithExamples,
	TypeNavigation:    ActionStepByStepGuide,
	TypeDefinition:    ActionDefinitionInContext,
	TypeFeedback:      ActionAcknowledgeAndRecord,
}

// SuggestAction maps an intent type to its suggested action.
func SuggestAction(t Type) Action {
	if a, ok := actions[t]; ok {
		return a
	}
	return ActionAnswerWithReferences
}
