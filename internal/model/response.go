package model

// UnknownModel is the model name used when a response record carries none
const UnknownModel = "unknown"

// Response represents one LLM answer to one experiment prompt
type Response struct {
	ResponseID   string `json:"response_id"`             // Unique identifier (not enforced across files)
	ConditionID  string `json:"condition_id"`            // Experimental condition label (e.g., "H1_pos")
	HypothesisID string `json:"hypothesis_id,omitempty"` // Research question grouping conditions (e.g., "H1")
	ModelName    string `json:"model_name,omitempty"`    // Free-text label of the source model
	ResponseText string `json:"response_text"`           // Raw natural-language answer

	PromptID   string `json:"prompt_id,omitempty"`   // Prompt that produced this response
	PromptText string `json:"prompt_text,omitempty"` // Prompt text as sent
	Timestamp  string `json:"timestamp,omitempty"`   // When the response was collected (UTC, RFC3339)
}

// Prompt represents one experiment prompt for a single condition
type Prompt struct {
	PromptID     string `json:"prompt_id"`
	CreatedAt    string `json:"created_at"`
	HypothesisID string `json:"hypothesis_id"`
	ConditionID  string `json:"condition_id"`
	PromptText   string `json:"prompt_text"`
}

// DeriveHypothesisID returns the first two characters of a condition label
func DeriveHypothesisID(conditionID string) string {
	runes := []rune(conditionID)
	if len(runes) <= 2 {
		return conditionID
	}
	return string(runes[:2])
}
