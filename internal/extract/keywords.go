package extract

import (
	"strings"

	"github.com/ppiankov/biaslab/internal/model"
)

// FocusClassifier tags responses by the recommendation focus keywords they use
type FocusClassifier struct {
	offense    []string
	defense    []string
	team       []string
	individual []string
}

// NewFocusClassifier creates a classifier from the configured keyword buckets
func NewFocusClassifier(cfg model.AnalysisConfig) *FocusClassifier {
	return &FocusClassifier{
		offense:    lowerAll(cfg.OffenseWords),
		defense:    lowerAll(cfg.DefenseWords),
		team:       lowerAll(cfg.TeamWords),
		individual: lowerAll(cfg.IndividualWords),
	}
}

// Classify tags a single response. Matching is substring-based, so "team"
// also matches "teammates".
func (c *FocusClassifier) Classify(r model.Response) model.RecommendationTags {
	lower := strings.ToLower(r.ResponseText)
	return model.RecommendationTags{
		ResponseID:  r.ResponseID,
		ConditionID: r.ConditionID,
		ModelName:   r.ModelName,
		Offense:     containsAny(lower, c.offense),
		Defense:     containsAny(lower, c.defense),
		Team:        containsAny(lower, c.team),
		Individual:  containsAny(lower, c.individual),
	}
}

// MentionsEntity reports whether text mentions the entity (case-insensitive)
func MentionsEntity(text, entity string) bool {
	if entity == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(entity))
}

func containsAny(lower string, words []string) bool {
	return len(matchPhrases(lower, words)) > 0
}
