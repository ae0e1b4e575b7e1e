package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/biaslab/internal/model"
)

var (
	// recordPattern matches "N-M" or "N–M". Any hyphen-joined integer pair
	// qualifies (score lines and ranges included); only the first is used.
	recordPattern = regexp.MustCompile(`\b(\d+)[\s\p{Z}]*[-–][\s\p{Z}]*(\d+)\b`)

	// goalDiffPattern is applied to lower-cased text
	goalDiffPattern = regexp.MustCompile(`goal differential(?:[\s\p{Z}]+of)?[\s\p{Z}]+(-?\d+)`)
)

// ClaimExtractor finds season-record, goal-differential and stance claims in response text
type ClaimExtractor struct {
	dominant   []string
	disastrous []string
}

// NewClaimExtractor creates a claim extractor for the given lexicons.
// Phrases are copied and lower-cased so later changes to lex have no effect.
func NewClaimExtractor(lex model.Lexicons) *ClaimExtractor {
	return &ClaimExtractor{
		dominant:   lowerAll(lex.Dominant),
		disastrous: lowerAll(lex.Disastrous),
	}
}

// Extract runs the four independent checks over one response text
func (e *ClaimExtractor) Extract(text string) model.Claims {
	lower := strings.ToLower(text)

	return model.Claims{
		Record:     extractRecord(text),
		GoalDiff:   extractGoalDiff(lower),
		Dominant:   matchPhrases(lower, e.dominant),
		Disastrous: matchPhrases(lower, e.disastrous),
	}
}

// extractRecord reads the first hyphen-joined integer pair as wins-losses
func extractRecord(text string) *model.RecordClaim {
	m := recordPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	wins, errW := strconv.Atoi(m[1])
	losses, errL := strconv.Atoi(m[2])

	return &model.RecordClaim{
		Text:   m[0],
		Wins:   wins,
		Losses: losses,
		Parsed: errW == nil && errL == nil,
	}
}

// extractGoalDiff reads the first explicit goal differential figure
func extractGoalDiff(lower string) *model.GoalDiffClaim {
	m := goalDiffPattern.FindStringSubmatch(lower)
	if m == nil {
		return nil
	}

	value, err := strconv.Atoi(m[1])

	return &model.GoalDiffClaim{
		Text:   m[0],
		Value:  value,
		Parsed: err == nil,
	}
}

// matchPhrases returns every phrase contained in lower, in lexicon order
func matchPhrases(lower string, phrases []string) []string {
	var found []string
	for _, phrase := range phrases {
		if phrase != "" && strings.Contains(lower, phrase) {
			found = append(found, phrase)
		}
	}
	return found
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
