// Package sentiment scores the valence of free text with VADER.
package sentiment

import (
	"math"
	"strings"

	"github.com/jonreiter/govader"
)

// Scores is the valence breakdown of one text
type Scores struct {
	Compound float64 // Normalised sum in [-1, 1]
	Pos      float64 // Proportions; Pos+Neu+Neg == 1 for non-empty text
	Neu      float64
	Neg      float64
}

// Analyzer scores the sentiment of a text
type Analyzer interface {
	Score(text string) Scores
}

// VaderAnalyzer scores text with the full VADER lexicon and rules. Scores are
// rounded like NLTK's SentimentIntensityAnalyzer: compound to 4 places,
// proportions to 3.
type VaderAnalyzer struct {
	sia *govader.SentimentIntensityAnalyzer
}

// NewVaderAnalyzer loads the VADER lexicon
func NewVaderAnalyzer() *VaderAnalyzer {
	return &VaderAnalyzer{sia: govader.NewSentimentIntensityAnalyzer()}
}

// WithLexicon returns a copy of the analyzer whose lexicon is extended (or
// overridden) by extra. Keys are lower-cased.
func (a *VaderAnalyzer) WithLexicon(extra map[string]float64) *VaderAnalyzer {
	merged := make(map[string]float64, len(a.sia.Lexicon)+len(extra))
	for k, v := range a.sia.Lexicon {
		merged[k] = v
	}
	for k, v := range extra {
		merged[strings.ToLower(k)] = v
	}

	sia := *a.sia
	sia.Lexicon = merged
	return &VaderAnalyzer{sia: &sia}
}

// Score computes compound, pos, neu and neg for text
func (a *VaderAnalyzer) Score(text string) Scores {
	s := a.sia.PolarityScores(text)
	return Scores{
		Compound: round(s.Compound, 4),
		Pos:      round(s.Positive, 3),
		Neu:      round(s.Neutral, 3),
		Neg:      round(s.Negative, 3),
	}
}

func round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
