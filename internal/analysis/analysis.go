// Package analysis computes the bias measures reported by "biaslab analyze":
// entity mention rates, sentiment, recommendation focus and the inferential
// tests over them.
package analysis

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/ppiankov/biaslab/internal/extract"
	"github.com/ppiankov/biaslab/internal/logging"
	"github.com/ppiankov/biaslab/internal/model"
	"github.com/ppiankov/biaslab/internal/sentiment"
)

// Result holds every table produced by one analysis run
type Result struct {
	Entities                  []model.EntityMention
	Sentiment                 []model.SentimentRecord
	SentimentByCondition      []model.SentimentSummary
	SentimentByConditionModel []model.SentimentSummary
	Recommendations           []model.RecommendationTags
	FocusByCondition          []model.FocusRate
	FocusByConditionModel     []model.FocusRate
	TTests                    []model.TTestResult
	ChiSquare                 []model.ChiSquareResult
}

// Analyzer runs bias analysis over loaded responses
type Analyzer struct {
	cfg        model.AnalysisConfig
	sentiment  sentiment.Analyzer
	classifier *extract.FocusClassifier
}

// New creates an analyzer. A nil sentiment analyzer selects the built-in
// VADER scorer.
func New(cfg model.AnalysisConfig, sa sentiment.Analyzer) *Analyzer {
	if sa == nil {
		sa = sentiment.NewVaderAnalyzer()
	}
	return &Analyzer{
		cfg:        cfg,
		sentiment:  sa,
		classifier: extract.NewFocusClassifier(cfg),
	}
}

// Run computes all analysis tables for responses
func (a *Analyzer) Run(responses []model.Response) (*Result, error) {
	res := &Result{
		Entities: EntityMentions(responses, a.cfg.Players),
	}

	res.Sentiment = a.Sentiment(responses)
	res.SentimentByCondition = SentimentByCondition(res.Sentiment)
	res.SentimentByConditionModel = SentimentByConditionModel(res.Sentiment)

	res.Recommendations = a.Recommendations(responses)
	res.FocusByCondition = FocusByCondition(res.Recommendations)
	res.FocusByConditionModel = FocusByConditionModel(res.Recommendations)

	res.TTests = TTests(res.Sentiment, a.cfg.Comparisons)

	chi, err := ChiSquareTests(res.Recommendations)
	if err != nil {
		return nil, fmt.Errorf("chi-square tests failed: %w", err)
	}
	res.ChiSquare = chi

	logging.Debug("analysis complete",
		zap.Int("responses", len(responses)),
		zap.Int("ttests", len(res.TTests)),
		zap.Int("chi_square", len(res.ChiSquare)))

	return res, nil
}

// Sentiment scores every response
func (a *Analyzer) Sentiment(responses []model.Response) []model.SentimentRecord {
	out := make([]model.SentimentRecord, 0, len(responses))
	for _, r := range responses {
		s := a.sentiment.Score(r.ResponseText)
		out = append(out, model.SentimentRecord{
			ResponseID:  r.ResponseID,
			ConditionID: r.ConditionID,
			ModelName:   r.ModelName,
			Compound:    s.Compound,
			Pos:         s.Pos,
			Neu:         s.Neu,
			Neg:         s.Neg,
		})
	}
	return out
}

// Recommendations tags every response with its recommendation focus
func (a *Analyzer) Recommendations(responses []model.Response) []model.RecommendationTags {
	out := make([]model.RecommendationTags, 0, len(responses))
	for _, r := range responses {
		out = append(out, a.classifier.Classify(r))
	}
	return out
}

// groupKey identifies a condition, or a (condition, model) group
type groupKey struct {
	condition string
	model     string
}

func sortedKeys[V any](m map[groupKey]V) []groupKey {
	keys := make([]groupKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].condition != keys[j].condition {
			return keys[i].condition < keys[j].condition
		}
		return keys[i].model < keys[j].model
	})
	return keys
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
