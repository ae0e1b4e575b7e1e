package analysis

import (
	"github.com/ppiankov/biaslab/internal/model"
	"github.com/ppiankov/biaslab/internal/stats"
)

type sentimentCols struct {
	compound, pos, neu, neg []float64
}

// SentimentByCondition averages compound, pos, neu and neg per condition
func SentimentByCondition(records []model.SentimentRecord) []model.SentimentSummary {
	return summarizeSentiment(records, false)
}

// SentimentByConditionModel averages sentiment per (condition, model)
func SentimentByConditionModel(records []model.SentimentRecord) []model.SentimentSummary {
	return summarizeSentiment(records, true)
}

func summarizeSentiment(records []model.SentimentRecord, byModel bool) []model.SentimentSummary {
	groups := make(map[groupKey]*sentimentCols)
	for _, r := range records {
		key := groupKey{condition: r.ConditionID}
		if byModel {
			key.model = r.ModelName
		}
		g, ok := groups[key]
		if !ok {
			g = &sentimentCols{}
			groups[key] = g
		}
		g.compound = append(g.compound, r.Compound)
		g.pos = append(g.pos, r.Pos)
		g.neu = append(g.neu, r.Neu)
		g.neg = append(g.neg, r.Neg)
	}

	out := make([]model.SentimentSummary, 0, len(groups))
	for _, key := range sortedKeys(groups) {
		g := groups[key]
		out = append(out, model.SentimentSummary{
			ConditionID: key.condition,
			ModelName:   key.model,
			Compound:    stats.Mean(g.compound),
			Pos:         stats.Mean(g.pos),
			Neu:         stats.Mean(g.neu),
			Neg:         stats.Mean(g.neg),
			Responses:   len(g.compound),
		})
	}
	return out
}

type focusCols struct {
	offense, defense, team, individual []float64
}

// FocusByCondition computes the share of responses using each focus per condition
func FocusByCondition(tags []model.RecommendationTags) []model.FocusRate {
	return summarizeFocus(tags, false)
}

// FocusByConditionModel computes focus shares per (condition, model)
func FocusByConditionModel(tags []model.RecommendationTags) []model.FocusRate {
	return summarizeFocus(tags, true)
}

func summarizeFocus(tags []model.RecommendationTags, byModel bool) []model.FocusRate {
	groups := make(map[groupKey]*focusCols)
	for _, t := range tags {
		key := groupKey{condition: t.ConditionID}
		if byModel {
			key.model = t.ModelName
		}
		g, ok := groups[key]
		if !ok {
			g = &focusCols{}
			groups[key] = g
		}
		g.offense = append(g.offense, b2f(t.Offense))
		g.defense = append(g.defense, b2f(t.Defense))
		g.team = append(g.team, b2f(t.Team))
		g.individual = append(g.individual, b2f(t.Individual))
	}

	out := make([]model.FocusRate, 0, len(groups))
	for _, key := range sortedKeys(groups) {
		g := groups[key]
		out = append(out, model.FocusRate{
			ConditionID: key.condition,
			ModelName:   key.model,
			Offense:     stats.Mean(g.offense),
			Defense:     stats.Mean(g.defense),
			Team:        stats.Mean(g.team),
			Individual:  stats.Mean(g.individual),
			Responses:   len(g.offense),
		})
	}
	return out
}
