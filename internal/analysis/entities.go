package analysis

import (
	"github.com/ppiankov/biaslab/internal/extract"
	"github.com/ppiankov/biaslab/internal/model"
)

// EntityMentions counts, per (condition, model) group, how many responses
// mention each player. Rows follow group order, then the configured player
// order.
func EntityMentions(responses []model.Response, players []string) []model.EntityMention {
	groups := make(map[groupKey][]model.Response)
	for _, r := range responses {
		key := groupKey{condition: r.ConditionID, model: r.ModelName}
		groups[key] = append(groups[key], r)
	}

	var out []model.EntityMention
	for _, key := range sortedKeys(groups) {
		group := groups[key]
		total := len(group)

		for _, p := range players {
			count := 0
			for _, r := range group {
				if extract.MentionsEntity(r.ResponseText, p) {
					count++
				}
			}

			rate := 0.0
			if total > 0 {
				rate = float64(count) / float64(total)
			}

			out = append(out, model.EntityMention{
				ConditionID:  key.condition,
				ModelName:    key.model,
				Entity:       p,
				MentionCount: count,
				MentionRate:  rate,
				Responses:    total,
			})
		}
	}
	return out
}
