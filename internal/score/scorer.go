package score

import (
	"sort"

	"github.com/ppiankov/biaslab/internal/model"
)

// groupKey identifies one (condition, model) group
type groupKey struct {
	condition string
	model     string
}

type tally struct {
	n                                    int
	record, goalDiff, dominant, disaster int
	any                                  int
}

// Aggregate computes fabrication rates per (condition_id, model_name).
// Every distinct pair in flags appears exactly once, sorted by condition then
// model; each rate is the mean of a boolean column and lies in [0, 1].
func Aggregate(flags []model.FlagRecord) []model.RateRecord {
	groups := make(map[groupKey]*tally)

	for _, f := range flags {
		key := groupKey{condition: f.ConditionID, model: f.ModelName}
		t, ok := groups[key]
		if !ok {
			t = &tally{}
			groups[key] = t
		}

		t.n++
		t.record += b2i(f.WrongRecord)
		t.goalDiff += b2i(f.WrongGoalDiff)
		t.dominant += b2i(f.ClaimsDominant)
		t.disaster += b2i(f.ClaimsDisastrous)
		t.any += b2i(f.AnyFlag())
	}

	keys := make([]groupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].condition != keys[j].condition {
			return keys[i].condition < keys[j].condition
		}
		return keys[i].model < keys[j].model
	})

	rates := make([]model.RateRecord, 0, len(keys))
	for _, k := range keys {
		t := groups[k]
		n := float64(t.n)
		rates = append(rates, model.RateRecord{
			ConditionID:      k.condition,
			ModelName:        k.model,
			WrongRecord:      float64(t.record) / n,
			WrongGoalDiff:    float64(t.goalDiff) / n,
			ClaimsDominant:   float64(t.dominant) / n,
			ClaimsDisastrous: float64(t.disaster) / n,
			AnyFlag:          float64(t.any) / n,
			Responses:        t.n,
		})
	}

	return rates
}

// Summary holds corpus-wide flag counts
type Summary struct {
	Responses int
	Flagged   int
	ByFlag    map[string]int
}

// Summarize counts flagged responses across the whole corpus
func Summarize(flags []model.FlagRecord) Summary {
	s := Summary{
		Responses: len(flags),
		ByFlag: map[string]int{
			"wrong_record":      0,
			"wrong_goal_diff":   0,
			"claims_dominant":   0,
			"claims_disastrous": 0,
		},
	}
	for _, f := range flags {
		s.ByFlag["wrong_record"] += b2i(f.WrongRecord)
		s.ByFlag["wrong_goal_diff"] += b2i(f.WrongGoalDiff)
		s.ByFlag["claims_dominant"] += b2i(f.ClaimsDominant)
		s.ByFlag["claims_disastrous"] += b2i(f.ClaimsDisastrous)
		s.Flagged += b2i(f.AnyFlag())
	}
	return s
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
