package analysis

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/ppiankov/biaslab/internal/logging"
	"github.com/ppiankov/biaslab/internal/model"
	"github.com/ppiankov/biaslab/internal/stats"
)

// TTests runs a Welch t-test on compound sentiment for each comparison.
// A comparison is skipped unless both conditions have at least two responses.
func TTests(records []model.SentimentRecord, comparisons []model.Comparison) []model.TTestResult {
	byCondition := make(map[string][]float64)
	for _, r := range records {
		byCondition[r.ConditionID] = append(byCondition[r.ConditionID], r.Compound)
	}

	var out []model.TTestResult
	for _, c := range comparisons {
		a, b := byCondition[c.ConditionA], byCondition[c.ConditionB]
		if len(a) < 2 || len(b) < 2 {
			logging.Debug("skipping t-test",
				zap.String("comparison", c.Label()),
				zap.Int("n_a", len(a)),
				zap.Int("n_b", len(b)))
			continue
		}

		w := stats.WelchTTest(a, b)
		out = append(out, model.TTestResult{
			Comparison: c.Label(),
			ConditionA: c.ConditionA,
			ConditionB: c.ConditionB,
			NA:         len(a),
			NB:         len(b),
			MeanA:      stats.Mean(a),
			MeanB:      stats.Mean(b),
			TStat:      w.T,
			PValue:     w.P,
			CohenD:     stats.CohenD(a, b),
		})
	}
	return out
}

// focusTest names one keyword bucket tested against condition
type focusTest struct {
	name string
	get  func(model.RecommendationTags) bool
}

var focusTests = []focusTest{
	{"Offense keyword vs Condition", func(t model.RecommendationTags) bool { return t.Offense }},
	{"Defense keyword vs Condition", func(t model.RecommendationTags) bool { return t.Defense }},
	{"Team keyword vs Condition", func(t model.RecommendationTags) bool { return t.Team }},
}

// ChiSquareTests crosses condition with keyword presence for the offense,
// defense and team buckets. Only observed presence values become columns, so
// a bucket every response uses yields a single-column table (dof 0).
func ChiSquareTests(tags []model.RecommendationTags) ([]model.ChiSquareResult, error) {
	if len(tags) == 0 {
		return nil, nil
	}

	out := make([]model.ChiSquareResult, 0, len(focusTests))
	for _, ft := range focusTests {
		table := Crosstab(tags, ft.get)
		res, err := stats.ChiSquare(table)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ft.name, err)
		}
		out = append(out, model.ChiSquareResult{
			Test:     ft.name,
			Chi2:     res.Chi2,
			PValue:   res.P,
			DoF:      res.DoF,
			CramersV: res.CramersV,
		})
	}
	return out, nil
}

// Crosstab builds a condition × presence table of counts. Rows are sorted
// conditions; columns are the observed values (absent before present).
func Crosstab(tags []model.RecommendationTags, get func(model.RecommendationTags) bool) [][]float64 {
	counts := make(map[string]*[2]float64)
	var seen [2]bool
	for _, t := range tags {
		c, ok := counts[t.ConditionID]
		if !ok {
			c = &[2]float64{}
			counts[t.ConditionID] = c
		}
		idx := int(b2f(get(t)))
		c[idx]++
		seen[idx] = true
	}

	conditions := make([]string, 0, len(counts))
	for cond := range counts {
		conditions = append(conditions, cond)
	}
	sort.Strings(conditions)

	table := make([][]float64, 0, len(conditions))
	for _, cond := range conditions {
		var row []float64
		for idx := 0; idx < 2; idx++ {
			if seen[idx] {
				row = append(row, counts[cond][idx])
			}
		}
		table = append(table, row)
	}
	return table
}
