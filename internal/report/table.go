// Package report renders biaslab results as tables and writes them to CSV,
// XLSX, SQLite and PNG charts.
package report

import (
	"math"
	"strconv"

	"github.com/ppiankov/biaslab/internal/analysis"
	"github.com/ppiankov/biaslab/internal/model"
)

// Output file stems
const (
	FlagsName                  = "validation_flags"
	RatesName                  = "fabrication_rates_by_condition"
	EntitiesName               = "entity_mentions"
	SentimentRawName           = "sentiment_raw"
	SentimentByConditionName   = "sentiment_by_condition"
	SentimentByModelName       = "sentiment_by_condition_model"
	RecommendationsRawName     = "recommendations_raw"
	RecommendationsByCondName  = "recommendations_by_condition"
	RecommendationsByModelName = "recommendations_by_condition_model"
	TTestsName                 = "stat_ttests"
	ChiSquareName              = "stat_chi_square"
)

// Table is a named, fully formatted result table
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// FlagsTable renders per-response validation flags
func FlagsTable(flags []model.FlagRecord) Table {
	t := Table{
		Name: FlagsName,
		Header: []string{
			"wrong_record", "wrong_goal_diff", "claims_dominant", "claims_disastrous",
			"response_id", "condition_id", "model_name", "any_flag",
		},
	}
	for _, f := range flags {
		t.Rows = append(t.Rows, []string{
			formatBool(f.WrongRecord),
			formatBool(f.WrongGoalDiff),
			formatBool(f.ClaimsDominant),
			formatBool(f.ClaimsDisastrous),
			f.ResponseID,
			f.ConditionID,
			f.ModelName,
			formatBit(f.AnyFlag()),
		})
	}
	return t
}

// RatesTable renders fabrication rates per (condition, model)
func RatesTable(rates []model.RateRecord) Table {
	t := Table{
		Name: RatesName,
		Header: []string{
			"condition_id", "model_name", "wrong_record", "wrong_goal_diff",
			"claims_dominant", "claims_disastrous", "any_flag",
		},
	}
	for _, r := range rates {
		t.Rows = append(t.Rows, []string{
			r.ConditionID,
			r.ModelName,
			formatFloat(r.WrongRecord),
			formatFloat(r.WrongGoalDiff),
			formatFloat(r.ClaimsDominant),
			formatFloat(r.ClaimsDisastrous),
			formatFloat(r.AnyFlag),
		})
	}
	return t
}

// AnalysisTables renders every table of an analysis result, in write order
func AnalysisTables(res *analysis.Result) []Table {
	return []Table{
		entitiesTable(res.Entities),
		sentimentRawTable(res.Sentiment),
		sentimentSummaryTable(SentimentByConditionName, res.SentimentByCondition, false),
		sentimentSummaryTable(SentimentByModelName, res.SentimentByConditionModel, true),
		recommendationsRawTable(res.Recommendations),
		focusTable(RecommendationsByCondName, res.FocusByCondition, false),
		focusTable(RecommendationsByModelName, res.FocusByConditionModel, true),
		ttestsTable(res.TTests),
		chiSquareTable(res.ChiSquare),
	}
}

func entitiesTable(rows []model.EntityMention) Table {
	t := Table{
		Name:   EntitiesName,
		Header: []string{"condition_id", "model_name", "entity", "mention_count", "mention_rate", "responses"},
	}
	for _, e := range rows {
		t.Rows = append(t.Rows, []string{
			e.ConditionID, e.ModelName, e.Entity,
			strconv.Itoa(e.MentionCount), formatFloat(e.MentionRate), strconv.Itoa(e.Responses),
		})
	}
	return t
}

func sentimentRawTable(rows []model.SentimentRecord) Table {
	t := Table{
		Name:   SentimentRawName,
		Header: []string{"response_id", "condition_id", "model_name", "compound", "pos", "neu", "neg"},
	}
	for _, s := range rows {
		t.Rows = append(t.Rows, []string{
			s.ResponseID, s.ConditionID, s.ModelName,
			formatFloat(s.Compound), formatFloat(s.Pos), formatFloat(s.Neu), formatFloat(s.Neg),
		})
	}
	return t
}

// sentimentSummaryTable renders means by condition (all four scores) or by
// (condition, model) (compound only)
func sentimentSummaryTable(name string, rows []model.SentimentSummary, byModel bool) Table {
	t := Table{Name: name}
	if byModel {
		t.Header = []string{"condition_id", "model_name", "compound"}
	} else {
		t.Header = []string{"condition_id", "compound", "pos", "neu", "neg"}
	}
	for _, s := range rows {
		if byModel {
			t.Rows = append(t.Rows, []string{s.ConditionID, s.ModelName, formatFloat(s.Compound)})
			continue
		}
		t.Rows = append(t.Rows, []string{
			s.ConditionID,
			formatFloat(s.Compound), formatFloat(s.Pos), formatFloat(s.Neu), formatFloat(s.Neg),
		})
	}
	return t
}

func recommendationsRawTable(rows []model.RecommendationTags) Table {
	t := Table{
		Name:   RecommendationsRawName,
		Header: []string{"offense", "defense", "team", "individual", "condition_id", "model_name", "response_id"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			formatBit(r.Offense), formatBit(r.Defense), formatBit(r.Team), formatBit(r.Individual),
			r.ConditionID, r.ModelName, r.ResponseID,
		})
	}
	return t
}

func focusTable(name string, rows []model.FocusRate, byModel bool) Table {
	t := Table{Name: name, Header: []string{"condition_id"}}
	if byModel {
		t.Header = append(t.Header, "model_name")
	}
	t.Header = append(t.Header, "offense", "defense", "team", "individual")

	for _, f := range rows {
		row := []string{f.ConditionID}
		if byModel {
			row = append(row, f.ModelName)
		}
		row = append(row,
			formatFloat(f.Offense), formatFloat(f.Defense), formatFloat(f.Team), formatFloat(f.Individual))
		t.Rows = append(t.Rows, row)
	}
	return t
}

func ttestsTable(rows []model.TTestResult) Table {
	t := Table{
		Name: TTestsName,
		Header: []string{
			"comparison", "condition_a", "condition_b", "n_a", "n_b",
			"mean_a", "mean_b", "t_stat", "p_value", "cohen_d",
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Comparison, r.ConditionA, r.ConditionB,
			strconv.Itoa(r.NA), strconv.Itoa(r.NB),
			formatFloat(r.MeanA), formatFloat(r.MeanB),
			formatFloat(r.TStat), formatFloat(r.PValue), formatFloat(r.CohenD),
		})
	}
	return t
}

func chiSquareTable(rows []model.ChiSquareResult) Table {
	t := Table{
		Name:   ChiSquareName,
		Header: []string{"test", "chi2", "p_value", "dof", "cramers_v"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Test, formatFloat(r.Chi2), formatFloat(r.PValue), strconv.Itoa(r.DoF), formatFloat(r.CramersV),
		})
	}
	return t
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func formatBit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// formatFloat writes the shortest round-tripping representation, keeping a
// trailing ".0" on integral values. NaN is written as an empty cell.
func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return ""
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if v == math.Trunc(v) {
		s += ".0"
	}
	return s
}
