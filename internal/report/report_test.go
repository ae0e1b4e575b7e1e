package report

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ppiankov/biaslab/internal/analysis"
	"github.com/ppiankov/biaslab/internal/model"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{1, "1.0"},
		{0.5, "0.5"},
		{1.0 / 3, "0.3333333333333333"},
		{-0.25, "-0.25"},
		{4.5e-05, "4.5e-05"},
		{math.NaN(), ""},
		{12, "12.0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatFloat(tt.in), "formatFloat(%v)", tt.in)
	}
}

func sampleFlags() []model.FlagRecord {
	return []model.FlagRecord{
		{ResponseID: "r1", ConditionID: "H3_underperf", ModelName: "claude", WrongRecord: true, ClaimsDisastrous: true},
		{ResponseID: "r2", ConditionID: "H3_underperf", ModelName: "claude", ClaimsDominant: false},
	}
}

func TestFlagsTable(t *testing.T) {
	table := FlagsTable(sampleFlags())

	assert.Equal(t, []string{
		"wrong_record", "wrong_goal_diff", "claims_dominant", "claims_disastrous",
		"response_id", "condition_id", "model_name", "any_flag",
	}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"True", "False", "False", "True", "r1", "H3_underperf", "claude", "1"}, table.Rows[0])
	assert.Equal(t, []string{"False", "False", "False", "False", "r2", "H3_underperf", "claude", "0"}, table.Rows[1])
}

func TestRatesTable(t *testing.T) {
	table := RatesTable([]model.RateRecord{{
		ConditionID: "H3_underperf", ModelName: "claude",
		WrongRecord: 0.5, ClaimsDisastrous: 0.5, AnyFlag: 1, Responses: 2,
	}})

	assert.Equal(t, []string{
		"condition_id", "model_name", "wrong_record", "wrong_goal_diff",
		"claims_dominant", "claims_disastrous", "any_flag",
	}, table.Header)
	assert.Equal(t, []string{"H3_underperf", "claude", "0.5", "0.0", "0.0", "0.5", "1.0"}, table.Rows[0])
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteCSV(dir, FlagsTable(sampleFlags()))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "validation_flags.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "wrong_record,wrong_goal_diff,claims_dominant,claims_disastrous,response_id,condition_id,model_name,any_flag", lines[0])
	assert.Equal(t, "True,False,False,True,r1,H3_underperf,claude,1", lines[1])
}

func TestWriteCSV_MissingDir(t *testing.T) {
	_, err := WriteCSV(filepath.Join(t.TempDir(), "missing"), FlagsTable(nil))
	assert.Error(t, err)
}

func sampleResult() *analysis.Result {
	return &analysis.Result{
		Entities: []model.EntityMention{
			{ConditionID: "H2_anon", ModelName: "m", Entity: "Player A", MentionCount: 1, MentionRate: 0.5, Responses: 2},
			{ConditionID: "H2_named", ModelName: "m", Entity: "Player A", MentionCount: 0, MentionRate: 0, Responses: 2},
		},
		Sentiment: []model.SentimentRecord{
			{ResponseID: "1", ConditionID: "H1_pos", ModelName: "m", Compound: 0.5, Pos: 0.3, Neu: 0.7},
		},
		SentimentByCondition:      []model.SentimentSummary{{ConditionID: "H1_pos", Compound: 0.5, Pos: 0.3, Neu: 0.7, Responses: 1}},
		SentimentByConditionModel: []model.SentimentSummary{{ConditionID: "H1_pos", ModelName: "m", Compound: 0.5, Responses: 1}},
		Recommendations:           []model.RecommendationTags{{ResponseID: "1", ConditionID: "H1_pos", ModelName: "m", Offense: true}},
		FocusByCondition:          []model.FocusRate{{ConditionID: "H1_pos", Offense: 1, Responses: 1}},
		FocusByConditionModel:     []model.FocusRate{{ConditionID: "H1_pos", ModelName: "m", Offense: 1, Responses: 1}},
		TTests: []model.TTestResult{{
			Comparison: "H1_pos vs H1_neg", ConditionA: "H1_pos", ConditionB: "H1_neg",
			NA: 2, NB: 2, MeanA: 0.5, MeanB: -0.5, TStat: 3, PValue: 0.09, CohenD: math.NaN(),
		}},
		ChiSquare: []model.ChiSquareResult{{Test: "Team keyword vs Condition", Chi2: 0, PValue: 1, DoF: 0, CramersV: math.NaN()}},
	}
}

func TestAnalysisTables(t *testing.T) {
	tables := AnalysisTables(sampleResult())
	require.Len(t, tables, 9)

	byName := make(map[string]Table)
	for _, tb := range tables {
		byName[tb.Name] = tb
	}

	assert.Equal(t, []string{"condition_id", "compound", "pos", "neu", "neg"}, byName[SentimentByConditionName].Header)
	assert.Equal(t, []string{"condition_id", "model_name", "compound"}, byName[SentimentByModelName].Header)
	assert.Equal(t, []string{"condition_id", "model_name", "offense", "defense", "team", "individual"}, byName[RecommendationsByModelName].Header)
	assert.Equal(t, []string{"1", "0", "0", "0", "H1_pos", "m", "1"}, byName[RecommendationsRawName].Rows[0])
	assert.Equal(t, "", byName[TTestsName].Rows[0][9], "NaN Cohen's d is an empty cell")
	assert.Equal(t, []string{"Team keyword vs Condition", "0.0", "1.0", "0", ""}, byName[ChiSquareName].Rows[0])
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.xlsx")
	tables := append([]Table{FlagsTable(sampleFlags())}, AnalysisTables(sampleResult())...)

	require.NoError(t, WriteXLSX(path, tables))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Len(t, sheets, len(tables))
	assert.Equal(t, FlagsName, sheets[0])
	assert.Contains(t, sheets, SheetName(RecommendationsByModelName))

	rows, err := f.GetRows(FlagsName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "r1", rows[1][4])
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "stat_ttests", SheetName("stat_ttests"))
	assert.Len(t, SheetName(RecommendationsByModelName), maxSheetName)
}

func TestSQLiteStore(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "biaslab.db"))
	require.NoError(t, err)
	defer store.Close()

	rates := []model.RateRecord{
		{ConditionID: "H1_neg", ModelName: "claude", WrongRecord: 0.25, AnyFlag: 0.5, Responses: 4},
		{ConditionID: "H1_pos", ModelName: "claude", ClaimsDominant: 1, AnyFlag: 1, Responses: 2},
	}
	require.NoError(t, store.WriteValidation(sampleFlags(), rates))

	n, err := store.CountRows("validation_flags")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := store.Rates()
	require.NoError(t, err)
	assert.Equal(t, rates, got)

	// Writing again replaces rather than appends
	require.NoError(t, store.WriteValidation(sampleFlags()[:1], rates[:1]))
	n, err = store.CountRows("validation_flags")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSQLiteStore_WriteTable(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "biaslab.db"))
	require.NoError(t, err)
	defer store.Close()

	for _, tb := range AnalysisTables(sampleResult()) {
		require.NoError(t, store.WriteTable(tb), tb.Name)
	}

	n, err := store.CountRows(EntitiesName)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSaveBarChart(t *testing.T) {
	dir := t.TempDir()

	chart := FabricationChart([]model.RateRecord{
		{ConditionID: "H1_pos", ModelName: "claude", AnyFlag: 0.5},
		{ConditionID: "H1_neg", ModelName: "chatgpt", AnyFlag: 0.25},
	})
	assert.Equal(t, []string{"H1_pos", "H1_neg"}, chart.Categories)
	require.Len(t, chart.Series, 2)
	assert.Equal(t, []float64{0.5, 0}, chart.Series[0].Values)

	path, err := SaveBarChart(dir, chart)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestSaveBarChart_Empty(t *testing.T) {
	_, err := SaveBarChart(t.TempDir(), BarChart{Name: "empty"})
	assert.Error(t, err)
}

func TestAnalysisCharts(t *testing.T) {
	charts := AnalysisCharts(sampleResult())
	require.Len(t, charts, 4)

	entity := charts[2]
	assert.Equal(t, "entity_mentions_by_condition", entity.Name)
	assert.Equal(t, []string{"H2_anon", "H2_named"}, entity.Categories)
	assert.Equal(t, []float64{0.5, 0}, entity.Series[0].Values)

	focus := charts[3]
	require.Len(t, focus.Series, 4)
	assert.Equal(t, "offense", focus.Series[0].Label)
	assert.Equal(t, []float64{1}, focus.Series[0].Values)
}
