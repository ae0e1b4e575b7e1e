package report

import (
	"fmt"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/ppiankov/biaslab/internal/analysis"
	"github.com/ppiankov/biaslab/internal/model"
)

// Series is one bar per category
type Series struct {
	Label  string
	Values []float64 // Aligned with BarChart.Categories
}

// BarChart is a grouped bar chart over nominal categories
type BarChart struct {
	Name       string // File stem
	Title      string
	XLabel     string
	YLabel     string
	Categories []string
	Series     []Series
}

const (
	chartWidth  = 10 * vg.Inch
	chartHeight = 5 * vg.Inch
)

// SaveBarChart renders chart to dir/<name>.png and returns the path
func SaveBarChart(dir string, chart BarChart) (string, error) {
	if len(chart.Categories) == 0 || len(chart.Series) == 0 {
		return "", fmt.Errorf("chart %s has no data", chart.Name)
	}

	p := plot.New()
	p.Title.Text = chart.Title
	p.X.Label.Text = chart.XLabel
	p.Y.Label.Text = chart.YLabel

	n := len(chart.Series)
	w := vg.Points(float64(60 / n))
	if w < 4 {
		w = 4
	}

	for i, s := range chart.Series {
		if len(s.Values) != len(chart.Categories) {
			return "", fmt.Errorf("chart %s: series %q has %d values for %d categories",
				chart.Name, s.Label, len(s.Values), len(chart.Categories))
		}

		bars, err := plotter.NewBarChart(plotter.Values(s.Values), w)
		if err != nil {
			return "", fmt.Errorf("chart %s: %w", chart.Name, err)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = vg.Length(float64(i)-float64(n)/2)*w + w/2

		p.Add(bars)
		if n > 1 {
			p.Legend.Add(s.Label, bars)
		}
	}

	p.Legend.Top = true
	p.NominalX(chart.Categories...)

	path := filepath.Join(dir, chart.Name+".png")
	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return "", fmt.Errorf("failed to save chart %s: %w", path, err)
	}
	return path, nil
}

// FabricationChart plots any_flag rates by condition, one series per model
func FabricationChart(rates []model.RateRecord) BarChart {
	var conditions, models []string
	values := make(map[[2]string]float64)
	for _, r := range rates {
		conditions = appendUnique(conditions, r.ConditionID)
		models = appendUnique(models, r.ModelName)
		values[[2]string{r.ConditionID, r.ModelName}] = r.AnyFlag
	}

	return BarChart{
		Name:       RatesName,
		Title:      "Fabrication / Contradiction Rate by Condition",
		XLabel:     "Condition",
		YLabel:     "Share of responses with any flag",
		Categories: conditions,
		Series:     pivot(conditions, models, values),
	}
}

// AnalysisCharts builds the four charts for an analysis result
func AnalysisCharts(res *analysis.Result) []BarChart {
	var charts []BarChart

	// Mean sentiment by condition
	var conds []string
	var compound []float64
	for _, s := range res.SentimentByCondition {
		conds = append(conds, s.ConditionID)
		compound = append(compound, s.Compound)
	}
	charts = append(charts, BarChart{
		Name:       SentimentByConditionName,
		Title:      "Mean Sentiment by Condition",
		XLabel:     "Condition",
		YLabel:     "Mean sentiment (compound)",
		Categories: conds,
		Series:     []Series{{Label: "compound", Values: compound}},
	})

	// Mean sentiment by condition and model
	var mConds, models []string
	byModel := make(map[[2]string]float64)
	for _, s := range res.SentimentByConditionModel {
		mConds = appendUnique(mConds, s.ConditionID)
		models = appendUnique(models, s.ModelName)
		byModel[[2]string{s.ConditionID, s.ModelName}] = s.Compound
	}
	charts = append(charts, BarChart{
		Name:       SentimentByModelName,
		Title:      "Mean Sentiment by Condition and Model",
		XLabel:     "Condition",
		YLabel:     "Mean sentiment (compound)",
		Categories: mConds,
		Series:     pivot(mConds, models, byModel),
	})

	// Entity mention rate by condition, averaged over models
	var eConds, entities []string
	sums := make(map[[2]string]float64)
	counts := make(map[[2]string]int)
	for _, e := range res.Entities {
		eConds = appendUnique(eConds, e.ConditionID)
		entities = appendUnique(entities, e.Entity)
		key := [2]string{e.ConditionID, e.Entity}
		sums[key] += e.MentionRate
		counts[key]++
	}
	for k, c := range counts {
		sums[k] /= float64(c)
	}
	charts = append(charts, BarChart{
		Name:       "entity_mentions_by_condition",
		Title:      "Entity Mention Rates by Condition",
		XLabel:     "Condition",
		YLabel:     "Mean mention rate",
		Categories: eConds,
		Series:     pivot(eConds, entities, sums),
	})

	// Recommendation focus by condition
	var fConds []string
	focus := make(map[[2]string]float64)
	metrics := []string{"offense", "defense", "team", "individual"}
	for _, f := range res.FocusByCondition {
		fConds = append(fConds, f.ConditionID)
		for i, v := range []float64{f.Offense, f.Defense, f.Team, f.Individual} {
			focus[[2]string{f.ConditionID, metrics[i]}] = v
		}
	}
	charts = append(charts, BarChart{
		Name:       RecommendationsByCondName,
		Title:      "Recommendation Focus by Condition",
		XLabel:     "Condition",
		YLabel:     "Mean mention rate",
		Categories: fConds,
		Series:     pivot(fConds, metrics, focus),
	})

	return charts
}

// pivot builds one series per label over categories; missing cells are 0
func pivot(categories, labels []string, values map[[2]string]float64) []Series {
	series := make([]Series, 0, len(labels))
	for _, l := range labels {
		vals := make([]float64, len(categories))
		for i, c := range categories {
			vals[i] = values[[2]string{c, l}]
		}
		series = append(series, Series{Label: l, Values: vals})
	}
	return series
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}
