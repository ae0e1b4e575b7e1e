package pipeline

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ppiankov/biaslab/internal/analysis"
	"github.com/ppiankov/biaslab/internal/extract"
	"github.com/ppiankov/biaslab/internal/logging"
	"github.com/ppiankov/biaslab/internal/model"
	"github.com/ppiankov/biaslab/internal/report"
	"github.com/ppiankov/biaslab/internal/score"
	"github.com/ppiankov/biaslab/internal/sentiment"
	"github.com/ppiankov/biaslab/internal/source"
	"github.com/ppiankov/biaslab/internal/validate"
)

// Pipeline orchestrates loading, checking and reporting over collected responses
type Pipeline struct {
	source         source.Source
	claimExtractor *extract.ClaimExtractor
	validator      *validate.Validator
	analyzer       *analysis.Analyzer
	config         *model.Config
}

// New creates a pipeline reading from src. Ground truth, lexicons and output
// settings all come from cfg.
func New(cfg *model.Config, src source.Source) (*Pipeline, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if src == nil {
		return nil, fmt.Errorf("source is required")
	}
	if err := cfg.GroundTruth.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ground truth: %w", err)
	}

	return &Pipeline{
		source:         src,
		claimExtractor: extract.NewClaimExtractor(cfg.Lexicons),
		validator:      validate.NewValidator(cfg.GroundTruth),
		analyzer:       analysis.New(cfg.Analysis, sentiment.NewVaderAnalyzer()),
		config:         cfg,
	}, nil
}

// ValidationResult contains the outcome of a validation run
type ValidationResult struct {
	Responses int
	Flags     []model.FlagRecord
	Rates     []model.RateRecord
	Summary   score.Summary
	Outputs   []string // Files written, in write order
}

// AnalysisResult contains the outcome of an analysis run
type AnalysisResult struct {
	Responses int
	Result    *analysis.Result
	Outputs   []string
}

// Validate loads all responses, flags fabricated or contradictory claims,
// aggregates rates per (condition, model) and writes the reports. Nothing is
// written unless loading succeeds.
func (p *Pipeline) Validate(ctx context.Context) (*ValidationResult, error) {
	responses, err := p.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load responses: %w", err)
	}

	flags := make([]model.FlagRecord, 0, len(responses))
	for _, r := range responses {
		claims := p.claimExtractor.Extract(r.ResponseText)
		flags = append(flags, p.validator.Check(r, claims))
	}

	res := &ValidationResult{
		Responses: len(responses),
		Flags:     flags,
		Rates:     score.Aggregate(flags),
		Summary:   score.Summarize(flags),
	}

	logging.Info("validation computed",
		zap.Int("responses", res.Responses),
		zap.Int("flagged", res.Summary.Flagged),
		zap.Int("groups", len(res.Rates)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outputs, err := p.writeValidation(res)
	if err != nil {
		return nil, err
	}
	res.Outputs = outputs
	return res, nil
}

// Analyze loads all responses, computes bias measures and writes the reports
func (p *Pipeline) Analyze(ctx context.Context) (*AnalysisResult, error) {
	responses, err := p.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load responses: %w", err)
	}

	result, err := p.analyzer.Run(responses)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outputs, err := p.writeAnalysis(result)
	if err != nil {
		return nil, err
	}

	return &AnalysisResult{
		Responses: len(responses),
		Result:    result,
		Outputs:   outputs,
	}, nil
}

func (p *Pipeline) writeValidation(res *ValidationResult) ([]string, error) {
	out := p.config.Output
	if err := os.MkdirAll(out.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	tables := []report.Table{report.FlagsTable(res.Flags), report.RatesTable(res.Rates)}
	paths, err := report.WriteCSVs(out.Dir, tables)
	if err != nil {
		return paths, fmt.Errorf("write reports: %w", err)
	}

	if out.XLSX != "" {
		if err := report.WriteXLSX(out.XLSX, tables); err != nil {
			return paths, fmt.Errorf("write workbook: %w", err)
		}
		paths = append(paths, out.XLSX)
	}

	if out.SQLite != "" {
		store, err := report.OpenSQLite(out.SQLite)
		if err != nil {
			return paths, err
		}
		defer store.Close()
		if err := store.WriteValidation(res.Flags, res.Rates); err != nil {
			return paths, fmt.Errorf("write sqlite: %w", err)
		}
		paths = append(paths, out.SQLite)
	}

	if out.Plots && len(res.Rates) > 0 {
		path, err := report.SaveBarChart(out.Dir, report.FabricationChart(res.Rates))
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	return paths, nil
}

func (p *Pipeline) writeAnalysis(res *analysis.Result) ([]string, error) {
	out := p.config.Output
	if err := os.MkdirAll(out.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	tables := report.AnalysisTables(res)
	paths, err := report.WriteCSVs(out.Dir, tables)
	if err != nil {
		return paths, fmt.Errorf("write reports: %w", err)
	}

	if out.XLSX != "" {
		if err := report.WriteXLSX(out.XLSX, tables); err != nil {
			return paths, fmt.Errorf("write workbook: %w", err)
		}
		paths = append(paths, out.XLSX)
	}

	if out.SQLite != "" {
		store, err := report.OpenSQLite(out.SQLite)
		if err != nil {
			return paths, err
		}
		defer store.Close()
		for _, t := range tables {
			if err := store.WriteTable(t); err != nil {
				return paths, fmt.Errorf("write sqlite: %w", err)
			}
		}
		paths = append(paths, out.SQLite)
	}

	if out.Plots {
		for _, chart := range report.AnalysisCharts(res) {
			if len(chart.Categories) == 0 {
				logging.Debug("skipping empty chart", zap.String("chart", chart.Name))
				continue
			}
			path, err := report.SaveBarChart(out.Dir, chart)
			if err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}
	}

	return paths, nil
}
