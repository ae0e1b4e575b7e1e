package cli

import (
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/biaslab/internal/pipeline"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Measure framing effects on sentiment, mentions and recommendations",
	Long: `Analyze loads every collected response file and writes:

  entity_mentions.csv                    player mentions per (condition, model)
  sentiment_raw.csv                      sentiment per response
  sentiment_by_condition.csv             mean sentiment per condition
  sentiment_by_condition_model.csv       mean compound per (condition, model)
  recommendations_raw.csv                offense/defense/team/individual focus per response
  recommendations_by_condition.csv       focus rates per condition
  recommendations_by_condition_model.csv focus rates per (condition, model)
  stat_ttests.csv                        Welch t-tests with Cohen's d
  stat_chi_square.csv                    chi-square tests with Cramér's V

Example:
  biaslab analyze
  biaslab analyze --plots --sqlite analysis/biaslab.db`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	addInputFlags(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyInputFlags(cmd, cfg)

	ctx, cancel := interruptContext()
	defer cancel()

	header("biaslab Bias Analysis")
	fmt.Fprintf(os.Stderr, "  Input:        %s/%s\n", cfg.Input.Dir, cfg.Input.Pattern)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", cfg.Output.Dir)
	fmt.Fprintf(os.Stderr, "  Players:      %d\n", len(cfg.Analysis.Players))
	fmt.Fprintf(os.Stderr, "  Comparisons:  %d\n", len(cfg.Analysis.Comparisons))
	fmt.Fprintf(os.Stderr, "\n")

	p, err := pipeline.New(cfg, newSource(cfg))
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "⚙️  Running entity, sentiment and recommendation analysis...\n")
	res, err := p.Analyze(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "✓ Analyzed %d responses\n", res.Responses)
	for _, path := range res.Outputs {
		fmt.Fprintf(os.Stderr, "✓ Saved %s\n", path)
	}

	header("Statistical Tests")
	if len(res.Result.TTests) == 0 {
		fmt.Fprintf(os.Stderr, "  No t-test had at least two responses per condition\n")
	}
	for _, t := range res.Result.TTests {
		fmt.Fprintf(os.Stderr, "  %-28s t=%s  p=%s  d=%s\n", t.Comparison, num(t.TStat), num(t.PValue), num(t.CohenD))
	}
	fmt.Fprintf(os.Stderr, "\n")
	for _, c := range res.Result.ChiSquare {
		fmt.Fprintf(os.Stderr, "  %-40s χ²=%s  p=%s  V=%s\n", c.Test, num(c.Chi2), num(c.PValue), num(c.CramersV))
	}
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

func num(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", v)
}
