package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/biaslab/internal/pipeline"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check model claims against the real season record",
	Long: `Validate loads every collected response file, extracts each answer's
claimed win-loss record, goal differential and overall stance, compares
them with the configured ground truth, and writes:

  validation_flags.csv                one row per response with its flags
  fabrication_rates_by_condition.csv  flag rates per (condition, model)

Example:
  biaslab validate
  biaslab validate --input-dir ./results --output-dir ./analysis
  biaslab validate --xlsx analysis/validation.xlsx --plots`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	addInputFlags(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyInputFlags(cmd, cfg)

	ctx, cancel := interruptContext()
	defer cancel()

	header("biaslab Claim Validation")
	fmt.Fprintf(os.Stderr, "  Input:        %s/%s\n", cfg.Input.Dir, cfg.Input.Pattern)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", cfg.Output.Dir)
	fmt.Fprintf(os.Stderr, "  Season:       %s %s (%d-%d, %+d)\n", cfg.GroundTruth.Team, cfg.GroundTruth.Season,
		cfg.GroundTruth.Wins, cfg.GroundTruth.Losses, cfg.GroundTruth.GoalDiff)
	fmt.Fprintf(os.Stderr, "\n")

	p, err := pipeline.New(cfg, newSource(cfg))
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "⚙️  Loading response files...\n")
	res, err := p.Validate(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "✓ Checked %d responses\n", res.Responses)
	fmt.Fprintf(os.Stderr, "✓ Saved per-response validation flags to %s\n", res.Outputs[0])
	fmt.Fprintf(os.Stderr, "✓ Saved fabrication rates to %s\n", res.Outputs[1])
	for _, path := range res.Outputs[2:] {
		fmt.Fprintf(os.Stderr, "✓ Saved %s\n", path)
	}

	header("Validation Complete")
	fmt.Fprintf(os.Stderr, "  Responses:          %d\n", res.Summary.Responses)
	fmt.Fprintf(os.Stderr, "  Flagged:            %d\n", res.Summary.Flagged)
	fmt.Fprintf(os.Stderr, "  Wrong record:       %d\n", res.Summary.ByFlag["wrong_record"])
	fmt.Fprintf(os.Stderr, "  Wrong goal diff:    %d\n", res.Summary.ByFlag["wrong_goal_diff"])
	fmt.Fprintf(os.Stderr, "  Claims dominant:    %d\n", res.Summary.ByFlag["claims_dominant"])
	fmt.Fprintf(os.Stderr, "  Claims disastrous:  %d\n", res.Summary.ByFlag["claims_disastrous"])
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
