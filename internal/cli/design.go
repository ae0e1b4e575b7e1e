package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/biaslab/internal/experiment"
)

var (
	promptsDir   string
	printPrompts bool
)

// designCmd represents the design command
var designCmd = &cobra.Command{
	Use:   "design",
	Short: "Generate the experiment prompts",
	Long: `Design builds the six experiment prompts (framing, identity and
confirmation conditions) from the configured season record and writes
prompts.json and prompts.csv.

Example:
  biaslab design
  biaslab design --out ./prompts --print`,
	Args: cobra.NoArgs,
	RunE: runDesign,
}

func init() {
	rootCmd.AddCommand(designCmd)

	designCmd.Flags().StringVar(&promptsDir, "out", "prompts", "output directory for prompts.json and prompts.csv")
	designCmd.Flags().BoolVar(&printPrompts, "print", false, "print every prompt to stdout")
}

func runDesign(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.GroundTruth.Validate(); err != nil {
		return fmt.Errorf("invalid ground truth: %w", err)
	}

	prompts := experiment.NewBuilder(cfg.GroundTruth).Build()

	if printPrompts {
		experiment.PrintPrompts(cmd.OutOrStdout(), prompts)
	}

	jsonPath, csvPath, err := experiment.WritePrompts(promptsDir, prompts)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "✓ Generated %d prompts\n", len(prompts))
	fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", csvPath)
	fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", jsonPath)
	return nil
}
